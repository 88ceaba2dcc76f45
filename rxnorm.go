// Package rxnorm runs interchangeable regex engines behind one result model.
//
// Each engine reports matches in its own units: UTF-8 bytes, code points,
// or UTF-16 bytes. rxnorm drives an engine's "find next match" primitive
// to enumerate every non-overlapping match, and converts each one into
// Match, Group and Capture records whose offsets are UTF-16 code units of
// the original text. An offset that cannot be converted exactly is an
// error, never a guess.
//
// Basic usage:
//
//	m, err := rxnorm.Compile("re2", `(?P<word>\w+)`, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	res, err := m.FindAllString(ctx, "hello world")
//	for _, match := range res.Matches() {
//	    fmt.Println(match.Index, match.Length, res.Text(match))
//	}
//
// Engines:
//   - re2: Go regexp (RE2 syntax)
//   - coregex: github.com/coregx/coregex (RE2 syntax, SIMD prefilters)
//   - regexp2: github.com/dlclark/regexp2 (.NET syntax, capture history)
//   - literal: Aho-Corasick over a list of literals
//
// Errors are *rxerr.Error values; classify them with errors.Is against the
// rxerr sentinels.
package rxnorm

import (
	"context"
	"sync"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/backend/coregex"
	"github.com/coregx/rxnorm/backend/literal"
	"github.com/coregx/rxnorm/backend/re2"
	"github.com/coregx/rxnorm/backend/regexp2"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

var backends = []backend.Backend{
	re2.New(),
	coregex.New(),
	regexp2.New(),
	literal.New(),
}

// Backends returns every registered engine in registration order.
func Backends() []backend.Backend {
	out := make([]backend.Backend, len(backends))
	copy(out, backends)
	return out
}

// Lookup returns the engine registered as name.
func Lookup(name string) (backend.Backend, bool) {
	for _, b := range backends {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// Matcher is a compiled pattern bound to one engine.
//
// FindAll calls on one Matcher are serialized; use separate Matchers for
// concurrent enumerations.
type Matcher struct {
	engine  string
	pattern string
	opts    backend.Options
	pat     backend.Pattern
	groups  []backend.GroupInfo
	cfg     Config

	mu     sync.Mutex
	closed bool
}

// Compile compiles pattern for engine with the default Config.
//
// opts are the engine's named flags (see backend.Backend.Options); unknown
// names are rejected. A nil opts uses every default.
//
// Example:
//
//	m, err := rxnorm.Compile("regexp2", `(a)+`, backend.Options{"IgnoreCase": "true"})
func Compile(engine, pattern string, opts backend.Options) (*Matcher, error) {
	return CompileWithConfig(engine, pattern, opts, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
//
// Example:
//
//	var digits = rxnorm.MustCompile("re2", `\d+`, nil)
func MustCompile(engine, pattern string, opts backend.Options) *Matcher {
	m, err := Compile(engine, pattern, opts)
	if err != nil {
		panic("rxnorm: Compile(`" + pattern + "`): " + err.Error())
	}
	return m
}

// CompileWithConfig compiles pattern for engine with custom supervision
// settings.
func CompileWithConfig(engine, pattern string, opts backend.Options, cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, ok := Lookup(engine)
	if !ok {
		return nil, &rxerr.Error{
			Kind:    rxerr.CompileFailed,
			Message: "unknown engine " + engine,
			Backend: engine,
			Offset:  -1,
		}
	}

	resolved, err := backend.Validate(b.Options(), opts)
	if err != nil {
		return nil, rxerr.Normalize(engine, err)
	}
	pat, err := b.Compile(pattern, resolved)
	if err != nil {
		return nil, rxerr.Normalize(engine, err)
	}

	groups := pat.Groups()
	cfg.Logger.Debug().
		Str("engine", engine).
		Str("pattern", pattern).
		Int("groups", len(groups)).
		Msg("compiled pattern")

	return &Matcher{
		engine:  engine,
		pattern: pattern,
		opts:    resolved,
		pat:     pat,
		groups:  groups,
		cfg:     cfg,
	}, nil
}

// Engine returns the name of the engine the pattern was compiled for.
func (m *Matcher) Engine() string {
	return m.engine
}

// String returns the source text used to compile the pattern.
func (m *Matcher) String() string {
	return m.pattern
}

// Options returns the resolved options, defaults included.
func (m *Matcher) Options() backend.Options {
	out := make(backend.Options, len(m.opts))
	for k, v := range m.opts {
		out[k] = v
	}
	return out
}

// Groups describes the capturing groups, group 0 first.
func (m *Matcher) Groups() []backend.GroupInfo {
	out := make([]backend.GroupInfo, len(m.groups))
	copy(out, m.groups)
	return out
}

// FindAllString is FindAll over a Go string.
func (m *Matcher) FindAllString(ctx context.Context, s string) (*Result, error) {
	return m.FindAll(ctx, text.FromString(s))
}

// Close releases the compiled pattern. Later FindAll calls fail.
func (m *Matcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.pat.Close()
}
