// Package regexp2 adapts github.com/dlclark/regexp2, a backtracking engine
// with .NET syntax.
//
// This is the most capable backend: it searches from an arbitrary start
// offset, records capture history, and supports anchored non-empty retries
// through a variant of the pattern. Offsets are code points.
package regexp2

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/names"
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

// Name is the registry key of this backend.
const Name = "regexp2"

const modulePath = "github.com/dlclark/regexp2"

// DefaultTimeout bounds a single match attempt.
const DefaultTimeout = 10 * time.Second

var flags = []struct {
	name string
	bit  regexp2.RegexOptions
	desc string
}{
	{"IgnoreCase", regexp2.IgnoreCase, "case-insensitive matching"},
	{"Multiline", regexp2.Multiline, "^ and $ match at line boundaries"},
	{"ExplicitCapture", regexp2.ExplicitCapture, "only named groups capture"},
	{"Singleline", regexp2.Singleline, ". matches every character including \\n"},
	{"IgnorePatternWhitespace", regexp2.IgnorePatternWhitespace, "ignore unescaped whitespace and allow # comments"},
	{"ECMAScript", regexp2.ECMAScript, "ECMAScript-compliant behavior"},
	{"RE2", regexp2.RE2, "RE2 (Go regexp) compatibility mode"},
	{"Unicode", regexp2.Unicode, "ECMAScript Unicode mode"},
}

var options = func() []backend.OptionInfo {
	out := make([]backend.OptionInfo, 0, len(flags)+1)
	for _, f := range flags {
		out = append(out, backend.OptionInfo{Name: f.name, Kind: backend.Bool, Default: "false", Description: f.desc})
	}
	return append(out, backend.OptionInfo{
		Name:        "timeout",
		Kind:        backend.Duration,
		Default:     DefaultTimeout.String(),
		Description: "per-attempt match timeout; 0 disables it",
	})
}()

// Backend is the regexp2 adapter.
type Backend struct{}

// New returns the regexp2 adapter.
func New() *Backend {
	return &Backend{}
}

// Name implements backend.Backend.
func (*Backend) Name() string { return Name }

// Info implements backend.Backend.
func (*Backend) Info() backend.Info {
	return backend.Info{
		Name:    Name,
		Module:  modulePath,
		Version: backend.ModuleVersion(modulePath),
		Syntax:  ".NET",
		Unit:    "code point",
		Capabilities: []string{
			"named-groups", "capture-history", "lookaround",
			"backreferences", "anchored-retry", "match-timeout",
		},
	}
}

// Options implements backend.Backend.
func (*Backend) Options() []backend.OptionInfo {
	return options
}

// Compile implements backend.Backend.
func (*Backend) Compile(pattern string, opts backend.Options) (backend.Pattern, error) {
	var bits regexp2.RegexOptions
	for _, f := range flags {
		if opts.Bool(f.name) {
			bits |= f.bit
		}
	}

	re, err := regexp2.Compile(pattern, bits)
	if err != nil {
		return nil, rxerr.Compile(Name, pattern, -1, err)
	}
	timeout := opts.Duration("timeout")
	setTimeout(re, timeout)

	table, err := names.Resolve(pattern, names.DotNet, re.GroupNumberFromName)
	if err != nil {
		return nil, rxerr.Wrap(rxerr.Internal, err, "resolving group names")
	}
	nums := re.GetGroupNumbers()
	groups := make([]backend.GroupInfo, len(nums))
	for i, n := range nums {
		groups[i] = backend.GroupInfo{Ordinal: n, Name: table.Name(n), Named: table.Named(n)}
	}

	return &Pattern{
		re:       re,
		anchored: anchoredVariant(pattern, bits, timeout),
		groups:   groups,
		timeout:  timeout,
	}, nil
}

// anchoredVariant compiles a pattern that only matches non-empty text
// starting exactly at the search offset: \G pins the start, and the
// negative lookbehind rejects an end equal to the start. Returns nil when
// the variant is unavailable.
func anchoredVariant(pattern string, bits regexp2.RegexOptions, timeout time.Duration) *regexp2.Regexp {
	if bits&regexp2.ECMAScript != 0 {
		return nil
	}
	end := ")"
	if bits&regexp2.IgnorePatternWhitespace != 0 {
		// Terminate a trailing # comment.
		end = "\n)"
	}
	re, err := regexp2.Compile(`\G(?:`+pattern+end+`(?<!\G)`, bits)
	if err != nil {
		return nil
	}
	setTimeout(re, timeout)
	return re
}

func setTimeout(re *regexp2.Regexp, d time.Duration) {
	if d > 0 {
		re.MatchTimeout = d
	}
}

// Pattern is a compiled regexp2 pattern.
type Pattern struct {
	re       *regexp2.Regexp
	anchored *regexp2.Regexp
	groups   []backend.GroupInfo
	timeout  time.Duration
	closed   bool
}

// Groups implements backend.Pattern.
func (p *Pattern) Groups() []backend.GroupInfo {
	return p.groups
}

// NewSearch implements backend.Pattern.
func (p *Pattern) NewSearch(subject *text.Subject) (backend.Search, error) {
	if p.closed {
		return nil, rxerr.Newf(rxerr.Internal, "pattern is closed")
	}
	tr, runes, err := position.ForRunes(subject)
	if err != nil {
		return nil, err
	}
	return &search{p: p, tr: tr, runes: runes}, nil
}

// Close implements backend.Pattern.
func (p *Pattern) Close() error {
	p.closed = true
	return nil
}

type search struct {
	p      *Pattern
	tr     position.Translator
	runes  []rune
	closed bool
}

func (s *search) Translator() position.Translator {
	return s.tr
}

func (s *search) SupportsAnchoredNotEmpty() bool {
	return s.p.anchored != nil
}

func (s *search) Find(at int, mode backend.Mode) (*backend.RawMatch, error) {
	if s.closed {
		return nil, rxerr.Newf(rxerr.Internal, "search used after close")
	}
	re := s.p.re
	if mode == backend.AnchoredNotEmpty {
		if s.p.anchored == nil {
			return nil, rxerr.Newf(rxerr.Internal, "anchored search not supported by this pattern")
		}
		re = s.p.anchored
	}

	m, err := re.FindRunesMatchStartingAt(s.runes, at)
	if err != nil {
		// The engine's timeout error embeds the whole input; keep it out of
		// the message.
		if isTimeout(err) {
			return nil, rxerr.Newf(rxerr.TimedOut, "match timeout after %s", s.p.timeout)
		}
		return nil, rxerr.Wrap(rxerr.MatchRuntime, err, "match failed at offset %d", at)
	}
	if m == nil {
		return nil, nil
	}

	raw := &backend.RawMatch{Groups: make([]backend.RawGroup, len(s.p.groups))}
	for i, g := range s.p.groups {
		raw.Groups[i] = rawGroup(m, g.Ordinal)
	}
	return raw, nil
}

// isTimeout reports whether err is the engine's MatchTimeout failure.
// regexp2 returns it as an unexported fmt error, so only the text
// identifies it.
func isTimeout(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "match timeout after ")
}

func rawGroup(m *regexp2.Match, ordinal int) backend.RawGroup {
	g := m.GroupByNumber(ordinal)
	if g == nil || len(g.Captures) == 0 {
		return backend.RawGroup{Ordinal: ordinal, Span: backend.NoSpan}
	}
	history := make([]backend.Span, len(g.Captures))
	for i, c := range g.Captures {
		history[i] = backend.Span{Start: c.Index, End: c.Index + c.Length}
	}
	return backend.RawGroup{
		Ordinal: ordinal,
		Span:    backend.Span{Start: g.Index, End: g.Index + g.Length},
		History: history,
	}
}

func (s *search) Close() error {
	s.closed = true
	s.runes = nil
	return nil
}
