// Package coregex adapts github.com/coregx/coregex, a SIMD-accelerated
// engine with RE2 syntax.
//
// coregex offers no name-to-ordinal query, so group names are recovered
// from the pattern text by position. Searches drive the meta engine's
// start-offset primitive, which sees the whole subject so ^ and \b keep
// their context.
package coregex

import (
	"strconv"
	"sync"

	"github.com/coregx/coregex"
	"github.com/coregx/coregex/meta"
	"golang.org/x/sys/cpu"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/names"
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

// Name is the registry key of this backend.
const Name = "coregex"

const modulePath = "github.com/coregx/coregex"

var options = append(backend.FlagOptions("imsU"),
	backend.OptionInfo{Name: "literal", Kind: backend.Bool, Default: "false",
		Description: "treat the pattern as literal text"},
	backend.OptionInfo{Name: "max_dfa_states", Kind: backend.Int,
		Default:     strconv.Itoa(int(meta.DefaultConfig().MaxDFAStates)),
		Description: "lazy DFA state cache size, 1 to 1000000"},
)

// Backend is the coregex adapter.
type Backend struct{}

// New returns the coregex adapter.
func New() *Backend {
	return &Backend{}
}

// Name implements backend.Backend.
func (*Backend) Name() string { return Name }

// Info implements backend.Backend. Capabilities list the CPU features the
// engine's SIMD prefilters can use on this machine.
func (*Backend) Info() backend.Info {
	return backend.Info{
		Name:         Name,
		Module:       modulePath,
		Version:      backend.ModuleVersion(modulePath),
		Syntax:       "RE2",
		Unit:         "UTF-8 byte",
		Capabilities: cpuFeatures(),
	}
}

func cpuFeatures() []string {
	var f []string
	if cpu.X86.HasAVX2 {
		f = append(f, "avx2")
	}
	if cpu.X86.HasSSSE3 {
		f = append(f, "ssse3")
	}
	if cpu.ARM64.HasASIMD {
		f = append(f, "asimd")
	}
	if len(f) == 0 {
		f = append(f, "scalar")
	}
	return f
}

// Options implements backend.Backend.
func (*Backend) Options() []backend.OptionInfo {
	return options
}

// Compile implements backend.Backend.
func (*Backend) Compile(pattern string, opts backend.Options) (backend.Pattern, error) {
	body := pattern
	if opts.Bool("literal") {
		body = coregex.QuoteMeta(pattern)
	}
	config := meta.DefaultConfig()
	n := opts.Int("max_dfa_states")
	if n < 1 || n > 1_000_000 {
		return nil, rxerr.Newf(rxerr.CompileFailed, "option %q: %d outside [1,1000000]", "max_dfa_states", n)
	}
	config.MaxDFAStates = uint32(n)

	source := backend.InlineFlags(opts, "imsU") + body
	engine, err := meta.CompileWithConfig(source, config)
	if err != nil {
		return nil, backend.SyntaxError(Name, pattern, body, err)
	}

	table, err := names.Resolve(body, names.Perl, nil)
	if err != nil {
		return nil, rxerr.Wrap(rxerr.Internal, err, "resolving group names")
	}
	p := &Pattern{
		source: source,
		config: config,
		// SubexpNames has one entry per group, group 0 included.
		groups: backend.GroupsFromNames(len(engine.SubexpNames()), table),
	}
	p.engines.Put(engine)
	return p, nil
}

// Pattern is a compiled coregex pattern.
//
// A meta.Engine carries its own search state, so each live Search holds an
// engine of its own drawn from a pool.
type Pattern struct {
	source  string
	config  meta.Config
	groups  []backend.GroupInfo
	engines sync.Pool
	closed  bool
}

// Groups implements backend.Pattern.
func (p *Pattern) Groups() []backend.GroupInfo {
	return p.groups
}

func (p *Pattern) engine() (*meta.Engine, error) {
	if e, ok := p.engines.Get().(*meta.Engine); ok {
		return e, nil
	}
	e, err := meta.CompileWithConfig(p.source, p.config)
	if err != nil {
		return nil, rxerr.Wrap(rxerr.Internal, err, "recompiling pattern")
	}
	return e, nil
}

// NewSearch implements backend.Pattern.
func (p *Pattern) NewSearch(subject *text.Subject) (backend.Search, error) {
	if p.closed {
		return nil, rxerr.Newf(rxerr.Internal, "pattern is closed")
	}
	tr, buf, err := position.ForUTF8(subject)
	if err != nil {
		return nil, err
	}
	e, err := p.engine()
	if err != nil {
		return nil, err
	}
	return &search{p: p, engine: e, tr: tr, buf: buf}, nil
}

// Close implements backend.Pattern.
func (p *Pattern) Close() error {
	p.closed = true
	return nil
}

type search struct {
	p      *Pattern
	engine *meta.Engine
	tr     position.Translator
	buf    []byte
}

func (s *search) Translator() position.Translator {
	return s.tr
}

func (s *search) SupportsAnchoredNotEmpty() bool {
	return false
}

func (s *search) Find(at int, mode backend.Mode) (*backend.RawMatch, error) {
	if s.engine == nil {
		return nil, rxerr.Newf(rxerr.Internal, "search used after close")
	}
	if mode != backend.Unanchored {
		return nil, rxerr.Newf(rxerr.Internal, "%s search not supported", mode)
	}
	if at < 0 || at > len(s.buf) {
		return nil, rxerr.Newf(rxerr.Internal, "search offset %d outside [0,%d]", at, len(s.buf))
	}

	m := s.engine.FindSubmatchAt(s.buf, at)
	if m == nil {
		return nil, nil
	}
	raw := &backend.RawMatch{Groups: make([]backend.RawGroup, len(s.p.groups))}
	for i, g := range s.p.groups {
		span := backend.NoSpan
		if loc := m.GroupIndex(g.Ordinal); len(loc) == 2 && loc[0] >= 0 {
			span = backend.Span{Start: loc[0], End: loc[1]}
		}
		raw.Groups[i] = backend.RawGroup{Ordinal: g.Ordinal, Span: span}
	}
	return raw, nil
}

func (s *search) Close() error {
	if s.engine != nil {
		s.p.engines.Put(s.engine)
		s.engine = nil
	}
	s.buf = nil
	return nil
}
