// Package literal adapts github.com/coregx/ahocorasick for multi-literal
// search.
//
// The pattern is a list of literals split on a separator. The automaton
// runs over the UTF-16LE bytes of the subject, so every native offset is
// exactly twice the host offset. Hits at odd byte offsets straddle two code
// units and are skipped.
package literal

import (
	"errors"
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

// Name is the registry key of this backend.
const Name = "literal"

const modulePath = "github.com/coregx/ahocorasick"

// unitBytes is the number of native bytes per host code unit.
const unitBytes = 2

var options = []backend.OptionInfo{
	{Name: "separator", Kind: backend.String, Default: "\n",
		Description: "separates the literals in the pattern; empty means a single literal"},
}

var errEmptyLiteral = errors.New("empty literal")

// Backend is the Aho-Corasick adapter.
type Backend struct{}

// New returns the Aho-Corasick adapter.
func New() *Backend {
	return &Backend{}
}

// Name implements backend.Backend.
func (*Backend) Name() string { return Name }

// Info implements backend.Backend.
func (*Backend) Info() backend.Info {
	return backend.Info{
		Name:         Name,
		Module:       modulePath,
		Version:      backend.ModuleVersion(modulePath),
		Syntax:       "literal list",
		Unit:         "UTF-16LE byte",
		Capabilities: []string{"multi-literal", "leftmost-first"},
	}
}

// Options implements backend.Backend.
func (*Backend) Options() []backend.OptionInfo {
	return options
}

// Compile implements backend.Backend.
func (*Backend) Compile(pattern string, opts backend.Options) (backend.Pattern, error) {
	sep := opts.Value("separator")
	pieces := []string{pattern}
	if sep != "" {
		pieces = strings.Split(pattern, sep)
	}

	b := ahocorasick.NewBuilder()
	off := 0
	for _, lit := range pieces {
		if lit == "" {
			return nil, rxerr.Compile(Name, pattern, text.UnitOffset(pattern, off), errEmptyLiteral)
		}
		enc, err := text.EncodeUTF16LE(lit)
		if err != nil {
			return nil, err
		}
		b.AddPattern(enc)
		off += len(lit) + len(sep)
	}
	ac, err := b.Build()
	if err != nil {
		return nil, rxerr.Compile(Name, pattern, -1, err)
	}

	return &Pattern{
		ac:       ac,
		literals: len(pieces),
		groups:   []backend.GroupInfo{{Ordinal: 0, Name: "0"}},
	}, nil
}

// Pattern is a built automaton.
type Pattern struct {
	ac       *ahocorasick.Automaton
	literals int
	groups   []backend.GroupInfo
	closed   bool
}

// Literals returns the number of literals in the automaton.
func (p *Pattern) Literals() int {
	return p.literals
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
	buf, err := subject.UTF16LE()
	if err != nil {
		return nil, err
	}
	tr, err := position.NewScaled(unitBytes, subject.Len())
	if err != nil {
		return nil, err
	}
	return &search{ac: p.ac, tr: tr, buf: buf}, nil
}

// Close implements backend.Pattern.
func (p *Pattern) Close() error {
	p.closed = true
	return nil
}

type search struct {
	ac     *ahocorasick.Automaton
	tr     *position.Scaled
	buf    []byte
	closed bool
}

func (s *search) Translator() position.Translator {
	return s.tr
}

func (s *search) SupportsAnchoredNotEmpty() bool {
	return false
}

func (s *search) Find(at int, mode backend.Mode) (*backend.RawMatch, error) {
	if s.closed {
		return nil, rxerr.Newf(rxerr.Internal, "search used after close")
	}
	if mode != backend.Unanchored {
		return nil, rxerr.Newf(rxerr.Internal, "%s search not supported", mode)
	}

	for at < len(s.buf) {
		m := s.ac.Find(s.buf, at)
		if m == nil {
			return nil, nil
		}
		if m.Start%unitBytes == 0 {
			span := backend.Span{Start: m.Start, End: m.End}
			return &backend.RawMatch{Groups: []backend.RawGroup{{Ordinal: 0, Span: span}}}, nil
		}
		at = m.Start + 1
	}
	return nil, nil
}

func (s *search) Close() error {
	s.closed = true
	s.buf = nil
	return nil
}
