// Package backend defines the capability interface every regex engine
// adapter implements, and the helpers the adapters share.
//
// An adapter compiles a pattern into a Pattern, opens a Search over one
// subject, and answers "find the next match starting at native offset X".
// It never enumerates, translates offsets, or builds result records itself:
// the rxnorm package does that, identically for every engine.
package backend

import (
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/text"
)

// Mode selects how Find searches.
type Mode uint8

const (
	// Unanchored finds the leftmost match starting at or after the offset.
	Unanchored Mode = iota

	// AnchoredNotEmpty finds a non-empty match starting exactly at the offset.
	AnchoredNotEmpty
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Unanchored:
		return "Unanchored"
	case AnchoredNotEmpty:
		return "AnchoredNotEmpty"
	default:
		return "UnknownMode"
	}
}

// Span is a half-open range of native offsets.
type Span struct {
	Start int
	End   int
}

// NoSpan marks a group that did not participate in a match.
var NoSpan = Span{Start: -1, End: -1}

// Matched reports whether the span belongs to a participating group.
func (s Span) Matched() bool {
	return s.Start >= 0
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// RawGroup is one group of a raw match, in native offsets.
type RawGroup struct {
	Ordinal int
	Span    Span

	// History lists every occurrence of the group, first occurrence first,
	// for engines that record capture history. Nil otherwise.
	History []Span
}

// RawMatch is an untranslated match. Groups follows the order of
// Pattern.Groups; Groups[0] is the whole match.
type RawMatch struct {
	Groups []RawGroup
}

// Span returns the whole-match span.
func (m *RawMatch) Span() Span {
	return m.Groups[0].Span
}

// GroupInfo describes one capturing group of a compiled pattern.
type GroupInfo struct {
	Ordinal int    `json:"ordinal" yaml:"ordinal"`
	Name    string `json:"name" yaml:"name"`
	Named   bool   `json:"named" yaml:"named"`
}

// Info is pass-through metadata reported by an engine.
type Info struct {
	Name         string   `json:"name" yaml:"name"`
	Module       string   `json:"module" yaml:"module"`
	Version      string   `json:"version" yaml:"version"`
	Syntax       string   `json:"syntax" yaml:"syntax"`
	Unit         string   `json:"unit" yaml:"unit"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

// Backend is a regex engine adapter.
type Backend interface {
	// Name is the registry key, e.g. "re2".
	Name() string

	// Info returns version and capability metadata.
	Info() Info

	// Options returns the static table of accepted options.
	Options() []OptionInfo

	// Compile compiles pattern. opts has already been validated against
	// Options and carries every default.
	Compile(pattern string, opts Options) (Pattern, error)
}

// Pattern is a compiled pattern. It may be shared by sequential searches
// but is not required to support concurrent ones.
type Pattern interface {
	// Groups lists the capturing groups in ascending ordinal order, group 0
	// first.
	Groups() []GroupInfo

	// NewSearch prepares a search over subject.
	NewSearch(subject *text.Subject) (Search, error)

	// Close releases the pattern. Searches already open stay usable.
	Close() error
}

// Search is the per-call match state over one subject.
type Search interface {
	// Translator maps this search's native offsets to host code units.
	Translator() position.Translator

	// Find returns the next match at native offset at, or nil with a nil
	// error when there is none.
	Find(at int, mode Mode) (*RawMatch, error)

	// SupportsAnchoredNotEmpty reports whether Find accepts AnchoredNotEmpty.
	SupportsAnchoredNotEmpty() bool

	// Close releases the search state.
	Close() error
}
