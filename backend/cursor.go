package backend

import (
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
)

// EnumerateFunc returns an engine's own leftmost-first enumeration of all
// matches, as submatch index pairs (FindAllSubmatchIndex layout).
type EnumerateFunc func() [][]int

// Cursor is a Search for engines without a start-offset primitive.
//
// The engine's enumeration runs once, on the first Find. Find(at) then
// seeks the first enumerated match starting at or after at. Lookbehind
// context such as ^ and \b stays correct because the engine always saw the
// whole subject. Anchored retries are not supported.
type Cursor struct {
	tr        position.Translator
	groups    []GroupInfo
	enumerate EnumerateFunc

	matches [][]int
	loaded  bool
	next    int
	closed  bool
}

// NewCursor returns a Cursor reporting groups from the enumeration produced
// by enumerate.
func NewCursor(tr position.Translator, groups []GroupInfo, enumerate EnumerateFunc) *Cursor {
	return &Cursor{tr: tr, groups: groups, enumerate: enumerate}
}

// Translator implements Search.
func (c *Cursor) Translator() position.Translator {
	return c.tr
}

// SupportsAnchoredNotEmpty implements Search.
func (c *Cursor) SupportsAnchoredNotEmpty() bool {
	return false
}

// Find implements Search.
func (c *Cursor) Find(at int, mode Mode) (*RawMatch, error) {
	if c.closed {
		return nil, rxerr.Newf(rxerr.Internal, "search used after close")
	}
	if mode != Unanchored {
		return nil, rxerr.Newf(rxerr.Internal, "%s search not supported", mode)
	}
	if !c.loaded {
		c.matches = c.enumerate()
		c.loaded = true
	}

	// Cursors only move forward; matches before c.next are behind every
	// future offset.
	for c.next < len(c.matches) && c.matches[c.next][0] < at {
		c.next++
	}
	if c.next >= len(c.matches) {
		return nil, nil
	}

	loc := c.matches[c.next]
	m := &RawMatch{Groups: make([]RawGroup, len(c.groups))}
	for i, g := range c.groups {
		span := NoSpan
		if 2*g.Ordinal+1 < len(loc) && loc[2*g.Ordinal] >= 0 {
			span = Span{Start: loc[2*g.Ordinal], End: loc[2*g.Ordinal+1]}
		}
		m.Groups[i] = RawGroup{Ordinal: g.Ordinal, Span: span}
	}
	return m, nil
}

// Close implements Search.
func (c *Cursor) Close() error {
	c.closed = true
	c.matches = nil
	return nil
}
