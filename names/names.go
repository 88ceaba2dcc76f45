// Package names discovers the name of every named capturing group by
// scanning the pattern source text.
//
// Not every engine can answer "which ordinal does this name belong to?".
// Resolve finds the named-group openings in the pattern itself and binds
// each one either through the engine's own lookup (when it has one) or by
// counting capturing parentheses up to the opening.
package names

import (
	"strconv"

	"github.com/dlclark/regexp2"
)

// Syntax selects which named-group forms count as capturing openings.
type Syntax uint8

const (
	// Perl accepts (?<name>...) and (?P<name>...).
	Perl Syntax = iota

	// DotNet additionally accepts (?'name'...).
	DotNet
)

// Lookup maps a group name to its ordinal, or a negative value when the
// engine does not recognize the name.
type Lookup func(name string) int

// tokenizer splits pattern source into the constructs that matter for group
// counting. Everything else (literal characters) is skipped between matches.
// The negative lookahead keeps lookbehind assertions (?<= and (?<! from
// being read as named groups.
var tokenizer = regexp2.MustCompile(`(?s)`+
	`\\Q.*?(?:\\E|$)`+
	`|\\.`+
	`|\[\^?\]?(?:\[:\^?[a-z]+:\]|\\.|[^\]\\])*\]`+
	`|\(\?#[^)]*\)`+
	`|\(\?P?<(?![=!])(?<name>[^>]*)>`+
	`|\(\?'(?<qname>[^']*)'`+
	`|(?<capture>\((?!\?))`+
	`|\(\?`,
	regexp2.None)

// Table maps group ordinals to declared names.
type Table struct {
	names map[int]string
}

// Name returns the name bound to ordinal, or its decimal text when the group
// has no explicit name.
func (t *Table) Name(ordinal int) string {
	if t != nil {
		if n, ok := t.names[ordinal]; ok {
			return n
		}
	}
	return strconv.Itoa(ordinal)
}

// Named reports whether ordinal has an explicit name.
func (t *Table) Named(ordinal int) bool {
	if t == nil {
		return false
	}
	_, ok := t.names[ordinal]
	return ok
}

// Len returns the number of named groups.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Resolve builds the name table for pattern.
//
// With a non-nil lookup every candidate name is passed to it and a negative
// answer drops the candidate. With a nil lookup the ordinal is the number of
// capturing openings up to and including the named one.
//
// Example:
//
//	t, _ := names.Resolve(`(?<a>.)(?<b>.)`, names.Perl, nil)
//	t.Name(1) // "a"
//	t.Name(2) // "b"
//	t.Name(3) // "3"
func Resolve(pattern string, syntax Syntax, lookup Lookup) (*Table, error) {
	t := &Table{names: make(map[int]string)}
	captures := 0

	m, err := tokenizer.FindStringMatch(pattern)
	for ; m != nil && err == nil; m, err = tokenizer.FindNextMatch(m) {
		name, ok := candidate(m, syntax)
		if !ok {
			if matched(m.GroupByName("capture")) {
				captures++
			}
			continue
		}
		captures++

		ordinal := captures
		if lookup != nil {
			ordinal = lookup(name)
			if ordinal < 0 {
				continue
			}
		}
		if _, taken := t.names[ordinal]; !taken {
			t.names[ordinal] = name
		}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// candidate extracts the name from a named-group opening token.
func candidate(m *regexp2.Match, syntax Syntax) (string, bool) {
	if g := m.GroupByName("name"); matched(g) {
		return g.String(), true
	}
	if g := m.GroupByName("qname"); matched(g) && syntax == DotNet {
		return g.String(), true
	}
	return "", false
}

func matched(g *regexp2.Group) bool {
	return g != nil && len(g.Captures) > 0
}
