package rxnorm

import (
	"github.com/coregx/rxnorm/text"
)

// Span is anything that covers a range of the subject: a Match, Group or
// Capture.
type Span interface {
	Bounds() (index, length int)
}

// Capture is one occurrence of a group. Offsets are UTF-16 code units.
type Capture struct {
	Index  int `json:"index" yaml:"index"`
	Length int `json:"length" yaml:"length"`
}

// Bounds implements Span.
func (c Capture) Bounds() (int, int) {
	return c.Index, c.Length
}

// Group is one capturing group of a match.
//
// Index and Length describe the group's last occurrence. Captures lists
// every occurrence, first occurrence first; engines without capture history
// report only the last one. A group that did not participate has Success
// false, Index and Length 0, and no captures. A capture the engine reports
// inside a character is dropped and logged rather than failing the match.
type Group struct {
	Name     string    `json:"name" yaml:"name"`
	Success  bool      `json:"success" yaml:"success"`
	Index    int       `json:"index" yaml:"index"`
	Length   int       `json:"length" yaml:"length"`
	Captures []Capture `json:"captures,omitempty" yaml:"captures,omitempty"`
}

// Bounds implements Span.
func (g Group) Bounds() (int, int) {
	return g.Index, g.Length
}

// Match is one match. Groups holds one entry per capturing group of the
// pattern in ascending ordinal order; Groups[0] is the whole match.
//
// Example:
//
//	m := res.Matches()[0]
//	fmt.Println(m.Index, m.Length, m.Groups[1].Name)
type Match struct {
	Index   int     `json:"index" yaml:"index"`
	Length  int     `json:"length" yaml:"length"`
	Success bool    `json:"success" yaml:"success"`
	Groups  []Group `json:"groups" yaml:"groups"`
}

// Bounds implements Span.
func (m Match) Bounds() (int, int) {
	return m.Index, m.Length
}

// End returns the offset just past the match.
func (m Match) End() int {
	return m.Index + m.Length
}

// Group returns the first group called name.
func (m Match) Group(name string) (Group, bool) {
	for _, g := range m.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Result is the outcome of one FindAll call. It keeps an immutable copy of
// the subject so spans can be resolved to text lazily.
type Result struct {
	subject *text.Subject
	matches []Match
}

// Matches returns the matches in ascending, non-overlapping order.
func (r *Result) Matches() []Match {
	return r.matches
}

// Len returns the number of matches.
func (r *Result) Len() int {
	return len(r.matches)
}

// Subject returns the searched text.
func (r *Result) Subject() *text.Subject {
	return r.subject
}

// GetSubstring returns the subject text of [index, index+length).
//
// Returns an IndexTranslation error if the range is outside the subject.
func (r *Result) GetSubstring(index, length int) (string, error) {
	return r.subject.Substring(index, length)
}

// Text returns the text covered by s, or "" if s lies outside the subject.
//
// Example:
//
//	for _, m := range res.Matches() {
//	    fmt.Println(res.Text(m), res.Text(m.Groups[1]))
//	}
func (r *Result) Text(s Span) string {
	index, length := s.Bounds()
	str, err := r.subject.Substring(index, length)
	if err != nil {
		return ""
	}
	return str
}
