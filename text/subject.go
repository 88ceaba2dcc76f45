// Package text holds the host view of subject text and the transcoders that
// produce backend-native buffers from it.
//
// The host addresses text in UTF-16 code units. A Subject is an immutable
// copy of those units; every transcoder returns, alongside the native buffer,
// the parallel index arrays needed to map native offsets back to host code
// units and host cursors forward to native offsets.
package text

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/coregx/rxnorm/rxerr"
)

// Subject is an immutable UTF-16 copy of the text being searched.
//
// Lone surrogates are preserved as-is; transcoders that need valid Unicode
// substitute U+FFFD for them while keeping the index mapping exact.
type Subject struct {
	units []uint16

	ascii bool // every unit < 0x80
	pairs bool // at least one valid surrogate pair
}

// FromString creates a Subject from a Go string.
// Invalid UTF-8 bytes become U+FFFD, one code unit each.
//
// Example:
//
//	s := text.FromString("héllo")
//	println(s.Len()) // 5
func FromString(s string) *Subject {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		units = utf16.AppendRune(units, r)
	}
	return newSubject(units)
}

// FromUTF16 creates a Subject from UTF-16 code units. The slice is copied.
func FromUTF16(units []uint16) *Subject {
	c := make([]uint16, len(units))
	copy(c, units)
	return newSubject(c)
}

func newSubject(units []uint16) *Subject {
	s := &Subject{units: units, ascii: true}
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0x80 {
			s.ascii = false
		}
		if isHighSurrogate(u) && i+1 < len(units) && isLowSurrogate(units[i+1]) {
			s.pairs = true
		}
	}
	return s
}

// Len returns the length in UTF-16 code units.
func (s *Subject) Len() int {
	return len(s.units)
}

// Unit returns the code unit at index i.
func (s *Subject) Unit(i int) uint16 {
	return s.units[i]
}

// IsASCII reports whether every code unit is below 0x80.
func (s *Subject) IsASCII() bool {
	return s.ascii
}

// HasSurrogatePairs reports whether the text contains any character outside
// the Basic Multilingual Plane.
func (s *Subject) HasSurrogatePairs() bool {
	return s.pairs
}

// Substring returns the text of units [index, index+length) as a Go string.
// Lone surrogates in the range decode to U+FFFD.
//
// Returns an IndexTranslation error if the range is outside the subject.
//
// Example:
//
//	s := text.FromString("hello world")
//	w, _ := s.Substring(6, 5) // "world"
func (s *Subject) Substring(index, length int) (string, error) {
	if index < 0 || length < 0 || index > len(s.units) || length > len(s.units)-index {
		return "", rxerr.Newf(rxerr.IndexTranslation,
			"range [%d, %d+%d) outside text of length %d", index, index, length, len(s.units))
	}
	return string(utf16.Decode(s.units[index : index+length])), nil
}

// String returns the whole subject as a Go string.
func (s *Subject) String() string {
	return string(utf16.Decode(s.units))
}

// UnitOffset converts a byte offset into s to a UTF-16 code-unit offset.
// A byte offset inside a multi-byte sequence counts the whole character.
//
// Example:
//
//	text.UnitOffset("héllo", 3) // 2
func UnitOffset(s string, byteOffset int) int {
	if byteOffset > len(s) {
		byteOffset = len(s)
	}
	units := 0
	for i := 0; i < byteOffset; {
		r, size := utf8.DecodeRuneInString(s[i:])
		if utf16.RuneLen(r) == 2 {
			units += 2
		} else {
			units++
		}
		i += size
	}
	return units
}

// UnitLen returns the length of s in UTF-16 code units.
func UnitLen(s string) int {
	return UnitOffset(s, len(s))
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xD800 && u < 0xDC00
}

func isLowSurrogate(u uint16) bool {
	return u >= 0xDC00 && u < 0xE000
}
