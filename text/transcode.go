package text

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/coregx/rxnorm/rxerr"
)

// Interior marks an index-map entry that does not start a character: a
// UTF-8 continuation byte in ToHost, or the low half of a surrogate pair in
// ToNative.
const Interior = -1

// Encoded is a transcoded copy of a Subject together with its index maps.
//
// ToHost has NativeLen+1 entries: ToHost[n] is the host code unit where the
// character starting at native unit n begins, or Interior. ToNative has
// Subject.Len()+1 entries with the inverse mapping. The final entry of each
// maps end-of-text to end-of-text.
type Encoded struct {
	Bytes []byte // set by UTF8
	Runes []rune // set by Runes

	ToHost   []int
	ToNative []int
}

// NativeLen returns the length of the native buffer in native units.
func (e *Encoded) NativeLen() int {
	return len(e.ToHost) - 1
}

// UTF8 transcodes the subject to UTF-8. Lone surrogates become U+FFFD.
//
// Example:
//
//	enc := text.FromString("aé").UTF8()
//	// enc.Bytes    = 61 c3 a9
//	// enc.ToHost   = [0 1 -1 2]
//	// enc.ToNative = [0 1 3]
func (s *Subject) UTF8() *Encoded {
	e := &Encoded{
		Bytes:    make([]byte, 0, len(s.units)),
		ToHost:   make([]int, 0, len(s.units)+1),
		ToNative: make([]int, len(s.units)+1),
	}
	s.walk(func(host, width int, r rune) {
		start := len(e.Bytes)
		e.Bytes = utf8.AppendRune(e.Bytes, r)
		e.ToHost = append(e.ToHost, host)
		for i := start + 1; i < len(e.Bytes); i++ {
			e.ToHost = append(e.ToHost, Interior)
		}
		e.ToNative[host] = start
		if width == 2 {
			e.ToNative[host+1] = Interior
		}
	})
	e.ToHost = append(e.ToHost, len(s.units))
	e.ToNative[len(s.units)] = len(e.Bytes)
	return e
}

// Runes transcodes the subject to code points. Lone surrogates become U+FFFD.
func (s *Subject) Runes() *Encoded {
	e := &Encoded{
		Runes:    make([]rune, 0, len(s.units)),
		ToHost:   make([]int, 0, len(s.units)+1),
		ToNative: make([]int, len(s.units)+1),
	}
	s.walk(func(host, width int, r rune) {
		e.ToNative[host] = len(e.Runes)
		if width == 2 {
			e.ToNative[host+1] = Interior
		}
		e.Runes = append(e.Runes, r)
		e.ToHost = append(e.ToHost, host)
	})
	e.ToHost = append(e.ToHost, len(s.units))
	e.ToNative[len(s.units)] = len(e.Runes)
	return e
}

// walk calls fn for every character with its host index and width in code
// units (1 or 2).
func (s *Subject) walk(fn func(host, width int, r rune)) {
	for i := 0; i < len(s.units); {
		u := s.units[i]
		if isHighSurrogate(u) && i+1 < len(s.units) && isLowSurrogate(s.units[i+1]) {
			fn(i, 2, utf16.DecodeRune(rune(u), rune(s.units[i+1])))
			i += 2
			continue
		}
		r := rune(u)
		if isHighSurrogate(u) || isLowSurrogate(u) {
			r = utf8.RuneError
		}
		fn(i, 1, r)
		i++
	}
}

// UTF16LE returns the subject as little-endian UTF-16 bytes: two native
// bytes per host code unit. Lone surrogates become U+FFFD, which keeps the
// length at exactly 2*Len().
func (s *Subject) UTF16LE() ([]byte, error) {
	return EncodeUTF16LE(s.String())
}

// EncodeUTF16LE encodes a Go string as little-endian UTF-16 without a BOM.
func EncodeUTF16LE(str string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	b, _, err := transform.Bytes(enc, []byte(str))
	if err != nil {
		return nil, rxerr.Wrap(rxerr.Internal, err, "encoding text as UTF-16LE")
	}
	return b, nil
}
