// Package position maps backend-native offsets onto host code-unit offsets
// and back.
//
// Three schemes cover the backends:
//   - Identity: the backend already counts host code units (or the text is
//     simple enough that its units coincide with them)
//   - Transcoded: the backend searches a transcoded buffer; a parallel index
//     array built during transcoding does the mapping
//   - Scaled: the backend counts a fixed number of native units per code
//     unit (for example, bytes of UTF-16)
//
// No scheme ever rounds: an offset that does not land on a character
// boundary is an IndexTranslation error, and a value too large for the host
// integer width is an Overflow error.
package position

import (
	"math"

	"github.com/coregx/rxnorm/internal/conv"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

// MaxHostOffset is the largest offset the host can represent.
const MaxHostOffset = math.MaxInt32

// Translator converts between a backend's native offsets and host code units.
type Translator interface {
	// ToHost maps a native offset to a host code-unit offset.
	ToHost(native int) (int, error)

	// ToNative maps a host code-unit offset to a native offset.
	ToNative(host int) (int, error)

	// NextBoundary returns the smallest native offset greater than native
	// that starts a character (or is the end of the text).
	NextBoundary(native int) int

	// NativeLen returns the length of the text in native units.
	NativeLen() int
}

// checkHost narrows a host offset to the host integer width.
func checkHost(host int) (int, error) {
	if _, err := conv.IntToInt32(host); err != nil {
		return 0, rxerr.Wrap(rxerr.Overflow, err, "offset %d exceeds host limit %d", host, MaxHostOffset)
	}
	return host, nil
}

// Identity is the translator for backends whose offsets already are host
// code units. Values are range-checked but never changed.
type Identity struct {
	n int
}

// NewIdentity returns an Identity translator for a text of n code units.
func NewIdentity(n int) (*Identity, error) {
	if _, err := checkHost(n); err != nil {
		return nil, err
	}
	return &Identity{n: n}, nil
}

// ToHost implements Translator.
func (t *Identity) ToHost(native int) (int, error) {
	if _, err := checkHost(native); err != nil {
		return 0, err
	}
	if native < 0 || native > t.n {
		return 0, rxerr.Newf(rxerr.IndexTranslation, "offset %d outside text of length %d", native, t.n)
	}
	return native, nil
}

// ToNative implements Translator.
func (t *Identity) ToNative(host int) (int, error) {
	if host < 0 || host > t.n {
		return 0, rxerr.Newf(rxerr.IndexTranslation, "offset %d outside text of length %d", host, t.n)
	}
	return host, nil
}

// NextBoundary implements Translator.
func (t *Identity) NextBoundary(native int) int {
	return native + 1
}

// NativeLen implements Translator.
func (t *Identity) NativeLen() int {
	return t.n
}

// Transcoded translates through the index arrays produced by a transcoder.
// See text.Encoded for the layout; text.Interior marks non-boundary entries.
type Transcoded struct {
	toHost   []int
	toNative []int
}

// NewTranscoded returns a translator over enc's index maps.
func NewTranscoded(enc *text.Encoded) (*Transcoded, error) {
	if len(enc.ToHost) == 0 || len(enc.ToNative) == 0 {
		return nil, rxerr.Newf(rxerr.Internal, "transcoded text has no index map")
	}
	if _, err := checkHost(len(enc.ToNative) - 1); err != nil {
		return nil, err
	}
	return &Transcoded{toHost: enc.ToHost, toNative: enc.ToNative}, nil
}

// ToHost implements Translator.
func (t *Transcoded) ToHost(native int) (int, error) {
	if native < 0 || native >= len(t.toHost) {
		return 0, rxerr.Newf(rxerr.IndexTranslation,
			"native offset %d outside text of length %d", native, len(t.toHost)-1)
	}
	host := t.toHost[native]
	if host == text.Interior {
		return 0, rxerr.Newf(rxerr.IndexTranslation,
			"native offset %d falls inside an encoded character", native)
	}
	return checkHost(host)
}

// ToNative implements Translator.
func (t *Transcoded) ToNative(host int) (int, error) {
	if host < 0 || host >= len(t.toNative) {
		return 0, rxerr.Newf(rxerr.IndexTranslation,
			"offset %d outside text of length %d", host, len(t.toNative)-1)
	}
	native := t.toNative[host]
	if native == text.Interior {
		return 0, rxerr.Newf(rxerr.IndexTranslation,
			"offset %d falls inside a surrogate pair", host)
	}
	return native, nil
}

// NextBoundary implements Translator. Interior units are skipped so the
// result always starts a character.
func (t *Transcoded) NextBoundary(native int) int {
	native++
	for native < len(t.toHost)-1 && t.toHost[native] == text.Interior {
		native++
	}
	return native
}

// NativeLen implements Translator.
func (t *Transcoded) NativeLen() int {
	return len(t.toHost) - 1
}

// Scaled translates offsets counted in a fixed number of native units per
// host code unit.
type Scaled struct {
	factor int
	n      int
}

// NewScaled returns a translator for n host code units of factor native
// units each.
func NewScaled(factor, n int) (*Scaled, error) {
	if factor < 1 {
		return nil, rxerr.Newf(rxerr.Internal, "scale factor %d must be positive", factor)
	}
	if _, err := checkHost(n); err != nil {
		return nil, err
	}
	return &Scaled{factor: factor, n: n}, nil
}

// ToHost implements Translator.
func (t *Scaled) ToHost(native int) (int, error) {
	if native < 0 || native > t.factor*t.n {
		return 0, rxerr.Newf(rxerr.IndexTranslation,
			"native offset %d outside text of length %d", native, t.factor*t.n)
	}
	if native%t.factor != 0 {
		return 0, rxerr.Newf(rxerr.IndexTranslation,
			"native offset %d is not a multiple of %d", native, t.factor)
	}
	return checkHost(native / t.factor)
}

// ToNative implements Translator.
func (t *Scaled) ToNative(host int) (int, error) {
	if host < 0 || host > t.n {
		return 0, rxerr.Newf(rxerr.IndexTranslation, "offset %d outside text of length %d", host, t.n)
	}
	return host * t.factor, nil
}

// NextBoundary implements Translator.
func (t *Scaled) NextBoundary(native int) int {
	if native < 0 {
		return 0
	}
	return (native/t.factor + 1) * t.factor
}

// NativeLen implements Translator.
func (t *Scaled) NativeLen() int {
	return t.factor * t.n
}

// ForUTF8 returns the translator for a backend searching the UTF-8 form of
// subject, with the buffer to search. ASCII text maps one byte per code unit,
// so it gets the Identity translator without building index arrays.
func ForUTF8(subject *text.Subject) (Translator, []byte, error) {
	if subject.IsASCII() {
		b := make([]byte, subject.Len())
		for i := range b {
			b[i] = byte(subject.Unit(i))
		}
		t, err := NewIdentity(subject.Len())
		if err != nil {
			return nil, nil, err
		}
		return t, b, nil
	}
	enc := subject.UTF8()
	t, err := NewTranscoded(enc)
	if err != nil {
		return nil, nil, err
	}
	return t, enc.Bytes, nil
}

// ForRunes returns the translator for a backend searching the code points of
// subject, with the runes to search. Text without surrogate pairs has one
// code point per code unit and gets the Identity translator.
func ForRunes(subject *text.Subject) (Translator, []rune, error) {
	enc := subject.Runes()
	if !subject.HasSurrogatePairs() {
		t, err := NewIdentity(subject.Len())
		if err != nil {
			return nil, nil, err
		}
		return t, enc.Runes, nil
	}
	t, err := NewTranscoded(enc)
	if err != nil {
		return nil, nil, err
	}
	return t, enc.Runes, nil
}
