package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/rxnorm/rxerr"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		in    string
		len   int
		ascii bool
		pairs bool
	}{
		{"", 0, true, false},
		{"abc", 3, true, false},
		{"héllo", 5, false, false},
		{"a\U0001F600b", 4, false, true},
		{"\xff", 1, false, false}, // invalid UTF-8 -> U+FFFD
	}
	for _, tt := range tests {
		s := FromString(tt.in)
		assert.Equal(t, tt.len, s.Len(), "len(%q)", tt.in)
		assert.Equal(t, tt.ascii, s.IsASCII(), "ascii(%q)", tt.in)
		assert.Equal(t, tt.pairs, s.HasSurrogatePairs(), "pairs(%q)", tt.in)
	}
}

func TestFromUTF16Copies(t *testing.T) {
	units := []uint16{'a', 'b'}
	s := FromUTF16(units)
	units[0] = 'z'
	assert.Equal(t, uint16('a'), s.Unit(0))
}

func TestSubstring(t *testing.T) {
	s := FromString("a\U0001F600bc")

	got, err := s.Substring(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", got)

	got, err = s.Substring(4, 0)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	// empty range at the end of the text
	got, err = s.Substring(5, 0)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	// half of a surrogate pair decodes to U+FFFD
	got, err = s.Substring(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "�", got)

	for _, r := range [][2]int{{-1, 1}, {0, 6}, {6, 0}, {2, -1}} {
		_, err := s.Substring(r[0], r[1])
		assert.ErrorIs(t, err, rxerr.ErrIndexTranslation, "Substring(%d, %d)", r[0], r[1])
	}
}

func TestUTF8IndexMaps(t *testing.T) {
	enc := FromString("aé\U0001F600").UTF8()

	assert.Equal(t, []byte("aé\U0001F600"), enc.Bytes)
	assert.Equal(t, []int{0, 1, Interior, 2, Interior, Interior, Interior, 4}, enc.ToHost)
	assert.Equal(t, []int{0, 1, 3, Interior, 7}, enc.ToNative)
	assert.Equal(t, 7, enc.NativeLen())
}

func TestUTF8LoneSurrogate(t *testing.T) {
	enc := FromUTF16([]uint16{'x', 0xD800, 'y'}).UTF8()

	assert.Equal(t, []byte("x�y"), enc.Bytes)
	assert.Equal(t, []int{0, 1, Interior, Interior, 2, 3}, enc.ToHost)
	assert.Equal(t, []int{0, 1, 4, 5}, enc.ToNative)
}

func TestRunesIndexMaps(t *testing.T) {
	enc := FromString("a\U0001F600b").Runes()

	assert.Equal(t, []rune{'a', 0x1F600, 'b'}, enc.Runes)
	assert.Equal(t, []int{0, 1, 3, 4}, enc.ToHost)
	assert.Equal(t, []int{0, 1, Interior, 2, 3}, enc.ToNative)
}

func TestUTF16LE(t *testing.T) {
	b, err := FromString("a\U0001F600").UTF16LE()
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 0, 0x3D, 0xD8, 0x00, 0xDE}, b)

	b, err = FromUTF16([]uint16{0xDC00}).UTF16LE()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFD, 0xFF}, b)
}

func TestUnitOffset(t *testing.T) {
	assert.Equal(t, 0, UnitOffset("héllo", 0))
	assert.Equal(t, 2, UnitOffset("héllo", 3))
	assert.Equal(t, 5, UnitOffset("héllo", 100))
	assert.Equal(t, 3, UnitLen("a\U0001F600"))
}
