package backend

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/rxnorm/names"
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
)

var testTable = []OptionInfo{
	{Name: "i", Kind: Bool, Default: "false"},
	{Name: "timeout", Kind: Duration, Default: "10s"},
	{Name: "separator", Kind: String, Default: "\n"},
	{Name: "limit", Kind: Int, Default: "0"},
}

func TestValidateFillsDefaults(t *testing.T) {
	got, err := Validate(testTable, Options{"i": "true", "limit": "3"})
	require.NoError(t, err)

	assert.True(t, got.Bool("i"))
	assert.Equal(t, 10*time.Second, got.Duration("timeout"))
	assert.Equal(t, "\n", got.Value("separator"))
	assert.Equal(t, 3, got.Int("limit"))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"unknown", Options{"x": "true"}, `unknown option "x"`},
		{"bad bool", Options{"i": "yes"}, `option "i": invalid bool value "yes"`},
		{"bad duration", Options{"timeout": "soon"}, `option "timeout": invalid duration value "soon"`},
		{"negative duration", Options{"timeout": "-1s"}, `option "timeout": invalid duration value "-1s"`},
		{"bad int", Options{"limit": "many"}, `option "limit": invalid int value "many"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(testTable, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, rxerr.ErrCompile)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseOptions(t *testing.T) {
	got, err := ParseOptions([]string{"i", "timeout=2s", "separator=,"})
	require.NoError(t, err)
	assert.Equal(t, Options{"i": "true", "timeout": "2s", "separator": ","}, got)

	_, err = ParseOptions([]string{"=x"})
	assert.ErrorIs(t, err, rxerr.ErrCompile)
}

func TestInlineFlags(t *testing.T) {
	assert.Equal(t, "", InlineFlags(Options{}, "imsU"))
	assert.Equal(t, "(?is)", InlineFlags(Options{"s": "true", "i": "true", "m": "false"}, "imsU"))
}

func TestCursor(t *testing.T) {
	re := regexp.MustCompile(`(a)|(b)`)
	buf := []byte("xaxbx")
	tr, err := position.NewIdentity(len(buf))
	require.NoError(t, err)

	calls := 0
	groups := []GroupInfo{{Ordinal: 0}, {Ordinal: 1}, {Ordinal: 2}}
	c := NewCursor(tr, groups, func() [][]int {
		calls++
		return re.FindAllSubmatchIndex(buf, -1)
	})
	assert.False(t, c.SupportsAnchoredNotEmpty())

	m, err := c.Find(0, Unanchored)
	require.NoError(t, err)
	want := &RawMatch{Groups: []RawGroup{
		{Ordinal: 0, Span: Span{1, 2}},
		{Ordinal: 1, Span: Span{1, 2}},
		{Ordinal: 2, Span: NoSpan},
	}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Find(0) mismatch (-want +got):\n%s", diff)
	}

	m, err = c.Find(2, Unanchored)
	require.NoError(t, err)
	assert.Equal(t, Span{3, 4}, m.Span())
	assert.Equal(t, NoSpan, m.Groups[1].Span)

	m, err = c.Find(4, Unanchored)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 1, calls)

	_, err = c.Find(0, AnchoredNotEmpty)
	assert.ErrorIs(t, err, rxerr.ErrInternal)

	require.NoError(t, c.Close())
	_, err = c.Find(0, Unanchored)
	assert.ErrorIs(t, err, rxerr.ErrInternal)
}

func TestSyntaxError(t *testing.T) {
	tests := []struct {
		pattern string
		offset  int
	}{
		{`a**`, 1},
		{`é**`, 1},
		{`(abc`, 4},
		{`ab[c`, 2},
		{`abc\`, 3},
		{`x\pQ`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, perr := regexp.Compile(tt.pattern)
			require.Error(t, perr)
			err := SyntaxError("re2", tt.pattern, tt.pattern, perr)
			assert.ErrorIs(t, err, rxerr.ErrCompile)
			assert.Equal(t, tt.offset, err.Offset)
		})
	}
}

func TestSyntaxErrorWithoutOffset(t *testing.T) {
	err := SyntaxError("re2", "x", "x", errors.New("not a syntax error"))
	assert.Equal(t, -1, err.Offset)

	_, perr := regexp.Compile(`\Q(\E)`)
	require.Error(t, perr)
	err = SyntaxError("re2", "(", `\Q(\E)`, perr)
	assert.Equal(t, -1, err.Offset)
}

func TestGroupsFromNames(t *testing.T) {
	table, err := names.Resolve(`(a)(?P<b>c)`, names.Perl, nil)
	require.NoError(t, err)

	got := GroupsFromNames(3, table)
	want := []GroupInfo{
		{Ordinal: 0, Name: "0"},
		{Ordinal: 1, Name: "1"},
		{Ordinal: 2, Name: "b", Named: true},
	}
	assert.Equal(t, want, got)
}

func TestModuleVersionUnknown(t *testing.T) {
	assert.Equal(t, "unknown", ModuleVersion("example.com/not/linked"))
}
