package rxnorm

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

var threeGroups = []backend.GroupInfo{
	{Ordinal: 0, Name: "0"},
	{Ordinal: 1, Name: "x", Named: true},
	{Ordinal: 2, Name: "2"},
}

// utf8Builder builds over the UTF-8 form of s: "aé\U0001F600b" has bytes
// a=0 é=1..2 😀=3..6 b=7 and code units a=0 é=1 😀=2..3 b=4.
func utf8Builder(t *testing.T, log zerolog.Logger) *builder {
	t.Helper()
	tr, err := position.NewTranscoded(text.FromString("aé\U0001F600b").UTF8())
	require.NoError(t, err)
	return newBuilder(threeGroups, tr, log)
}

func TestBuildTranslatesGroups(t *testing.T) {
	b := utf8Builder(t, zerolog.Nop())

	m, err := b.build(&backend.RawMatch{Groups: []backend.RawGroup{
		{Ordinal: 0, Span: backend.Span{Start: 1, End: 8}},
		{Ordinal: 1, Span: backend.Span{Start: 3, End: 7}},
		{Ordinal: 2, Span: backend.NoSpan},
	}})
	require.NoError(t, err)

	want := Match{
		Index: 1, Length: 4, Success: true,
		Groups: []Group{
			{Name: "0", Success: true, Index: 1, Length: 4, Captures: []Capture{{1, 4}}},
			{Name: "x", Success: true, Index: 2, Length: 2, Captures: []Capture{{2, 2}}},
			{Name: "2"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("build mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCaptureHistory(t *testing.T) {
	b := utf8Builder(t, zerolog.Nop())

	m, err := b.build(&backend.RawMatch{Groups: []backend.RawGroup{
		{Ordinal: 0, Span: backend.Span{Start: 0, End: 8}},
		{Ordinal: 1, Span: backend.Span{Start: 7, End: 8}, History: []backend.Span{{Start: 0, End: 1}, {Start: 1, End: 3}, {Start: 7, End: 8}}},
		{Ordinal: 2, Span: backend.NoSpan},
	}})
	require.NoError(t, err)

	g := m.Groups[1]
	assert.Equal(t, 4, g.Index)
	assert.Equal(t, 1, g.Length)
	assert.Equal(t, []Capture{{0, 1}, {1, 1}, {4, 1}}, g.Captures)
}

func TestBuildSkipsUntranslatableCapture(t *testing.T) {
	var buf bytes.Buffer
	b := utf8Builder(t, zerolog.New(&buf))

	m, err := b.build(&backend.RawMatch{Groups: []backend.RawGroup{
		{Ordinal: 0, Span: backend.Span{Start: 0, End: 8}},
		{Ordinal: 1, Span: backend.Span{Start: 7, End: 8}, History: []backend.Span{{Start: 0, End: 1}, {Start: 4, End: 7}, {Start: 7, End: 8}}},
		{Ordinal: 2, Span: backend.NoSpan},
	}})
	require.NoError(t, err)

	assert.Equal(t, []Capture{{0, 1}, {4, 1}}, m.Groups[1].Captures)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "skipping capture with untranslatable span")
	assert.Contains(t, buf.String(), `"group":1`)
}

func TestBuildFailures(t *testing.T) {
	b := utf8Builder(t, zerolog.Nop())

	tests := []struct {
		name   string
		groups []backend.RawGroup
		want   error
	}{
		{
			name: "match mid-character",
			groups: []backend.RawGroup{
				{Span: backend.Span{Start: 2, End: 8}}, {Span: backend.NoSpan}, {Span: backend.NoSpan},
			},
			want: rxerr.ErrIndexTranslation,
		},
		{
			name: "group mid-character",
			groups: []backend.RawGroup{
				{Span: backend.Span{Start: 0, End: 8}}, {Span: backend.Span{Start: 3, End: 5}}, {Span: backend.NoSpan},
			},
			want: rxerr.ErrIndexTranslation,
		},
		{
			name: "group end before start",
			groups: []backend.RawGroup{
				{Span: backend.Span{Start: 0, End: 8}}, {Span: backend.Span{Start: 7, End: 3}}, {Span: backend.NoSpan},
			},
			want: rxerr.ErrIllegalSpan,
		},
		{
			name:   "group count mismatch",
			groups: []backend.RawGroup{{Span: backend.Span{Start: 0, End: 1}}},
			want:   rxerr.ErrInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.build(&backend.RawMatch{Groups: tt.groups})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
