package coregex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

func compile(t *testing.T, pattern string, opts backend.Options) backend.Pattern {
	t.Helper()
	resolved, err := backend.Validate(New().Options(), opts)
	require.NoError(t, err)
	p, err := New().Compile(pattern, resolved)
	require.NoError(t, err)
	return p
}

func find(t *testing.T, p backend.Pattern, s string) []*backend.RawMatch {
	t.Helper()
	search, err := p.NewSearch(text.FromString(s))
	require.NoError(t, err)
	defer search.Close()

	var out []*backend.RawMatch
	for at := 0; at <= search.Translator().NativeLen(); {
		m, err := search.Find(at, backend.Unanchored)
		require.NoError(t, err)
		if m == nil {
			break
		}
		out = append(out, m)
		at = m.Span().End
		if m.Span().Empty() {
			at = search.Translator().NextBoundary(at)
		}
	}
	return out
}

func TestInfo(t *testing.T) {
	info := New().Info()
	assert.Equal(t, Name, info.Name)
	assert.Equal(t, "github.com/coregx/coregex", info.Module)
	assert.NotEmpty(t, info.Capabilities)
	assert.NotEmpty(t, info.Version)
}

func TestGroupsByPosition(t *testing.T) {
	p := compile(t, `(?P<key>\w+)=(\w+)`, nil)
	assert.Equal(t, []backend.GroupInfo{
		{Ordinal: 0, Name: "0"},
		{Ordinal: 1, Name: "key", Named: true},
		{Ordinal: 2, Name: "2"},
	}, p.Groups())

	ms := find(t, p, "a=1 bb=22")
	require.Len(t, ms, 2)
	assert.Equal(t, backend.Span{Start: 4, End: 9}, ms[1].Span())
	assert.Equal(t, backend.Span{Start: 4, End: 6}, ms[1].Groups[1].Span)
	assert.Equal(t, backend.Span{Start: 7, End: 9}, ms[1].Groups[2].Span)
}

func TestUnmatchedGroup(t *testing.T) {
	p := compile(t, `(a)|(b)`, nil)
	ms := find(t, p, "b")
	require.Len(t, ms, 1)
	assert.False(t, ms[0].Groups[1].Span.Matched())
	assert.Equal(t, backend.Span{Start: 0, End: 1}, ms[0].Groups[2].Span)
}

func TestFlags(t *testing.T) {
	p := compile(t, `hello`, backend.Options{"i": "true"})
	assert.Len(t, find(t, p, "Hello HELLO"), 2)

	p = compile(t, `a+b`, backend.Options{"literal": "true"})
	ms := find(t, p, "aab a+b")
	require.Len(t, ms, 1)
	assert.Equal(t, backend.Span{Start: 4, End: 7}, ms[0].Span())
}

func TestUTF8Offsets(t *testing.T) {
	p := compile(t, `b`, nil)
	search, err := p.NewSearch(text.FromString("😀b"))
	require.NoError(t, err)
	defer search.Close()

	m, err := search.Find(0, backend.Unanchored)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, backend.Span{Start: 4, End: 5}, m.Span())

	host, err := search.Translator().ToHost(4)
	require.NoError(t, err)
	assert.Equal(t, 2, host)
}

func TestCompileError(t *testing.T) {
	resolved, err := backend.Validate(New().Options(), nil)
	require.NoError(t, err)

	_, err = New().Compile(`(abc`, resolved)
	require.Error(t, err)
	assert.ErrorIs(t, err, rxerr.ErrCompile)

	var e *rxerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 4, e.Offset)
	assert.Equal(t, Name, e.Backend)
}

func TestSearchFromOffset(t *testing.T) {
	p := compile(t, `\bb`, nil)
	search, err := p.NewSearch(text.FromString("ab b"))
	require.NoError(t, err)
	defer search.Close()

	// The byte before the offset still counts for \b.
	m, err := search.Find(1, backend.Unanchored)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, backend.Span{Start: 3, End: 4}, m.Span())

	// Searches are independent of each other.
	m, err = search.Find(0, backend.Unanchored)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, backend.Span{Start: 3, End: 4}, m.Span())

	m, err = search.Find(4, backend.Unanchored)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestEmptyMatchAfterMatch(t *testing.T) {
	p := compile(t, `a*`, nil)
	assert.Equal(t, []backend.Span{{Start: 0, End: 2}, {Start: 2, End: 2}}, spansOf(find(t, p, "aa")))
}

func spansOf(ms []*backend.RawMatch) []backend.Span {
	out := make([]backend.Span, len(ms))
	for i, m := range ms {
		out[i] = m.Span()
	}
	return out
}

func TestConcurrentSearches(t *testing.T) {
	p := compile(t, `(\d)`, nil)
	first, err := p.NewSearch(text.FromString("a1"))
	require.NoError(t, err)
	second, err := p.NewSearch(text.FromString("22b"))
	require.NoError(t, err)

	m1, err := first.Find(0, backend.Unanchored)
	require.NoError(t, err)
	m2, err := second.Find(1, backend.Unanchored)
	require.NoError(t, err)
	require.NotNil(t, m1)
	require.NotNil(t, m2)
	assert.Equal(t, backend.Span{Start: 1, End: 2}, m1.Groups[1].Span)
	assert.Equal(t, backend.Span{Start: 1, End: 2}, m2.Groups[1].Span)

	require.NoError(t, first.Close())
	require.NoError(t, second.Close())
	assert.Len(t, find(t, p, "1 2 3"), 3)
}

func TestMaxDFAStates(t *testing.T) {
	p := compile(t, `[a-z]+\d`, backend.Options{"max_dfa_states": "16"})
	assert.Len(t, find(t, p, "ab1 cd2"), 2)

	for _, n := range []string{"0", "1000001"} {
		resolved, err := backend.Validate(New().Options(), backend.Options{"max_dfa_states": n})
		require.NoError(t, err)
		_, err = New().Compile(`a`, resolved)
		assert.ErrorIs(t, err, rxerr.ErrCompile, n)
	}

	_, err := backend.Validate(New().Options(), backend.Options{"max_dfa_states": "many"})
	assert.ErrorIs(t, err, rxerr.ErrCompile)
}

func TestSearchErrors(t *testing.T) {
	p := compile(t, `a`, nil)
	search, err := p.NewSearch(text.FromString("a"))
	require.NoError(t, err)
	assert.False(t, search.SupportsAnchoredNotEmpty())

	_, err = search.Find(0, backend.AnchoredNotEmpty)
	assert.ErrorIs(t, err, rxerr.ErrInternal)

	require.NoError(t, search.Close())
	_, err = search.Find(0, backend.Unanchored)
	assert.ErrorIs(t, err, rxerr.ErrInternal)

	require.NoError(t, p.Close())
	_, err = p.NewSearch(text.FromString("a"))
	assert.ErrorIs(t, err, rxerr.ErrInternal)
}
