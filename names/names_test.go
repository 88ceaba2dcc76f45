package names

import (
	"regexp"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByPosition(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		syntax  Syntax
		want    map[int]string
	}{
		{"two named", `(?<a>.)(?<b>.)`, Perl, map[int]string{1: "a", 2: "b"}},
		{"python form", `(x)(?P<year>\d+)`, Perl, map[int]string{2: "year"}},
		{"nested", `((?<inner>a)(b))(?<last>c)`, Perl, map[int]string{2: "inner", 4: "last"}},
		{"non-capturing skipped", `(?:a)(?<n>b)`, Perl, map[int]string{1: "n"}},
		{"lookbehind is not a group", `(?<=a)(?<!b)(?<n>c)`, Perl, map[int]string{1: "n"}},
		{"escaped paren", `\((?<n>a)`, Perl, map[int]string{1: "n"}},
		{"paren in class", `[(](?<n>a)`, Perl, map[int]string{1: "n"}},
		{"bracket first in class", `[]()](?<n>a)`, Perl, map[int]string{1: "n"}},
		{"posix class", `[[:alpha:](](?<n>a)`, Perl, map[int]string{1: "n"}},
		{"quoted run", `\Q(?<x>\E(?<n>a)`, Perl, map[int]string{1: "n"}},
		{"comment", `(?#(?<x>)(?<n>a)`, Perl, map[int]string{1: "n"}},
		{"quoted name perl", `(?'q'a)(?<n>b)`, Perl, map[int]string{1: "n"}},
		{"quoted name dotnet", `(?'q'a)(?<n>b)`, DotNet, map[int]string{1: "q", 2: "n"}},
		{"no groups", `abc`, Perl, map[int]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Resolve(tt.pattern, tt.syntax, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.names)
		})
	}
}

func TestResolveByNameRE2(t *testing.T) {
	re := regexp.MustCompile(`(?P<first>a)(b)(?<third>c)`)
	table, err := Resolve(re.String(), Perl, re.SubexpIndex)
	require.NoError(t, err)

	assert.Equal(t, "first", table.Name(1))
	assert.Equal(t, "2", table.Name(2))
	assert.Equal(t, "third", table.Name(3))
	assert.Equal(t, 2, table.Len())
}

func TestResolveByNameDotNet(t *testing.T) {
	// .NET numbers named groups after all unnamed ones.
	pattern := `(?<word>\w+)\s(\d+)`
	re := regexp2.MustCompile(pattern, regexp2.None)
	table, err := Resolve(pattern, DotNet, re.GroupNumberFromName)
	require.NoError(t, err)

	assert.Equal(t, "1", table.Name(1))
	assert.Equal(t, "word", table.Name(2))
	assert.True(t, table.Named(2))
	assert.False(t, table.Named(1))
}

func TestResolveIgnoresUnknownNames(t *testing.T) {
	table, err := Resolve(`(?<a>x)`, Perl, func(string) int { return -1 })
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, "1", table.Name(1))
}

func TestNilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, "0", table.Name(0))
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.Named(0))
}
