package backend

import (
	"errors"
	"regexp/syntax"
	"runtime/debug"
	"strings"

	"github.com/coregx/rxnorm/names"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

// SyntaxError converts a regexp/syntax parse failure into a compile error
// with an offset into pattern. body is the expression the engine actually
// parsed, minus any inline flag prefix; when it differs from pattern (for
// example after quoting) offsets cannot be mapped and are reported as -1.
func SyntaxError(name, pattern, body string, err error) *rxerr.Error {
	var se *syntax.Error
	if !errors.As(err, &se) || body != pattern {
		return rxerr.Compile(name, pattern, -1, err)
	}

	off := -1
	switch {
	case se.Code == syntax.ErrMissingParen:
		off = len(pattern)
	case se.Code == syntax.ErrTrailingBackslash:
		off = len(pattern) - 1
	case se.Expr != "" && len(se.Expr) < len(pattern):
		off = strings.Index(pattern, se.Expr)
	case se.Expr == pattern:
		off = 0
	}
	if off >= 0 {
		off = text.UnitOffset(pattern, off)
	}
	return rxerr.Compile(name, pattern, off, se)
}

// GroupsFromNames builds the group list for an engine reporting n capturing
// groups (group 0 included) whose names come from table.
func GroupsFromNames(n int, table *names.Table) []GroupInfo {
	groups := make([]GroupInfo, n)
	for i := range groups {
		groups[i] = GroupInfo{Ordinal: i, Name: table.Name(i), Named: table.Named(i)}
	}
	return groups
}

// ModuleVersion returns the version of module path linked into the running
// binary, "(devel)" for the main module, or "unknown" when build
// information is unavailable (as in some test binaries).
func ModuleVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if bi.Main.Path == path {
		return bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}
