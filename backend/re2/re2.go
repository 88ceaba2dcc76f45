// Package re2 adapts Go's regexp package (RE2 syntax, linear time).
//
// regexp has no start-offset search, so matches come from its own
// FindAllSubmatchIndex enumeration through a backend.Cursor. That
// enumeration never reports an empty match immediately after a previous
// match, so `a*` over "aa" yields [0,2] alone.
package re2

import (
	"regexp"
	"runtime"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/names"
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

// Name is the registry key of this backend.
const Name = "re2"

var options = append(backend.FlagOptions("imsU"),
	backend.OptionInfo{Name: "longest", Kind: backend.Bool, Default: "false",
		Description: "leftmost-longest instead of leftmost-first matching"},
	backend.OptionInfo{Name: "literal", Kind: backend.Bool, Default: "false",
		Description: "treat the pattern as literal text"},
)

// Backend is the Go regexp adapter.
type Backend struct{}

// New returns the Go regexp adapter.
func New() *Backend {
	return &Backend{}
}

// Name implements backend.Backend.
func (*Backend) Name() string { return Name }

// Info implements backend.Backend.
func (*Backend) Info() backend.Info {
	return backend.Info{
		Name:         Name,
		Module:       "regexp",
		Version:      runtime.Version(),
		Syntax:       "RE2",
		Unit:         "UTF-8 byte",
		Capabilities: []string{"named-groups", "leftmost-longest"},
	}
}

// Options implements backend.Backend.
func (*Backend) Options() []backend.OptionInfo {
	return options
}

// Compile implements backend.Backend.
func (*Backend) Compile(pattern string, opts backend.Options) (backend.Pattern, error) {
	body := pattern
	if opts.Bool("literal") {
		body = regexp.QuoteMeta(pattern)
	}
	re, err := regexp.Compile(backend.InlineFlags(opts, "imsU") + body)
	if err != nil {
		return nil, backend.SyntaxError(Name, pattern, body, err)
	}
	if opts.Bool("longest") {
		re.Longest()
	}

	table, err := names.Resolve(body, names.Perl, re.SubexpIndex)
	if err != nil {
		return nil, rxerr.Wrap(rxerr.Internal, err, "resolving group names")
	}
	return &Pattern{
		re:     re,
		groups: backend.GroupsFromNames(re.NumSubexp()+1, table),
	}, nil
}

// Pattern is a compiled Go regexp.
type Pattern struct {
	re     *regexp.Regexp
	groups []backend.GroupInfo
	closed bool
}

// Groups implements backend.Pattern.
func (p *Pattern) Groups() []backend.GroupInfo {
	return p.groups
}

// NewSearch implements backend.Pattern.
func (p *Pattern) NewSearch(subject *text.Subject) (backend.Search, error) {
	if p.closed {
		return nil, rxerr.Newf(rxerr.Internal, "pattern is closed")
	}
	tr, buf, err := position.ForUTF8(subject)
	if err != nil {
		return nil, err
	}
	re := p.re
	return backend.NewCursor(tr, p.groups, func() [][]int {
		return re.FindAllSubmatchIndex(buf, -1)
	}), nil
}

// Close implements backend.Pattern.
func (p *Pattern) Close() error {
	p.closed = true
	return nil
}
