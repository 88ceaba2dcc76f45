package backend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coregx/rxnorm/rxerr"
)

// OptionKind is the value type of an option.
type OptionKind uint8

const (
	// Bool options accept strconv.ParseBool values.
	Bool OptionKind = iota
	// String options accept any value.
	String
	// Duration options accept time.ParseDuration values.
	Duration
	// Int options accept base-10 integers.
	Int
)

// String returns the kind name.
func (k OptionKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case String:
		return "string"
	case Duration:
		return "duration"
	case Int:
		return "int"
	default:
		return fmt.Sprintf("OptionKind(%d)", k)
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k OptionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// OptionInfo describes one accepted option.
type OptionInfo struct {
	Name        string     `json:"name" yaml:"name"`
	Kind        OptionKind `json:"kind" yaml:"kind"`
	Default     string     `json:"default" yaml:"default"`
	Description string     `json:"description" yaml:"description"`
}

// Options is a flat set of named flags. Values are strings; the accessors
// parse them according to the option's kind. Accessors assume the options
// have passed Validate and return the zero value for anything malformed.
type Options map[string]string

// Bool returns a boolean option.
func (o Options) Bool(name string) bool {
	v, _ := strconv.ParseBool(o[name])
	return v
}

// Value returns a string option.
func (o Options) Value(name string) string {
	return o[name]
}

// Duration returns a duration option.
func (o Options) Duration(name string) time.Duration {
	d, _ := time.ParseDuration(o[name])
	return d
}

// Int returns an integer option.
func (o Options) Int(name string) int {
	n, _ := strconv.Atoi(o[name])
	return n
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks opts against table and returns a copy with every default
// filled in. Unknown names and malformed values are compile errors.
func Validate(table []OptionInfo, opts Options) (Options, error) {
	known := make(map[string]OptionInfo, len(table))
	out := make(Options, len(table))
	for _, info := range table {
		known[info.Name] = info
		out[info.Name] = info.Default
	}

	for _, name := range opts.Keys() {
		value := opts[name]
		info, ok := known[name]
		if !ok {
			return nil, rxerr.Newf(rxerr.CompileFailed, "unknown option %q", name)
		}
		if err := checkValue(info, value); err != nil {
			return nil, rxerr.Wrap(rxerr.CompileFailed, err, "option %q: invalid %s value %q", name, info.Kind, value)
		}
		out[name] = value
	}
	return out, nil
}

func checkValue(info OptionInfo, value string) error {
	var err error
	switch info.Kind {
	case Bool:
		_, err = strconv.ParseBool(value)
	case Duration:
		var d time.Duration
		d, err = time.ParseDuration(value)
		if err == nil && d < 0 {
			err = fmt.Errorf("negative duration")
		}
	case Int:
		_, err = strconv.Atoi(value)
	}
	return err
}

// ParseOptions parses "name=value" arguments. A bare name sets a boolean
// option to true.
//
// Example:
//
//	opts, _ := backend.ParseOptions([]string{"i", "timeout=2s"})
//	// opts = {"i": "true", "timeout": "2s"}
func ParseOptions(args []string) (Options, error) {
	opts := make(Options, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			value = "true"
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, rxerr.Newf(rxerr.CompileFailed, "malformed option %q", arg)
		}
		opts[name] = value
	}
	return opts, nil
}

// InlineFlags returns the inline flag group, such as "(?is)", for every
// single-letter boolean option in letters that is set.
func InlineFlags(opts Options, letters string) string {
	var b strings.Builder
	for _, l := range letters {
		if opts.Bool(string(l)) {
			b.WriteRune(l)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

// FlagOptions returns the option table entries for the standard RE2 inline
// flags named in letters.
func FlagOptions(letters string) []OptionInfo {
	desc := map[rune]string{
		'i': "case-insensitive",
		'm': "multi-line mode: ^ and $ match at line boundaries",
		's': "let . match \\n",
		'U': "ungreedy: swap meaning of x* and x*?",
	}
	var out []OptionInfo
	for _, l := range letters {
		out = append(out, OptionInfo{Name: string(l), Kind: Bool, Default: "false", Description: desc[l]})
	}
	return out
}
