package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coregx/rxnorm"
	"github.com/coregx/rxnorm/backend"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	settingsFlags
	File string // read the subject from this file; "-" is stdin
}

// MatchReport is the structured output of the match command.
type MatchReport struct {
	Engine  string         `json:"engine" yaml:"engine"`
	Pattern string         `json:"pattern" yaml:"pattern"`
	Count   int            `json:"count" yaml:"count"`
	Matches []rxnorm.Match `json:"matches" yaml:"matches"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <pattern> [subject]",
		Short: "List every match of a pattern",
		Long: `List every non-overlapping match of pattern in subject, with group and
capture spans in UTF-16 code units.

The subject is the second argument, the file named by --file, or stdin.
The command exits with status 1 when there is no match.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.settingsFlags.changed(cmd)
			return runMatch(opts, args, cmd)
		},
	}

	opts.settingsFlags.bind(cmd)
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", `read the subject from a file ("-" for stdin)`)

	return cmd
}

func runMatch(opts *MatchOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	subject, err := readSubject(opts, args, cmd.InOrStdin())
	if err != nil {
		return fail(formatter, ExitCommandError, "reading subject", err)
	}

	s, err := opts.settingsFlags.resolve(opts.RootOptions)
	if err != nil {
		return fail(formatter, ExitCommandError, "loading settings", err)
	}

	m, err := rxnorm.CompileWithConfig(s.engine, args[0], s.options, s.config)
	if err != nil {
		return fail(formatter, ExitCommandError, "compiling pattern", err)
	}
	defer m.Close()

	res, err := m.FindAllString(cmd.Context(), subject)
	if err != nil {
		return fail(formatter, ExitSearchError, "searching", err)
	}

	report := MatchReport{
		Engine:  m.Engine(),
		Pattern: m.String(),
		Count:   res.Len(),
		Matches: res.Matches(),
	}
	if report.Matches == nil {
		report.Matches = []rxnorm.Match{}
	}
	groups := m.Groups()
	if err := formatter.Success(report, func(w io.Writer) {
		writeMatches(w, res, groups)
	}); err != nil {
		return err
	}

	if res.Len() == 0 {
		return NewExitError(ExitNoMatch, "no match")
	}
	return nil
}

func writeMatches(w io.Writer, res *rxnorm.Result, groups []backend.GroupInfo) {
	for i, match := range res.Matches() {
		fmt.Fprintf(w, "match %d: [%d,%d] %q\n", i, match.Index, match.Length, res.Text(match))
		for j, g := range match.Groups {
			if j == 0 {
				continue
			}
			label := fmt.Sprintf("group %d", groups[j].Ordinal)
			if groups[j].Named {
				label += " " + groups[j].Name
			}
			if !g.Success {
				fmt.Fprintf(w, "  %s: unmatched\n", label)
				continue
			}
			fmt.Fprintf(w, "  %s: [%d,%d] %q\n", label, g.Index, g.Length, res.Text(g))
			if len(g.Captures) > 1 {
				for k, c := range g.Captures {
					fmt.Fprintf(w, "    capture %d: [%d,%d] %q\n", k, c.Index, c.Length, res.Text(c))
				}
			}
		}
	}
	switch res.Len() {
	case 1:
		fmt.Fprintln(w, "1 match")
	default:
		fmt.Fprintf(w, "%d matches\n", res.Len())
	}
}

func readSubject(opts *MatchOptions, args []string, stdin io.Reader) (string, error) {
	switch {
	case len(args) == 2:
		if opts.File != "" {
			return "", fmt.Errorf("subject given both as an argument and with --file")
		}
		return args[1], nil
	case opts.File != "" && opts.File != "-":
		data, err := os.ReadFile(opts.File)
		return string(data), err
	default:
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
}

// fail reports err through the formatter and returns the matching exit
// error.
func fail(f *OutputFormatter, code int, message string, err error) error {
	if ferr := f.Error(err); ferr != nil {
		return ferr
	}
	return WrapExitError(code, message, err)
}

// bind registers the engine flags shared by match and groups.
func (sf *settingsFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sf.engine, "engine", "e", "re2", "engine to compile with (see 'rxnorm engines')")
	cmd.Flags().StringArrayVarP(&sf.options, "option", "o", nil, "engine option as name or name=value; repeatable")
	cmd.Flags().DurationVar(&sf.timeout, "timeout", 30*time.Second, "hard timeout for the search")
	cmd.Flags().IntVar(&sf.maxMatches, "max-matches", 0, "stop after this many matches (0 = all)")
}

// changed records which flags were given explicitly.
func (sf *settingsFlags) changed(cmd *cobra.Command) {
	sf.engineSet = cmd.Flags().Changed("engine")
	sf.timeoutSet = cmd.Flags().Changed("timeout")
	sf.maxSet = cmd.Flags().Changed("max-matches")
}
