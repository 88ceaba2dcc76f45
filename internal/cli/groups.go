package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coregx/rxnorm"
	"github.com/coregx/rxnorm/backend"
)

// GroupsOptions holds flags for the groups command.
type GroupsOptions struct {
	*RootOptions
	settingsFlags
}

// GroupsReport is the structured output of the groups command.
type GroupsReport struct {
	Engine  string              `json:"engine" yaml:"engine"`
	Pattern string              `json:"pattern" yaml:"pattern"`
	Groups  []backend.GroupInfo `json:"groups" yaml:"groups"`
}

// NewGroupsCommand creates the groups command.
func NewGroupsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GroupsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "groups <pattern>",
		Short: "Show the capturing groups of a pattern and their names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.settingsFlags.changed(cmd)
			return runGroups(opts, args[0], cmd)
		},
	}

	opts.settingsFlags.bind(cmd)

	return cmd
}

func runGroups(opts *GroupsOptions, pattern string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	s, err := opts.settingsFlags.resolve(opts.RootOptions)
	if err != nil {
		return fail(formatter, ExitCommandError, "loading settings", err)
	}
	m, err := rxnorm.CompileWithConfig(s.engine, pattern, s.options, s.config)
	if err != nil {
		return fail(formatter, ExitCommandError, "compiling pattern", err)
	}
	defer m.Close()

	report := GroupsReport{Engine: m.Engine(), Pattern: m.String(), Groups: m.Groups()}
	return formatter.Success(report, func(w io.Writer) {
		for _, g := range report.Groups {
			kind := "numbered"
			if g.Named {
				kind = "named"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", g.Ordinal, g.Name, kind)
		}
	})
}
