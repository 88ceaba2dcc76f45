package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/rxnorm"
	"github.com/coregx/rxnorm/backend"
)

// EngineReport describes one registered engine.
type EngineReport struct {
	backend.Info `json:",inline" yaml:",inline"`
	Options      []backend.OptionInfo `json:"options" yaml:"options"`
}

// NewEnginesCommand creates the engines command.
func NewEnginesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the available engines and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngines(rootOpts, cmd)
		},
	}
}

func runEngines(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	var reports []EngineReport
	for _, b := range rxnorm.Backends() {
		reports = append(reports, EngineReport{Info: b.Info(), Options: b.Options()})
	}

	return formatter.Success(reports, func(w io.Writer) {
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s (%s %s)\n", r.Name, r.Module, r.Version)
			fmt.Fprintf(w, "  syntax: %s, unit: %s\n", r.Syntax, r.Unit)
			if len(r.Capabilities) > 0 {
				fmt.Fprintf(w, "  capabilities: %s\n", strings.Join(r.Capabilities, ", "))
			}
			for _, o := range r.Options {
				fmt.Fprintf(w, "  -o %s=<%s> (default %q) %s\n", o.Name, o.Kind, o.Default, o.Description)
			}
		}
	})
}
