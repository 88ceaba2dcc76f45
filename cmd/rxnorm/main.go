// Command rxnorm runs a pattern on one of several regex engines and prints
// every match with offsets in UTF-16 code units.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/coregx/rxnorm/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		// Commands report their own failures; only cobra's usage errors
		// still need printing.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code == cli.ExitCommandError && exitErr.Err == nil {
			fmt.Fprintln(os.Stderr, "rxnorm:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
