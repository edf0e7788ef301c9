// Command thumper is the CLI entrypoint: build the cobra command tree,
// run it under a context cancelled on SIGINT/SIGTERM, and translate
// whatever error comes back into one of three exit codes (0 success,
// 1 operational failure, 2 usage error).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"thumper/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCmd().ExecuteContext(ctx)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return cli.ExitSuccess
	}

	fmt.Fprintln(os.Stderr, "thumper: "+err.Error())

	var usageErr *cli.UsageError
	if errors.As(err, &usageErr) {
		return cli.ExitUsage
	}

	// lock.BusyError and executor.PlanError both fall through here: they're
	// operational failures (ExitFailure), same as any other error.
	return cli.ExitFailure
}
