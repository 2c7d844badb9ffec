// Command intelli-shell is the entrypoint wiring internal/cli's command
// tree to the real process: os.Args, stdio, and a context cancelled on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/lasantosr/intelli-shell/internal/cli"
	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]...)
	os.Exit(exitCode(err))
}

// exitCode maps a command's returned error to the process exit status: 0 on
// success, 2 on an unexpected (bug-class) error, 1 on anything else (usage
// errors, user-facing failures, cancellation).
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var unexpected *ierrors.Unexpected
	if errors.As(err, &unexpected) {
		return 2
	}
	return 1
}
