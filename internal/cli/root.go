// Package cli wires the non-interactive cobra command tree on top of
// internal/app's composition root. cmd/root/root.go does the equivalent:
// a PersistentPreRunE builds shared state once, Execute drives it against
// injected stdio, and processErr classifies the returned error the same
// way that file splits "already printed" runtime errors from usage errors
// that still need rootCmd.Usage().
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/internal/app"
	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// rootState holds the flags and lazily-built App shared by every subcommand.
type rootState struct {
	configPath string

	// Shell-integration flags, hidden since
	// they're only meant to be passed by the init script, not typed by hand.
	skipExecution bool
	extraLine     bool
	fileOutput    string

	app *app.App
}

func (r *rootState) App() *app.App { return r.app }

// NewRootCmd builds the command tree. Build/Close run in Persistent{Pre,Post}RunE
// so every subcommand gets a ready App without repeating the setup.
func NewRootCmd() *cobra.Command {
	state := &rootState{}

	cmd := &cobra.Command{
		Use:   "intelli-shell",
		Short: "Like IntelliSense, but for shells",
		Long: "intelli-shell stores, searches and parameterizes shell commands you actually use, " +
			"so you stop re-typing them from memory or scrollback.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Build(cmd.Context(), state.configPath)
			if err != nil {
				return err
			}
			state.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if state.app != nil {
				return state.app.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&state.configPath, "config", app.DefaultConfigPath(), "Path to the config file")
	cmd.PersistentFlags().BoolVar(&state.skipExecution, "skip-execution", false, "Print the resolved command instead of executing it")
	cmd.PersistentFlags().BoolVar(&state.extraLine, "extra-line", false, "Print an extra blank line before the output (shell integration)")
	cmd.PersistentFlags().StringVar(&state.fileOutput, "file-output", "", "Write the resolved command to this file instead of stdout (shell integration)")
	_ = cmd.PersistentFlags().MarkHidden("skip-execution")
	_ = cmd.PersistentFlags().MarkHidden("extra-line")
	_ = cmd.PersistentFlags().MarkHidden("file-output")

	cmd.AddCommand(
		newInitCmd(),
		newNewCmd(state),
		newSearchCmd(state),
		newReplaceCmd(state),
		newFixCmd(state),
		newExportCmd(state),
		newImportCmd(state),
		newTldrCmd(state),
		newCompletionCmd(state),
		newUpdateCmd(state),
	)

	return cmd
}

// Execute runs the command tree against the given stdio and args, returning
// the same error processErr classified (for cmd/intelli-shell's exit code).
func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return processErr(ctx, err, stderr, rootCmd)
	}
	return nil
}

// processErr prints err appropriately and returns it for the caller to turn
// into an exit code. A context cancellation is returned bare. A
// ierrors.UserFacing error is printed as-is: it's already a short, final
// message. An *ierrors.Unexpected is printed with its wrapped detail, since
// it represents a bug rather than expected user-facing input. Anything else
// is printed followed by a blank line, and usage is shown only for cobra's
// unknown-command and argument-count errors.
func processErr(ctx context.Context, err error, stderr io.Writer, rootCmd *cobra.Command) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.As(err, new(*ierrors.Unexpected)):
		fmt.Fprintln(stderr, err)
	case isUserFacing(err):
		fmt.Fprintln(stderr, err)
	default:
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr)
		if strings.HasPrefix(err.Error(), "unknown command ") || strings.HasPrefix(err.Error(), "accepts ") {
			_ = rootCmd.Usage()
		}
	}
	return err
}

func isUserFacing(err error) bool {
	var uf ierrors.UserFacing
	return errors.As(err, &uf)
}
