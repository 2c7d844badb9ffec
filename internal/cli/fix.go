package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/pkg/service"
)

func newFixCmd(state *rootState) *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "fix COMMAND",
		Short: "Run a command and ask AI to fix it if it fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()

			var historyText string
			if history != "" {
				h, err := service.ReadShellHistory(cmd.Context(), service.HistorySource(history))
				if err != nil {
					return err
				}
				historyText = h
			}

			shell := os.Getenv("SHELL")
			result, err := a.Service.FixCommand(cmd.Context(), a.AI.Fix, a.Prompts, shell, args[0], historyText)
			if err != nil {
				return err
			}

			if result.Succeeded {
				fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
				fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
				return nil
			}

			fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
			return emitResult(state, cmd, result.Fix)
		},
	}

	cmd.Flags().StringVar(&history, "history", "", "Shell history source to pass as context: bash, zsh, fish, powershell, nushell or atuin")

	return cmd
}
