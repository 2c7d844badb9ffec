package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/internal/buildinfo"
)

func newUpdateCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check whether a newer release is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()
			latest := a.Version.CheckForUpdate(cmd.Context())
			if latest == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "you're running the latest version (%s)\n", buildinfo.Version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "a newer version is available: %s (running %s)\n", latest, buildinfo.Version)
			fmt.Fprintln(cmd.OutOrStdout(), "see https://github.com/lasantosr/intelli-shell/releases/latest")
			return nil
		},
	}
}
