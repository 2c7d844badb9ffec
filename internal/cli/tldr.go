package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newTldrCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tldr",
		Short: "Manage tldr-sourced commands",
	}
	cmd.AddCommand(newTldrFetchCmd(state), newTldrClearCmd(state))
	return cmd
}

func newTldrFetchCmd(state *rootState) *cobra.Command {
	var commandsFile string
	var commands []string

	cmd := &cobra.Command{
		Use:   "fetch [CATEGORY]",
		Short: "Clone/update the tldr-pages repository and import its commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()
			var category string
			if len(args) > 0 {
				category = args[0]
			}

			if commandsFile != "" {
				names, err := readCommandNames(commandsFile)
				if err != nil {
					return err
				}
				commands = append(commands, names...)
			}

			stats, err := a.Service.FetchTldrCommands(cmd.Context(), a.Config.DataDir, category, commands)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d commands, skipped %d already present\n", stats.Inserted, stats.Skipped)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&commands, "command", "c", nil, "Only import pages with this command name, repeatable")
	cmd.Flags().StringVarP(&commandsFile, "commands-file", "C", "", "File with one command name per line (use '-' for stdin), added to --command")

	return cmd
}

func newTldrClearCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [CATEGORY]",
		Short: "Remove tldr-sourced commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()
			var category string
			if len(args) > 0 {
				category = args[0]
			}
			n, err := a.Service.ClearTldrCommands(cmd.Context(), category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d commands\n", n)
			return nil
		},
	}
}

// readCommandNames reads one command name per non-blank line from path, or
// stdin when path is "-".
func readCommandNames(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}
