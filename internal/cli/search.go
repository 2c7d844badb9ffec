package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/pkg/storage"
)

func newSearchCmd(state *rootState) *cobra.Command {
	var (
		mode     string
		userOnly bool
		useAI    bool
	)

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search bookmarked commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()
			var query string
			if len(args) > 0 {
				query = args[0]
			}

			if useAI {
				suggestions, err := a.Service.SuggestCommands(cmd.Context(), a.AI.Suggest, a.Prompts, query)
				if err != nil {
					return err
				}
				for _, s := range suggestions {
					if err := emitResult(state, cmd, s.Cmd); err != nil {
						return err
					}
				}
				return nil
			}

			wd, err := os.Getwd()
			if err != nil {
				wd = ""
			}

			if !cmd.Flags().Changed("mode") && a.Config.Search.Mode != "" {
				mode = string(a.Config.Search.Mode)
			}
			if !cmd.Flags().Changed("user-only") {
				userOnly = a.Config.Search.UserOnly
			}

			req := storage.SearchRequest{
				Mode:        storage.SearchMode(mode),
				UserOnly:    userOnly,
				RawQuery:    strings.TrimSpace(query),
				WorkingPath: wd,
			}
			result, err := a.Service.SearchCommands(cmd.Context(), req)
			if err != nil {
				return err
			}

			if result.AliasMatch != nil {
				return emitResult(state, cmd, result.AliasMatch.Cmd)
			}
			for _, sc := range result.Ranked {
				if err := emitResult(state, cmd, sc.Command.Cmd); err != nil {
					return err
				}
			}
			if len(result.Ranked) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no matching commands")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(storage.ModeAuto), "Search mode: auto, exact, regex, fuzzy or relaxed")
	cmd.Flags().BoolVarP(&userOnly, "user-only", "u", false, "Only search bookmarks you created, skipping workspace/tldr ones")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Ask the configured AI provider to draft new suggestions instead of searching")

	return cmd
}
