package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/pkg/model"
)

func newNewCmd(state *rootState) *cobra.Command {
	var (
		alias       string
		description string
		useAI       bool
	)

	cmd := &cobra.Command{
		Use:   "new [COMMAND]",
		Short: "Bookmark a new command",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()
			var text string
			if len(args) > 0 {
				text = args[0]
			}

			if useAI {
				suggestion, err := a.Service.SuggestCommand(cmd.Context(), a.AI.Suggest, a.Prompts, text, description)
				if err != nil {
					return err
				}
				text = suggestion.Cmd
			}

			c, err := a.Service.NewCommand(cmd.Context(), model.CategoryUser, model.SourceUser, strings.TrimSpace(alias), text, description)
			if err != nil {
				return err
			}
			return emitResult(state, cmd, c.Cmd)
		},
	}

	cmd.Flags().StringVarP(&alias, "alias", "a", "", "An alias to quickly find the command later")
	cmd.Flags().StringVarP(&description, "description", "d", "", "A description for the command")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Ask the configured AI provider to draft the command")

	return cmd
}
