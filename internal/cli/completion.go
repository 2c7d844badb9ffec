package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/model"
)

// validRootCmdRe/validVariableRe are the CLI layer's own shape checks: the
// store only enforces the (root, variable) uniqueness constraint, not
// syntactic validity of either field, so completion new/delete validate
// before ever reaching storage.
var (
	validRootCmdRe  = regexp.MustCompile(`^\S+$`)
	validVariableRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
)

func newCompletionCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Manage variable dynamic completions",
	}
	cmd.AddCommand(newCompletionNewCmd(state), newCompletionDeleteCmd(state), newCompletionListCmd(state))
	return cmd
}

func newCompletionNewCmd(state *rootState) *cobra.Command {
	var (
		rootCmd string
		useAI   bool
	)

	cmd := &cobra.Command{
		Use:   "new VARIABLE [PROVIDER]",
		Short: "Register a completion command for a variable",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()

			variable := strings.TrimSpace(args[0])
			if err := validateCompletionFields(rootCmd, variable); err != nil {
				return err
			}

			var provider string
			if len(args) > 1 {
				provider = args[1]
			}

			if provider == "" {
				if !useAI {
					return ierrors.CompletionEmptySuggestionsProvider
				}
				p, err := a.Service.SuggestCompletion(cmd.Context(), a.AI.Completion, a.Prompts, rootCmd, variable, "")
				if err != nil {
					return err
				}
				provider = p
			}

			c, err := a.Service.NewVariableCompletion(cmd.Context(), model.SourceUser, rootCmd, variable, provider)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered completion #%d for %s\n", c.ID, completionLabel(c.RootCmd, c.Variable))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootCmd, "command", "c", "", "Root command this completion applies to, omit for a global completion")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Ask the configured AI provider to draft the completion command")

	return cmd
}

func newCompletionDeleteCmd(state *rootState) *cobra.Command {
	var rootCmd string

	cmd := &cobra.Command{
		Use:   "delete VARIABLE",
		Short: "Unregister a variable completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()

			variable := strings.TrimSpace(args[0])
			if err := validateCompletionFields(rootCmd, variable); err != nil {
				return err
			}

			existing, err := a.Service.ResolveCompletionProvider(cmd.Context(), rootCmd, variable)
			if err != nil {
				return err
			}
			if existing == nil || existing.RootCmd != rootCmd {
				return fmt.Errorf("no completion registered for %s", completionLabel(rootCmd, variable))
			}

			if err := a.Service.DeleteVariableCompletion(cmd.Context(), existing.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted completion for %s\n", completionLabel(rootCmd, variable))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootCmd, "command", "c", "", "Root command of the completion to delete, omit for a global completion")

	return cmd
}

func newCompletionListCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list [COMMAND]",
		Short: "List configured variable completions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()
			var filterRootCmd string
			if len(args) > 0 {
				filterRootCmd = args[0]
			}

			all, err := a.Service.ListVariableCompletions(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range all {
				if filterRootCmd != "" && c.RootCmd != filterRootCmd {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\n", c.ID, completionLabel(c.RootCmd, c.Variable), c.SuggestionsProvider)
			}
			return nil
		},
	}
}

func completionLabel(rootCmd, variable string) string {
	if rootCmd == "" {
		return fmt.Sprintf("{{%s}} (global)", variable)
	}
	return fmt.Sprintf("{{%s}} under %q", variable, rootCmd)
}

// validateCompletionFields checks the shape of rootCmd (when given) and
// variable before they ever reach storage, producing the named error kinds
// the store's uniqueness check alone can't.
func validateCompletionFields(rootCmd, variable string) error {
	if variable == "" {
		return ierrors.CompletionEmptyVariable
	}
	if !validVariableRe.MatchString(variable) {
		return ierrors.CompletionInvalidVariable
	}
	if rootCmd != "" && !validRootCmdRe.MatchString(rootCmd) {
		return ierrors.CompletionInvalidCommand
	}
	return nil
}
