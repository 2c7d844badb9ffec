package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/internal/app"
	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/template"
)

func newReplaceCmd(state *rootState) *cobra.Command {
	var (
		envValues []string
		useEnv    bool
	)

	cmd := &cobra.Command{
		Use:   "replace [COMMAND]",
		Short: "Replace a command template's variables",
		Long: "Resolves every {{variable}} in COMMAND (or stdin, when COMMAND is '-' or omitted) and prints " +
			"the resulting command line. Each variable is resolved from --env, then from the environment when " +
			"--use-env is set; a variable that can't be resolved either way is an error.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readCommandArg(cmd, args)
			if err != nil {
				return err
			}

			resolved, err := resolveTemplate(cmd.Context(), state.App(), raw, envValues, useEnv)
			if err != nil {
				return err
			}
			return emitResult(state, cmd, resolved)
		},
	}

	cmd.Flags().StringArrayVarP(&envValues, "env", "e", nil, "KEY[=VALUE] binding for a variable, repeatable")
	cmd.Flags().BoolVarP(&useEnv, "use-env", "E", false, "Fall back to matching environment variables for any unresolved variable")

	return cmd
}

// readCommandArg returns args[0], or stdin's content when args is empty or
// args[0] is "-".
func readCommandArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(bufio.NewReader(cmd.InOrStdin()))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// explicitEnvValue looks up flat (a FlatNames entry of the pending variable)
// against the --env bindings, returning the bound value and whether a
// binding matched. A KEY-only binding (no "=value") reads its value from
// the environment using the variable's SCREAMING_SNAKE_CASE name.
func explicitEnvValue(env []string, getenv func(string) (string, bool), flat string) (string, bool) {
	for _, kv := range env {
		key, value, hasValue := strings.Cut(kv, "=")
		if template.FlattenStr(key) != flat {
			continue
		}
		if hasValue {
			return value, true
		}
		if v, ok := getenv(template.ScreamingSnake(key)); ok {
			return v, true
		}
		return "", false
	}
	return "", false
}

// resolveTemplate walks every pending variable of raw's parsed template,
// resolving each from explicit --env bindings first and, when useEnv is set,
// from the process environment next (mirroring service.ResolveVariable's
// step 4 candidate names, without the interactive suggestion list this
// non-interactive command has no TUI to render).
func resolveTemplate(ctx context.Context, a *app.App, raw string, envValues []string, useEnv bool) (string, error) {
	tmpl := template.Parse(raw, false)
	rootCmd := model.Command{Cmd: raw}.RootCmd()
	workingPath, _ := os.Getwd()

	getenv := func(name string) (string, bool) { return a.Env.Get(ctx, name) }

	for tmpl.HasPendingVariable() {
		v, _ := tmpl.CurrentVariable()

		value, found := "", false
		for _, flat := range v.FlatNames {
			if value, found = explicitEnvValue(envValues, getenv, flat); found {
				break
			}
		}

		if !found && v.Secret {
			return "", fmt.Errorf("no value given for secret variable {{%s}}", v.Display)
		}

		if !found && useEnv {
			for _, name := range v.EnvVarNames(true) {
				if raw, ok := getenv(name); ok && strings.TrimSpace(raw) != "" {
					value, found = v.Functions.Apply(raw), true
					break
				}
			}
		}

		if !found {
			return "", fmt.Errorf("no value given for variable {{%s}}", v.Display)
		}

		if err := a.Service.RecordVariableBinding(ctx, rootCmd, v, value, workingPath, model.Context(tmpl.CurrentVariableContext())); err != nil {
			return "", err
		}

		var ok bool
		tmpl, ok = tmpl.SetNextVariable(value)
		if !ok {
			break
		}
	}

	return tmpl.String(), nil
}
