package cli

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/internal/app"
	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/service"
)

func newImportCmd(state *rootState) *cobra.Command {
	var (
		useAI   bool
		dryRun  bool
		asFile  bool
		asHTTP  bool
		asGist  bool
		history string
		filter  string
		tags    []string
		headers []string
		method  string
	)

	cmd := &cobra.Command{
		Use:   "import [LOCATION]",
		Short: "Import commands and completions",
		Long:  "Reads LOCATION, '-' for stdin (the default), and bookmarks every command/completion it describes.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()

			if history != "" {
				if !useAI {
					return fmt.Errorf("--history requires --ai")
				}
				return importFromHistory(cmd, a, history, tags)
			}

			location := "-"
			if len(args) > 0 {
				location = args[0]
			}

			var re *regexp.Regexp
			if filter != "" {
				var err error
				re, err = regexp.Compile(filter)
				if err != nil {
					return fmt.Errorf("invalid --filter regular expression: %w", err)
				}
			}

			hdrs, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			if useAI {
				return importWithAI(cmd, a, location, asFile, asHTTP, asGist, hdrs, method, tags, dryRun)
			}

			stats, err := a.Service.ImportCommands(cmd.Context(), service.ImportRequest{
				Location: location,
				File:     asFile,
				HTTP:     asHTTP,
				Gist:     asGist,
				Filter:   re,
				DryRun:   dryRun,
				Tags:     tags,
				Headers:  hdrs,
				Method:   strings.ToUpper(method),
				Gists:    service.GistSettings{ID: a.Config.Gist.ID, Token: a.Config.Gist.Token},
			})
			if err != nil {
				return err
			}
			if !dryRun {
				fmt.Fprintf(cmd.ErrOrStderr(), "imported %d commands, %d completions (skipped %d, %d already present)\n",
					stats.CommandsImported, stats.CompletionsImported, stats.CommandsSkipped, stats.CompletionsSkipped)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useAI, "ai", false, "Use AI to parse and extract commands from free-form content")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and print the commands without importing them")
	cmd.Flags().BoolVar(&asFile, "file", false, "Treat the location as a file path")
	cmd.Flags().BoolVar(&asHTTP, "http", false, "Treat the location as a generic http(s) URL")
	cmd.Flags().BoolVar(&asGist, "gist", false, "Treat the location as a GitHub Gist URL or ID")
	cmd.Flags().StringVar(&history, "history", "", "Treat the location as a shell history source (requires --ai): bash, zsh, fish, powershell, nushell or atuin")
	cmd.Flags().StringVar(&filter, "filter", "", "Only import commands/completions matching this regular expression")
	cmd.Flags().StringArrayVarP(&tags, "add-tag", "t", nil, "Hashtag appended to every imported command's description, repeatable")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `Custom "KEY: VALUE" header, repeatable (HTTP locations only)`)
	cmd.Flags().StringVarP(&method, "request", "X", http.MethodGet, "HTTP method to use (HTTP locations only)")

	return cmd
}

// importFromHistory reads source's shell history and hands it to the AI
// import prompt directly: service.ImportCommands expects bookmark-file
// content, which raw history never is, so this path bypasses it.
func importFromHistory(cmd *cobra.Command, a *app.App, history string, tags []string) error {
	text, err := service.ReadShellHistory(cmd.Context(), service.HistorySource(history))
	if err != nil {
		return err
	}
	cmds, err := a.Service.PromptCommandsImport(cmd.Context(), a.AI.Import, a.Prompts, text, tags, model.CategoryUser, model.SourceImport)
	if err != nil {
		return err
	}
	var inserted int64
	for _, c := range cmds {
		if _, err := a.Service.NewCommand(cmd.Context(), c.Category, c.Source, "", c.Cmd, c.Description); err != nil {
			continue
		}
		inserted++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "imported %d commands from shell history\n", inserted)
	return nil
}

// importWithAI fetches location's raw content the same way ImportCommands
// would, then converts it via AI instead of the format parser, since the
// content needn't be in the bookmark file format.
func importWithAI(
	cmd *cobra.Command, a *app.App, location string, asFile, asHTTP, asGist bool, headers map[string]string, method string, tags []string, dryRun bool,
) error {
	content, err := a.Service.FetchImportContent(cmd.Context(), service.ImportRequest{
		Location: location, File: asFile, HTTP: asHTTP, Gist: asGist, Headers: headers, Method: strings.ToUpper(method),
		Gists: service.GistSettings{ID: a.Config.Gist.ID, Token: a.Config.Gist.Token},
	})
	if err != nil {
		return err
	}

	cmds, err := a.Service.PromptCommandsImport(cmd.Context(), a.AI.Import, a.Prompts, string(content), tags, model.CategoryUser, model.SourceImport)
	if err != nil {
		return err
	}

	if dryRun {
		for _, c := range cmds {
			fmt.Fprintln(cmd.OutOrStdout(), c.Cmd)
		}
		return nil
	}

	var imported, skipped int64
	for _, c := range cmds {
		if _, err := a.Service.NewCommand(cmd.Context(), c.Category, c.Source, "", c.Cmd, c.Description); err != nil {
			skipped++
			continue
		}
		imported++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "imported %d commands (skipped %d)\n", imported, skipped)
	return nil
}
