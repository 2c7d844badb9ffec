package cli

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasantosr/intelli-shell/pkg/service"
)

func newExportCmd(state *rootState) *cobra.Command {
	var (
		asFile  bool
		asHTTP  bool
		asGist  bool
		filter  string
		headers []string
		method  string
	)

	cmd := &cobra.Command{
		Use:   "export [LOCATION]",
		Short: "Export bookmarked commands and completions",
		Long:  "Writes every bookmarked user command (and registered completion) to LOCATION, '-' for stdout (the default).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := state.App()
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

			req := service.ExportRequest{
				Location: location,
				File:     asFile,
				HTTP:     asHTTP,
				Gist:     asGist,
				Filter:   re,
				Headers:  hdrs,
				Method:   strings.ToUpper(method),
				Gists:    service.GistSettings{ID: a.Config.Gist.ID, Token: a.Config.Gist.Token},
				Shell:    shellName(),
			}

			stats, err := a.Service.ExportCommands(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d commands, %d completions\n", stats.CommandsExported, stats.CompletionsExported)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asFile, "file", false, "Treat the location as a file path")
	cmd.Flags().BoolVar(&asHTTP, "http", false, "Treat the location as a generic http(s) URL")
	cmd.Flags().BoolVar(&asGist, "gist", false, "Treat the location as a GitHub Gist URL or ID")
	cmd.Flags().StringVar(&filter, "filter", "", "Only export commands/completions matching this regular expression")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `Custom "KEY: VALUE" header, repeatable (HTTP locations only)`)
	cmd.Flags().StringVarP(&method, "request", "X", http.MethodPut, "HTTP method to use (HTTP locations only)")

	return cmd
}

// parseHeaders turns "KEY: VALUE" strings into a header map, for the shared
// export/import --header flag.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q, expected \"KEY: VALUE\"", h)
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out, nil
}

func shellName() string {
	s := strings.TrimSpace(os.Getenv("SHELL"))
	if s == "" {
		return ""
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}
