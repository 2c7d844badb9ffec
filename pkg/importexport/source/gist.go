package source

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

const (
	readmeFilename      = "readme.md"
	readmeFilenameUpper = "README.md"
)

// GistToken resolves the GitHub personal access token to use for a gist
// write, preferring the GIST_TOKEN environment variable over the value
// configured in the gist section of the config file.
func GistToken(configured string) (string, error) {
	if token := os.Getenv("GIST_TOKEN"); token != "" {
		return token, nil
	}
	if configured != "" {
		return configured, nil
	}
	return "", ierrors.ExportGistMissingToken
}

func gistClient(token string) *github.Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

// FetchGist retrieves a gist (optionally pinned to sha) and returns its
// content: either the single named file, or every file joined with "\n"
// (skipping any README).
func FetchGist(ctx context.Context, token, id, sha, file string) (string, error) {
	client := gistClient(token)

	var gist *github.Gist
	var err error
	if sha != "" {
		gist, _, err = client.Gists.GetRevision(ctx, id, sha)
	} else {
		gist, _, err = client.Gists.Get(ctx, id)
	}
	if err != nil {
		return "", ierrors.GistRequestFailedErr{Msg: err.Error()}
	}

	if file != "" {
		f, ok := gist.Files[github.GistFilename(file)]
		if !ok || f.Content == nil {
			return "", ierrors.GistFileNotFound
		}
		return *f.Content, nil
	}

	var parts []string
	for name, f := range gist.Files {
		if string(name) == readmeFilename || string(name) == readmeFilenameUpper {
			continue
		}
		if f.Content != nil {
			parts = append(parts, *f.Content)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// UpdateGist patches a gist with the given content, writing it to the named
// file (auto-picking the sole file matching extension when file is empty),
// and, when no file is named, adding a README if the gist doesn't already
// have one.
func UpdateGist(ctx context.Context, token, id, explicitFile, extension, content string) error {
	client := gistClient(token)

	existing, _, err := client.Gists.Get(ctx, id)
	if err != nil {
		return ierrors.GistRequestFailedErr{Msg: err.Error()}
	}

	filename := explicitFile
	if filename == "" {
		var candidates []string
		for name := range existing.Files {
			if strings.HasSuffix(string(name), extension) {
				candidates = append(candidates, string(name))
			}
		}
		if len(candidates) == 1 {
			filename = candidates[0]
		} else {
			filename = "commands" + extension
		}
	}

	files := map[github.GistFilename]github.GistFile{
		github.GistFilename(filename): {Content: github.String(content)},
	}

	hasReadme := false
	for name := range existing.Files {
		if string(name) == readmeFilename || string(name) == readmeFilenameUpper {
			hasReadme = true
		}
	}
	if explicitFile == "" && !hasReadme {
		files[readmeFilename] = github.GistFile{Content: github.String(readmeContent(id))}
	}

	update := &github.Gist{Files: files}
	_, res, err := client.Gists.Edit(ctx, id, update)
	if err != nil {
		if res != nil && res.StatusCode == http.StatusNotFound {
			return ierrors.GistRequestFailedErr{Msg: "token missing permissions to update the gist"}
		}
		return ierrors.GistRequestFailedErr{Msg: err.Error()}
	}
	return nil
}

func readmeContent(id string) string {
	return "# IntelliShell Commands\n\n" +
		"These commands have been exported using intelli-shell, a command-line tool to bookmark and search commands.\n\n" +
		"You can easily import all the commands by running:\n\n" +
		"```sh\nintelli-shell import --gist " + id + "\n```"
}

// ShellExtension picks the export file extension for the current platform's
// default shell: ".cmd" on Windows cmd, ".ps1" under PowerShell, ".sh"
// otherwise.
func ShellExtension(shell string) string {
	switch shell {
	case "cmd":
		return ".cmd"
	case "powershell", "pwsh":
		return ".ps1"
	default:
		return ".sh"
	}
}
