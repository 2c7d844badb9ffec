package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"syscall"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/importexport"
	"github.com/lasantosr/intelli-shell/pkg/importexport/source"
	"github.com/lasantosr/intelli-shell/pkg/model"
)

// ImportRequest bundles the inputs to ImportCommands. Exactly one of
// File/HTTP/Gist should be true to force an adapter; with none set, the
// adapter is inferred from Location's shape.
type ImportRequest struct {
	Location string
	File     bool
	HTTP     bool
	Gist     bool
	Filter   *regexp.Regexp
	DryRun   bool
	Tags     []string
	Headers  map[string]string
	Method   string
	Gists    GistSettings
}

// ExportRequest bundles the inputs to ExportCommands.
type ExportRequest struct {
	Location string
	File     bool
	HTTP     bool
	Gist     bool
	Filter   *regexp.Regexp
	Headers  map[string]string
	Method   string
	Gists    GistSettings
	Shell    string // used to pick the gist export file extension
}

// GistSettings mirrors the config file's `[gist]` section.
type GistSettings struct {
	ID    string
	Token string
}

// FetchImportContent resolves req.Location the same way ImportCommands does,
// but returns the raw content instead of parsing it as the bookmark file
// format. `import --ai` uses this to feed arbitrary documentation through
// the AI import prompt instead of the format parser.
func (s *Service) FetchImportContent(ctx context.Context, req ImportRequest) ([]byte, error) {
	content, _, _, err := s.fetchImportContent(ctx, req)
	return content, err
}

// ImportCommands resolves the location to an adapter, parses its content,
// and persists every command and completion found, skipping ones that
// already exist. A dry run parses and reports but never writes.
func (s *Service) ImportCommands(ctx context.Context, req ImportRequest) (importexport.ImportStats, error) {
	content, category, src, err := s.fetchImportContent(ctx, req)
	if err != nil {
		return importexport.ImportStats{}, err
	}

	items, err := importexport.Parse(bytes.NewReader(content), importexport.ParseOptions{
		Tags: req.Tags, Category: category, Source: src,
	})
	if err != nil {
		return importexport.ImportStats{}, ierrors.Wrap(err)
	}

	if req.DryRun {
		return s.dryRunImport(items, req.Filter)
	}

	var stats importexport.ImportStats
	for _, item := range items {
		switch {
		case item.Command != nil:
			if !matchesCommandFilter(req.Filter, *item.Command) {
				continue
			}
			if _, err := s.store.InsertCommand(ctx, *item.Command, s.flatten); err != nil {
				if errors.Is(err, ierrors.CommandAlreadyExists) {
					stats.CommandsSkipped++
					continue
				}
				return stats, err
			}
			stats.CommandsImported++

		case item.Completion != nil:
			c := *item.Completion
			c.FlatRootCmd = s.flatten(c.RootCmd)
			c.FlatVariable = s.flatten(c.Variable)
			if !matchesCompletionFilter(req.Filter, c) {
				continue
			}
			if _, err := s.store.InsertVariableCompletion(ctx, c); err != nil {
				if errors.Is(err, ierrors.CompletionAlreadyExists) {
					stats.CompletionsSkipped++
					continue
				}
				return stats, err
			}
			stats.CompletionsImported++
		}
	}
	return stats, nil
}

func (s *Service) dryRunImport(items []importexport.Item, filter *regexp.Regexp) (importexport.ImportStats, error) {
	var stats importexport.ImportStats
	var out bytes.Buffer
	for _, item := range items {
		switch {
		case item.Command != nil:
			if !matchesCommandFilter(filter, *item.Command) {
				continue
			}
			if err := importexport.WriteCommand(&out, *item.Command, false); err != nil {
				return stats, ierrors.Wrap(err)
			}
			stats.CommandsImported++
		case item.Completion != nil:
			if !matchesCompletionFilter(filter, *item.Completion) {
				continue
			}
			if err := importexport.WriteCompletion(&out, *item.Completion); err != nil {
				return stats, ierrors.Wrap(err)
			}
			stats.CompletionsImported++
		}
	}
	if _, err := io.Copy(os.Stdout, &out); err != nil {
		return stats, ierrors.Wrap(err)
	}
	return stats, nil
}

// fetchImportContent resolves req.Location to raw bookmark-file bytes (JSON
// HTTP responses are converted to the file format's DTOs first so a single
// parser handles every source), plus the category/source to stamp on
// imported commands.
func (s *Service) fetchImportContent(ctx context.Context, req ImportRequest) ([]byte, model.Category, model.Source, error) {
	useGist := req.Gist || (!req.File && !req.HTTP && importexport.LooksLikeGistLocation(req.Location))
	useHTTP := req.HTTP || (!req.File && !useGist && importexport.LooksLikeHTTPLocation(req.Location))

	switch {
	case useGist && !importexport.IsRawGistURL(req.Location):
		loc, err := importexport.ParseGistLocation(req.Location, req.Gists.ID)
		if err != nil {
			return nil, "", "", err
		}
		content, err := source.FetchGist(ctx, req.Gists.Token, loc.ID, loc.SHA, loc.File)
		if err != nil {
			return nil, "", "", err
		}
		return []byte(content), model.CategoryUser, model.SourceImport, nil

	case useHTTP || useGist: // raw gist URL: fetched as a plain GET
		method := req.Method
		if method == "" {
			method = http.MethodGet
		}
		res, err := source.FetchHTTP(ctx, s.httpClient, req.Location, method, req.Headers, nil)
		if err != nil {
			return nil, "", "", err
		}
		if res.JSON {
			body, err := dtosToFileFormat(res.Body)
			if err != nil {
				return nil, "", "", err
			}
			return body, model.CategoryUser, model.SourceImport, nil
		}
		return res.Body, model.CategoryUser, model.SourceImport, nil

	default:
		f, err := source.OpenFile(req.Location)
		if err != nil {
			return nil, "", "", err
		}
		defer f.Close()
		body, err := io.ReadAll(f)
		if err != nil {
			return nil, "", "", ierrors.Wrap(err)
		}
		return body, model.CategoryUser, model.SourceImport, nil
	}
}

// dtosToFileFormat converts a JSON array of CommandDTO into the bookmark
// file format, so it can flow through the same importexport.Parse path as
// every other source.
func dtosToFileFormat(body []byte) ([]byte, error) {
	var dtos []importexport.CommandDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, ierrors.HttpRequestFailedErr{Msg: "couldn't parse response: " + err.Error()}
	}
	var out bytes.Buffer
	for _, d := range dtos {
		c := d.ToCommand(model.CategoryUser, model.SourceImport)
		if err := importexport.WriteCommand(&out, c, false); err != nil {
			return nil, ierrors.Wrap(err)
		}
	}
	return out.Bytes(), nil
}

// ExportCommands resolves the location to an adapter and writes every
// user command (and completion) matching filter, returning how many were
// written. The HTTP adapter sends commands only. A broken pipe while writing
// to stdout is treated as a successful export.
func (s *Service) ExportCommands(ctx context.Context, req ExportRequest) (importexport.ExportStats, error) {
	commands, err := s.store.ListUserCommands(ctx, req.Filter)
	if err != nil {
		return importexport.ExportStats{}, err
	}
	completions, err := s.filteredCompletions(ctx, req.Filter)
	if err != nil {
		return importexport.ExportStats{}, err
	}
	stats := importexport.ExportStats{CommandsExported: int64(len(commands)), CompletionsExported: int64(len(completions))}
	if stats.Total() == 0 {
		return stats, nil
	}

	useGist := req.Gist || (!req.File && !req.HTTP && importexport.LooksLikeGistLocation(req.Location))
	useHTTP := req.HTTP || (!req.File && !useGist && importexport.LooksLikeHTTPLocation(req.Location))

	switch {
	case useGist:
		return stats, s.exportToGist(ctx, req, commands, completions)
	case useHTTP:
		stats.CompletionsExported = 0
		return stats, s.exportToHTTP(ctx, req, commands)
	default:
		return stats, s.exportToFile(req, commands, completions)
	}
}

func (s *Service) filteredCompletions(ctx context.Context, filter *regexp.Regexp) ([]model.VariableCompletion, error) {
	all, err := s.store.ListVariableCompletions(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return all, nil
	}
	out := all[:0]
	for _, c := range all {
		if matchesCompletionFilter(filter, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) exportToFile(req ExportRequest, commands []model.Command, completions []model.VariableCompletion) error {
	w, isBatch, err := source.CreateFile(req.Location)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := importexport.WriteAll(w, commands, completions, isBatch); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			return nil
		}
		return ierrors.FileBrokenPipe
	}
	return nil
}

func (s *Service) exportToHTTP(ctx context.Context, req ExportRequest, commands []model.Command) error {
	dtos := make([]importexport.CommandDTO, len(commands))
	for i, c := range commands {
		dtos[i] = importexport.CommandToDTO(c)
	}
	body, err := json.Marshal(dtos)
	if err != nil {
		return ierrors.Wrap(err)
	}
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	headers := req.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"
	_, err = source.FetchHTTP(ctx, s.httpClient, req.Location, method, headers, body)
	return err
}

func (s *Service) exportToGist(ctx context.Context, req ExportRequest, commands []model.Command, completions []model.VariableCompletion) error {
	loc, err := importexport.ParseGistLocation(req.Location, req.Gists.ID)
	if err != nil {
		return err
	}
	if loc.SHA != "" {
		return ierrors.ExportGistLocationHasSha
	}
	token, err := source.GistToken(req.Gists.Token)
	if err != nil {
		return err
	}

	extension := source.ShellExtension(req.Shell)
	if loc.File != "" {
		if i := strings.LastIndex(loc.File, "."); i >= 0 {
			extension = loc.File[i:]
		}
	}

	var content strings.Builder
	if err := importexport.WriteAll(&content, commands, completions, extension == ".cmd"); err != nil {
		return ierrors.Wrap(err)
	}

	return source.UpdateGist(ctx, token, loc.ID, loc.File, extension, content.String())
}

func matchesCommandFilter(filter *regexp.Regexp, c model.Command) bool {
	if filter == nil {
		return true
	}
	return filter.MatchString(c.Cmd) || filter.MatchString(c.Description)
}

func matchesCompletionFilter(filter *regexp.Regexp, c model.VariableCompletion) bool {
	if filter == nil {
		return true
	}
	return filter.MatchString(c.Variable) || filter.MatchString(c.SuggestionsProvider)
}

