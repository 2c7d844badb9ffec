package service

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/importexport"
	"github.com/lasantosr/intelli-shell/pkg/model"
)

const (
	tldrRepoURL    = "https://github.com/tldr-pages/tldr.git"
	tldrRepoBranch = "main"
)

// TldrStats reports how many tldr-sourced commands were inserted or already
// present (and thus skipped) by FetchTldrCommands.
type TldrStats struct {
	Inserted int64
	Skipped  int64
}

// FetchTldrCommands clones (or updates) the tldr-pages repository under
// "${dataDir}/tldr" and imports the command pages for the given categories
// into storage, each tagged with its platform as its Category. An empty
// category imports the platforms relevant to the running OS. commands, when
// non-empty, restricts the import to pages with a matching
// file name (without the .md extension).
func (s *Service) FetchTldrCommands(ctx context.Context, dataDir, category string, commands []string) (TldrStats, error) {
	repoPath := filepath.Join(dataDir, "tldr")
	if err := ensureTldrRepo(repoPath); err != nil {
		return TldrStats{}, err
	}

	categories := []string{category}
	if category == "" {
		categories = defaultTldrCategories()
	}

	pagesPath := filepath.Join(repoPath, "pages")
	var stats TldrStats
	err := filepath.WalkDir(pagesPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == pagesPath {
			return nil
		}
		if d.IsDir() {
			if !slices.Contains(categories, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		name, ok := strings.CutSuffix(d.Name(), ".md")
		if !ok {
			return nil
		}
		if len(commands) > 0 && !slices.Contains(commands, name) {
			return nil
		}

		platform := filepath.Base(filepath.Dir(path))
		content, err := os.ReadFile(path)
		if err != nil {
			return ierrors.Wrap(err)
		}

		items, err := importexport.Parse(bytes.NewReader(content), importexport.ParseOptions{
			Category: model.Category(platform),
			Source:   model.SourceTldr,
		})
		if err != nil {
			return ierrors.Wrap(err)
		}
		for _, item := range items {
			if item.Command == nil {
				continue
			}
			if _, err := s.store.InsertCommand(ctx, *item.Command, s.flatten); err != nil {
				if errors.Is(err, ierrors.CommandAlreadyExists) {
					stats.Skipped++
					continue
				}
				return err
			}
			stats.Inserted++
		}
		return nil
	})
	if err != nil {
		return stats, ierrors.Wrap(err)
	}
	return stats, nil
}

// ClearTldrCommands removes every imported tldr command, or only those of a
// single category when given.
func (s *Service) ClearTldrCommands(ctx context.Context, category string) (int64, error) {
	return s.store.DeleteTldrCommands(ctx, category)
}

func defaultTldrCategories() []string {
	cats := []string{"common"}
	switch runtime.GOOS {
	case "windows":
		cats = append(cats, "windows")
	case "darwin":
		cats = append(cats, "osx")
	case "android":
		cats = append(cats, "android")
	case "freebsd":
		cats = append(cats, "freebsd", "linux")
	case "openbsd":
		cats = append(cats, "openbsd", "linux")
	case "netbsd":
		cats = append(cats, "netbsd", "linux")
	default:
		cats = append(cats, "linux")
	}
	return cats
}

// ensureTldrRepo clones the tldr-pages repository on first use, or fetches
// and fast-forwards it on subsequent ones. Both are shallow (depth 1): the
// tool only ever reads the working tree, never the history.
func ensureTldrRepo(repoPath string) error {
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		repo, err := git.PlainOpen(repoPath)
		if err != nil {
			return ierrors.Wrap(err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return ierrors.Wrap(err)
		}
		err = wt.Pull(&git.PullOptions{
			RemoteName:    "origin",
			ReferenceName: plumbing.NewBranchReferenceName(tldrRepoBranch),
			SingleBranch:  true,
			Depth:         1,
			Force:         true,
		})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return ierrors.Wrap(err)
		}
		return nil
	}

	_, err := git.PlainClone(repoPath, false, &git.CloneOptions{
		URL:           tldrRepoURL,
		ReferenceName: plumbing.NewBranchReferenceName(tldrRepoBranch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return ierrors.Wrap(err)
	}
	return nil
}
