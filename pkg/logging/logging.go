package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lasantosr/intelli-shell/pkg/environment"
)

// LevelTrace sits one notch below slog.LevelDebug, matching the "trace"
// level used by filter(Error)("warn", "info", "debug", "trace") directives.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel accepts a tracing-subscriber-style filter string and returns
// the slog.Level it selects. Per-target directives (e.g. "intelli_shell::ai=debug,warn")
// are recognized but not scoped to individual loggers: only the last
// bare (no "target=") directive is used as the effective level, falling
// back to Info if the filter names no bare level.
func ParseLevel(filter string) slog.Level {
	level := slog.LevelInfo
	found := false
	for _, directive := range strings.Split(filter, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" || strings.Contains(directive, "=") {
			continue
		}
		if l, ok := levelFromName(directive); ok {
			level = l
			found = true
		}
	}
	if !found {
		return slog.LevelInfo
	}
	return level
}

func levelFromName(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "error":
		return slog.LevelError, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "info":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	case "trace":
		return LevelTrace, true
	case "off":
		return slog.LevelError + 4, true
	default:
		return 0, false
	}
}

// EffectiveFilter returns the INTELLI_LOG environment variable when set,
// otherwise cfgFilter (the `logs.filter` config value).
func EffectiveFilter(ctx context.Context, env environment.Provider, cfgFilter string) string {
	if v, ok := env.Get(ctx, "INTELLI_LOG"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return cfgFilter
}

// Configure installs the process-wide slog default logger. When enabled is
// false the default logger discards everything and a no-op closer is
// returned. Otherwise it opens (creating if needed) a RotatingFile at
// "${dataDir}/intelli-shell.log" and installs a text handler over it,
// leveled by filter (see ParseLevel). The caller must Close the returned
// closer on shutdown to flush and release the file handle.
func Configure(dataDir string, enabled bool, filter string) (io.Closer, error) {
	if !enabled {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nopCloser{}, nil
	}

	rf, err := NewRotatingFile(filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(rf, &slog.HandlerOptions{
		Level: ParseLevel(filter),
	})))

	return rf, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
