package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("intelli_shell::ai=debug"))
}

func TestParseLevelRecognizesBareDirectives(t *testing.T) {
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
}

func TestParseLevelIgnoresTargetScopedDirectivesButKeepsBareOne(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("intelli_shell::ai=trace,debug"))
}

func TestParseLevelIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
}

type fakeEnv map[string]string

func (f fakeEnv) Get(_ context.Context, name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

func TestEffectiveFilterPrefersEnvVar(t *testing.T) {
	got := EffectiveFilter(t.Context(), fakeEnv{"INTELLI_LOG": "debug"}, "info")
	assert.Equal(t, "debug", got)
}

func TestEffectiveFilterFallsBackToConfigWhenEnvUnset(t *testing.T) {
	got := EffectiveFilter(t.Context(), fakeEnv{}, "warn")
	assert.Equal(t, "warn", got)
}

func TestEffectiveFilterFallsBackToConfigWhenEnvEmpty(t *testing.T) {
	got := EffectiveFilter(t.Context(), fakeEnv{"INTELLI_LOG": "  "}, "warn")
	assert.Equal(t, "warn", got)
}

func TestConfigureDisabledDiscardsAndDoesNotCreateFile(t *testing.T) {
	dir := t.TempDir()
	closer, err := Configure(dir, false, "info")
	require.NoError(t, err)
	defer closer.Close()

	slog.Default().Info("should be discarded")

	_, statErr := os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigureEnabledWritesToFixedPath(t *testing.T) {
	dir := t.TempDir()
	closer, err := Configure(dir, true, "debug")
	require.NoError(t, err)
	defer closer.Close()

	slog.Default().Debug("hello")

	content, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")
}
