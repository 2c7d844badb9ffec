package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/storage"
)

type stringReader string

func (r stringReader) Read(context.Context) ([]byte, error) { return []byte(r), nil }

func TestLoadDefaultsWhenFileEmpty(t *testing.T) {
	cfg, err := Load(t.Context(), stringReader(""), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
	assert.True(t, cfg.CheckUpdates)
	assert.Equal(t, storage.ModeAuto, cfg.Search.Mode)
	assert.Equal(t, 250, cfg.Search.Delay)
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	toml := `
check_updates = false

[search]
mode = "fuzzy"
`
	cfg, err := Load(t.Context(), stringReader(toml), "/tmp/data")
	require.NoError(t, err)
	assert.False(t, cfg.CheckUpdates)
	assert.Equal(t, storage.SearchMode("fuzzy"), cfg.Search.Mode)
	assert.Equal(t, 250, cfg.Search.Delay, "unspecified fields keep their default")
	assert.True(t, cfg.Inline, "unspecified top-level fields keep their default")
}

func TestLoadUsesExplicitDataDirOverDefault(t *testing.T) {
	cfg, err := Load(t.Context(), stringReader(`data_dir = "/custom"`), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, "/custom", cfg.DataDir)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load(t.Context(), stringReader("not = [valid"), "/tmp/data")
	var parseErr ierrors.ConfigParseFailedErr
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	cfg, err := Load(t.Context(), stringReader(`totally_unknown_field = "x"`), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
}

func TestLoadMergesKeybindingsWithDefaults(t *testing.T) {
	toml := `
[keybindings]
quit = "ctrl+c"
`
	cfg, err := Load(t.Context(), stringReader(toml), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl+c"}, cfg.Keybindings.Bindings()[ActionQuit])
	assert.Equal(t, []string{"ctrl+d"}, cfg.Keybindings.Bindings()[ActionDelete], "unspecified action keeps its default")
}

func TestLoadAcceptsKeybindingAsStringOrArray(t *testing.T) {
	toml := `
[keybindings]
quit = "esc"
delete = ["ctrl+d", "backspace"]
`
	cfg, err := Load(t.Context(), stringReader(toml), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, []string{"esc"}, cfg.Keybindings.Bindings()[ActionQuit])
	assert.Equal(t, []string{"ctrl+d", "backspace"}, cfg.Keybindings.Bindings()[ActionDelete])
}

func TestLoadRejectsKeybindingConflicts(t *testing.T) {
	toml := `
[keybindings]
quit = "ctrl+d"
delete = "ctrl+d"
`
	_, err := Load(t.Context(), stringReader(toml), "/tmp/data")
	var conflictErr ierrors.ConfigKeybindingConflictErr
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "ctrl+d", conflictErr.Key)
	assert.ElementsMatch(t, []string{"delete", "quit"}, conflictErr.Actions)
}

func TestDefaultKeybindingsHaveNoConflicts(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Keybindings.findConflicts())
}

func TestLoadPopulatesAICatalog(t *testing.T) {
	toml := `
[ai]
enabled = true

[ai.catalog.work]
provider = "openai"
model = "gpt-4o"
api_key_env = "WORK_OPENAI_KEY"
`
	cfg, err := Load(t.Context(), stringReader(toml), "/tmp/data")
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled)
	require.Contains(t, cfg.AI.Catalog, "work")
	assert.Equal(t, "openai", cfg.AI.Catalog["work"].Provider)
	assert.Equal(t, "gpt-4o", cfg.AI.Catalog["work"].Model)
	assert.Equal(t, "WORK_OPENAI_KEY", cfg.AI.Catalog["work"].APIKeyEnv)
	assert.Contains(t, cfg.AI.Catalog, "main", "default catalog entries are untouched when not overridden")
}

func TestLoadOverridesTuningWeights(t *testing.T) {
	toml := `
[tuning.commands]
prefix = 5.0

[tuning.commands.text]
command = 9.0
`
	cfg, err := Load(t.Context(), stringReader(toml), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Tuning.Commands.Prefix)
	assert.Equal(t, 9.0, cfg.Tuning.Commands.Text.Command)
	assert.Equal(t, 1.0, cfg.Tuning.Commands.Fuzzy, "unspecified tuning field keeps its default")
}

func TestFileReaderReturnsEmptyWhenMissing(t *testing.T) {
	r := FileReader{Path: "/nonexistent/path/config.toml"}
	data, err := r.Read(t.Context())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestLoadFileFallsBackToDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadFile(t.Context(), "/nonexistent/path/config.toml", "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
}
