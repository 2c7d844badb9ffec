package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/model"
)

func TestBuildWiresStoreServiceAndLogging(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`data_dir = "`+filepath.ToSlash(filepath.Join(dir, "data"))+`"`), 0o600))

	a, err := Build(t.Context(), configPath)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Service)
	assert.NotNil(t, a.Version)
	assert.FileExists(t, filepath.Join(a.Config.DataDir, DatabaseFileName))

	_, err = a.Service.NewCommand(t.Context(), model.CategoryUser, model.SourceUser, "", "echo hi", "")
	require.NoError(t, err)
}

func TestBuildDisablesAIProvidersWhenConfigDoesNot(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`data_dir = "`+filepath.ToSlash(filepath.Join(dir, "data"))+`"`), 0o600))

	a, err := Build(t.Context(), configPath)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.AI.Suggest)
	assert.Nil(t, a.AI.Fix)
	assert.Nil(t, a.AI.Import)
	assert.Nil(t, a.AI.Completion)
}

func TestBuildEnablesAIProvidersFromCatalog(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
data_dir = "`+filepath.ToSlash(filepath.Join(dir, "data"))+`"`+`

[ai]
enabled = true

[ai.models]
suggest = "main"
fix = "main"
import = "main"
completion = "main"
fallback = ""

[ai.catalog.main]
provider = "ollama"
model = "llama3"
url = "http://localhost:11434"
api_key_env = "OLLAMA_API_KEY"
`), 0o600))

	a, err := Build(t.Context(), configPath)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.AI.Suggest)
	assert.NotNil(t, a.AI.Fix)
	assert.NotNil(t, a.AI.Import)
	assert.NotNil(t, a.AI.Completion)
}

func TestDefaultDataDirAndConfigPathAreNonEmpty(t *testing.T) {
	assert.NotEmpty(t, DefaultDataDir())
	assert.NotEmpty(t, DefaultConfigPath())
}
