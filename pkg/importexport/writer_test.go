package importexport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/model"
)

func TestWriteCommandBare(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCommand(&buf, model.Command{Cmd: "docker ps -a"}, false))
	assert.Equal(t, "#\ndocker ps -a\n\n", buf.String())
}

func TestWriteCommandWithDescription(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCommand(&buf, model.Command{Cmd: "docker ps -a", Description: "list containers"}, false))
	assert.Equal(t, "# list containers\ndocker ps -a\n\n", buf.String())
}

func TestWriteCommandWithAliasOnly(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCommand(&buf, model.Command{Cmd: "docker ps -a", Alias: "dps"}, false))
	assert.Equal(t, "# [alias:dps]\ndocker ps -a\n\n", buf.String())
}

func TestWriteCommandWithSingleLineDescriptionAndAlias(t *testing.T) {
	var buf strings.Builder
	c := model.Command{Cmd: "docker ps -a", Alias: "dps", Description: "list containers"}
	require.NoError(t, WriteCommand(&buf, c, false))
	assert.Equal(t, "# [alias:dps] list containers\ndocker ps -a\n\n", buf.String())
}

func TestWriteCommandWithMultilineDescriptionAndAlias(t *testing.T) {
	var buf strings.Builder
	c := model.Command{Cmd: "docker ps -a", Alias: "dps", Description: "list containers\nverbose"}
	require.NoError(t, WriteCommand(&buf, c, false))
	assert.Equal(t, "# [alias:dps]\n# list containers\n# verbose\ndocker ps -a\n\n", buf.String())
}

func TestWriteCommandUsesBatchMarker(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCommand(&buf, model.Command{Cmd: "dir", Description: "list files"}, true))
	assert.Equal(t, ":: list files\ndir\n\n", buf.String())
}

func TestWriteCompletionGlobal(t *testing.T) {
	var buf strings.Builder
	c := model.VariableCompletion{Variable: "namespace", SuggestionsProvider: "kubectl get ns -o name"}
	require.NoError(t, WriteCompletion(&buf, c))
	assert.Equal(t, "$ namespace: kubectl get ns -o name\n", buf.String())
}

func TestWriteCompletionScoped(t *testing.T) {
	var buf strings.Builder
	c := model.VariableCompletion{RootCmd: "kubectl", Variable: "namespace", SuggestionsProvider: "kubectl get ns -o name"}
	require.NoError(t, WriteCompletion(&buf, c))
	assert.Equal(t, "$ (kubectl) namespace: kubectl get ns -o name\n", buf.String())
}

func TestWriteThenParseRoundTrips(t *testing.T) {
	original := model.Command{Cmd: "docker ps -a", Alias: "dps", Description: "list containers\nverbose"}

	var buf strings.Builder
	require.NoError(t, WriteCommand(&buf, original, false))

	items, err := Parse(strings.NewReader(buf.String()), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, original.Cmd, items[0].Command.Cmd)
	assert.Equal(t, original.Alias, items[0].Command.Alias)
	assert.Equal(t, original.Description, items[0].Command.Description)
}
