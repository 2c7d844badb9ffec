package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/environment"
	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/model"
)

// fakeProvider is a scripted ai.Provider for testing without a real SDK.
type fakeProvider struct {
	response string
	err      error
	// captured, for assertions on the prompts a method actually sent.
	lastSystem, lastUser string
}

func (p *fakeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p.lastSystem, p.lastUser = systemPrompt, userPrompt
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func TestRenderPromptPlaceholdersExpandsKnownOnes(t *testing.T) {
	out := renderPromptPlaceholders("before\n##WORKING_DIR##\nafter", "", "")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
}

func TestRenderPromptPlaceholdersDropsHistoryWhenEmpty(t *testing.T) {
	out := renderPromptPlaceholders("##SHELL_HISTORY##", "", "")
	assert.NotContains(t, out, "SHELL_HISTORY")
	assert.NotContains(t, out, "history")
}

func TestRenderPromptPlaceholdersIncludesHistoryWhenGiven(t *testing.T) {
	out := renderPromptPlaceholders("##SHELL_HISTORY##", "", "ls -la\ncd /tmp")
	assert.Contains(t, out, "ls -la")
}

func TestParseSuggestionsStripsBulletsAndFences(t *testing.T) {
	lines := parseSuggestions("- `docker ps`\n\n* docker ps -a\ndocker images\n")
	assert.Equal(t, []string{"docker ps", "docker ps -a", "docker images"}, lines)
}

func TestAIPromptsWithDefaultsFillsOnlyBlankFields(t *testing.T) {
	p := AIPrompts{Fix: "custom fix prompt"}.WithDefaults()
	assert.Equal(t, "custom fix prompt", p.Fix)
	assert.Equal(t, DefaultAIPrompts().Suggest, p.Suggest)
}

func TestSuggestCommandsRequiresProvider(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	_, err := svc.SuggestCommands(t.Context(), nil, DefaultAIPrompts(), "list files")
	assert.Equal(t, ierrors.AiRequired, err)
}

func TestSuggestCommandsParsesMultipleLines(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	p := &fakeProvider{response: "docker ps\ndocker ps -a"}

	cmds, err := svc.SuggestCommands(t.Context(), p, DefaultAIPrompts(), "list docker containers")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "docker ps", cmds[0].Cmd)
	assert.Equal(t, model.CategoryUser, cmds[0].Category)
	assert.Equal(t, model.SourceAI, cmds[0].Source)
}

func TestSuggestCommandsErrorsOnEmptyResponse(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	p := &fakeProvider{response: "   \n  "}
	_, err := svc.SuggestCommands(t.Context(), p, DefaultAIPrompts(), "list files")
	assert.Equal(t, ierrors.AiEmptyCommand, err)
}

func TestSuggestCommandReturnsSingleSuggestion(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	p := &fakeProvider{response: "git log --oneline"}

	cmd, err := svc.SuggestCommand(t.Context(), p, DefaultAIPrompts(), "git log", "show history in one line")
	require.NoError(t, err)
	assert.Equal(t, "git log --oneline", cmd.Cmd)
}

func TestSuggestCommandRequiresCmdOrDescription(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	_, err := svc.SuggestCommand(t.Context(), &fakeProvider{}, DefaultAIPrompts(), "", "")
	assert.Equal(t, ierrors.AiEmptyCommand, err)
}

func TestPromptCommandsImportTagsEachCommand(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	p := &fakeProvider{response: "docker ps\ndocker images"}

	cmds, err := svc.PromptCommandsImport(
		t.Context(), p, DefaultAIPrompts(), "docker manual page content", []string{"docker"}, model.CategoryUser, model.SourceAI,
	)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, []string{"docker"}, cmds[0].Tags)
}

func TestPromptCommandsImportSkipsEmptyContent(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	cmds, err := svc.PromptCommandsImport(t.Context(), &fakeProvider{}, DefaultAIPrompts(), "   ", nil, model.CategoryUser, model.SourceAI)
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestSuggestCompletionRequiresVariable(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	_, err := svc.SuggestCompletion(t.Context(), &fakeProvider{}, DefaultAIPrompts(), "kubectl", "", "")
	assert.Equal(t, ierrors.CompletionEmptyVariable, err)
}

func TestSuggestCompletionReturnsTrimmedResponse(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	ctx := t.Context()

	_, err := svc.NewCommand(ctx, model.CategoryUser, model.SourceUser, "", "kubectl get pods -n {{namespace}}", "")
	require.NoError(t, err)

	p := &fakeProvider{response: "  kubectl get ns -o name  \n"}
	out, err := svc.SuggestCompletion(ctx, p, DefaultAIPrompts(), "kubectl", "namespace", "")
	require.NoError(t, err)
	assert.Equal(t, "kubectl get ns -o name", out)
	assert.Contains(t, p.lastUser, "kubectl get pods -n {{namespace}}")
}

func TestFixCommandReportsSuccessWithoutCallingProvider(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	p := &fakeProvider{response: "should not be used"}

	res, err := svc.FixCommand(t.Context(), p, DefaultAIPrompts(), "sh", "true", "")
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Empty(t, p.lastSystem)
}

func TestFixCommandAsksProviderOnFailure(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	p := &fakeProvider{response: "echo fixed"}

	res, err := svc.FixCommand(t.Context(), p, DefaultAIPrompts(), "sh", "exit 7", "")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, 7, res.ExitCode)
	assert.Equal(t, "echo fixed", res.Fix)
}

func TestFixCommandRejectsEmptyCommand(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	_, err := svc.FixCommand(t.Context(), &fakeProvider{}, DefaultAIPrompts(), "sh", "  ", "")
	assert.Equal(t, ierrors.EmptyCommand, err)
}

func TestFixCommandRequiresProvider(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	_, err := svc.FixCommand(t.Context(), nil, DefaultAIPrompts(), "sh", "exit 1", "")
	assert.Equal(t, ierrors.AiRequired, err)
}
