package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/lasantosr/intelli-shell/pkg/ai"
	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/storage"
)

// AIPrompts are the per-feature system prompt templates (the `[ai.prompts]`
// config section). Each may reference the placeholders recognized by
// renderPromptPlaceholders.
type AIPrompts struct {
	Suggest    string
	Fix        string
	Import     string
	Completion string
}

// WithDefaults fills any blank field of p with the corresponding built-in
// prompt, letting a config file override a single feature's prompt while
// leaving the rest on defaults.
func (p AIPrompts) WithDefaults() AIPrompts {
	d := DefaultAIPrompts()
	if p.Suggest == "" {
		p.Suggest = d.Suggest
	}
	if p.Fix == "" {
		p.Fix = d.Fix
	}
	if p.Import == "" {
		p.Import = d.Import
	}
	if p.Completion == "" {
		p.Completion = d.Completion
	}
	return p
}

// DefaultAIPrompts returns the built-in system prompts used when the config
// file's `[ai.prompts]` table is empty.
func DefaultAIPrompts() AIPrompts {
	return AIPrompts{
		Suggest: "##OS_SHELL_INFO##\n##WORKING_DIR##\n" +
			"You are an expert CLI assistant. Generate one or more shell command templates satisfying the " +
			"user's request. Reply with one command per line, nothing else: no explanations, no markdown " +
			"fences, no numbering. Prefer reusable templates with {{variable}} placeholders over one-off " +
			"literal values.",
		Fix: "##OS_SHELL_INFO##\n##WORKING_DIR##\n##SHELL_HISTORY##" +
			"You are an expert CLI assistant. The user ran a command that failed; diagnose the failure from " +
			"its output and reply with a single corrected command line, nothing else.",
		Import: "You are an expert CLI assistant converting free-form documentation into shell command " +
			"bookmarks. Reply with one command template per line, nothing else.",
		Completion: "You are an expert CLI assistant. Reply with a single shell command line, nothing else, " +
			"that prints candidate completion values for a variable, one per line, when run.",
	}
}

var promptPlaceholderRe = regexp.MustCompile(`##([A-Z_]+)##`)

// renderPromptPlaceholders expands the ##NAME## placeholders recognized in
// prompt templates: `##OS_SHELL_INFO##`, `##WORKING_DIR##` and
// `##SHELL_HISTORY##`.
func renderPromptPlaceholders(prompt, rootCmd, history string) string {
	return promptPlaceholderRe.ReplaceAllStringFunc(prompt, func(m string) string {
		name := promptPlaceholderRe.FindStringSubmatch(m)[1]
		switch name {
		case "OS_SHELL_INFO":
			return osShellInfo(rootCmd) + "\n"
		case "WORKING_DIR":
			return workingDirSummary() + "\n"
		case "SHELL_HISTORY":
			if strings.TrimSpace(history) == "" {
				return ""
			}
			return fmt.Sprintf("### User shell history (oldest to newest):\n%s\n", history)
		default:
			return ""
		}
	})
}

func osShellInfo(rootCmd string) string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "unknown shell"
	}
	info := fmt.Sprintf("### Context:\n- OS: %s/%s\n- Shell: %s", runtime.GOOS, runtime.GOARCH, shell)
	if rootCmd != "" {
		if out, err := exec.Command(rootCmd, "--version").Output(); err == nil {
			if line := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0]); line != "" {
				info += "\n- " + line
			}
		}
	}
	return info
}

const (
	workingDirMaxEntries = 30
)

// workingDirSummary lists the current directory's immediate entries, giving
// the model enough context to reference real file names without walking the
// whole tree (a single-level listing, capped at workingDirMaxEntries
// entries).
func workingDirSummary() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	entries, err := os.ReadDir(wd)
	if err != nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "### Working directory (%s):\n", wd)
	for i, e := range entries {
		if i >= workingDirMaxEntries {
			fmt.Fprintf(&b, "- … (%d more)\n", len(entries)-workingDirMaxEntries)
			break
		}
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}

// parseSuggestions splits a plain-text AI response into one command per
// non-empty line, stripping a leading "- " or "* " bullet if present.
func parseSuggestions(response string) []string {
	var out []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = strings.Trim(line, "`")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SuggestCommands asks provider for one or more command templates matching
// a free-text goal, returning unsaved model.Command values (category user,
// source ai) for the caller to persist or discard.
func (s *Service) SuggestCommands(ctx context.Context, provider ai.Provider, prompts AIPrompts, goal string) ([]model.Command, error) {
	if provider == nil {
		return nil, ierrors.AiRequired
	}
	sysPrompt := renderPromptPlaceholders(prompts.Suggest, "", "")
	resp, err := provider.Generate(ctx, sysPrompt, goal)
	if err != nil {
		return nil, err
	}
	lines := parseSuggestions(resp)
	if len(lines) == 0 {
		return nil, ierrors.AiEmptyCommand
	}
	cmds := make([]model.Command, 0, len(lines))
	for _, line := range lines {
		cmds = append(cmds, model.Command{Category: model.CategoryUser, Source: model.SourceAI, Cmd: model.StripNewlines(line)})
	}
	return cmds, nil
}

// SuggestCommand is SuggestCommands narrowed to a single suggestion, used by
// `new --ai` and `search --ai` to turn a cmd/description pair (or either
// alone) into one command template.
func (s *Service) SuggestCommand(ctx context.Context, provider ai.Provider, prompts AIPrompts, cmd, description string) (model.Command, error) {
	cmd, description = strings.TrimSpace(cmd), strings.TrimSpace(description)
	var goal string
	switch {
	case cmd != "" && description != "":
		goal = fmt.Sprintf("Output a single suggestion, with just one command template.\nGoal: %s\nYou can use this as the base: %s", description, cmd)
	case description != "":
		goal = fmt.Sprintf("Output a single suggestion, with just one command template.\nGoal: %s", description)
	case cmd != "":
		goal = fmt.Sprintf("Output a single suggestion, with just one command template.\nGoal: %s", cmd)
	default:
		return model.Command{}, ierrors.AiEmptyCommand
	}
	suggestions, err := s.SuggestCommands(ctx, provider, prompts, goal)
	if err != nil {
		return model.Command{}, err
	}
	return suggestions[0], nil
}

// PromptCommandsImport converts free-form text (e.g. a manual page) into
// bookmarked commands via AI, tagging each with category/source and the
// given tags, mirroring `import --ai`'s translation step.
func (s *Service) PromptCommandsImport(
	ctx context.Context, provider ai.Provider, prompts AIPrompts, content string, tags []string, category model.Category, source model.Source,
) ([]model.Command, error) {
	if provider == nil {
		return nil, ierrors.AiRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	sysPrompt := renderPromptPlaceholders(prompts.Import, "", "")
	resp, err := provider.Generate(ctx, sysPrompt, content)
	if err != nil {
		return nil, err
	}
	lines := parseSuggestions(resp)
	cmds := make([]model.Command, 0, len(lines))
	for _, line := range lines {
		c := model.Command{Category: category, Source: source, Cmd: model.StripNewlines(line)}
		if len(tags) > 0 {
			c.Tags = tags
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// SuggestCompletion asks provider for a shell command that prints candidate
// values for variable, giving it existing command templates that reference
// it as grounding context (mirroring suggest_completion's regex-gathered
// context).
func (s *Service) SuggestCompletion(ctx context.Context, provider ai.Provider, prompts AIPrompts, rootCmd, variable, description string) (string, error) {
	if provider == nil {
		return "", ierrors.AiRequired
	}
	variable = strings.TrimSpace(variable)
	if variable == "" {
		return "", ierrors.CompletionEmptyVariable
	}
	rootCmd, description = strings.TrimSpace(rootCmd), strings.TrimSpace(description)

	variablePattern := fmt.Sprintf(`\{\{(?:[^}]+[|:])?%s(?:[|:][^}]+)?\}\}`, regexp.QuoteMeta(variable))
	var cmdRegex string
	if rootCmd != "" {
		cmdRegex = fmt.Sprintf(`^%s\s.*%s.*$`, regexp.QuoteMeta(rootCmd), variablePattern)
	} else {
		cmdRegex = fmt.Sprintf(`^.*%s.*$`, variablePattern)
	}

	result, err := s.SearchCommands(ctx, storage.SearchRequest{Mode: storage.ModeRegex, RawQuery: cmdRegex})
	if err != nil {
		return "", err
	}
	var examples []string
	for _, sc := range result.Ranked {
		examples = append(examples, sc.Command.Cmd)
	}

	var userPrompt strings.Builder
	fmt.Fprintf(&userPrompt, "Write a shell command that generates completion suggestions for the `%s` variable.\n", variable)
	if rootCmd != "" {
		fmt.Fprintf(&userPrompt, "This completion will be used only for commands starting with `%s`.\n", rootCmd)
	}
	if len(examples) > 0 {
		fmt.Fprintf(&userPrompt, "\nFor context, here are some existing command templates that use this variable:\n---\n%s\n---\n", strings.Join(examples, "\n"))
	}
	if description != "" {
		fmt.Fprintf(&userPrompt, "\n%s\n", description)
	}

	sysPrompt := renderPromptPlaceholders(prompts.Completion, "", "")
	resp, err := provider.Generate(ctx, sysPrompt, userPrompt.String())
	if err != nil {
		return "", err
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", ierrors.AiEmptyCommand
	}
	return resp, nil
}

// FixResult is the outcome of FixCommand.
type FixResult struct {
	// Succeeded reports whether the original command ran successfully,
	// meaning no fix was requested.
	Succeeded bool
	ExitCode  int
	Stdout    string
	Stderr    string
	// Fix is the AI-suggested replacement command; empty when Succeeded.
	Fix string
}

// FixCommand runs command through shell, and if it fails, asks provider to
// diagnose and correct it from the captured output.
func (s *Service) FixCommand(ctx context.Context, provider ai.Provider, prompts AIPrompts, shell, command, history string) (FixResult, error) {
	if provider == nil {
		return FixResult{}, ierrors.AiRequired
	}
	if strings.TrimSpace(command) == "" {
		return FixResult{}, ierrors.EmptyCommand
	}
	if shell == "" {
		shell = "sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return FixResult{}, ierrors.Wrap(runErr)
		}
	}

	if exitCode == 0 {
		return FixResult{Succeeded: true, Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}

	rootCmd := model.Command{Cmd: command}.RootCmd()
	sysPrompt := renderPromptPlaceholders(prompts.Fix, rootCmd, history)
	userPrompt := fmt.Sprintf(
		"I've run a command but it failed, help me fix it.\n\ncommand: %s\nexit code: %d\noutput:\n```\n%s\n```",
		command, exitCode, strings.TrimSpace(stdout.String()+stderr.String()),
	)

	resp, err := provider.Generate(ctx, sysPrompt, userPrompt)
	if err != nil {
		return FixResult{}, err
	}
	fix := strings.TrimSpace(resp)
	if fix == "" {
		return FixResult{}, ierrors.AiEmptyCommand
	}

	return FixResult{
		Succeeded: false,
		ExitCode:  exitCode,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Fix:       model.StripNewlines(fix),
	}, nil
}
