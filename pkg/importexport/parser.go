package importexport

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/lasantosr/intelli-shell/pkg/model"
)

// Item is one parsed line-group: exactly one of Command or Completion is set.
type Item struct {
	Command    *model.Command
	Completion *model.VariableCompletion
}

// ParseOptions configures Parse.
type ParseOptions struct {
	Tags     []string
	Category model.Category
	Source   model.Source
}

// Parse reads the bookmark file format from r, returning every command and
// completion it contains, in encounter order.
func Parse(r io.Reader, opts ParseOptions) ([]Item, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	tags := normalizeTags(opts.Tags)
	p := &parser{lines: lines, tags: tags, category: opts.Category, source: opts.Source}
	return p.run()
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		out = append(out, tag)
	}
	return out
}

type parser struct {
	lines    []string
	i        int
	tags     []string
	category model.Category
	source   model.Source

	descBuffer []string
	descPaused bool
}

func (p *parser) next() (string, bool) {
	if p.i >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.i]
	p.i++
	return line, true
}

func (p *parser) run() ([]Item, error) {
	var items []Item

	for {
		line, ok := p.next()
		if !ok {
			return items, nil
		}

		if line == "#!intelli-shell" {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "> ") || strings.HasPrefix(trimmed, "```") {
			continue
		}

		if rootCmd, variable, provider, ok := parseCompletionLine(trimmed); ok {
			p.descBuffer = nil
			p.descPaused = false
			items = append(items, Item{Completion: &model.VariableCompletion{
				Source:              p.source,
				RootCmd:             rootCmd,
				Variable:            variable,
				SuggestionsProvider: provider,
			}})
			continue
		}

		if content, isComment := commentContent(line); isComment {
			if p.descPaused {
				p.descBuffer = nil
			}
			p.descBuffer = append(p.descBuffer, content)
			p.descPaused = false
			continue
		}

		if trimmed == "" {
			if len(p.descBuffer) > 0 {
				p.descPaused = true
			}
			continue
		}

		items = append(items, Item{Command: p.parseCommand(line)})
	}
}

// parseCommand consumes the current command line (and any continuation
// lines), returning the assembled Command. p.i has already advanced past
// the first line.
func (p *parser) parseCommand(firstLine string) *model.Command {
	current := firstLine
	var parts []string
	var inlineDescription *string

	for {
		if _, isComment := commentContent(current); isComment || strings.TrimSpace(current) == "" {
			next, ok := p.next()
			if !ok {
				break
			}
			current = next
			continue
		}

		segment, desc, hasInline := strings.Cut(current, " ## ")
		if hasInline && inlineDescription == nil {
			d := strings.TrimSpace(desc)
			inlineDescription = &d
		}

		if stripped, ok := strings.CutSuffix(strings.TrimSpace(segment), "\\"); ok {
			parts = append(parts, strings.TrimSpace(stripped))
			next, ok := p.next()
			if !ok {
				break
			}
			current = next
			continue
		}

		parts = append(parts, strings.TrimSpace(segment))
		break
	}

	fullCmd := strings.Join(parts, " ")
	if strings.HasPrefix(fullCmd, "`") && strings.HasSuffix(fullCmd, "`") && len(fullCmd) >= 2 {
		fullCmd = fullCmd[1 : len(fullCmd)-1]
	}

	var preDescription string
	if inlineDescription != nil {
		preDescription = *inlineDescription
	} else {
		preDescription = strings.Join(p.descBuffer, "\n")
	}

	alias, description := extractAlias(preDescription)
	description = strings.TrimSuffix(description, ":")
	description = injectTags(description, p.tags)

	p.descBuffer = nil
	p.descPaused = false

	var descPtr string
	var aliasVal string
	if description != "" {
		descPtr = description
	}
	if alias != "" {
		aliasVal = alias
	}

	return &model.Command{
		ID:          model.NewID(),
		Category:    p.category,
		Source:      p.source,
		Alias:       aliasVal,
		Cmd:         model.StripNewlines(fullCmd),
		Description: descPtr,
	}
}

// commentContent returns a comment line's stripped content and true, or
// ("", false) if line isn't a comment.
func commentContent(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"#", "//", "::"} {
		if rest, ok := strings.CutPrefix(trimmed, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	if rest, ok := strings.CutPrefix(trimmed, "- "); ok {
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// parseCompletionLine recognizes `$ VAR: provider` (global) and
// `$ (root) VAR: provider` (scoped) completion lines.
func parseCompletionLine(trimmed string) (rootCmd, variable, provider string, ok bool) {
	rest, found := strings.CutPrefix(trimmed, "$ ")
	if !found {
		return "", "", "", false
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "(") {
		end := strings.Index(rest, ")")
		if end < 0 {
			return "", "", "", false
		}
		rootCmd = strings.TrimSpace(rest[1:end])
		rest = strings.TrimSpace(rest[end+1:])
	}

	idx := strings.Index(rest, ":")
	if idx < 0 {
		return "", "", "", false
	}
	variable = strings.TrimSpace(rest[:idx])
	provider = strings.TrimSpace(rest[idx+1:])
	if variable == "" || provider == "" {
		return "", "", "", false
	}
	return rootCmd, variable, provider, true
}

// aliasRe finds an alias tag at the very start or very end of a description.
var aliasRe = regexp.MustCompile(`(?s)(?:\A\s*\[alias:([^\]]+)\]\s*)|(?:\s*\[alias:([^\]]+)\]\s*\z)`)

// extractAlias pulls a `[alias:X]` tag from the start or end of description,
// returning the alias (if any) and the cleaned-up description.
func extractAlias(description string) (alias string, cleaned string) {
	match := aliasRe.FindStringSubmatchIndex(description)
	if match == nil {
		return "", strings.TrimSpace(description)
	}
	if match[2] >= 0 {
		alias = description[match[2]:match[3]]
	} else if match[4] >= 0 {
		alias = description[match[4]:match[5]]
	}
	cleaned = aliasRe.ReplaceAllString(description, "")
	return alias, strings.TrimSpace(cleaned)
}

// injectTags appends every tag not already present in description, using a
// space separator for single-line descriptions and a newline otherwise.
func injectTags(description string, tags []string) string {
	if len(tags) == 0 {
		return description
	}
	var missing []string
	for _, tag := range tags {
		if !strings.Contains(description, tag) {
			missing = append(missing, tag)
		}
	}
	if len(missing) == 0 {
		return description
	}
	joined := strings.Join(missing, " ")
	if description == "" {
		return joined
	}
	if strings.Contains(description, "\n") {
		return description + "\n" + joined
	}
	return description + " " + joined
}
