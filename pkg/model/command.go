package model

import (
	"strings"
	"time"
)

// Category identifies where a Command came from in terms of its visibility
// scope: the user's own bookmarks, the current workspace, or a tldr platform
// name such as "linux" or "common".
type Category string

const (
	CategoryUser      Category = "user"
	CategoryWorkspace Category = "workspace"
)

// IsTldr reports whether c names a tldr platform rather than user/workspace.
func (c Category) IsTldr() bool {
	return c != CategoryUser && c != CategoryWorkspace
}

// Source identifies how a Command entered the store.
type Source string

const (
	SourceUser      Source = "user"
	SourceAI        Source = "ai"
	SourceTldr      Source = "tldr"
	SourceImport    Source = "import"
	SourceWorkspace Source = "workspace"
)

// Command is a parameterized, bookmarked shell command.
type Command struct {
	ID       ID
	Category Category
	Source   Source
	Alias    string // optional
	Cmd      string // the template string; never contains a newline

	FlatCmd string // Cmd normalized for FTS, recomputed on every write

	Description     string // optional, may contain newlines
	FlatDescription string // Description normalized for FTS

	Tags []string // distinct #tag strings extracted from Description, in order

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RootCmd returns the first whitespace-delimited token of Cmd.
func (c Command) RootCmd() string {
	fields := strings.Fields(c.Cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// StripNewlines removes any newline characters from a command string, as
// required by the Cmd invariant.
func StripNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// ExtractTags returns the ordered, distinct `#tag` tokens found in text. A
// tag is `#` followed by one or more non-space characters.
func ExtractTags(text string) []string {
	var tags []string
	seen := make(map[string]bool)

	var current strings.Builder
	flush := func() {
		if current.Len() <= 1 { // empty, or a lone "#": not a tag
			current.Reset()
			return
		}
		tag := current.String()
		current.Reset()
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	inTag := false
	for _, r := range text {
		switch {
		case r == '#' && !inTag:
			inTag = true
			current.WriteRune(r)
		case inTag && !isSpace(r):
			current.WriteRune(r)
		case inTag && isSpace(r):
			flush()
			inTag = false
		}
	}
	flush()

	return tags
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// CommandUsage is a per-working-directory usage counter for a Command.
type CommandUsage struct {
	CommandID  ID
	Path       string
	UsageCount int64
}
