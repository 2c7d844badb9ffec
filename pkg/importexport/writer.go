package importexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/lasantosr/intelli-shell/pkg/model"
)

// WriteCommand emits one command in the bookmark file format:
// the description, each line prefixed with a comment marker (`#`, or `::`
// when isBatch names a Windows batch/cmd export), the alias tag inlined on a
// single-line description or on its own leading line for a multi-line one,
// the raw command, and a trailing blank separator.
func WriteCommand(w io.Writer, c model.Command, isBatch bool) error {
	marker := "#"
	if isBatch {
		marker = "::"
	}

	var aliasTag string
	if c.Alias != "" {
		aliasTag = fmt.Sprintf("[alias:%s]", c.Alias)
	}

	var content string
	switch {
	case c.Description == "" && aliasTag == "":
		_, err := fmt.Fprintf(w, "%s\n%s\n\n", marker, c.Cmd)
		return err
	case c.Description != "" && aliasTag == "":
		content = c.Description
	case c.Description == "" && aliasTag != "":
		content = aliasTag
	default:
		if strings.Contains(c.Description, "\n") {
			content = aliasTag + "\n" + c.Description
		} else {
			content = aliasTag + " " + c.Description
		}
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = marker + " " + line
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n\n", strings.Join(lines, "\n"), c.Cmd)
	return err
}

// WriteCompletion emits one completion line: `$ VAR: provider` when global,
// `$ (root) VAR: provider` when scoped.
func WriteCompletion(w io.Writer, c model.VariableCompletion) error {
	if c.IsGlobal() {
		_, err := fmt.Fprintf(w, "$ %s: %s\n", c.Variable, c.SuggestionsProvider)
		return err
	}
	_, err := fmt.Fprintf(w, "$ (%s) %s: %s\n", c.RootCmd, c.Variable, c.SuggestionsProvider)
	return err
}

// WriteAll emits every command followed by every completion, in that order.
func WriteAll(w io.Writer, commands []model.Command, completions []model.VariableCompletion, isBatch bool) error {
	for _, c := range commands {
		if err := WriteCommand(w, c, isBatch); err != nil {
			return err
		}
	}
	for _, c := range completions {
		if err := WriteCompletion(w, c); err != nil {
			return err
		}
	}
	return nil
}
