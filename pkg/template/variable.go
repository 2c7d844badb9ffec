package template

import "strings"

// Variable is a parsed `{{...}}` span: one or more pipe-separated options, an
// optional chain of transformation functions, and a secret flag.
type Variable struct {
	// Display is the span's inner text exactly as written, including the
	// one-layer `{...}`/`*...*` secret wrapper when present, so that
	// "{{" + Display + "}}" reconstructs the original span byte-for-byte.
	Display string

	// Options are the ordered, distinct `|`-separated alternatives.
	Options []string

	// FlatNames are the flattened form of each option, in the same order,
	// deduplicated.
	FlatNames []string

	// FlatName is FlatNames joined with "|", the key used to look up and
	// store values for this variable.
	FlatName string

	Functions Functions
	Secret    bool
}

// ParseVariable parses the inner text of a `{{...}}` span. inner is the
// exact text between the outer braces, including the `{...}`/`*...*` secret
// wrapper when secret is true (the form used by `{{{...}}}` and
// `{{*...*}}` respectively); it becomes Display unchanged, while the
// wrapper itself is stripped before splitting options and functions.
func ParseVariable(inner string, secret bool) Variable {
	content := inner
	if secret && len(content) >= 2 {
		content = content[1 : len(content)-1]
	}
	parts := strings.Split(content, ":")

	// Walk right-to-left collecting trailing function names; the first
	// non-function part (from the right) terminates collection.
	cut := len(parts)
	var fns Functions
	for i := len(parts) - 1; i > 0; i-- {
		fn, ok := ParseFunction(strings.TrimSpace(parts[i]))
		if !ok {
			break
		}
		fns = append(Functions{fn}, fns...)
		cut = i
	}

	optionStr := strings.Join(parts[:cut], ":")
	options := splitDistinct(optionStr, "|")

	flatNames := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		flat := FlattenStr(opt)
		if flat == "" || seen[flat] {
			continue
		}
		seen[flat] = true
		flatNames = append(flatNames, flat)
	}

	return Variable{
		Display:   inner,
		Options:   options,
		FlatNames: flatNames,
		FlatName:  strings.Join(flatNames, "|"),
		Functions: fns,
		Secret:    secret,
	}
}

// splitDistinct splits s on sep, trims each piece, and keeps only the first
// occurrence of each distinct non-empty value, preserving order.
func splitDistinct(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, piece := range raw {
		piece = strings.TrimSpace(piece)
		if piece == "" || seen[piece] {
			continue
		}
		seen[piece] = true
		out = append(out, piece)
	}
	return out
}

// EnvVarNames returns the set of environment variable name candidates for
// this variable: the screaming-snake form of Display, of FlatName, and
// (when includeOptions is true) of each individual option. PATH is never
// returned. Order is stable (first occurrence wins) and duplicates are
// removed.
func (v Variable) EnvVarNames(includeOptions bool) []string {
	var names []string
	add := func(s string) {
		if name := ScreamingSnake(s); name != "" {
			names = append(names, name)
		}
	}

	add(v.Display)
	add(v.FlatName)
	if includeOptions {
		for _, opt := range v.Options {
			add(opt)
		}
	}

	// Dedupe while preserving first-seen order.
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
