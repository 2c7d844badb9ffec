package template

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FlattenStr normalizes s for comparison and full-text indexing: it applies
// NFKD decomposition, strips combining marks, lower-cases, collapses any run
// of non-alphanumeric runes into a single space, and trims the result.
func FlattenStr(s string) string {
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	lastWasSpace := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			// combining mark, drop it
			continue
		}
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastWasSpace = false
			continue
		}
		if !lastWasSpace {
			b.WriteRune(' ')
			lastWasSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// ScreamingSnake converts text into an env-var-style candidate name: uppercase
// with every run of non-alphanumeric runes collapsed to a single underscore.
// The special name PATH is never returned, since it would shadow the shell's
// own PATH variable.
func ScreamingSnake(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastWasUnderscore := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			lastWasUnderscore = false
			continue
		}
		if !lastWasUnderscore {
			b.WriteRune('_')
			lastWasUnderscore = true
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "PATH" {
		return ""
	}
	return name
}
