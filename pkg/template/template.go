package template

import "strings"

// PartKind discriminates the three kinds of template part.
type PartKind int

const (
	PartText PartKind = iota
	PartVar
	PartBound
)

// Part is one piece of a parsed command template.
type Part struct {
	Kind  PartKind
	Text  string   // set when Kind == PartText
	Var   Variable // set when Kind == PartVar or PartBound
	Value string   // set when Kind == PartBound
}

// CommandTemplate is a command string parsed into text and variable spans.
type CommandTemplate struct {
	Parts []Part
}

// Parse splits s into a CommandTemplate. altSyntax additionally recognizes
// `<name>` spans as variables (equivalent in every other respect to
// `{{name}}`); the output model is identical regardless of which syntax was
// used to write a given span.
func Parse(s string, altSyntax bool) CommandTemplate {
	var parts []Part
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			parts = append(parts, Part{Kind: PartText, Text: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if strings.HasPrefix(s[i:], "{{{") {
			if end := strings.Index(s[i+3:], "}}}"); end >= 0 {
				// Keep the one-layer "{...}" wrapper in Display so String()
				// can reconstruct the original triple-brace span.
				inner := "{" + s[i+3:i+3+end] + "}"
				flushText()
				parts = append(parts, Part{Kind: PartVar, Var: ParseVariable(inner, true)})
				i += 3 + end + 3
				continue
			}
		}
		if strings.HasPrefix(s[i:], "{{") {
			if rest, secret := strings.CutPrefix(s[i+2:], "*"); secret {
				if end := strings.Index(rest, "*}}"); end >= 0 {
					// Keep the one-layer "*...*" wrapper in Display so
					// String() can reconstruct the original span.
					inner := "*" + rest[:end] + "*"
					flushText()
					parts = append(parts, Part{Kind: PartVar, Var: ParseVariable(inner, true)})
					i += 2 + 1 + end + 3
					continue
				}
			}
			if end := strings.Index(s[i+2:], "}}"); end >= 0 {
				inner := s[i+2 : i+2+end]
				flushText()
				parts = append(parts, Part{Kind: PartVar, Var: ParseVariable(inner, false)})
				i += 2 + end + 2
				continue
			}
		}
		if altSyntax && s[i] == '<' {
			if end := strings.Index(s[i+1:], ">"); end >= 0 {
				inner := s[i+1 : i+1+end]
				// Only treat as a variable span when it looks like one: no
				// nested angle brackets and not an empty token.
				if inner != "" && !strings.ContainsAny(inner, "<>") {
					flushText()
					parts = append(parts, Part{Kind: PartVar, Var: ParseVariable(inner, false)})
					i += 1 + end + 1
					continue
				}
			}
		}

		text.WriteByte(s[i])
		i++
	}
	flushText()

	return CommandTemplate{Parts: parts}
}

// String renders the template: Text verbatim, Var as "{{display}}", Bound as
// its bound value.
func (t CommandTemplate) String() string {
	var b strings.Builder
	for _, p := range t.Parts {
		switch p.Kind {
		case PartText:
			b.WriteString(p.Text)
		case PartVar:
			b.WriteString("{{")
			b.WriteString(p.Var.Display)
			b.WriteString("}}")
		case PartBound:
			b.WriteString(p.Value)
		}
	}
	return b.String()
}

// HasPendingVariable reports whether any Var part remains unbound.
func (t CommandTemplate) HasPendingVariable() bool {
	for _, p := range t.Parts {
		if p.Kind == PartVar {
			return true
		}
	}
	return false
}

// CurrentVariable returns the first unbound variable, if any.
func (t CommandTemplate) CurrentVariable() (Variable, bool) {
	for _, p := range t.Parts {
		if p.Kind == PartVar {
			return p.Var, true
		}
	}
	return Variable{}, false
}

// CurrentVariableContext returns the ordered map of already-bound, non-secret
// sibling variables preceding the current pending variable.
func (t CommandTemplate) CurrentVariableContext() map[string]string {
	ctx := make(map[string]string)
	for _, p := range t.Parts {
		if p.Kind == PartVar {
			break
		}
		if p.Kind == PartBound && !p.Var.Secret {
			ctx[p.Var.FlatName] = p.Value
		}
	}
	return ctx
}

// SetNextVariable binds the first pending variable to value, returning the
// updated template and whether a pending variable was found.
func (t CommandTemplate) SetNextVariable(value string) (CommandTemplate, bool) {
	parts := make([]Part, len(t.Parts))
	copy(parts, t.Parts)
	for i := range parts {
		if parts[i].Kind == PartVar {
			parts[i] = Part{Kind: PartBound, Var: parts[i].Var, Value: value}
			return CommandTemplate{Parts: parts}, true
		}
	}
	return t, false
}

// UnsetLastVariable unbinds the most recently bound variable (the inverse of
// SetNextVariable), returning the updated template and whether one existed.
func (t CommandTemplate) UnsetLastVariable() (CommandTemplate, bool) {
	parts := make([]Part, len(t.Parts))
	copy(parts, t.Parts)
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i].Kind == PartBound {
			parts[i] = Part{Kind: PartVar, Var: parts[i].Var}
			return CommandTemplate{Parts: parts}, true
		}
	}
	return t, false
}

// PreviousValuesFor returns the distinct prior bindings for variables sharing
// flatName, in the order they appear in the template.
func (t CommandTemplate) PreviousValuesFor(flatName string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range t.Parts {
		if p.Kind == PartBound && p.Var.FlatName == flatName && !seen[p.Value] {
			seen[p.Value] = true
			out = append(out, p.Value)
		}
	}
	return out
}
