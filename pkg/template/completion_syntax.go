package template

import "strings"

// ResolveCompletionTemplate resolves a completion-provider command template,
// a distinct mini-language from the `{{var}}` template parsed by Parse.
// Segments `{{... {{var}} ...}}` are kept, with their nested
// `{{var}}` placeholders substituted, only when every placeholder they
// contain is present in context; otherwise the whole segment is dropped. A
// free-standing `{{var}}` outside any segment is not part of the grammar; it
// is read as a segment with no nested placeholder and emitted as its bare
// inner text `var` (callers only ever feed well-formed provider commands).
func ResolveCompletionTemplate(s string, context map[string]string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if !strings.HasPrefix(s[i:], "{{") {
			out.WriteByte(s[i])
			i++
			continue
		}

		end := findMatchingSegmentEnd(s, i)
		if end < 0 {
			// Unterminated segment: emit literally.
			out.WriteString(s[i:])
			break
		}

		segment := s[i+2 : end-2]
		resolved, ok := resolveSegment(segment, context)
		if ok {
			out.WriteString(resolved)
		}
		i = end
	}
	// Dropped segments leave their separating whitespace behind internally
	// (two segments back-to-back still read as distinct tokens), but the
	// command as a whole must not gain leading/trailing padding.
	return strings.TrimSpace(out.String())
}

// findMatchingSegmentEnd returns the index just past the "}}" that closes the
// segment opened by "{{" at s[start:], accounting for nested "{{...}}".
func findMatchingSegmentEnd(s string, start int) int {
	depth := 0
	i := start
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "{{"):
			depth++
			i += 2
		case strings.HasPrefix(s[i:], "}}"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return -1
}

// resolveSegment substitutes every nested `{{var}}` placeholder in segment
// with its value from context. ok is false if any placeholder is missing, in
// which case the whole segment must be dropped.
func resolveSegment(segment string, context map[string]string) (string, bool) {
	var out strings.Builder
	i := 0
	for i < len(segment) {
		if !strings.HasPrefix(segment[i:], "{{") {
			out.WriteByte(segment[i])
			i++
			continue
		}
		end := strings.Index(segment[i+2:], "}}")
		if end < 0 {
			out.WriteString(segment[i:])
			break
		}
		name := strings.TrimSpace(segment[i+2 : i+2+end])
		value, ok := context[name]
		if !ok {
			return "", false
		}
		out.WriteString(value)
		i += 2 + end + 2
	}
	return out.String(), true
}
