package storage

import (
	"context"
	"sort"
	"strings"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// TagSuggestion is one candidate completion for a `#tag` being edited.
type TagSuggestion struct {
	Tag        string
	Count      int
	ExactMatch bool
}

// NoTagEditing is returned by EditingTag when the cursor isn't inside a
// `#token`: the "no tag mode" sentinel.
var NoTagEditing = TagSuggestion{}

// EditingTag reports the `#token` (if any) the cursor sits inside of within
// query, where cursor is a rune offset. ok is false in "no tag mode".
func EditingTag(query string, cursor int) (tag string, ok bool) {
	runes := []rune(query)
	if cursor < 0 || cursor > len(runes) {
		return "", false
	}

	// find the token start: walk left until a space or start-of-string
	tokenStart := cursor
	for tokenStart > 0 && !isSpaceRune(runes[tokenStart-1]) {
		tokenStart--
	}
	tokenEnd := cursor
	for tokenEnd < len(runes) && !isSpaceRune(runes[tokenEnd]) {
		tokenEnd++
	}

	if tokenStart >= len(runes) || runes[tokenStart] != '#' {
		return "", false
	}
	return string(runes[tokenStart:tokenEnd]), true
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// SearchTags finds every distinct tag across stored commands whose text
// starts with prefix, ordered by exact match first, then count descending,
// then lexicographically.
func (s *Store) SearchTags(ctx context.Context, prefix string) ([]TagSuggestion, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tags FROM command WHERE tags != ''")
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tagStr string
		if err := rows.Scan(&tagStr); err != nil {
			return nil, ierrors.Wrap(err)
		}
		for _, t := range strings.Fields(tagStr) {
			if strings.HasPrefix(t, prefix) {
				counts[t]++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, ierrors.Wrap(err)
	}

	out := make([]TagSuggestion, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagSuggestion{Tag: tag, Count: count, ExactMatch: tag == prefix})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ExactMatch != b.ExactMatch {
			return a.ExactMatch
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Tag < b.Tag
	})

	return out, nil
}
