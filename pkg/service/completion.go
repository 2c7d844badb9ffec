package service

import (
	"bufio"
	"context"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/lasantosr/intelli-shell/pkg/template"
)

// CompletionBatch is one asynchronous arrival from a running completion
// command.
type CompletionBatch struct {
	ScoreBoost float64
	Values     []string
}

// RunCompletion resolves providerCmd against contextMap ( completion
// template syntax) and streams its stdout, one batch per line, until the
// command exits or ctx is cancelled. scoreBoost is applied to every batch.
func RunCompletion(ctx context.Context, providerCmd string, contextMap map[string]string, scoreBoost float64) (<-chan CompletionBatch, error) {
	resolved := template.ResolveCompletionTemplate(providerCmd, contextMap)
	if resolved == "" {
		out := make(chan CompletionBatch)
		close(out)
		return out, nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", resolved)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	out := make(chan CompletionBatch)
	go func() {
		defer close(out)
		defer cmd.Wait() //nolint:errcheck

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case out <- CompletionBatch{ScoreBoost: scoreBoost, Values: []string{line}}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// CompletionSession keeps at most one live completion stream context:
// starting a new one cancels the previous; it does not wait for the
// previous stream to finish.
type CompletionSession struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// Start cancels any previous stream and returns a context scoped to the new
// one; the caller must call the returned cancel func (directly or via
// Cancel/another Start) when the stream ends.
func (c *CompletionSession) Start(parent context.Context) (context.Context, context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	return ctx, cancel
}

// Cancel stops any in-flight stream; safe to call when none is running.
func (c *CompletionSession) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// MergeCompletionBatch folds one arrived batch into items:
//   - a Derived row matching a new value is dropped (completion supersedes it)
//   - a matching Existing row gets its score boosted exactly once
//   - a matching Completion row is upgraded monotonically, not duplicated
//   - otherwise a new Completion row is appended
//
// The result is re-sorted by (SortIndex asc, Score desc), stable on ties.
func MergeCompletionBatch(items []VariableSuggestionItem, batch CompletionBatch) []VariableSuggestionItem {
	for _, value := range batch.Values {
		items = mergeOneCompletionValue(items, value, batch.ScoreBoost)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortIndex != items[j].SortIndex {
			return items[i].SortIndex < items[j].SortIndex
		}
		return items[i].Score > items[j].Score
	})
	return items
}

func mergeOneCompletionValue(items []VariableSuggestionItem, value string, scoreBoost float64) []VariableSuggestionItem {
	out := items[:0]
	existingIdx := -1
	completionIdx := -1

	for i, it := range items {
		if it.Kind == SuggestionDerived && it.Value == value {
			continue // dropped: completion supersedes it
		}
		if it.Kind == SuggestionExisting && it.Value == value {
			existingIdx = len(out)
		}
		if it.Kind == SuggestionCompletion && it.Value == value {
			completionIdx = len(out)
		}
		out = append(out, it)
	}
	items = out

	switch {
	case existingIdx >= 0 && !items[existingIdx].CompletionMerged:
		items[existingIdx].Score += scoreBoost
		items[existingIdx].CompletionMerged = true
	case completionIdx >= 0:
		old := items[completionIdx].Score
		items[completionIdx].Score = old + max(scoreBoost, old)
	case existingIdx < 0:
		items = append(items, VariableSuggestionItem{
			Kind: SuggestionCompletion, Value: value, Score: scoreBoost, SortIndex: sortIndexFor(SuggestionCompletion),
		})
	}

	return items
}

// FilterSuggestions re-applies a live text filter over items, always keeping
// the New/Secret placeholder row (: "re-apply the current text
// filter over the New row's live text").
func FilterSuggestions(items []VariableSuggestionItem, text string) []VariableSuggestionItem {
	if text == "" {
		return items
	}
	needle := strings.ToLower(text)
	out := make([]VariableSuggestionItem, 0, len(items))
	for _, it := range items {
		if it.Kind == SuggestionNew || it.Kind == SuggestionSecret || strings.Contains(strings.ToLower(it.Value), needle) {
			out = append(out, it)
		}
	}
	return out
}

// suggestionIdentity uniquely identifies a row across re-sorts, used to
// re-select the previously selected row after a filter/merge pass.
type suggestionIdentity struct {
	kind  SuggestionKind
	value string
}

func identityOf(it VariableSuggestionItem) suggestionIdentity {
	return suggestionIdentity{kind: it.Kind, value: it.Value}
}

// ReselectIndex finds the index of the item matching prev's identity within
// items, or -1 if it's no longer present.
func ReselectIndex(items []VariableSuggestionItem, prev VariableSuggestionItem) int {
	want := identityOf(prev)
	for i, it := range items {
		if identityOf(it) == want {
			return i
		}
	}
	return -1
}
