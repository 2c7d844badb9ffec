package service

import (
	"context"
	"strings"

	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/template"
)

// ResolveVariable produces the ranked suggestion list for tmpl's currently
// pending variable. rootCmd is the template's root command
// (flattened internally), workingPath the caller's current directory.
func (s *Service) ResolveVariable(ctx context.Context, tmpl template.CommandTemplate, rootCmd, workingPath string) ([]VariableSuggestionItem, error) {
	variable, ok := tmpl.CurrentVariable()
	if !ok {
		return nil, nil
	}

	flatRootCmd := s.flatten(rootCmd)
	contextMap := model.Context(tmpl.CurrentVariableContext())

	if variable.Secret {
		return s.resolveSecret(ctx, variable, flatRootCmd), nil
	}

	var items []VariableSuggestionItem
	items = append(items, VariableSuggestionItem{Kind: SuggestionNew, SortIndex: sortIndexFor(SuggestionNew)})

	// Step 2: initial Existing rows from stored values.
	flatNames := flatNamesWithComposite(variable)
	scores, err := s.store.SearchVariableValues(ctx, flatRootCmd, flatNames, workingPath, contextMap, s.variableTuning)
	if err != nil {
		return nil, err
	}
	existing := make([]VariableSuggestionItem, 0, len(scores))
	for _, sc := range scores {
		existing = append(existing, VariableSuggestionItem{
			Kind: SuggestionExisting, Value: sc.Value, ValueID: sc.ValueID,
			Score: sc.Final, SortIndex: sortIndexFor(SuggestionExisting),
		})
	}

	// Step 3: a sibling earlier in the template sharing this flat name wins a
	// spot at the front of Existing, ignoring ranking.
	if prev := tmpl.PreviousValuesFor(variable.FlatName); len(prev) > 0 {
		front := make([]VariableSuggestionItem, 0, len(prev))
		for _, v := range prev {
			front = append(front, VariableSuggestionItem{Kind: SuggestionExisting, Value: v, SortIndex: sortIndexFor(SuggestionExisting)})
		}
		existing = dedupeByValuePrepend(front, existing)
	}

	// Step 4: env candidates, applying functions; matches re-rank an Existing
	// row to the top, otherwise become an Environment row.
	var envRows []VariableSuggestionItem
	for _, name := range variable.EnvVarNames(true) {
		raw, found := s.env.Get(ctx, name)
		if !found || strings.TrimSpace(raw) == "" {
			continue
		}
		value := variable.Functions.Apply(raw)

		matched := false
		for i := range existing {
			if existing[i].Value == value {
				existing = moveToFront(existing, i)
				matched = true
				break
			}
		}
		if !matched {
			envRows = append(envRows, VariableSuggestionItem{
				Kind: SuggestionEnvironment, Value: value, EnvName: name, SortIndex: sortIndexFor(SuggestionEnvironment),
			})
		}
	}
	items = append(items, envRows...)

	// Step 5: remaining Existing rows.
	items = append(items, existing...)

	// Step 6: Derived rows for literal options not already present.
	present := make(map[string]bool, len(items))
	for _, it := range items {
		present[it.Value] = true
	}
	for _, opt := range variable.Options {
		if !present[opt] {
			present[opt] = true
			items = append(items, VariableSuggestionItem{Kind: SuggestionDerived, Value: opt, SortIndex: sortIndexFor(SuggestionDerived)})
		}
	}

	return items, nil
}

// resolveSecret implements the secret-variable branch of variable
// resolution: a non-persisting placeholder row plus any matching
// Environment rows with their value hidden.
func (s *Service) resolveSecret(ctx context.Context, variable template.Variable, flatRootCmd string) []VariableSuggestionItem {
	items := []VariableSuggestionItem{{Kind: SuggestionSecret, SortIndex: sortIndexFor(SuggestionSecret)}}
	_ = flatRootCmd // secrets are never looked up in variable_value; root command is irrelevant here

	for _, name := range variable.EnvVarNames(true) {
		if raw, found := s.env.Get(ctx, name); found && strings.TrimSpace(raw) != "" {
			items = append(items, VariableSuggestionItem{Kind: SuggestionEnvironment, EnvName: name, SortIndex: sortIndexFor(SuggestionEnvironment)})
		}
	}
	return items
}

func flatNamesWithComposite(v template.Variable) []string {
	seen := map[string]bool{v.FlatName: true}
	out := []string{v.FlatName}
	for _, n := range v.FlatNames {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func dedupeByValuePrepend(front, rest []VariableSuggestionItem) []VariableSuggestionItem {
	seen := make(map[string]bool, len(front))
	for _, f := range front {
		seen[f.Value] = true
	}
	out := make([]VariableSuggestionItem, 0, len(front)+len(rest))
	out = append(out, front...)
	for _, r := range rest {
		if !seen[r.Value] {
			out = append(out, r)
		}
	}
	return out
}

func moveToFront(items []VariableSuggestionItem, i int) []VariableSuggestionItem {
	if i == 0 {
		return items
	}
	item := items[i]
	out := make([]VariableSuggestionItem, 0, len(items))
	out = append(out, item)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out
}
