// Package service orchestrates pkg/storage, pkg/environment and pkg/template
// into the variable-resolution pipeline and the command lifecycle operations
// the CLI surface needs.
package service

// SuggestionKind discriminates the rows produced by ResolveVariable.
type SuggestionKind int

const (
	SuggestionNew SuggestionKind = iota
	SuggestionSecret
	SuggestionEnvironment
	SuggestionExisting
	SuggestionCompletion
	SuggestionDerived
)

// VariableSuggestionItem is one ranked candidate for the currently pending
// template variable.
type VariableSuggestionItem struct {
	Kind SuggestionKind

	// Value is the candidate text; empty for SuggestionNew/SuggestionSecret,
	// which are editable input placeholders rather than concrete values.
	Value string

	// ValueID identifies a stored VariableValue row, set only for
	// SuggestionExisting.
	ValueID *int64

	// EnvName is the environment variable name a SuggestionEnvironment row was
	// read from (surfaced even when the variable is secret, in which case
	// Value is left empty).
	EnvName string

	// Score orders rows within a sort_index tier; higher is better. Unused by
	// SuggestionNew/SuggestionSecret.
	Score float64

	// SortIndex groups rows into the tiers re-sorting preserves: New/Secret=0,
	// Environment=1, Existing=2, Completion=3, Derived=4.
	SortIndex int

	// CompletionMerged marks an Existing row that has already received its
	// one-time completion score boost,
	// so a later arrival of the same value doesn't double-apply it.
	CompletionMerged bool
}

func sortIndexFor(kind SuggestionKind) int {
	switch kind {
	case SuggestionNew, SuggestionSecret:
		return 0
	case SuggestionEnvironment:
		return 1
	case SuggestionExisting:
		return 2
	case SuggestionCompletion:
		return 3
	case SuggestionDerived:
		return 4
	default:
		return 5
	}
}
