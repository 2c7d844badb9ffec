package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCompletionBatchDropsMatchingDerived(t *testing.T) {
	items := []VariableSuggestionItem{
		{Kind: SuggestionNew, SortIndex: sortIndexFor(SuggestionNew)},
		{Kind: SuggestionDerived, Value: "pods", SortIndex: sortIndexFor(SuggestionDerived)},
	}

	out := MergeCompletionBatch(items, CompletionBatch{ScoreBoost: 1, Values: []string{"pods"}})

	for _, it := range out {
		assert.NotEqual(t, SuggestionDerived, it.Kind)
	}
}

func TestMergeCompletionBatchBoostsExistingOnce(t *testing.T) {
	items := []VariableSuggestionItem{
		{Kind: SuggestionExisting, Value: "pods", Score: 1.0, SortIndex: sortIndexFor(SuggestionExisting)},
	}

	out := MergeCompletionBatch(items, CompletionBatch{ScoreBoost: 2, Values: []string{"pods"}})
	assert.Equal(t, 3.0, out[0].Score)
	assert.True(t, out[0].CompletionMerged)

	out = MergeCompletionBatch(out, CompletionBatch{ScoreBoost: 5, Values: []string{"pods"}})
	assert.Equal(t, 3.0, out[0].Score, "second arrival of the same value must not re-boost an already-merged Existing row")
}

func TestMergeCompletionBatchUpgradesCompletionMonotonically(t *testing.T) {
	items := []VariableSuggestionItem{
		{Kind: SuggestionCompletion, Value: "default", Score: 1.0, SortIndex: sortIndexFor(SuggestionCompletion)},
	}

	out := MergeCompletionBatch(items, CompletionBatch{ScoreBoost: 4, Values: []string{"default"}})
	assert.Len(t, out, 1)
	assert.Equal(t, 5.0, out[0].Score) // 1 + max(4, 1)
}

func TestMergeCompletionBatchInsertsNewCompletion(t *testing.T) {
	out := MergeCompletionBatch(nil, CompletionBatch{ScoreBoost: 1.5, Values: []string{"namespace-a"}})
	assert.Len(t, out, 1)
	assert.Equal(t, SuggestionCompletion, out[0].Kind)
	assert.Equal(t, 1.5, out[0].Score)
}

func TestMergeCompletionBatchReSorts(t *testing.T) {
	items := []VariableSuggestionItem{
		{Kind: SuggestionDerived, Value: "z", SortIndex: sortIndexFor(SuggestionDerived)},
		{Kind: SuggestionNew, SortIndex: sortIndexFor(SuggestionNew)},
	}
	out := MergeCompletionBatch(items, CompletionBatch{ScoreBoost: 1, Values: []string{"a"}})

	assert.Equal(t, SuggestionNew, out[0].Kind)
}

func TestFilterSuggestionsKeepsNewRow(t *testing.T) {
	items := []VariableSuggestionItem{
		{Kind: SuggestionNew},
		{Kind: SuggestionExisting, Value: "alpine:3"},
		{Kind: SuggestionExisting, Value: "ubuntu:latest"},
	}

	out := FilterSuggestions(items, "alpine")
	assert.Len(t, out, 2)
	assert.Equal(t, SuggestionNew, out[0].Kind)
	assert.Equal(t, "alpine:3", out[1].Value)
}

func TestReselectIndex(t *testing.T) {
	items := []VariableSuggestionItem{
		{Kind: SuggestionNew},
		{Kind: SuggestionExisting, Value: "a"},
		{Kind: SuggestionExisting, Value: "b"},
	}
	idx := ReselectIndex(items, VariableSuggestionItem{Kind: SuggestionExisting, Value: "b"})
	assert.Equal(t, 2, idx)

	idx = ReselectIndex(items, VariableSuggestionItem{Kind: SuggestionExisting, Value: "gone"})
	assert.Equal(t, -1, idx)
}
