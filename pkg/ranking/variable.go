package ranking

import (
	"math"
	"sort"

	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/tuning"
)

// VariableUsageRow is one (path, context, usage_count) row for a stored
// value, as read from variable_value_usage.
type VariableUsageRow struct {
	Path       string
	Context    model.Context
	UsageCount int64
}

// VariableCandidate groups every usage row recorded for one distinct value
// string (possibly attributed from more than one individual option when a
// variable has a composite name).
type VariableCandidate struct {
	ValueID *int64 // nil when the value only exists under an individual option
	Value   string
	Usage   []VariableUsageRow
}

// VariableScore is a scored candidate value.
type VariableScore struct {
	ValueID *int64
	Value   string
	Final   float64
}

// ScoreVariableValues computes the relevance/total_usage/final score for
// each candidate and returns them ordered by Final descending.
func ScoreVariableValues(candidates []VariableCandidate, workingPath string, context model.Context, t tuning.VariableTuning) []VariableScore {
	out := make([]VariableScore, 0, len(candidates))
	for _, c := range candidates {
		var relevance float64
		var totalUsage int64
		for i, row := range c.Usage {
			pathScore := weightFor(ClassifyPath(row.Path, workingPath), t.Path.PathWeights) * t.Path.Points
			contextScore := context.Overlap(row.Context) * t.Context.Points
			score := pathScore + contextScore
			if i == 0 || score > relevance {
				relevance = score
			}
			totalUsage += row.UsageCount
		}

		out = append(out, VariableScore{
			ValueID: c.ValueID,
			Value:   c.Value,
			Final:   relevance + math.Log(float64(totalUsage)+1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Final > out[j].Final
	})

	return out
}
