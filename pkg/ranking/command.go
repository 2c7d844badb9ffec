package ranking

import (
	"math"
	"sort"

	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/tuning"
)

// UsageRow is one (path, usage_count) pair for a command, as read from
// command_usage.
type UsageRow struct {
	Path       string
	UsageCount int64
}

// CommandCandidate is everything the blended score needs about
// one search hit; Relevance is the BM25 relevance already oriented so that
// higher is better (the storage layer negates sqlite's bm25(), which returns
// lower-is-better, before constructing this).
type CommandCandidate struct {
	Command   model.Command
	Relevance float64
	Usage     []UsageRow
}

// CommandScore is a scored, ranked search hit.
type CommandScore struct {
	Command  model.Command
	NormText float64
	Final    float64
}

// BlendCommands computes the blended score for every candidate and returns
// them ordered by the tie-break rule: higher norm_text, then higher final,
// then more recent updated_at, then created_at.
func BlendCommands(candidates []CommandCandidate, workingPath string, t tuning.CommandTuning) []CommandScore {
	n := len(candidates)
	if n == 0 {
		return nil
	}

	relevances := make([]float64, n)
	pathScores := make([]float64, n)
	usageTotals := make([]int64, n)

	for i, c := range candidates {
		relevances[i] = c.Relevance
		pathScores[i] = bestPathWeight(c.Usage, workingPath, t.Path)
		var total int64
		for _, u := range c.Usage {
			total += u.UsageCount
		}
		usageTotals[i] = total
	}

	normText := minMaxNormalize(relevances)
	normPath := minMaxNormalize(pathScores)
	normUsage := minMaxNormalize(logUsage(usageTotals))

	out := make([]CommandScore, n)
	for i, c := range candidates {
		final := normText[i]*t.Text.Points + normPath[i]*t.PathBias.Points + normUsage[i]*t.Usage.Points
		out[i] = CommandScore{Command: c.Command, NormText: normText[i], Final: final}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.NormText != b.NormText {
			return a.NormText > b.NormText
		}
		if a.Final != b.Final {
			return a.Final > b.Final
		}
		if !a.Command.UpdatedAt.Equal(b.Command.UpdatedAt) {
			return a.Command.UpdatedAt.After(b.Command.UpdatedAt)
		}
		return a.Command.CreatedAt.After(b.Command.CreatedAt)
	})

	return out
}

func bestPathWeight(usage []UsageRow, workingPath string, weights tuning.PathWeights) float64 {
	best := weights.Unrelated
	found := false
	for _, u := range usage {
		w := weightFor(ClassifyPath(u.Path, workingPath), weights)
		if !found || w > best {
			best = w
			found = true
		}
	}
	if !found {
		return 0
	}
	return best
}

func weightFor(relation PathRelation, weights tuning.PathWeights) float64 {
	switch relation {
	case RelationExact:
		return weights.Exact
	case RelationAncestor:
		return weights.Ancestor
	case RelationDescendant:
		return weights.Descendant
	default:
		return weights.Unrelated
	}
}

func logUsage(totals []int64) []float64 {
	out := make([]float64, len(totals))
	for i, t := range totals {
		out[i] = math.Log(float64(t) + 1)
	}
	return out
}

// minMaxNormalize rescales values to [0,1]; a constant set of values (or a
// single value) normalizes to 0, matching "no discriminating signal".
func minMaxNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}

// RecencyTieBreak is exposed for callers that sort commands outside of
// BlendCommands (e.g. exact/regex modes, which skip blending entirely).
func RecencyTieBreak(a, b model.Command) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
