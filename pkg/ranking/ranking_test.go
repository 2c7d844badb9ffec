package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/tuning"
)

func TestClassifyPath(t *testing.T) {
	assert.Equal(t, RelationExact, ClassifyPath("/a/b", "/a/b"))
	assert.Equal(t, RelationAncestor, ClassifyPath("/a", "/a/b/c"))
	assert.Equal(t, RelationDescendant, ClassifyPath("/a/b/c", "/a"))
	assert.Equal(t, RelationUnrelated, ClassifyPath("/x/y", "/a/b"))
}

func TestVariableRankingPrefersWorkingDirectory(t *testing.T) {
	_, vt := tuning.Default()

	candidates := []VariableCandidate{
		{Value: "alpine:3", Usage: []VariableUsageRow{{Path: "/a/b", UsageCount: 2}}},
		{Value: "ubuntu:latest", Usage: []VariableUsageRow{{Path: "/other", UsageCount: 2}}},
	}

	scores := ScoreVariableValues(candidates, "/a/b", model.Context{}, vt)
	assert.Equal(t, "alpine:3", scores[0].Value)
	assert.Greater(t, scores[0].Final, scores[1].Final)
}

func TestPathTuningMonotonicity(t *testing.T) {
	_, vt := tuning.Default()
	candidates := []VariableCandidate{
		{Value: "exact", Usage: []VariableUsageRow{{Path: "/a/b", UsageCount: 1}}},
		{Value: "unrelated", Usage: []VariableUsageRow{{Path: "/z", UsageCount: 1}}},
	}

	before := ScoreVariableValues(candidates, "/a/b", model.Context{}, vt)
	var beforeExact float64
	for _, s := range before {
		if s.Value == "exact" {
			beforeExact = s.Final
		}
	}

	vt.Path.Points *= 2
	after := ScoreVariableValues(candidates, "/a/b", model.Context{}, vt)
	var afterExact float64
	for _, s := range after {
		if s.Value == "exact" {
			afterExact = s.Final
		}
	}

	assert.GreaterOrEqual(t, afterExact, beforeExact)
}

func TestBlendCommandsTieBreak(t *testing.T) {
	ct, _ := tuning.Default()
	now := time.Now().UTC()

	a := model.Command{ID: model.NewID(), Cmd: "a", UpdatedAt: now, CreatedAt: now}
	b := model.Command{ID: model.NewID(), Cmd: "b", UpdatedAt: now.Add(time.Hour), CreatedAt: now}

	candidates := []CommandCandidate{
		{Command: a, Relevance: 1.0},
		{Command: b, Relevance: 1.0},
	}

	scores := BlendCommands(candidates, "/x", ct)
	assert.Equal(t, "b", scores[0].Command.Cmd)
}
