// Package ranking implements the deterministic command/variable scoring
// formulas. It has no dependency on pkg/storage: given inputs, each
// function returns a score, so the formulas are independently testable and
// the storage layer is free to drive them from whatever rows it fetched.
package ranking

import "strings"

// PathRelation classifies candidatePath relative to workingPath.
type PathRelation int

const (
	RelationUnrelated PathRelation = iota
	RelationExact
	RelationAncestor
	RelationDescendant
)

// ClassifyPath determines how candidatePath relates to workingPath: exact
// match, candidatePath is an ancestor directory of workingPath, candidatePath
// is a descendant of workingPath, or unrelated.
func ClassifyPath(candidatePath, workingPath string) PathRelation {
	candidatePath = normalizePath(candidatePath)
	workingPath = normalizePath(workingPath)

	if candidatePath == workingPath {
		return RelationExact
	}
	if isAncestor(candidatePath, workingPath) {
		return RelationAncestor
	}
	if isAncestor(workingPath, candidatePath) {
		return RelationDescendant
	}
	return RelationUnrelated
}

func normalizePath(p string) string {
	return strings.TrimRight(p, "/")
}

// isAncestor reports whether a is a path-prefix ancestor of b (a != b).
func isAncestor(a, b string) bool {
	if a == "" || a == b {
		return false
	}
	return strings.HasPrefix(b, a+"/")
}

// PathWeightFn resolves a path relation to its configured weight.
type PathWeightFn func(relation PathRelation) float64
