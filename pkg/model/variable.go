package model

import "time"

// VariableValue is a stored literal value previously bound to a variable of
// a given root command.
type VariableValue struct {
	ID           int64
	FlatRootCmd  string
	FlatVariable string
	Value        string
}

// VariableValueUsage records one (value, working directory, sibling context)
// occurrence, with a running count.
type VariableValueUsage struct {
	ValueID    int64
	Path       string
	Context    Context
	UsageCount int64
}

// VariableCompletion describes a shell command whose stdout lines become
// suggestion values for a variable.
type VariableCompletion struct {
	ID                  int64
	Source              Source
	RootCmd             string // empty means the completion is global
	FlatRootCmd         string
	Variable            string
	FlatVariable        string
	SuggestionsProvider string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsGlobal reports whether the completion applies to any command.
func (c VariableCompletion) IsGlobal() bool {
	return c.RootCmd == ""
}
