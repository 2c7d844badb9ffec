package service

import (
	"context"
	"fmt"

	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/template"
)

// RecordVariableBinding stores (or reuses) a value bound to a variable and
// records its usage under the current working directory and sibling
// context. Secret variables are never persisted.
func (s *Service) RecordVariableBinding(ctx context.Context, rootCmd string, v template.Variable, value, workingPath string, context model.Context) error {
	if v.Secret || value == "" {
		return nil
	}

	flatRootCmd := s.flatten(rootCmd)
	stored, err := s.store.InsertVariableValue(ctx, model.VariableValue{
		FlatRootCmd: flatRootCmd, FlatVariable: v.FlatName, Value: value,
	})
	if err != nil {
		// Already exists: look it up to attribute usage to the right id.
		id, lookupErr := s.findExistingValueID(ctx, flatRootCmd, v.FlatName, value)
		if lookupErr != nil {
			return err
		}
		return s.store.RecordVariableValueUsage(ctx, id, workingPath, context)
	}

	return s.store.RecordVariableValueUsage(ctx, stored.ID, workingPath, context)
}

func (s *Service) findExistingValueID(ctx context.Context, flatRootCmd, flatVariable, value string) (int64, error) {
	scores, err := s.store.SearchVariableValues(ctx, flatRootCmd, []string{flatVariable}, "", model.Context{}, s.variableTuning)
	if err != nil {
		return 0, err
	}
	for _, sc := range scores {
		if sc.Value == value && sc.ValueID != nil {
			return *sc.ValueID, nil
		}
	}
	return 0, fmt.Errorf("stored value %q for %s/%s not found after conflict", value, flatRootCmd, flatVariable)
}

// DeleteVariableValue removes a stored value.
func (s *Service) DeleteVariableValue(ctx context.Context, id int64) error {
	return s.store.DeleteVariableValue(ctx, id)
}

// NewVariableCompletion registers a completion command for a variable (the
// `completion new` CLI command). An empty rootCmd registers a global
// completion.
func (s *Service) NewVariableCompletion(ctx context.Context, source model.Source, rootCmd, variable, provider string) (model.VariableCompletion, error) {
	return s.store.InsertVariableCompletion(ctx, model.VariableCompletion{
		Source:              source,
		RootCmd:             rootCmd,
		FlatRootCmd:         s.flatten(rootCmd),
		Variable:            variable,
		FlatVariable:        s.flatten(variable),
		SuggestionsProvider: provider,
	})
}

// DeleteVariableCompletion unregisters a completion.
func (s *Service) DeleteVariableCompletion(ctx context.Context, id int64) error {
	return s.store.DeleteVariableCompletion(ctx, id)
}

// ListVariableCompletions returns every registered completion.
func (s *Service) ListVariableCompletions(ctx context.Context) ([]model.VariableCompletion, error) {
	return s.store.ListVariableCompletions(ctx)
}

// ResolveCompletionProvider finds the applicable completion command for a
// variable, preferring a command-specific binding over a global one.
func (s *Service) ResolveCompletionProvider(ctx context.Context, rootCmd, variable string) (*model.VariableCompletion, error) {
	return s.store.FindVariableCompletion(ctx, s.flatten(rootCmd), s.flatten(variable))
}
