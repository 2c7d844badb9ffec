package service

import (
	"context"

	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/storage"
)

// NewCommand bookmarks a new command, deriving its id, flattened columns and
// tags.
func (s *Service) NewCommand(ctx context.Context, category model.Category, source model.Source, alias, cmd, description string) (model.Command, error) {
	c := model.Command{
		ID:          model.NewID(),
		Category:    category,
		Source:      source,
		Alias:       alias,
		Cmd:         cmd,
		Description: description,
	}
	return s.store.InsertCommand(ctx, c, s.flatten)
}

// ReplaceCommand persists edits to an existing command.
func (s *Service) ReplaceCommand(ctx context.Context, c model.Command) (model.Command, error) {
	return s.store.UpdateCommand(ctx, c, s.flatten)
}

// DeleteCommand removes a bookmarked command.
func (s *Service) DeleteCommand(ctx context.Context, id model.ID) error {
	return s.store.DeleteCommand(ctx, id)
}

// SearchCommands runs a command search, filling in this Service's default
// tuning when the request doesn't override it.
func (s *Service) SearchCommands(ctx context.Context, req storage.SearchRequest) (storage.SearchResult, error) {
	if req.Tuning.Text.Points == 0 && req.Tuning.Path.Exact == 0 {
		req.Tuning = s.commandTuning
	}
	return s.store.Search(ctx, req)
}

// RecordCommandUsage increments the per-directory usage counter for a
// command that was just executed.
func (s *Service) RecordCommandUsage(ctx context.Context, id model.ID, workingPath string) error {
	return s.store.IncrementCommandUsage(ctx, id, workingPath)
}
