package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/ranking"
	"github.com/lasantosr/intelli-shell/pkg/tuning"
)

// InsertVariableValue stores a new literal value for a variable, failing
// with ierrors.VariableValueAlreadyExists on a duplicate.
func (s *Store) InsertVariableValue(ctx context.Context, v model.VariableValue) (model.VariableValue, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO variable_value (flat_root_cmd, flat_variable, value) VALUES (?, ?, ?)`,
		v.FlatRootCmd, v.FlatVariable, v.Value,
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return model.VariableValue{}, ierrors.VariableValueAlreadyExists
		}
		return model.VariableValue{}, ierrors.Wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.VariableValue{}, ierrors.Wrap(err)
	}
	v.ID = id
	return v, nil
}

// DeleteVariableValue removes a stored value and its usage history.
func (s *Store) DeleteVariableValue(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM variable_value WHERE id = ?", id)
	return ierrors.Wrap(err)
}

// RecordVariableValueUsage upserts the (value, path, context) usage row, used
// both when a value is reused and when a brand new value is bound.
func (s *Store) RecordVariableValueUsage(ctx context.Context, valueID int64, path string, ctxMap model.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO variable_value_usage (value_id, path, context_json, usage_count) VALUES (?, ?, ?, 1)
		ON CONFLICT (value_id, path, context_json) DO UPDATE SET usage_count = usage_count + 1`,
		valueID, path, ctxMap.Encode(),
	)
	return ierrors.Wrap(err)
}

// SearchVariableValues ranks candidate values for a variable. flatNames is
// the set of individual option names plus the composite name: values stored
// under any of them are collected and attributed back to the composite
// variable.
func (s *Store) SearchVariableValues(
	ctx context.Context,
	flatRootCmd string,
	flatNames []string,
	workingPath string,
	context model.Context,
	t tuning.VariableTuning,
) ([]ranking.VariableScore, error) {
	if len(flatNames) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT vv.id, vv.value, vvu.path, vvu.context_json, vvu.usage_count
		FROM variable_value vv
		LEFT JOIN variable_value_usage vvu ON vvu.value_id = vv.id
		WHERE vv.flat_root_cmd = ? AND vv.flat_variable IN (`+placeholders(len(flatNames))+`)`,
		append([]any{flatRootCmd}, toArgs(flatNames)...)...,
	)
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	defer rows.Close()

	type group struct {
		id    *int64
		value string
		usage []ranking.VariableUsageRow
	}
	byValue := make(map[string]*group)
	var order []string

	for rows.Next() {
		var id int64
		var value string
		var path, ctxJSON sql.NullString
		var usageCount sql.NullInt64
		if err := rows.Scan(&id, &value, &path, &ctxJSON, &usageCount); err != nil {
			return nil, ierrors.Wrap(err)
		}

		g, ok := byValue[value]
		if !ok {
			idCopy := id
			g = &group{id: &idCopy, value: value}
			byValue[value] = g
			order = append(order, value)
		}

		if path.Valid {
			decoded, err := model.DecodeContext(ctxJSON.String)
			if err != nil {
				decoded = model.Context{}
			}
			g.usage = append(g.usage, ranking.VariableUsageRow{
				Path:       path.String,
				Context:    decoded,
				UsageCount: usageCount.Int64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, ierrors.Wrap(err)
	}

	candidates := make([]ranking.VariableCandidate, 0, len(order))
	for _, v := range order {
		g := byValue[v]
		candidates = append(candidates, ranking.VariableCandidate{ValueID: g.id, Value: g.value, Usage: g.usage})
	}

	return ranking.ScoreVariableValues(candidates, workingPath, context, t), nil
}

// InsertVariableCompletion registers a completion command for a variable,
// failing with ierrors.CompletionAlreadyExists if one is already registered
// for the same (root command, variable) pair.
func (s *Store) InsertVariableCompletion(ctx context.Context, c model.VariableCompletion) (model.VariableCompletion, error) {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO variable_completion (source, root_cmd, flat_root_cmd, variable, flat_variable, suggestions_provider, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Source, c.RootCmd, c.FlatRootCmd, c.Variable, c.FlatVariable, c.SuggestionsProvider,
		c.CreatedAt.Format(time.RFC3339Nano), c.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return model.VariableCompletion{}, ierrors.CompletionAlreadyExists
		}
		return model.VariableCompletion{}, ierrors.Wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.VariableCompletion{}, ierrors.Wrap(err)
	}
	c.ID = id
	return c, nil
}

// DeleteVariableCompletion removes a registered completion by id.
func (s *Store) DeleteVariableCompletion(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM variable_completion WHERE id = ?", id)
	return ierrors.Wrap(err)
}

// FindVariableCompletion resolves the most specific registered completion
// for (flatRootCmd, flatVariable): a command-specific binding wins over a
// global one.
func (s *Store) FindVariableCompletion(ctx context.Context, flatRootCmd, flatVariable string) (*model.VariableCompletion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, root_cmd, flat_root_cmd, variable, flat_variable, suggestions_provider, created_at, updated_at
		FROM variable_completion
		WHERE flat_variable = ? AND flat_root_cmd IN (?, '')
		ORDER BY flat_root_cmd DESC
		LIMIT 1`,
		flatVariable, flatRootCmd,
	)

	var c model.VariableCompletion
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Source, &c.RootCmd, &c.FlatRootCmd, &c.Variable, &c.FlatVariable, &c.SuggestionsProvider, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, ierrors.Wrap(err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &c, nil
}

// ListVariableCompletions returns every registered completion, used by the
// `completion list` command.
func (s *Store) ListVariableCompletions(ctx context.Context) ([]model.VariableCompletion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, root_cmd, flat_root_cmd, variable, flat_variable, suggestions_provider, created_at, updated_at
		FROM variable_completion ORDER BY root_cmd, variable`)
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	defer rows.Close()

	var out []model.VariableCompletion
	for rows.Next() {
		var c model.VariableCompletion
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.Source, &c.RootCmd, &c.FlatRootCmd, &c.Variable, &c.FlatVariable, &c.SuggestionsProvider, &createdAt, &updatedAt); err != nil {
			return nil, ierrors.Wrap(err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// flatNamesForVariable returns the distinct flat option names plus the
// composite flat name, used to build the SearchVariableValues flatNames
// argument.
func flatNamesForVariable(flatName string, flatOptions []string) []string {
	seen := map[string]bool{flatName: true}
	out := []string{flatName}
	for _, o := range flatOptions {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}
