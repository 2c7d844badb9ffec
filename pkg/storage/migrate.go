package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order, each exactly once, tracked via
// PRAGMA user_version. They must be idempotent and forward-only: once
// released, a migration's SQL never changes, only new ones are appended.
var migrations = []string{
	// 1: commands, their FTS index, and per-path usage counters.
	`
	CREATE TABLE command (
		id                TEXT PRIMARY KEY,
		category          TEXT NOT NULL,
		source            TEXT NOT NULL,
		alias             TEXT,
		cmd               TEXT NOT NULL,
		flat_cmd          TEXT NOT NULL,
		description       TEXT,
		flat_description  TEXT,
		tags              TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	);
	CREATE INDEX idx_command_alias ON command(alias) WHERE alias IS NOT NULL;
	CREATE INDEX idx_command_category ON command(category);

	CREATE VIRTUAL TABLE command_fts USING fts5(
		flat_cmd,
		flat_description,
		content='command',
		content_rowid='rowid'
	);

	CREATE TRIGGER command_ai AFTER INSERT ON command BEGIN
		INSERT INTO command_fts(rowid, flat_cmd, flat_description)
		VALUES (new.rowid, new.flat_cmd, new.flat_description);
	END;
	CREATE TRIGGER command_ad AFTER DELETE ON command BEGIN
		INSERT INTO command_fts(command_fts, rowid, flat_cmd, flat_description)
		VALUES ('delete', old.rowid, old.flat_cmd, old.flat_description);
	END;
	CREATE TRIGGER command_au AFTER UPDATE ON command BEGIN
		INSERT INTO command_fts(command_fts, rowid, flat_cmd, flat_description)
		VALUES ('delete', old.rowid, old.flat_cmd, old.flat_description);
		INSERT INTO command_fts(rowid, flat_cmd, flat_description)
		VALUES (new.rowid, new.flat_cmd, new.flat_description);
	END;

	CREATE TABLE command_usage (
		command_id   TEXT NOT NULL REFERENCES command(id) ON DELETE CASCADE,
		path         TEXT NOT NULL,
		usage_count  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (command_id, path)
	);
	`,
	// 2: variable values, their usage history, and completion bindings.
	`
	CREATE TABLE variable_value (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		flat_root_cmd   TEXT NOT NULL,
		flat_variable   TEXT NOT NULL,
		value           TEXT NOT NULL,
		UNIQUE (flat_root_cmd, flat_variable, value)
	);
	CREATE INDEX idx_variable_value_lookup ON variable_value(flat_root_cmd, flat_variable);

	CREATE TABLE variable_value_usage (
		value_id      INTEGER NOT NULL REFERENCES variable_value(id) ON DELETE CASCADE,
		path          TEXT NOT NULL,
		context_json  TEXT NOT NULL DEFAULT '{}',
		usage_count   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (value_id, path, context_json)
	);

	CREATE TABLE variable_completion (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		source                TEXT NOT NULL,
		root_cmd              TEXT NOT NULL DEFAULT '',
		flat_root_cmd         TEXT NOT NULL DEFAULT '',
		variable              TEXT NOT NULL,
		flat_variable         TEXT NOT NULL,
		suggestions_provider  TEXT NOT NULL,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		UNIQUE (flat_root_cmd, flat_variable)
	);
	`,
	// 3: singleton version-check cache.
	`
	CREATE TABLE version_info (
		id               INTEGER PRIMARY KEY CHECK (id = 1),
		latest_version   TEXT NOT NULL,
		last_checked_at  TEXT NOT NULL
	);
	`,
}

func (s *Store) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		if err := s.applyMigration(ctx, i, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, index int, sqlScript string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, sqlScript); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", index+1)); err != nil {
		return err
	}
	return tx.Commit()
}

// execTx runs fn inside a transaction, committing on success.
func execTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
