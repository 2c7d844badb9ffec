// Package storage persists commands, variable values, variable completions
// and version info in a single SQLite database, and runs the command/value
// search ranking on top of it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store wraps the database connection; all exported methods are safe to call
// concurrently (SQLite writes are serialized by the single-connection pool).
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path, applies pending
// migrations, and configures the connection for a single writer.
func Open(ctx context.Context, path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create database directory %q: %w", dir, err)
	}

	// _pragma=busy_timeout(5000): wait up to 5s instead of failing immediately
	// on a locked database.
	// _pragma=journal_mode(WAL): allow concurrent readers while a write is in
	// flight.
	// _pragma=synchronous(NORMAL): durable enough under WAL without paying for
	// a full fsync on every transaction.
	// _pragma=foreign_keys(1): enforce the command_usage / variable_value_usage
	// foreign keys.
	dsn := fmt.Sprintf(
		"%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, diagnoseOpenErr(path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, diagnoseOpenErr(path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return s, nil
}

// OpenInMemory opens an ephemeral, migrated database for tests.
func OpenInMemory(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", "file::memory:?cache=shared&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isCantOpenErr(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CANTOPEN
	}
	return false
}

func diagnoseOpenErr(path string, original error) error {
	if !isCantOpenErr(original) {
		return original
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cannot open database at %q: directory %q does not exist", path, dir)
		}
		return fmt.Errorf("cannot open database at %q: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot open database at %q: %q is not a directory", path, dir)
	}
	return fmt.Errorf("cannot open database at %q: permission denied in %q (original: %v)", path, dir, original)
}

// isUniqueConstraintErr reports whether err is a SQLite UNIQUE violation.
func isUniqueConstraintErr(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
