package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/model"
)

// GetVersionInfo reads the cached latest-version check, returning (nil, nil)
// if no check has ever completed.
func (s *Store) GetVersionInfo(ctx context.Context) (*model.VersionInfo, error) {
	row := s.db.QueryRowContext(ctx, "SELECT latest_version, last_checked_at FROM version_info WHERE id = 1")

	var v model.VersionInfo
	var lastChecked string
	if err := row.Scan(&v.LatestVersion, &lastChecked); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, ierrors.Wrap(err)
	}
	v.LastCheckedAt, _ = time.Parse(time.RFC3339Nano, lastChecked)
	return &v, nil
}

// SetVersionInfo upserts the singleton cached version-check result.
func (s *Store) SetVersionInfo(ctx context.Context, v model.VersionInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO version_info (id, latest_version, last_checked_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET latest_version = excluded.latest_version, last_checked_at = excluded.last_checked_at`,
		v.LatestVersion, v.LastCheckedAt.Format(time.RFC3339Nano),
	)
	return ierrors.Wrap(err)
}
