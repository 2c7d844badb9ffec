package model

import "time"

// VersionInfo is the singleton row tracking the last-known latest release and
// when it was checked.
type VersionInfo struct {
	LatestVersion string
	LastCheckedAt time.Time
}
