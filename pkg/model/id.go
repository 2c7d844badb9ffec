package model

import (
	"time"

	"github.com/google/uuid"
)

// ID is a time-ordered 128-bit identifier, backed by UUIDv7 so that lexical
// and chronological order coincide.
type ID uuid.UUID

// NewID generates a fresh time-ordered identifier.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the OS random source is broken; fall back to a
		// random v4 rather than panicking the caller.
		return ID(uuid.New())
	}
	return ID(id)
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Time recovers the creation timestamp embedded in a v7 identifier.
func (id ID) Time() time.Time {
	t := uuid.UUID(id).Time()
	sec, nsec := t.UnixTime()
	return time.Unix(sec, nsec).UTC()
}

// ParseID parses a string-form identifier.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}
