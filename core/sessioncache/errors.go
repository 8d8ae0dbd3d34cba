package sessioncache

import "errors"

var (
	// ErrEntryNotFound is returned by Store implementations when no entry
	// exists for the session.
	ErrEntryNotFound = errors.New("sessioncache: entry not found")
)
