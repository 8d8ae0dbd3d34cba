package sessioncache

import (
	"context"

	"github.com/google/uuid"
)

// CacheName is the fixed namespace under which session key entries are
// stored, whatever the backing store.
const CacheName = "fieldvault:session-key"

// Entry is the cached form of an active session key. Ephemeral by contract:
// it must never outlive the session it belongs to.
type Entry struct {
	RawKeyBase64 string `json:"rawKeyBase64"`
	UserID       string `json:"userId"`
	// KeyVersion records the key registry version the key was resolved
	// under. Carried so a future rotation procedure can detect stale
	// session entries.
	KeyVersion int `json:"keyVersion"`
}

// Store defines the persistence interface for session key entries.
// Implementations must handle concurrent access safely and return
// ErrEntryNotFound for missing sessions.
type Store interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*Entry, error)
	Set(ctx context.Context, sessionID uuid.UUID, entry *Entry) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
