package sessioncache

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finwall/fieldvault/core/logger"
)

const keySize = 32

// Cache is the session-scoped key mirror for one session.
type Cache struct {
	store     Store
	sessionID uuid.UUID
	log       *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a cache bound to the given session id.
func New(store Store, sessionID uuid.UUID, opts ...Option) *Cache {
	c := &Cache{
		store:     store,
		sessionID: sessionID,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the session this cache is bound to.
func (c *Cache) SessionID() uuid.UUID {
	return c.sessionID
}

// Save mirrors the raw key to the session store. Called after a successful
// resolution so later process starts within the session skip derivation.
func (c *Cache) Save(ctx context.Context, userID string, key []byte, keyVersion int) error {
	entry := &Entry{
		RawKeyBase64: base64.StdEncoding.EncodeToString(key),
		UserID:       userID,
		KeyVersion:   keyVersion,
	}
	return c.store.Set(ctx, c.sessionID, entry)
}

// Restore attempts to re-import the key from the session store. A miss or a
// corrupted entry yields ok == false and never an error: callers must always
// be able to fall through to normal derivation. Corrupted entries are
// deleted so they are not retried.
func (c *Cache) Restore(ctx context.Context) (userID string, key []byte, ok bool) {
	entry, err := c.store.Get(ctx, c.sessionID)
	if err != nil {
		return "", nil, false
	}

	key, decodeErr := base64.StdEncoding.DecodeString(entry.RawKeyBase64)
	if decodeErr != nil || len(key) != keySize || entry.UserID == "" {
		c.log.Warn("discarding corrupted session key entry",
			logger.Component("sessioncache"),
			logger.UserID(entry.UserID),
			logger.Error(decodeErr),
		)
		_ = c.store.Delete(ctx, c.sessionID)
		return "", nil, false
	}

	return entry.UserID, key, true
}

// Clear removes the cached key. Called on logout.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, c.sessionID)
}
