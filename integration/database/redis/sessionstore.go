package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finwall/fieldvault/core/sessioncache"
)

// SessionStore implements sessioncache.Store over Redis. Entries live under
// the fixed sessioncache.CacheName namespace and expire with the session TTL;
// every Set refreshes the expiry.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore builds a store with the given entry TTL. A zero ttl keeps
// entries until explicitly deleted.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID uuid.UUID) string {
	return sessioncache.CacheName + ":" + sessionID.String()
}

// Get fetches and decodes the entry for the session.
func (s *SessionStore) Get(ctx context.Context, sessionID uuid.UUID) (*sessioncache.Entry, error) {
	payload, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sessioncache.ErrEntryNotFound
		}
		return nil, err
	}

	var entry sessioncache.Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, errors.Join(sessioncache.ErrEntryNotFound, err)
	}
	return &entry, nil
}

// Set stores the entry and refreshes its expiry.
func (s *SessionStore) Set(ctx context.Context, sessionID uuid.UUID, entry *sessioncache.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sessionID), payload, s.ttl).Err()
}

// Delete removes the entry. Deleting a missing entry is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
