package sessioncache_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwall/fieldvault/core/sessioncache"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := sessioncache.NewMemoryStore()
	cache := sessioncache.New(store, uuid.New())
	key := randomKey(t)

	require.NoError(t, cache.Save(context.Background(), "u1", key, 3))

	userID, restored, ok := cache.Restore(context.Background())
	require.True(t, ok)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, key, restored)
}

func TestRestoreMiss(t *testing.T) {
	t.Parallel()

	cache := sessioncache.New(sessioncache.NewMemoryStore(), uuid.New())

	_, _, ok := cache.Restore(context.Background())
	assert.False(t, ok)
}

func TestRestoreCorruptedEntryClearsCache(t *testing.T) {
	t.Parallel()

	store := sessioncache.NewMemoryStore()
	sessionID := uuid.New()
	cache := sessioncache.New(store, sessionID)

	require.NoError(t, store.Set(context.Background(), sessionID, &sessioncache.Entry{
		RawKeyBase64: "not!!base64",
		UserID:       "u1",
	}))

	_, _, ok := cache.Restore(context.Background())
	require.False(t, ok)

	// The corrupted entry was removed, not left for retry.
	_, err := store.Get(context.Background(), sessionID)
	require.ErrorIs(t, err, sessioncache.ErrEntryNotFound)
}

func TestRestoreWrongKeyLength(t *testing.T) {
	t.Parallel()

	store := sessioncache.NewMemoryStore()
	sessionID := uuid.New()
	cache := sessioncache.New(store, sessionID)

	// Valid base64, wrong decoded length.
	require.NoError(t, store.Set(context.Background(), sessionID, &sessioncache.Entry{
		RawKeyBase64: "c2hvcnQ=",
		UserID:       "u1",
	}))

	_, _, ok := cache.Restore(context.Background())
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	t.Parallel()

	store := sessioncache.NewMemoryStore()
	cache := sessioncache.New(store, uuid.New())

	require.NoError(t, cache.Save(context.Background(), "u1", randomKey(t), 3))
	require.NoError(t, cache.Clear(context.Background()))

	_, _, ok := cache.Restore(context.Background())
	assert.False(t, ok)
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	store := sessioncache.NewMemoryStore()
	first := sessioncache.New(store, uuid.New())
	second := sessioncache.New(store, uuid.New())

	require.NoError(t, first.Save(context.Background(), "u1", randomKey(t), 3))

	_, _, ok := second.Restore(context.Background())
	assert.False(t, ok)
}
