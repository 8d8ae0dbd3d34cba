package keymanager_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwall/fieldvault/core/kdf"
	"github.com/finwall/fieldvault/core/keymanager"
	"github.com/finwall/fieldvault/core/keyvault"
	"github.com/finwall/fieldvault/core/sessioncache"
)

// memRecordStore is a minimal in-memory keyvault.RecordStore.
type memRecordStore struct {
	mu      sync.Mutex
	records map[string]*keyvault.PersonalKeyRecord
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{records: make(map[string]*keyvault.PersonalKeyRecord)}
}

func (s *memRecordStore) Get(ctx context.Context, userID string) (*keyvault.PersonalKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return nil, keyvault.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *memRecordStore) Put(ctx context.Context, record *keyvault.PersonalKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[record.UserID] = &copied
	return nil
}

func newManager(t *testing.T, store keyvault.RecordStore, cacheStore sessioncache.Store) *keymanager.Manager {
	t.Helper()
	return keymanager.New(
		keyvault.NewResolver(store),
		sessioncache.New(cacheStore, uuid.New()),
	)
}

func TestResolveWithPasswordActivatesKey(t *testing.T) {
	t.Parallel()

	m := newManager(t, newMemRecordStore(), sessioncache.NewMemoryStore())

	_, ok := m.ActiveCipher()
	require.False(t, ok)

	require.NoError(t, m.ResolveWithPassword(context.Background(), "u1", "hunter2"))

	cipher, ok := m.ActiveCipher()
	require.True(t, ok)
	require.NotNil(t, cipher)
	assert.Equal(t, "u1", m.UserID())
	assert.NoError(t, m.WaitReady(context.Background()))
}

func TestResolveWithPasswordWrongPassword(t *testing.T) {
	t.Parallel()

	records := newMemRecordStore()
	first := newManager(t, records, sessioncache.NewMemoryStore())
	require.NoError(t, first.ResolveWithPassword(context.Background(), "u1", "hunter2"))

	second := newManager(t, records, sessioncache.NewMemoryStore())
	err := second.ResolveWithPassword(context.Background(), "u1", "wrong")
	require.ErrorIs(t, err, keyvault.ErrWrongPasswordOrCorruptedKey)

	_, ok := second.ActiveCipher()
	assert.False(t, ok)

	// WaitReady surfaces the terminal failure instead of timing out.
	err = second.WaitReady(context.Background())
	require.ErrorIs(t, err, keyvault.ErrWrongPasswordOrCorruptedKey)
}

func TestResolveFederatedDeterministic(t *testing.T) {
	t.Parallel()

	first := newManager(t, newMemRecordStore(), sessioncache.NewMemoryStore())
	require.NoError(t, first.ResolveFederated(context.Background(), "oauth-7"))

	second := newManager(t, newMemRecordStore(), sessioncache.NewMemoryStore())
	require.NoError(t, second.ResolveFederated(context.Background(), "oauth-7"))

	// Same principal on two "devices": ciphertext from one decrypts on the other.
	c1, ok := first.ActiveCipher()
	require.True(t, ok)
	c2, ok := second.ActiveCipher()
	require.True(t, ok)

	stored, err := c1.EncryptValue("cross-device secret")
	require.NoError(t, err)
	back, err := c2.DecryptValue(stored)
	require.NoError(t, err)
	assert.Equal(t, "cross-device secret", back)
}

func TestResolveFederatedRequiresUserID(t *testing.T) {
	t.Parallel()

	m := newManager(t, newMemRecordStore(), sessioncache.NewMemoryStore())
	err := m.ResolveFederated(context.Background(), "")
	require.ErrorIs(t, err, kdf.ErrMissingUserID)
}

func TestRestoreFromSessionFastPath(t *testing.T) {
	t.Parallel()

	records := newMemRecordStore()
	cacheStore := sessioncache.NewMemoryStore()
	sessionID := uuid.New()

	first := keymanager.New(
		keyvault.NewResolver(records),
		sessioncache.New(cacheStore, sessionID),
	)
	require.NoError(t, first.ResolveWithPassword(context.Background(), "u1", "hunter2"))
	original, _ := first.ActiveCipher()

	// New process, same session: no password needed.
	restarted := keymanager.New(
		keyvault.NewResolver(records),
		sessioncache.New(cacheStore, sessionID),
	)
	require.True(t, restarted.RestoreFromSession(context.Background()))
	assert.Equal(t, "u1", restarted.UserID())

	restoredCipher, ok := restarted.ActiveCipher()
	require.True(t, ok)

	stored, err := original.EncryptValue("persisted across restart")
	require.NoError(t, err)
	back, err := restoredCipher.DecryptValue(stored)
	require.NoError(t, err)
	assert.Equal(t, "persisted across restart", back)
}

func TestRestoreFromSessionMiss(t *testing.T) {
	t.Parallel()

	m := newManager(t, newMemRecordStore(), sessioncache.NewMemoryStore())
	assert.False(t, m.RestoreFromSession(context.Background()))
}

func TestWaitReadyNoResolution(t *testing.T) {
	t.Parallel()

	m := newManager(t, newMemRecordStore(), sessioncache.NewMemoryStore())
	err := m.WaitReady(context.Background())
	require.ErrorIs(t, err, keyvault.ErrNotInitialized)
}

func TestWaitReadyWakesOnResolution(t *testing.T) {
	t.Parallel()

	m := keymanager.New(
		keyvault.NewResolver(newMemRecordStore()),
		sessioncache.New(sessioncache.NewMemoryStore(), uuid.New()),
		keymanager.WithWaitTimeout(2*time.Second),
	)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = m.ResolveWithPassword(context.Background(), "u1", "hunter2")
	}()

	// Give the goroutine a moment to start its attempt, then wait on it.
	require.Eventually(t, func() bool {
		return m.WaitReady(context.Background()) == nil
	}, 3*time.Second, 10*time.Millisecond)
}

func TestClearRemovesKeyAndSessionEntry(t *testing.T) {
	t.Parallel()

	cacheStore := sessioncache.NewMemoryStore()
	sessionID := uuid.New()
	m := keymanager.New(
		keyvault.NewResolver(newMemRecordStore()),
		sessioncache.New(cacheStore, sessionID),
	)

	require.NoError(t, m.ResolveWithPassword(context.Background(), "u1", "hunter2"))
	require.NoError(t, m.Clear(context.Background()))

	_, ok := m.ActiveCipher()
	assert.False(t, ok)
	assert.Empty(t, m.UserID())

	_, err := cacheStore.Get(context.Background(), sessionID)
	require.ErrorIs(t, err, sessioncache.ErrEntryNotFound)
}
