package familykeys_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwall/fieldvault/core/familykeys"
	"github.com/finwall/fieldvault/core/keymanager"
	"github.com/finwall/fieldvault/core/keyvault"
	"github.com/finwall/fieldvault/core/sessioncache"
)

type noRecordStore struct{}

func (noRecordStore) Get(ctx context.Context, userID string) (*keyvault.PersonalKeyRecord, error) {
	return nil, keyvault.ErrRecordNotFound
}

func (noRecordStore) Put(ctx context.Context, record *keyvault.PersonalKeyRecord) error {
	return nil
}

// federatedSession builds a key manager with an active deterministic key,
// the principal type family sharing is designed around.
func federatedSession(t *testing.T, userID string) *keymanager.Manager {
	t.Helper()
	m := keymanager.New(
		keyvault.NewResolver(noRecordStore{}),
		sessioncache.New(sessioncache.NewMemoryStore(), uuid.New()),
	)
	require.NoError(t, m.ResolveFederated(context.Background(), userID))
	return m
}

func TestCreateAndGetGroupKey(t *testing.T) {
	t.Parallel()

	store := familykeys.NewMemoryStore()
	creator := familykeys.NewDistributor(store, federatedSession(t, "alice"))

	require.NoError(t, creator.CreateGroupKey(context.Background(), "family-1"))

	cipher, err := creator.GetGroupKey(context.Background(), "family-1")
	require.NoError(t, err)
	require.NotNil(t, cipher)

	record, err := store.Get(context.Background(), "family-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.CreatedBy)
	assert.Len(t, record.MemberKeys, 1)
	assert.Contains(t, record.MemberKeys, "alice")
}

func TestCreateGroupKeyTwice(t *testing.T) {
	t.Parallel()

	store := familykeys.NewMemoryStore()
	creator := familykeys.NewDistributor(store, federatedSession(t, "alice"))

	require.NoError(t, creator.CreateGroupKey(context.Background(), "family-1"))
	err := creator.CreateGroupKey(context.Background(), "family-1")
	require.ErrorIs(t, err, familykeys.ErrGroupExists)
}

func TestCreateGroupKeyRequiresActiveKey(t *testing.T) {
	t.Parallel()

	locked := keymanager.New(
		keyvault.NewResolver(noRecordStore{}),
		sessioncache.New(sessioncache.NewMemoryStore(), uuid.New()),
	)
	d := familykeys.NewDistributor(familykeys.NewMemoryStore(), locked)

	err := d.CreateGroupKey(context.Background(), "family-1")
	require.ErrorIs(t, err, keyvault.ErrNotInitialized)
}

func TestMemberSharing(t *testing.T) {
	t.Parallel()

	store := familykeys.NewMemoryStore()
	ctx := context.Background()

	// A creates the group key and adds B; C is never added.
	a := familykeys.NewDistributor(store, federatedSession(t, "alice"))
	require.NoError(t, a.CreateGroupKey(ctx, "family-1"))
	require.NoError(t, a.AddMember(ctx, "family-1", "bob"))

	b := familykeys.NewDistributor(store, federatedSession(t, "bob"))
	bCipher, err := b.GetGroupKey(ctx, "family-1")
	require.NoError(t, err)

	c := familykeys.NewDistributor(store, federatedSession(t, "carol"))
	_, err = c.GetGroupKey(ctx, "family-1")
	require.ErrorIs(t, err, familykeys.ErrNoAccess)

	// A and B hold the same shared key: ciphertext crosses members.
	aCipher, err := a.GetGroupKey(ctx, "family-1")
	require.NoError(t, err)

	stored, err := aCipher.EncryptValue("family grocery budget")
	require.NoError(t, err)
	back, err := bCipher.DecryptValue(stored)
	require.NoError(t, err)
	assert.Equal(t, "family grocery budget", back)
}

func TestAddMemberRequiresAccess(t *testing.T) {
	t.Parallel()

	store := familykeys.NewMemoryStore()
	ctx := context.Background()

	a := familykeys.NewDistributor(store, federatedSession(t, "alice"))
	require.NoError(t, a.CreateGroupKey(ctx, "family-1"))

	// An outsider cannot grant membership, not even to themselves.
	mallory := familykeys.NewDistributor(store, federatedSession(t, "mallory"))
	err := mallory.AddMember(ctx, "family-1", "mallory")
	require.ErrorIs(t, err, familykeys.ErrNoAccess)

	err = mallory.AddSelfToGroupKey(ctx, "family-1")
	require.ErrorIs(t, err, familykeys.ErrNoAccess)
}

func TestAddSelfToGroupKey(t *testing.T) {
	t.Parallel()

	store := familykeys.NewMemoryStore()
	ctx := context.Background()

	a := familykeys.NewDistributor(store, federatedSession(t, "alice"))
	require.NoError(t, a.CreateGroupKey(ctx, "family-1"))
	require.NoError(t, a.AddMember(ctx, "family-1", "bob"))

	// Bob refreshes his own wrapped copy; membership stays at two.
	b := familykeys.NewDistributor(store, federatedSession(t, "bob"))
	require.NoError(t, b.AddSelfToGroupKey(ctx, "family-1"))

	record, err := store.Get(ctx, "family-1")
	require.NoError(t, err)
	assert.Len(t, record.MemberKeys, 2)

	// The refreshed entry still unwraps to the same shared key.
	fresh := familykeys.NewDistributor(store, federatedSession(t, "bob"))
	_, err = fresh.GetGroupKey(ctx, "family-1")
	require.NoError(t, err)
}

func TestGetGroupKeyMissingGroup(t *testing.T) {
	t.Parallel()

	d := familykeys.NewDistributor(familykeys.NewMemoryStore(), federatedSession(t, "alice"))
	_, err := d.GetGroupKey(context.Background(), "nope")
	require.ErrorIs(t, err, familykeys.ErrRecordNotFound)
}

func TestGetGroupKeyUsesCache(t *testing.T) {
	t.Parallel()

	store := familykeys.NewMemoryStore()
	ctx := context.Background()

	a := familykeys.NewDistributor(store, federatedSession(t, "alice"))
	require.NoError(t, a.CreateGroupKey(ctx, "family-1"))

	first, err := a.GetGroupKey(ctx, "family-1")
	require.NoError(t, err)
	second, err := a.GetGroupKey(ctx, "family-1")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
