package doccrypt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwall/fieldvault/core/doccrypt"
	"github.com/finwall/fieldvault/core/familykeys"
)

func memberDistributor(t *testing.T, store familykeys.RecordStore, userID string) *familykeys.Distributor {
	t.Helper()
	return familykeys.NewDistributor(store, unlockedManager(t, userID))
}

func TestFamilyObjectRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := familykeys.NewMemoryStore()
	alice := memberDistributor(t, store, "alice")
	require.NoError(t, alice.CreateGroupKey(ctx, "fam-1"))

	codec := doccrypt.NewFamilyCodec(alice)
	doc := doccrypt.Document{"amount": 1500, "category": "Food", "familyId": "fam-1"}
	stored := codec.EncryptFamilyObject(ctx, doc, "fam-1")

	assert.NotContains(t, stored, "amount")
	assert.Equal(t, "fam-1", stored[doccrypt.FamilyGroupField])
	assert.Equal(t, "fam-1", stored["familyId"])

	encrypted, ok := stored[doccrypt.FamilyEncryptedField].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, encrypted, "amount")
	assert.Contains(t, encrypted, "category")

	back := codec.DecryptFamilyObject(ctx, stored)
	assert.NotContains(t, back, doccrypt.FamilyEncryptedField)
	assert.NotContains(t, back, doccrypt.FamilyGroupField)
	assert.Equal(t, float64(1500), back["amount"])
	assert.Equal(t, "Food", back["category"])
}

func TestFamilyObjectCrossMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := familykeys.NewMemoryStore()
	alice := memberDistributor(t, store, "alice")
	require.NoError(t, alice.CreateGroupKey(ctx, "fam-1"))
	require.NoError(t, alice.AddMember(ctx, "fam-1", "bob"))

	stored := doccrypt.NewFamilyCodec(alice).
		EncryptFamilyObject(ctx, doccrypt.Document{"amount": 42}, "fam-1")

	bob := memberDistributor(t, store, "bob")
	back := doccrypt.NewFamilyCodec(bob).DecryptFamilyObject(ctx, stored)
	assert.Equal(t, float64(42), back["amount"])
}

func TestFamilyObjectNoAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := familykeys.NewMemoryStore()
	alice := memberDistributor(t, store, "alice")
	require.NoError(t, alice.CreateGroupKey(ctx, "fam-1"))

	stored := doccrypt.NewFamilyCodec(alice).
		EncryptFamilyObject(ctx, doccrypt.Document{"amount": 42, "familyId": "fam-1"}, "fam-1")

	carol := memberDistributor(t, store, "carol")
	back := doccrypt.NewFamilyCodec(carol).DecryptFamilyObject(ctx, stored)

	// Non-members see placeholders, never an error.
	assert.Equal(t, doccrypt.Placeholder, back["amount"])
	assert.Equal(t, "fam-1", back["familyId"])
	assert.NotContains(t, back, doccrypt.FamilyEncryptedField)
}

func TestEncryptFamilyObjectMissingGroup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	codec := doccrypt.NewFamilyCodec(memberDistributor(t, familykeys.NewMemoryStore(), "alice"))

	doc := doccrypt.Document{"amount": 42}
	stored := codec.EncryptFamilyObject(ctx, doc, "fam-missing")

	// Group key unavailable: the document passes through untouched.
	assert.Equal(t, doc, stored)
	assert.NotContains(t, stored, doccrypt.FamilyEncryptedField)
}

func TestEncryptFamilyObjectExplicitFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := familykeys.NewMemoryStore()
	alice := memberDistributor(t, store, "alice")
	require.NoError(t, alice.CreateGroupKey(ctx, "fam-1"))

	codec := doccrypt.NewFamilyCodec(alice)
	doc := doccrypt.Document{"amount": 42, "note": "groceries", "status": "open"}
	stored := codec.EncryptFamilyObject(ctx, doc, "fam-1", "amount", "note")

	assert.Equal(t, "open", stored["status"])

	encrypted, ok := stored[doccrypt.FamilyEncryptedField].(map[string]any)
	require.True(t, ok)
	assert.Len(t, encrypted, 2)
	assert.Contains(t, encrypted, "amount")
	assert.Contains(t, encrypted, "note")
}

func TestFamilyArraysPreserveOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := familykeys.NewMemoryStore()
	alice := memberDistributor(t, store, "alice")
	require.NoError(t, alice.CreateGroupKey(ctx, "fam-1"))

	codec := doccrypt.NewFamilyCodec(alice)
	docs := []doccrypt.Document{
		{"amount": 1},
		{"amount": 2},
		{"amount": 3},
	}

	stored := codec.EncryptFamilyArray(ctx, docs, "fam-1")
	require.Len(t, stored, 3)
	back := codec.DecryptFamilyArray(ctx, stored)
	require.Len(t, back, 3)

	for i, doc := range back {
		assert.Equal(t, float64(i+1), doc["amount"])
	}
}

func TestFamilyObjectDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := familykeys.NewMemoryStore()
	alice := memberDistributor(t, store, "alice")
	require.NoError(t, alice.CreateGroupKey(ctx, "fam-1"))

	codec := doccrypt.NewFamilyCodec(alice)
	doc := doccrypt.Document{"amount": 42, "familyId": "fam-1"}
	_ = codec.EncryptFamilyObject(ctx, doc, "fam-1")

	assert.Equal(t, doccrypt.Document{"amount": 42, "familyId": "fam-1"}, doc)
}
