package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/finwall/fieldvault/core/familykeys"
	"github.com/finwall/fieldvault/core/keyvault"
)

// Default collection names for the key registries.
const (
	PersonalKeyCollection = "user_keys"
	FamilyKeyCollection   = "family_keys"
)

// PersonalKeyStore implements keyvault.RecordStore over a MongoDB collection.
type PersonalKeyStore struct {
	collection *mongo.Collection
}

// NewPersonalKeyStore builds a store over the default collection.
func NewPersonalKeyStore(db *mongo.Database) *PersonalKeyStore {
	return &PersonalKeyStore{collection: db.Collection(PersonalKeyCollection)}
}

// Get fetches the wrapped key record for the user.
func (s *PersonalKeyStore) Get(ctx context.Context, userID string) (*keyvault.PersonalKeyRecord, error) {
	var record keyvault.PersonalKeyRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, keyvault.ErrRecordNotFound
		}
		return nil, errors.Join(keyvault.ErrStoreFailure, err)
	}
	return &record, nil
}

// Put upserts the wrapped key record, keyed by user id.
func (s *PersonalKeyStore) Put(ctx context.Context, record *keyvault.PersonalKeyRecord) error {
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"_id": record.UserID},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(keyvault.ErrStoreFailure, err)
	}
	return nil
}

// FamilyKeyStore implements familykeys.RecordStore over a MongoDB collection.
type FamilyKeyStore struct {
	collection *mongo.Collection
}

// NewFamilyKeyStore builds a store over the default collection.
func NewFamilyKeyStore(db *mongo.Database) *FamilyKeyStore {
	return &FamilyKeyStore{collection: db.Collection(FamilyKeyCollection)}
}

// Get fetches the group key record.
func (s *FamilyKeyStore) Get(ctx context.Context, groupID string) (*familykeys.FamilyKeyRecord, error) {
	var record familykeys.FamilyKeyRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": groupID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, familykeys.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Put upserts the group key record, keyed by group id.
func (s *FamilyKeyStore) Put(ctx context.Context, record *familykeys.FamilyKeyRecord) error {
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"_id": record.GroupID},
		record,
		options.Replace().SetUpsert(true),
	)
	return err
}

// AddMemberKey grants one member access via a field-level $set, so concurrent
// grants to different members never overwrite each other.
func (s *FamilyKeyStore) AddMemberKey(ctx context.Context, groupID, memberID, wrappedKey string) error {
	result, err := s.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID},
		bson.M{"$set": bson.M{
			"member_keys." + memberID: wrappedKey,
			"updated_at":              time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return familykeys.ErrRecordNotFound
	}
	return nil
}
