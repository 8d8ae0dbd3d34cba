package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finwall/fieldvault/core/familykeys"
	"github.com/finwall/fieldvault/core/keyvault"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// db returns the transaction carried in the context, if any, falling back to
// the pool.
func db(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return pool
}

// PersonalKeyStore implements keyvault.RecordStore over the user_keys table.
type PersonalKeyStore struct {
	pool *pgxpool.Pool
}

// NewPersonalKeyStore builds a store over the pool.
func NewPersonalKeyStore(pool *pgxpool.Pool) *PersonalKeyStore {
	return &PersonalKeyStore{pool: pool}
}

// Get fetches the wrapped key record for the user.
func (s *PersonalKeyStore) Get(ctx context.Context, userID string) (*keyvault.PersonalKeyRecord, error) {
	var record keyvault.PersonalKeyRecord
	err := db(ctx, s.pool).QueryRow(ctx,
		`SELECT user_id, wrapped_master_key, wrap_iv, key_type, version, created_at
		 FROM user_keys WHERE user_id = $1`,
		userID,
	).Scan(
		&record.UserID,
		&record.WrappedMasterKey,
		&record.WrapIV,
		&record.KeyType,
		&record.Version,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, keyvault.ErrRecordNotFound
		}
		return nil, errors.Join(keyvault.ErrStoreFailure, err)
	}
	return &record, nil
}

// Put upserts the wrapped key record, keyed by user id.
func (s *PersonalKeyStore) Put(ctx context.Context, record *keyvault.PersonalKeyRecord) error {
	_, err := db(ctx, s.pool).Exec(ctx,
		`INSERT INTO user_keys (user_id, wrapped_master_key, wrap_iv, key_type, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		     wrapped_master_key = EXCLUDED.wrapped_master_key,
		     wrap_iv = EXCLUDED.wrap_iv,
		     key_type = EXCLUDED.key_type,
		     version = EXCLUDED.version`,
		record.UserID,
		record.WrappedMasterKey,
		record.WrapIV,
		record.KeyType,
		record.Version,
		record.CreatedAt,
	)
	if err != nil {
		return errors.Join(keyvault.ErrStoreFailure, err)
	}
	return nil
}

// FamilyKeyStore implements familykeys.RecordStore over the family_keys
// table. Member grants live in a JSONB column merged with the || operator.
type FamilyKeyStore struct {
	pool *pgxpool.Pool
}

// NewFamilyKeyStore builds a store over the pool.
func NewFamilyKeyStore(pool *pgxpool.Pool) *FamilyKeyStore {
	return &FamilyKeyStore{pool: pool}
}

// Get fetches the group key record.
func (s *FamilyKeyStore) Get(ctx context.Context, groupID string) (*familykeys.FamilyKeyRecord, error) {
	var record familykeys.FamilyKeyRecord
	err := db(ctx, s.pool).QueryRow(ctx,
		`SELECT group_id, member_keys, created_by, created_at, updated_at
		 FROM family_keys WHERE group_id = $1`,
		groupID,
	).Scan(
		&record.GroupID,
		&record.MemberKeys,
		&record.CreatedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, familykeys.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Put upserts the group key record, keyed by group id.
func (s *FamilyKeyStore) Put(ctx context.Context, record *familykeys.FamilyKeyRecord) error {
	_, err := db(ctx, s.pool).Exec(ctx,
		`INSERT INTO family_keys (group_id, member_keys, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (group_id) DO UPDATE SET
		     member_keys = EXCLUDED.member_keys,
		     updated_at = EXCLUDED.updated_at`,
		record.GroupID,
		record.MemberKeys,
		record.CreatedBy,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

// AddMemberKey grants one member access via a JSONB merge, so concurrent
// grants to different members never overwrite each other.
func (s *FamilyKeyStore) AddMemberKey(ctx context.Context, groupID, memberID, wrappedKey string) error {
	tag, err := db(ctx, s.pool).Exec(ctx,
		`UPDATE family_keys
		 SET member_keys = member_keys || jsonb_build_object($2::text, $3::text),
		     updated_at = $4
		 WHERE group_id = $1`,
		groupID, memberID, wrappedKey, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return familykeys.ErrRecordNotFound
	}
	return nil
}
