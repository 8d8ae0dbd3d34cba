package familykeys

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/finwall/fieldvault/core/fieldcrypt"
	"github.com/finwall/fieldvault/core/kdf"
	"github.com/finwall/fieldvault/core/keymanager"
	"github.com/finwall/fieldvault/core/keyvault"
	"github.com/finwall/fieldvault/core/logger"
)

const groupKeySize = 32

// Distributor creates, shares, and resolves group keys on behalf of the
// session's current principal. Safe for concurrent use.
type Distributor struct {
	store RecordStore
	keys  *keymanager.Manager
	log   *slog.Logger

	mu    sync.Mutex
	cache map[string]*groupKey
}

type groupKey struct {
	raw    []byte
	cipher *fieldcrypt.Cipher
}

// Option configures a Distributor.
type Option func(*Distributor)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Distributor) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDistributor creates a distributor for the session owning keys.
func NewDistributor(store RecordStore, keys *keymanager.Manager, opts ...Option) *Distributor {
	d := &Distributor{
		store: store,
		keys:  keys,
		log:   slog.Default(),
		cache: make(map[string]*groupKey),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateGroupKey generates a fresh shared key for the group and wraps it for
// the creating member only. Fails if the group already has a key record.
func (d *Distributor) CreateGroupKey(ctx context.Context, groupID string) error {
	personal, memberID, err := d.personalCipher()
	if err != nil {
		return err
	}

	if _, err := d.store.Get(ctx, groupID); err == nil {
		return ErrGroupExists
	} else if !errors.Is(err, ErrRecordNotFound) {
		return err
	}

	raw := make([]byte, groupKeySize)
	if _, err := rand.Read(raw); err != nil {
		return err
	}

	wrapped, err := wrapKey(personal, raw)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	record := &FamilyKeyRecord{
		GroupID:    groupID,
		MemberKeys: map[string]string{memberID: wrapped},
		CreatedBy:  memberID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := d.store.Put(ctx, record); err != nil {
		return err
	}

	cipher, err := fieldcrypt.New(raw)
	if err != nil {
		return err
	}
	d.cacheKey(groupID, raw, cipher)

	d.log.Info("created group key",
		logger.Component("familykeys"),
		logger.GroupID(groupID),
		logger.UserID(memberID),
	)
	return nil
}

// AddSelfToGroupKey wraps a copy of the shared key for the calling member's
// own id with their own personal key. The caller must already be able to
// decrypt the shared key; nobody ever wraps a key on behalf of a principal
// whose key material they do not hold.
func (d *Distributor) AddSelfToGroupKey(ctx context.Context, groupID string) error {
	personal, memberID, err := d.personalCipher()
	if err != nil {
		return err
	}

	raw, err := d.groupKeyBytes(ctx, groupID, personal, memberID)
	if err != nil {
		return err
	}

	wrapped, err := wrapKey(personal, raw)
	if err != nil {
		return err
	}
	return d.store.AddMemberKey(ctx, groupID, memberID, wrapped)
}

// AddMember wraps a copy of the shared key for a federated-identity member.
// The member's personal key is derived deterministically from their id, so
// no secret of theirs is needed. The caller must already have access to the
// group key.
func (d *Distributor) AddMember(ctx context.Context, groupID, memberID string) error {
	personal, selfID, err := d.personalCipher()
	if err != nil {
		return err
	}

	raw, err := d.groupKeyBytes(ctx, groupID, personal, selfID)
	if err != nil {
		return err
	}

	memberKeyBytes, err := kdf.DeriveFederatedKey(memberID)
	if err != nil {
		return err
	}
	memberCipher, err := fieldcrypt.New(memberKeyBytes)
	if err != nil {
		return err
	}

	wrapped, err := wrapKey(memberCipher, raw)
	if err != nil {
		return err
	}
	if err := d.store.AddMemberKey(ctx, groupID, memberID, wrapped); err != nil {
		return err
	}

	d.log.Info("added member to group key",
		logger.Component("familykeys"),
		logger.GroupID(groupID),
		logger.UserID(memberID),
	)
	return nil
}

// GetGroupKey resolves the shared key for the group as the current member.
// Absence from the member map is reported as ErrNoAccess.
func (d *Distributor) GetGroupKey(ctx context.Context, groupID string) (*fieldcrypt.Cipher, error) {
	if cached := d.cachedKey(groupID); cached != nil {
		return cached.cipher, nil
	}

	personal, memberID, err := d.personalCipher()
	if err != nil {
		return nil, err
	}
	if _, err := d.groupKeyBytes(ctx, groupID, personal, memberID); err != nil {
		return nil, err
	}

	// groupKeyBytes populated the cache on success.
	return d.cachedKey(groupID).cipher, nil
}

// groupKeyBytes fetches and unwraps the caller's copy of the shared key,
// caching the result.
func (d *Distributor) groupKeyBytes(ctx context.Context, groupID string, personal *fieldcrypt.Cipher, memberID string) ([]byte, error) {
	if cached := d.cachedKey(groupID); cached != nil {
		return cached.raw, nil
	}

	record, err := d.store.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	wrapped, ok := record.MemberKeys[memberID]
	if !ok {
		return nil, ErrNoAccess
	}

	raw, err := unwrapKey(personal, wrapped)
	if err != nil {
		return nil, err
	}

	cipher, err := fieldcrypt.New(raw)
	if err != nil {
		return nil, errors.Join(ErrCorruptedWrappedKey, err)
	}
	d.cacheKey(groupID, raw, cipher)
	return raw, nil
}

func (d *Distributor) personalCipher() (*fieldcrypt.Cipher, string, error) {
	cipher, ok := d.keys.ActiveCipher()
	if !ok {
		return nil, "", keyvault.ErrNotInitialized
	}
	return cipher, d.keys.UserID(), nil
}

func (d *Distributor) cachedKey(groupID string) *groupKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cache[groupID]
}

func (d *Distributor) cacheKey(groupID string, raw []byte, cipher *fieldcrypt.Cipher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache[groupID] = &groupKey{raw: raw, cipher: cipher}
}

// wrapKey encrypts the shared key bytes, base64-encoded, with the wrapping
// cipher through the field codec, producing an EncryptedScalar string.
func wrapKey(wrapping *fieldcrypt.Cipher, raw []byte) (string, error) {
	wrapped, err := wrapping.EncryptValue(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		return "", err
	}
	s, ok := wrapped.(string)
	if !ok {
		return "", ErrCorruptedWrappedKey
	}
	return s, nil
}

// unwrapKey reverses wrapKey.
func unwrapKey(wrapping *fieldcrypt.Cipher, wrapped string) ([]byte, error) {
	v, err := wrapping.DecryptValue(wrapped)
	if err != nil {
		return nil, err
	}

	encoded, ok := v.(string)
	if !ok {
		return nil, ErrCorruptedWrappedKey
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != groupKeySize {
		return nil, ErrCorruptedWrappedKey
	}
	return raw, nil
}
