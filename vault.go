package fieldvault

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finwall/fieldvault/core/doccrypt"
	"github.com/finwall/fieldvault/core/familykeys"
	"github.com/finwall/fieldvault/core/keymanager"
	"github.com/finwall/fieldvault/core/keyvault"
	"github.com/finwall/fieldvault/core/sessioncache"
)

// Vault is the top-level entry point combining key lifecycle management with
// the personal and family document codecs. One Vault serves one user session.
type Vault struct {
	keys   *keymanager.Manager
	groups *familykeys.Distributor
	codec  *doccrypt.Codec
	family *doccrypt.FamilyCodec
}

type options struct {
	log    *slog.Logger
	policy *doccrypt.Policy
}

// Option configures a Vault.
type Option func(*options)

// WithLogger sets the logger propagated to all vault components.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithPolicy overrides the default collection field policy.
func WithPolicy(policy *doccrypt.Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// New builds a Vault over the given stores. The sessionID scopes the cached
// key material to the caller's session.
func New(
	personal keyvault.RecordStore,
	family familykeys.RecordStore,
	sessions sessioncache.Store,
	sessionID uuid.UUID,
	opts ...Option,
) *Vault {
	o := options{
		log:    slog.Default(),
		policy: doccrypt.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	keys := keymanager.New(
		keyvault.NewResolver(personal, keyvault.WithLogger(o.log)),
		sessioncache.New(sessions, sessionID, sessioncache.WithLogger(o.log)),
		keymanager.WithLogger(o.log),
	)
	groups := familykeys.NewDistributor(family, keys, familykeys.WithLogger(o.log))

	return &Vault{
		keys:   keys,
		groups: groups,
		codec:  doccrypt.NewCodec(keys, o.policy, doccrypt.WithLogger(o.log)),
		family: doccrypt.NewFamilyCodec(groups, doccrypt.WithLogger(o.log)),
	}
}

// Unlock derives the user's key-encryption key from the password and resolves
// the personal master key, creating it on first use. Returns
// keyvault.ErrWrongPasswordOrCorruptedKey when the password does not match
// the stored record.
func (v *Vault) Unlock(ctx context.Context, userID, password string) error {
	return v.keys.ResolveWithPassword(ctx, userID, password)
}

// UnlockFederated resolves the master key for a federated (OAuth) user whose
// wrapping key is derived from the user ID alone.
func (v *Vault) UnlockFederated(ctx context.Context, userID string) error {
	return v.keys.ResolveFederated(ctx, userID)
}

// RestoreSession attempts to reactivate the key from the session cache,
// skipping key derivation entirely. Reports whether a cached key was found.
func (v *Vault) RestoreSession(ctx context.Context) bool {
	return v.keys.RestoreFromSession(ctx)
}

// Lock zeroes the active key material and clears the session cache entry.
// The returned error reports a session cache failure only; the in-memory key
// is gone either way.
func (v *Vault) Lock(ctx context.Context) error {
	return v.keys.Clear(ctx)
}

// Ready reports whether an encryption key is active.
func (v *Vault) Ready() bool {
	_, ok := v.keys.ActiveCipher()
	return ok
}

// WaitReady blocks until the key becomes active, the in-flight resolution
// fails, or the bounded wait elapses. Returns keyvault.ErrNotInitialized when
// no key is available.
func (v *Vault) WaitReady(ctx context.Context) error {
	return v.keys.WaitReady(ctx)
}

// UserID returns the user the active key belongs to, or "" when locked.
func (v *Vault) UserID() string {
	return v.keys.UserID()
}

// EncryptValue encrypts a single scalar with the active personal key.
// Returns keyvault.ErrNotInitialized when no key is active.
func (v *Vault) EncryptValue(ctx context.Context, value any) (any, error) {
	if err := v.keys.WaitReady(ctx); err != nil {
		return nil, err
	}
	cipher, ok := v.keys.ActiveCipher()
	if !ok {
		return nil, keyvault.ErrNotInitialized
	}
	return cipher.EncryptValue(value)
}

// DecryptValue decrypts a single scalar with the active personal key.
func (v *Vault) DecryptValue(ctx context.Context, value any) (any, error) {
	if err := v.keys.WaitReady(ctx); err != nil {
		return nil, err
	}
	cipher, ok := v.keys.ActiveCipher()
	if !ok {
		return nil, keyvault.ErrNotInitialized
	}
	return cipher.DecryptValue(value)
}

// EncryptObject encrypts the sensitive fields of a document according to the
// collection's field policy. Best-effort: with no active key the document is
// returned unchanged.
func (v *Vault) EncryptObject(ctx context.Context, doc doccrypt.Document, collection string) doccrypt.Document {
	return v.codec.EncryptObject(ctx, doc, collection)
}

// DecryptObject restores the plaintext fields of a stored document.
// Undecryptable fields carry the placeholder value.
func (v *Vault) DecryptObject(ctx context.Context, doc doccrypt.Document, collection string) doccrypt.Document {
	return v.codec.DecryptObject(ctx, doc, collection)
}

// EncryptArray encrypts each document in order.
func (v *Vault) EncryptArray(ctx context.Context, docs []doccrypt.Document, collection string) []doccrypt.Document {
	return v.codec.EncryptArray(ctx, docs, collection)
}

// DecryptArray decrypts each document in order.
func (v *Vault) DecryptArray(ctx context.Context, docs []doccrypt.Document, collection string) []doccrypt.Document {
	return v.codec.DecryptArray(ctx, docs, collection)
}

// CreateFamilyGroup generates a shared group key and grants the current user
// access. Requires an unlocked vault.
func (v *Vault) CreateFamilyGroup(ctx context.Context, groupID string) error {
	return v.groups.CreateGroupKey(ctx, groupID)
}

// AddFamilyMember grants a federated member access to an existing group key.
// The caller must already be a member.
func (v *Vault) AddFamilyMember(ctx context.Context, groupID, memberID string) error {
	return v.groups.AddMember(ctx, groupID, memberID)
}

// JoinFamilyGroup re-wraps the group key for the current user's own key,
// for example after switching from federated to password-based access.
func (v *Vault) JoinFamilyGroup(ctx context.Context, groupID string) error {
	return v.groups.AddSelfToGroupKey(ctx, groupID)
}

// EncryptFamilyObject encrypts a document with the shared group key so every
// group member can read it. An optional explicit field list overrides the
// default family field policy.
func (v *Vault) EncryptFamilyObject(ctx context.Context, doc doccrypt.Document, groupID string, fields ...string) doccrypt.Document {
	return v.family.EncryptFamilyObject(ctx, doc, groupID, fields...)
}

// DecryptFamilyObject restores a family-encrypted document. Members without
// group access see placeholder values.
func (v *Vault) DecryptFamilyObject(ctx context.Context, doc doccrypt.Document) doccrypt.Document {
	return v.family.DecryptFamilyObject(ctx, doc)
}

// EncryptFamilyArray encrypts each document with the group key, in order.
func (v *Vault) EncryptFamilyArray(ctx context.Context, docs []doccrypt.Document, groupID string, fields ...string) []doccrypt.Document {
	return v.family.EncryptFamilyArray(ctx, docs, groupID, fields...)
}

// DecryptFamilyArray decrypts each family-encrypted document, in order.
func (v *Vault) DecryptFamilyArray(ctx context.Context, docs []doccrypt.Document) []doccrypt.Document {
	return v.family.DecryptFamilyArray(ctx, docs)
}
