package keyvault

import (
	"context"
	"time"
)

// KeyType identifies how a principal's data key is obtained.
type KeyType string

const (
	// KeyTypePassword marks a master key wrapped with a password-derived KEK.
	KeyTypePassword KeyType = "password"
	// KeyTypeFederated marks a principal whose data key is derived
	// deterministically from the user id. Federated principals normally
	// need no record at all; the type exists so a record, if ever written,
	// is self-describing.
	KeyTypeFederated KeyType = "federated"
)

// PersonalKeyRecord is the remotely stored, wrapped form of a user's master
// key. One record per user, keyed by user id, never deleted automatically.
// The plaintext master key never appears in this record.
type PersonalKeyRecord struct {
	UserID           string    `bson:"_id" json:"userId"`
	WrappedMasterKey []byte    `bson:"wrapped_master_key" json:"wrappedMasterKey"`
	WrapIV           []byte    `bson:"wrap_iv" json:"wrapIv"`
	KeyType          KeyType   `bson:"key_type" json:"keyType"`
	Version          int       `bson:"version" json:"version"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
}

// RecordStore is the remote key registry. Implementations must return
// ErrRecordNotFound (possibly wrapped) when no record exists for the user.
type RecordStore interface {
	Get(ctx context.Context, userID string) (*PersonalKeyRecord, error)
	Put(ctx context.Context, record *PersonalKeyRecord) error
}
