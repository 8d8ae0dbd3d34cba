package familykeys

import (
	"context"
	"time"
)

// FamilyKeyRecord is the remotely stored form of a group's shared key:
// one wrapped copy per member, keyed by member id. The plaintext shared key
// never appears in this record.
type FamilyKeyRecord struct {
	GroupID    string            `bson:"_id" json:"groupId"`
	MemberKeys map[string]string `bson:"member_keys" json:"memberKeys"`
	CreatedBy  string            `bson:"created_by" json:"createdBy"`
	CreatedAt  time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time         `bson:"updated_at" json:"updatedAt"`
}

// RecordStore persists family key records, keyed by group id.
// Implementations must return ErrRecordNotFound (possibly wrapped) for
// missing groups and must implement AddMemberKey as a merge so concurrent
// member additions do not overwrite each other.
type RecordStore interface {
	Get(ctx context.Context, groupID string) (*FamilyKeyRecord, error)
	Put(ctx context.Context, record *FamilyKeyRecord) error
	AddMemberKey(ctx context.Context, groupID, memberID, wrappedKey string) error
}
