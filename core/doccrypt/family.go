package doccrypt

import (
	"context"
	"log/slog"

	"github.com/finwall/fieldvault/core/familykeys"
	"github.com/finwall/fieldvault/core/logger"
)

// FamilyCodec encrypts and decrypts group-owned documents with the group's
// shared key instead of the session's personal key. Structurally identical
// to Codec; the side-map and tag fields differ so a stored document signals
// which key domain decrypts it. Safe for concurrent use.
type FamilyCodec struct {
	groups *familykeys.Distributor
	log    *slog.Logger
}

// NewFamilyCodec creates a codec resolving keys through the distributor.
func NewFamilyCodec(groups *familykeys.Distributor, opts ...Option) *FamilyCodec {
	o := applyOptions(opts)
	return &FamilyCodec{groups: groups, log: o.log}
}

// EncryptFamilyObject encrypts the sensitive fields of doc with the group's
// shared key. With no explicit fields the default family policy applies
// (default-secure sweep); with fields given, exactly those fields are
// encrypted when present and non-empty. If the shared key is unavailable
// (no access, key not ready) the document is returned unchanged.
func (fc *FamilyCodec) EncryptFamilyObject(ctx context.Context, doc Document, groupID string, fields ...string) Document {
	if doc == nil {
		return nil
	}

	cipher, err := fc.groups.GetGroupKey(ctx, groupID)
	if err != nil {
		fc.log.Warn("storing family document in plaintext, group key unavailable",
			logger.Component("doccrypt"),
			logger.GroupID(groupID),
			logger.Error(err),
		)
		return doc
	}

	policy := DefaultFamilyFieldPolicy()
	if len(fields) > 0 {
		policy = explicitFieldPolicy(doc, fields)
	}

	return encryptFields(doc, policy, cipher, fc.log, sideMapSpec{
		mapField: FamilyEncryptedField,
		tags:     Document{FamilyGroupField: groupID},
	}, groupID)
}

// DecryptFamilyObject reverses EncryptFamilyObject, resolving the shared
// key from the document's own group tag. Without access to the group key
// every encrypted field becomes the Placeholder.
func (fc *FamilyCodec) DecryptFamilyObject(ctx context.Context, doc Document) Document {
	encrypted, ok := sideMap(doc, FamilyEncryptedField)
	if !ok {
		return doc
	}

	groupID, _ := doc[FamilyGroupField].(string)

	var decrypt decryptFunc
	if groupID != "" {
		if cipher, err := fc.groups.GetGroupKey(ctx, groupID); err == nil {
			decrypt = cipher.DecryptValue
		}
	}

	return decryptFields(doc, encrypted, decrypt, fc.log, sideMapSpec{
		mapField: FamilyEncryptedField,
		tags:     Document{FamilyGroupField: nil},
	}, groupID)
}

// EncryptFamilyArray applies EncryptFamilyObject element-wise, preserving order.
func (fc *FamilyCodec) EncryptFamilyArray(ctx context.Context, docs []Document, groupID string, fields ...string) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = fc.EncryptFamilyObject(ctx, doc, groupID, fields...)
	}
	return out
}

// DecryptFamilyArray applies DecryptFamilyObject element-wise, preserving order.
func (fc *FamilyCodec) DecryptFamilyArray(ctx context.Context, docs []Document) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = fc.DecryptFamilyObject(ctx, doc)
	}
	return out
}

// explicitFieldPolicy inverts an explicit encrypt-list into the allow-list
// shape encryptFields expects: everything in the document except the named
// fields is plaintext.
func explicitFieldPolicy(doc Document, fields []string) FieldPolicy {
	encrypt := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		encrypt[f] = struct{}{}
	}

	plaintext := make([]string, 0, len(doc))
	for field := range doc {
		if _, ok := encrypt[field]; !ok {
			plaintext = append(plaintext, field)
		}
	}
	return NewFieldPolicy(plaintext...)
}
