package doccrypt

import (
	"context"
	"log/slog"
	"maps"

	"github.com/finwall/fieldvault/core/fieldcrypt"
	"github.com/finwall/fieldvault/core/kdf"
	"github.com/finwall/fieldvault/core/keymanager"
	"github.com/finwall/fieldvault/core/logger"
)

// Codec encrypts and decrypts documents with the session's personal key.
// Safe for concurrent use.
type Codec struct {
	keys   *keymanager.Manager
	policy *Policy
	log    *slog.Logger
}

// Option configures a Codec or FamilyCodec.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{log: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewCodec creates a codec bound to a session's key manager and a policy
// set constructed at startup.
func NewCodec(keys *keymanager.Manager, policy *Policy, opts ...Option) *Codec {
	o := applyOptions(opts)
	return &Codec{keys: keys, policy: policy, log: o.log}
}

// EncryptObject encrypts the sensitive fields of doc for the named
// collection. If the collection is not on the encrypted allow-list or the
// key is not ready, the document is returned unchanged; callers that need a
// guarantee must check the result for the side-map. The input is never
// mutated.
func (c *Codec) EncryptObject(ctx context.Context, doc Document, collection string) Document {
	if doc == nil {
		return nil
	}

	fieldPolicy, ok := c.policy.Lookup(collection)
	if !ok {
		return doc
	}

	cipher, ok := c.readyCipher(ctx)
	if !ok {
		c.log.Warn("storing document in plaintext, key not ready",
			logger.Component("doccrypt"),
			logger.Collection(collection),
		)
		return doc
	}

	return encryptFields(doc, fieldPolicy, cipher, c.log, sideMapSpec{
		mapField: EncryptedField,
		tags:     Document{VersionField: kdf.Version},
	}, collection)
}

// DecryptObject reverses EncryptObject. A document without a side-map is
// returned as-is. With the key not ready, every encrypted field becomes the
// Placeholder; a single failing field becomes the Placeholder with a
// warning while the rest of the document decrypts normally.
func (c *Codec) DecryptObject(ctx context.Context, doc Document, collection string) Document {
	encrypted, ok := sideMap(doc, EncryptedField)
	if !ok {
		return doc
	}

	cipher, ready := c.readyCipher(ctx)
	var decrypt decryptFunc
	if ready {
		decrypt = cipher.DecryptValue
	}

	return decryptFields(doc, encrypted, decrypt, c.log, sideMapSpec{
		mapField: EncryptedField,
		tags:     Document{VersionField: nil},
	}, collection)
}

// EncryptArray applies EncryptObject to each element, preserving order.
func (c *Codec) EncryptArray(ctx context.Context, docs []Document, collection string) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = c.EncryptObject(ctx, doc, collection)
	}
	return out
}

// DecryptArray applies DecryptObject to each element, preserving order.
func (c *Codec) DecryptArray(ctx context.Context, docs []Document, collection string) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = c.DecryptObject(ctx, doc, collection)
	}
	return out
}

// readyCipher waits (bounded) for the key to reach a terminal state and
// returns the active cipher if there is one.
func (c *Codec) readyCipher(ctx context.Context) (*fieldcrypt.Cipher, bool) {
	if err := c.keys.WaitReady(ctx); err != nil {
		return nil, false
	}
	return c.keys.ActiveCipher()
}

type decryptFunc func(v any) (any, error)

// sideMapSpec names the side-map field and the tag fields a codec variant
// adds on encryption and strips on decryption.
type sideMapSpec struct {
	mapField string
	// tags are written with their values on encryption; on decryption the
	// keys are removed regardless of value.
	tags Document
}

// encryptFields moves every sensitive, present, non-empty field of doc into
// the side-map. Shared by the personal and family codecs.
func encryptFields(doc Document, policy FieldPolicy, cipher *fieldcrypt.Cipher, log *slog.Logger, shape sideMapSpec, scope string) Document {
	out := maps.Clone(doc)
	encrypted := make(map[string]any)

	for field, value := range doc {
		if policy.IsPlaintext(field) || isEmpty(value) {
			continue
		}

		stored, err := cipher.EncryptValue(value)
		if err != nil {
			// Degrade to plaintext rather than losing the write.
			log.Error("field encryption failed, storing plaintext",
				logger.Component("doccrypt"),
				logger.Collection(scope),
				logger.Field(field),
				logger.Error(err),
			)
			continue
		}

		encrypted[field] = stored
		delete(out, field)
	}

	// An empty side-map is never persisted.
	if len(encrypted) == 0 {
		return out
	}

	out[shape.mapField] = encrypted
	for tag, value := range shape.tags {
		out[tag] = value
	}
	return out
}

// decryptFields restores side-map entries to the top level. A nil decrypt
// func means the key is unavailable: every entry becomes the Placeholder.
func decryptFields(doc Document, encrypted map[string]any, decrypt decryptFunc, log *slog.Logger, shape sideMapSpec, scope string) Document {
	out := maps.Clone(doc)
	delete(out, shape.mapField)
	for tag := range shape.tags {
		delete(out, tag)
	}

	for field, stored := range encrypted {
		if decrypt == nil {
			out[field] = Placeholder
			continue
		}

		value, err := decrypt(stored)
		if err != nil {
			log.Warn("field decryption failed, using placeholder",
				logger.Component("doccrypt"),
				logger.Collection(scope),
				logger.Field(field),
				logger.Error(err),
			)
			out[field] = Placeholder
			continue
		}
		out[field] = value
	}

	return out
}

// sideMap extracts a side-map field, tolerating both the in-memory form
// (map[string]any) and decoded wire forms (map[string]string).
func sideMap(doc Document, field string) (map[string]any, bool) {
	raw, ok := doc[field]
	if !ok {
		return nil, false
	}

	switch m := raw.(type) {
	case map[string]any:
		return m, len(m) > 0
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, len(out) > 0
	default:
		return nil, false
	}
}

// isEmpty reports whether a value is skipped entirely by encryption:
// nil or the empty string.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}
