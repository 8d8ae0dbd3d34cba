package doccrypt

// Document is an application document as stored in the remote document
// store. Codecs never mutate their input; they return a new map.
type Document = map[string]any

// Reserved document fields owned by the codecs. Never encrypted.
const (
	// EncryptedField is the side-map holding personally encrypted values.
	EncryptedField = "_encrypted"
	// VersionField tags a personally encrypted document with the
	// encryption parameter version.
	VersionField = "_encryptionVersion"
	// FamilyEncryptedField is the side-map holding group-encrypted values.
	FamilyEncryptedField = "_familyEncrypted"
	// FamilyGroupField tags a group-encrypted document with the group id
	// whose shared key decrypts it.
	FamilyGroupField = "_familyGroupId"
)

// Placeholder replaces a field whose plaintext is temporarily unavailable:
// the key is not ready, or the field failed to decrypt. Callers must treat
// it as "unavailable", never as the stored value.
const Placeholder = "[encrypted]"

// FieldPolicy is the per-collection encryption policy: an allow-list of
// fields that stay plaintext. Every other present, non-empty field is
// encrypted (default-secure: fields are opted out, not in).
type FieldPolicy struct {
	plaintext map[string]struct{}
}

// NewFieldPolicy builds a policy from the fields that must stay plaintext.
func NewFieldPolicy(plaintextFields ...string) FieldPolicy {
	p := FieldPolicy{plaintext: make(map[string]struct{}, len(plaintextFields))}
	for _, f := range plaintextFields {
		p.plaintext[f] = struct{}{}
	}
	return p
}

// IsPlaintext reports whether the field is excluded from encryption.
// Reserved codec fields are always plaintext.
func (p FieldPolicy) IsPlaintext(field string) bool {
	switch field {
	case EncryptedField, VersionField, FamilyEncryptedField, FamilyGroupField:
		return true
	}
	_, ok := p.plaintext[field]
	return ok
}

// Policy maps collection names to their field policies. A collection with
// no entry is not encrypted at all (the allow-list of encrypted
// collections). Constructed once at startup, read-only afterwards.
type Policy struct {
	collections map[string]FieldPolicy
}

// NewPolicy builds a policy set from plaintext-field lists per collection.
func NewPolicy(collections map[string][]string) *Policy {
	p := &Policy{collections: make(map[string]FieldPolicy, len(collections))}
	for name, fields := range collections {
		p.collections[name] = NewFieldPolicy(fields...)
	}
	return p
}

// Lookup returns the field policy for a collection and whether the
// collection is encrypted at all.
func (p *Policy) Lookup(collection string) (FieldPolicy, bool) {
	fp, ok := p.collections[collection]
	return fp, ok
}

// defaultPlaintextFields are identifiers and bookkeeping fields that every
// collection keeps readable: they are needed for querying and carry no
// financial content.
var defaultPlaintextFields = []string{
	"id", "userId", "familyId", "createdAt", "updatedAt", "date",
}

// DefaultPolicy covers the personal-finance collections with their
// identifier and bookkeeping fields left plaintext. Amounts, descriptions,
// categories, and anything else land in the side-map.
func DefaultPolicy() *Policy {
	return NewPolicy(map[string][]string{
		"expenses":  defaultPlaintextFields,
		"incomes":   defaultPlaintextFields,
		"budgets":   defaultPlaintextFields,
		"recurring": defaultPlaintextFields,
		"accounts":  defaultPlaintextFields,
	})
}

// DefaultFamilyFieldPolicy is the fallback policy for group-owned documents
// encrypted without an explicit field list.
func DefaultFamilyFieldPolicy() FieldPolicy {
	return NewFieldPolicy(defaultPlaintextFields...)
}
