package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const (
	// IVSize is the AES-GCM nonce length in bytes.
	IVSize = 12

	// TagSize is the AES-GCM authentication tag length in bytes.
	TagSize = 16

	// minCiphertextSize is the smallest decoded payload that can be a real
	// ciphertext: IV, tag, and at least one byte of data. Shorter inputs
	// are plaintext that was never encrypted, not corrupt ciphertext.
	minCiphertextSize = IVSize + TagSize + 1

	// minEncodedSize is the practical minimum length of base64-encoded real
	// ciphertext. Shorter strings are returned unchanged without decoding.
	minEncodedSize = 20
)

// LooksLikeCiphertext reports whether decoded bytes are long enough to be a
// value produced by EncryptValue. This invariant (>= 29 bytes) is load-bearing
// for correctness: it is what lets encrypted and never-encrypted values share
// the same document fields.
func LooksLikeCiphertext(data []byte) bool {
	return len(data) >= minCiphertextSize
}

// Cipher encrypts and decrypts scalar values with a fixed AES-256-GCM key.
// Safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// New creates a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeySize, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return &Cipher{aead: aead}, nil
}

// EncryptValue encrypts a scalar value and returns base64(iv||ciphertext||tag).
// Nil and empty-string values are returned unchanged. Non-string values are
// serialized to their canonical string form first: numbers and booleans via
// their JSON representation, structures via JSON.
func (c *Cipher) EncryptValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return "", nil
	}

	plaintext, err := canonicalString(v)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	raw, err := c.EncryptBytes([]byte(plaintext))
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecryptValue reverses EncryptValue. Values that cannot be ciphertext
// (non-strings, short strings, invalid base64, decoded payloads below the
// 29-byte minimum) are returned unchanged. Authenticated decryption failure
// returns ErrDecryptionFailed. Decrypted plaintext is decoded back to its
// original shape: JSON parse first, numeric parse second, string otherwise.
func (c *Cipher) DecryptValue(v any) (any, error) {
	s, ok := v.(string)
	if !ok || len(s) < minEncodedSize {
		return v, nil
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil || !LooksLikeCiphertext(raw) {
		return v, nil
	}

	plaintext, err := c.DecryptBytes(raw)
	if err != nil {
		return nil, err
	}
	return decodeScalar(string(plaintext)), nil
}

// EncryptBytes encrypts raw bytes and returns iv||ciphertext||tag.
// A fresh random IV is generated on every call.
func (c *Cipher) EncryptBytes(plaintext []byte) ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return c.aead.Seal(iv, iv, plaintext, nil), nil
}

// DecryptBytes decrypts data produced by EncryptBytes (iv||ciphertext||tag).
func (c *Cipher) DecryptBytes(data []byte) ([]byte, error) {
	if len(data) < IVSize+TagSize {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := c.aead.Open(nil, data[:IVSize], data[IVSize:], nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// canonicalString serializes a value for encryption. Strings pass through;
// everything else uses its JSON form, which matches how the decoded value is
// parsed back in decodeScalar.
func canonicalString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize value: %w", err)
	}
	return string(b), nil
}

// decodeScalar restores a decrypted plaintext to its original shape.
func decodeScalar(s string) any {
	var out any
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
