package kdf

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Version identifies the current derivation parameter set. Bumping any
	// parameter below requires bumping this and re-keying existing data.
	Version = 3

	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32

	// Iterations is the PBKDF2 stretching count.
	Iterations = 100_000

	saltSize = 16

	kekSaltPrefix = "kek-salt-v3:"
	detSaltPrefix = "det-salt-v3:"
	detKeyPrefix  = "det-key-v3:"
)

// DeriveKEK derives a key-encryption key from a password and user id.
// The KEK is only for wrapping and unwrapping a master key, never for
// encrypting application data directly.
func DeriveKEK(password, userID string) ([]byte, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	salt := deriveSalt(kekSaltPrefix, userID)
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New), nil
}

// DeriveFederatedKey derives a data-encryption key for a federated-identity
// principal. Calling it twice with the same user id yields bit-identical
// keys, with no external I/O.
func DeriveFederatedKey(userID string) ([]byte, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	salt := deriveSalt(detSaltPrefix, userID)
	secret := []byte(detKeyPrefix + userID)
	return pbkdf2.Key(secret, salt, Iterations, KeySize, sha256.New), nil
}

// deriveSalt is the first 16 bytes of SHA-256(prefix + userID). Deterministic
// by design: the same principal must derive the same key on every device.
func deriveSalt(prefix, userID string) []byte {
	sum := sha256.Sum256([]byte(prefix + userID))
	return sum[:saltSize]
}
