package keyvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

const (
	masterKeySize = 32
	wrapIVSize    = 12
)

// wrapMasterKey encrypts a master key with the KEK using AES-GCM and a
// fresh random 12-byte IV. The IV is returned separately because the record
// stores it as its own field.
func wrapMasterKey(kek, masterKey []byte) (wrapped, iv []byte, err error) {
	aead, err := newGCM(kek)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, wrapIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, err
	}

	return aead.Seal(nil, iv, masterKey, nil), iv, nil
}

// unwrapMasterKey reverses wrapMasterKey. Authentication failure means the
// KEK (and therefore the password) is wrong, or the record is corrupted.
func unwrapMasterKey(kek, wrapped, iv []byte) ([]byte, error) {
	aead, err := newGCM(kek)
	if err != nil {
		return nil, err
	}
	if len(iv) != wrapIVSize {
		return nil, ErrWrongPasswordOrCorruptedKey
	}

	masterKey, err := aead.Open(nil, iv, wrapped, nil)
	if err != nil {
		return nil, errors.Join(ErrWrongPasswordOrCorruptedKey, err)
	}
	return masterKey, nil
}

// generateMasterKey returns a fresh random 256-bit master key.
func generateMasterKey() ([]byte, error) {
	key := make([]byte, masterKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
