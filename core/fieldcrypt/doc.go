// Package fieldcrypt provides authenticated encryption of single scalar
// values (strings, numbers, JSON-serializable structures) with AES-256-GCM.
//
// Encrypted values are stored as base64(iv || ciphertext || tag) with a
// 12-byte IV and a 16-byte tag. A fresh random IV is generated on every
// call; IV reuse under the same key breaks confidentiality and must never
// happen, including across retries.
//
// # Plaintext passthrough
//
// The surrounding system stores never-encrypted values through the same
// fields, so DecryptValue must not mistake them for ciphertext. Two guards
// implement this:
//
//   - strings shorter than 20 characters (the practical minimum for base64
//     of a real ciphertext) are returned unchanged without decoding;
//   - decoded payloads shorter than 29 bytes (12-byte IV + 16-byte tag +
//     at least 1 byte of data) are returned unchanged. See
//     LooksLikeCiphertext for the documented invariant.
//
// Anything that passes both guards but fails authentication is a real
// decryption failure (wrong key or corrupted data) and is reported as
// ErrDecryptionFailed.
//
// # Usage
//
//	cipher, err := fieldcrypt.New(key) // 32-byte key
//	if err != nil {
//		return err
//	}
//
//	stored, err := cipher.EncryptValue(1500)   // base64 string
//	back, err := cipher.DecryptValue(stored)   // float64(1500)
//
// A Cipher is safe for concurrent use.
package fieldcrypt
