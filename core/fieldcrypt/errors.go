package fieldcrypt

import "errors"

var (
	// ErrInvalidKeySize indicates the key is not 32 bytes (AES-256).
	ErrInvalidKeySize = errors.New("fieldcrypt: key must be 32 bytes")

	// ErrEncryptionFailed indicates a value could not be serialized or
	// encrypted.
	ErrEncryptionFailed = errors.New("fieldcrypt: encryption failed")

	// ErrDecryptionFailed indicates authenticated decryption failed,
	// either because the key is wrong or the ciphertext was tampered with.
	ErrDecryptionFailed = errors.New("fieldcrypt: decryption failed")

	// ErrCiphertextTooShort indicates raw ciphertext shorter than the
	// minimum iv+tag layout. Only returned by DecryptBytes; DecryptValue
	// treats short inputs as plaintext passthrough instead.
	ErrCiphertextTooShort = errors.New("fieldcrypt: ciphertext too short")
)
