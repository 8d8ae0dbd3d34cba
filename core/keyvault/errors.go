package keyvault

import "errors"

var (
	// ErrRecordNotFound indicates no personal key record exists for the user.
	// For a new user this is the normal first-use path, not a failure.
	ErrRecordNotFound = errors.New("keyvault: personal key record not found")

	// ErrWrongPasswordOrCorruptedKey indicates the stored master key could
	// not be unwrapped with the supplied password. Surfaced to the user and
	// never retried automatically: it implies none of their data is readable.
	ErrWrongPasswordOrCorruptedKey = errors.New("keyvault: wrong password or corrupted key record")

	// ErrNotInitialized indicates the key has not reached a terminal
	// resolution state yet. Recoverable by waiting or retrying.
	ErrNotInitialized = errors.New("keyvault: key not initialized")

	// ErrStoreFailure indicates the remote key registry could not be read
	// or written.
	ErrStoreFailure = errors.New("keyvault: key registry operation failed")
)
