package kdf

import "errors"

var (
	// ErrMissingUserID indicates derivation was attempted without a user id.
	// No default or anonymous key is ever produced.
	ErrMissingUserID = errors.New("kdf: user id is required")

	// ErrMissingPassword indicates KEK derivation was attempted with an
	// empty password.
	ErrMissingPassword = errors.New("kdf: password is required")
)
