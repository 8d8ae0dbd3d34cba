// Package kdf derives symmetric keys from user credentials with fixed,
// versioned parameters.
//
// Two derivation modes are provided, selected by principal type:
//
//   - DeriveKEK turns a password and user id into a key-encryption key used
//     exclusively to wrap and unwrap a user's master key. The salt is
//     deterministic (derived from the user id), so the same KEK can be
//     re-derived on any device given the same password.
//   - DeriveFederatedKey produces a data-encryption key directly from a user
//     id for principals that authenticate without a password (OAuth and
//     similar). The derivation is fully deterministic with no network access,
//     which is what makes cross-device access automatic for this principal
//     type: the same user id always yields bit-identical key material.
//
// Both modes use PBKDF2-HMAC-SHA-256 with 100,000 iterations and produce
// 256-bit keys. Parameters are versioned (currently v3); changing any of them
// requires bumping Version and re-keying, so they are deliberately constants
// rather than configuration.
package kdf
