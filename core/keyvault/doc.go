// Package keyvault resolves a user's master data-encryption key from a
// remote key registry using envelope encryption.
//
// Each password-authenticated user owns one random 256-bit master key that is
// persisted only in wrapped form: encrypted with a key-encryption key derived
// from the user's password (see core/kdf). On first use the master key is
// generated, wrapped, and stored; on later use the stored record is fetched
// and unwrapped. Losing the password permanently loses the data; that is an
// accepted failure mode, not something this package recovers from.
//
// # Resolution state machine
//
// Resolution for a user moves Uninitialized → Resolving → Ready or Failed.
// Only one resolution may be in flight per user id; concurrent callers share
// the same resolve-once future rather than re-deriving, and wait with a
// bounded timeout so a slow or failed key fetch cannot freeze them
// indefinitely.
//
// An unwrap failure means the password is wrong or the stored record is
// corrupted. It is surfaced as ErrWrongPasswordOrCorruptedKey and never
// silently replaced by an empty or default key: doing so would make the
// user's previously-encrypted data permanently unreadable without warning.
//
// # Storage
//
// Records are read and written through the RecordStore interface. Mongo and
// Postgres implementations live under integration/database.
package keyvault
