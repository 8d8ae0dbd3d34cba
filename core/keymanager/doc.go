// Package keymanager holds the active data-encryption key for one session
// and coordinates how it is obtained.
//
// A Manager is an explicit context object constructed once per session and
// passed by reference to collaborators; there are no package-level
// singletons. It ties together the three ways a key becomes active:
//
//   - RestoreFromSession: the fast path. Re-import the key from the
//     session cache before any derivation, so a process restart within the
//     same session needs no password prompt and no KDF work.
//   - ResolveWithPassword: the envelope path for password principals, via
//     core/keyvault. On success the raw key is mirrored back to the session
//     cache.
//   - ResolveFederated: the deterministic path for federated-identity
//     principals, via core/kdf. No remote record, no wrapping.
//
// Collaborators that need the key call ActiveCipher, or WaitReady when they
// want to block (bounded) until an in-flight resolution reaches a terminal
// state. The wait is a resolve-once future, not a poll loop, and it is
// bounded so a slow or failed key fetch degrades to "not ready" instead of
// freezing the caller.
//
// Clear drops the in-memory key, zeroes it, and removes the session cache
// entry. Auth flows must call it on logout and on password change; a
// session entry cached before a password change is otherwise served as-is
// for the rest of the session (accepted staleness, see DESIGN.md).
package keymanager
