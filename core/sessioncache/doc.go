// Package sessioncache mirrors the active data-encryption key to a
// session-scoped cache so it survives a process or page reload within the
// same session without re-deriving or re-prompting for a password.
//
// A Cache is bound to one session id and holds at most one entry: the raw
// key (base64) and the user it belongs to. Entries are created on successful
// key resolution, removed on logout via Clear, and never persisted beyond
// the session; the backing Store decides what "session-scoped" means (an
// in-memory map, or Redis with a TTL; see integration/database/redis).
//
// Restoration is strictly best-effort: a missing or corrupted entry is
// reported as a cache miss, never as an error, so callers always fall
// through to normal derivation. A corrupted entry is deleted on sight.
package sessioncache
