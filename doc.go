// Package fieldvault provides client-side field-level encryption for
// personal-finance data: password-derived key material, envelope key storage,
// session-scoped key caching, and document codecs that encrypt sensitive
// fields while leaving query fields in plaintext.
//
// # Package Organization
//
// The library is organized into three main categories:
//
//   - Core: key lifecycle, crypto primitives, and document codecs
//   - Utilities: standalone helper packages
//   - Integrations: database-backed store implementations
//
// # Getting Documentation
//
// For detailed documentation on any package, use the go doc command:
//
//	go doc github.com/finwall/fieldvault/core/keyvault
//	go doc -all github.com/finwall/fieldvault/core/doccrypt
//
// # Core Packages
//
// These packages implement the key lifecycle and the encryption codecs:
//
//	github.com/finwall/fieldvault/core/config       - Type-safe environment variable loading
//	github.com/finwall/fieldvault/core/doccrypt     - Policy-driven document encryption with side-maps
//	github.com/finwall/fieldvault/core/familykeys   - Shared group key distribution via per-member wrapping
//	github.com/finwall/fieldvault/core/fieldcrypt   - AES-256-GCM scalar field encryption
//	github.com/finwall/fieldvault/core/kdf          - PBKDF2 key derivation for password and federated users
//	github.com/finwall/fieldvault/core/keymanager   - Session key lifecycle with bounded readiness waits
//	github.com/finwall/fieldvault/core/keyvault     - Envelope-encrypted master key records and resolution
//	github.com/finwall/fieldvault/core/logger       - Structured logging attribute helpers built on slog
//	github.com/finwall/fieldvault/core/sessioncache - Session-scoped key cache for fast restarts
//
// # Utility Packages
//
//	github.com/finwall/fieldvault/pkg/async         - Resolve-once futures for single-flight coordination
//
// # Integration Packages
//
// Store implementations backed by external services:
//
//	github.com/finwall/fieldvault/integration/database/mongo - MongoDB key record stores
//	github.com/finwall/fieldvault/integration/database/pg    - PostgreSQL key record stores
//	github.com/finwall/fieldvault/integration/database/redis - Redis session key cache
//
// # Quick Start
//
// Wire the stores, unlock with the user's password, then encrypt documents
// before persisting them:
//
//	vault := fieldvault.New(personalStore, familyStore, sessionStore, sessionID)
//	if err := vault.Unlock(ctx, userID, password); err != nil {
//		// wrong password or storage failure
//	}
//	stored := vault.EncryptObject(ctx, doc, "expenses")
//
// All codec operations degrade rather than fail: a locked vault writes
// plaintext and reads placeholders, so callers never block on key state.
package fieldvault
