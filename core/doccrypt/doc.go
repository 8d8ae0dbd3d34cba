// Package doccrypt applies selective field encryption to whole documents
// before they leave the client for a remote document store.
//
// A document is a plain map. Encrypting moves sensitive fields off the top
// level into a side-map of individually encrypted values; decrypting
// reverses it. Which fields are sensitive is decided by an explicit
// per-collection FieldPolicy constructed at startup: fields are opted OUT
// of encryption by naming them plaintext, never opted in, so a field that
// was forgotten in the policy is encrypted rather than leaked.
//
// Two key domains share the machinery:
//
//   - Codec encrypts with the session's personal key (core/keymanager) and
//     tags documents with "_encrypted" and "_encryptionVersion".
//   - FamilyCodec encrypts with a group's shared key (core/familykeys) and
//     tags documents with "_familyEncrypted" and "_familyGroupId", so a
//     stored document unambiguously signals which key domain decrypts it.
//
// # Degradation contract
//
// Encryption is best-effort and never blocks the surrounding write path:
// with no key available the document is returned unchanged, and a field
// that fails to encrypt stays in plaintext with a prominent error log.
// Callers that need a guarantee must check the result for the side-map.
//
// Decryption never throws a whole document away: with no key available
// every encrypted field becomes the Placeholder marker ("data temporarily
// unavailable", not "data missing"), and a single field that fails to
// decrypt becomes the Placeholder with a warning while the rest of the
// document survives. A decryption failure is never converted into
// different but valid-looking plaintext.
package doccrypt
