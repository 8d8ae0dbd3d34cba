// Package logger provides slog attribute helpers shared across the library.
//
// All helpers follow the empty-Attr pattern for nil safety: passing a nil
// error or empty identifier yields an empty slog.Attr that slog drops, so
// call sites never need explicit nil checks:
//
//	log.Warn("field decryption failed",
//		logger.Collection("expenses"),
//		logger.Field("amount"),
//		logger.Error(err),
//	)
//
// The library never logs plaintext values or key material; these helpers
// only carry identifiers, field names, and error values.
package logger
