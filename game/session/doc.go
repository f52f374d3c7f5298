// Package session provides session management for Chromattis.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - File persistence of session progress
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// FilePersistence stores one JSON file per session.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated from cryptographic randomness.
// Callers may also pick their own IDs made of letters, digits, '-' and '_'.
// Lookups are case-insensitive.
//
// Persistence:
//
// Only progress is written: the pack id, the current level index and the
// best scores. Loading a session builds a fresh engine on the pack, loads
// the saved level with a new random board and then restores the best scores.
// The default location is $XDG_DATA_HOME/chromattis/sessions.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence(session.DefaultSessionsDir(), packs)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", "classic", packs.GetDefault(), 0)
//
// Cleanup:
//
// CleanupExpiredSessions drops idle sessions from memory while keeping their
// files, so they reload on next access. SyncWithStorage drops sessions whose
// files were removed from disk.
package session
