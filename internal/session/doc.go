// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides local persistence of the session list.
//
// The store keeps the ordered list of conversation threads (newest
// first) plus the active session id. It is a convenience cache, not a
// consistency-bearing system: transcripts themselves always live in the
// remote history store and are refetched on selection.
//
// # Key Types
//
//   - Store: SQLite-backed session list with in-memory fallback
//
// # Usage
//
// Open a store and make sure one session is active:
//
//	store, err := session.Open(dbPath)
//	active := store.EnsureActive()
//
// Delete the active session; the store activates the next-most-recent
// one, or creates a fresh session when none remain:
//
//	next, _ := store.Delete(active.ID)
//
// # Degraded Mode
//
// When the database cannot be opened or read, the store falls back to an
// in-memory list seeded with one fresh session. All operations keep
// working; nothing survives a restart in that mode.
package session
