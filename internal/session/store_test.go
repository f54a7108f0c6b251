// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store := Open(filepath.Join(t.TempDir(), "sessions.db"))
	t.Cleanup(func() { store.Close() })
	if store.InMemory() {
		t.Fatal("expected a database-backed store in tests")
	}
	return store
}

// =============================================================================
// CREATE / LIST TESTS
// =============================================================================

func TestCreate_InsertsAtHeadAndActivates(t *testing.T) {
	store := openTestStore(t)

	first := store.Create()
	time.Sleep(2 * time.Millisecond) // distinct updated_at ordering
	second := store.Create()

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("List length = %d, want 2", len(list))
	}
	if list[0].ID != second.ID {
		t.Errorf("newest session should be first, got %q", list[0].ID)
	}
	if list[1].ID != first.ID {
		t.Errorf("older session should be second, got %q", list[1].ID)
	}

	active, ok := store.Active()
	if !ok || active.ID != second.ID {
		t.Errorf("active = %q, want %q", active.ID, second.ID)
	}
}

func TestEnsureActive_CreatesWhenEmpty(t *testing.T) {
	store := openTestStore(t)

	sess := store.EnsureActive()
	if sess.ID == "" {
		t.Fatal("EnsureActive should create a session when none exist")
	}

	// Second call returns the same session, not another fresh one.
	again := store.EnsureActive()
	if again.ID != sess.ID {
		t.Errorf("EnsureActive = %q, want existing %q", again.ID, sess.ID)
	}
	if len(store.List()) != 1 {
		t.Errorf("List length = %d, want 1", len(store.List()))
	}
}

// =============================================================================
// TITLE / TOUCH TESTS
// =============================================================================

func TestSetTitle(t *testing.T) {
	store := openTestStore(t)
	sess := store.Create()

	if err := store.SetTitle(sess.ID, "What is force majeure?"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "What is force majeure?" {
		t.Errorf("Title = %q", got.Title)
	}

	if err := store.SetTitle("sess_missing", "x"); err != ErrSessionNotFound {
		t.Errorf("SetTitle on missing id = %v, want ErrSessionNotFound", err)
	}
}

func TestTouch_MovesToHead(t *testing.T) {
	store := openTestStore(t)

	old := store.Create()
	time.Sleep(2 * time.Millisecond)
	store.Create()

	if err := store.Touch(old.ID); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if store.List()[0].ID != old.ID {
		t.Error("touched session should move to the head of the list")
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDelete_ActiveActivatesNextMostRecent(t *testing.T) {
	store := openTestStore(t)

	older := store.Create()
	time.Sleep(2 * time.Millisecond)
	newest := store.Create()

	next, err := store.Delete(newest.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if next.ID != older.ID {
		t.Errorf("next active = %q, want next-most-recent %q", next.ID, older.ID)
	}

	active, ok := store.Active()
	if !ok || active.ID != older.ID {
		t.Error("exactly one session should be active after deleting the active one")
	}
}

func TestDelete_LastSessionCreatesFreshOne(t *testing.T) {
	store := openTestStore(t)
	only := store.Create()

	next, err := store.Delete(only.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if next.ID == only.ID || next.ID == "" {
		t.Errorf("deleting the last session should create a fresh one, got %q", next.ID)
	}

	list := store.List()
	if len(list) != 1 {
		t.Fatalf("List length = %d, want 1", len(list))
	}
	active, ok := store.Active()
	if !ok || active.ID != next.ID {
		t.Error("the fresh session should be active")
	}
}

func TestDelete_InactiveKeepsActive(t *testing.T) {
	store := openTestStore(t)

	older := store.Create()
	time.Sleep(2 * time.Millisecond)
	newest := store.Create()

	next, err := store.Delete(older.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if next.ID != newest.ID {
		t.Errorf("active should be unchanged, got %q want %q", next.ID, newest.ID)
	}
}

func TestDelete_Missing(t *testing.T) {
	store := openTestStore(t)
	store.Create()

	if _, err := store.Delete("sess_missing"); err != ErrSessionNotFound {
		t.Errorf("Delete missing = %v, want ErrSessionNotFound", err)
	}
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestReopen_PreservesSessionsAndActive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	store := Open(path)
	a := store.Create()
	time.Sleep(2 * time.Millisecond)
	b := store.Create()
	if err := store.SetActive(a.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	store.Close()

	reopened := Open(path)
	defer reopened.Close()

	list := reopened.List()
	if len(list) != 2 {
		t.Fatalf("List length after reopen = %d, want 2", len(list))
	}
	if list[0].ID != b.ID {
		t.Error("newest-first ordering should survive reopen")
	}
	active, ok := reopened.Active()
	if !ok || active.ID != a.ID {
		t.Errorf("active after reopen = %q, want %q", active.ID, a.ID)
	}
}

// =============================================================================
// DEGRADED MODE TESTS
// =============================================================================

func TestOpen_BadPathFallsBackToMemory(t *testing.T) {
	// A directory path cannot be opened as a database file.
	store := Open(t.TempDir())
	defer store.Close()

	if !store.InMemory() {
		t.Skip("driver accepted the path; degraded mode not exercised")
	}

	// Degraded mode still seeds one active session.
	active, ok := store.Active()
	if !ok || active.ID == "" {
		t.Fatal("degraded store should seed one active session")
	}
	if len(store.List()) != 1 {
		t.Errorf("List length = %d, want 1", len(store.List()))
	}

	// Operations keep working in memory.
	next, err := store.Delete(active.ID)
	if err != nil {
		t.Fatalf("Delete in degraded mode: %v", err)
	}
	if next.ID == "" {
		t.Error("delete in degraded mode should still yield an active session")
	}
}
