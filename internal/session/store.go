// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides local persistence of the session list.
package session

import (
	"database/sql"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/arav7781/legalsearch-tui/internal/model"
)

// activeKey is the state-table key holding the active session id.
const activeKey = "active_session"

// ErrSessionNotFound is returned when a session id is not in the store.
var ErrSessionNotFound = errors.New("session not found")

// =============================================================================
// SESSION STORE
// =============================================================================

// Store persists the session list and the active session id.
//
// The store is explicit and injected: callers hold a *Store, there is
// no package-global state. All methods are safe for concurrent use.
//
// Invariant: after EnsureActive has been called once, exactly one
// session is active at all times; Delete re-establishes this by
// activating the next-most-recent session or creating a fresh one.
type Store struct {
	mu sync.Mutex
	db *sql.DB // nil in degraded in-memory mode

	// In-memory mirror, authoritative in degraded mode.
	sessions []model.Session
	active   string
}

// Open opens (or creates) the session database at path. On failure the
// store degrades to in-memory mode seeded with one fresh session; the
// error is logged, not returned, because local-storage failure must not
// prevent the page from working.
func Open(path string) *Store {
	s := &Store{}

	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000")
	if err != nil {
		log.Printf("session store: open failed, using in-memory sessions: %v", err)
		s.seedMemory()
		return s
	}

	if err := initSchema(db); err != nil {
		log.Printf("session store: schema init failed, using in-memory sessions: %v", err)
		db.Close()
		s.seedMemory()
		return s
	}

	s.db = db
	if err := s.loadLocked(); err != nil {
		log.Printf("session store: read failed, using in-memory sessions: %v", err)
		db.Close()
		s.db = nil
		s.seedMemory()
	}
	return s
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE TABLE IF NOT EXISTS state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`)
	return err
}

// seedMemory initializes degraded mode: empty list plus one fresh
// active session.
func (s *Store) seedMemory() {
	sess := model.NewSession()
	s.sessions = []model.Session{sess}
	s.active = sess.ID
}

// loadLocked populates the in-memory mirror from the database.
func (s *Store) loadLocked() error {
	rows, err := s.db.Query(
		`SELECT id, title, created_at, updated_at FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var sess model.Session
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	s.sessions = sessions

	var active string
	err = s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, activeKey).Scan(&active)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	// A stale active id (session since deleted) is treated as unset.
	if active != "" && s.indexOfLocked(active) < 0 {
		active = ""
	}
	s.active = active
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// Create inserts a fresh session at the head of the list and marks it
// active.
func (s *Store) Create() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := model.NewSession()
	s.sessions = append([]model.Session{sess}, s.sessions...)
	s.active = sess.ID

	if s.db != nil {
		if _, err := s.db.Exec(
			`INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?,?,?,?)`,
			sess.ID, sess.Title, sess.CreatedAt, sess.UpdatedAt); err != nil {
			log.Printf("session store: insert failed: %v", err)
		}
		s.persistActiveLocked()
	}
	return sess
}

// List returns the persisted sessions, newest first.
func (s *Store) List() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Get returns a session by id.
func (s *Store) Get(id string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOfLocked(id); i >= 0 {
		return s.sessions[i], nil
	}
	return model.Session{}, ErrSessionNotFound
}

// SetTitle sets a session's title. Used once, when the first user
// message of a new chat arrives.
func (s *Store) SetTitle(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return ErrSessionNotFound
	}
	s.sessions[i].Title = title

	if s.db != nil {
		if _, err := s.db.Exec(`UPDATE sessions SET title = ? WHERE id = ?`, title, id); err != nil {
			log.Printf("session store: title update failed: %v", err)
		}
	}
	return nil
}

// Touch bumps a session's updated_at, moving it to the head of the
// newest-first ordering.
func (s *Store) Touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return ErrSessionNotFound
	}
	s.sessions[i].UpdatedAt = time.Now()
	sort.SliceStable(s.sessions, func(a, b int) bool {
		return s.sessions[a].UpdatedAt.After(s.sessions[b].UpdatedAt)
	})

	if s.db != nil {
		if _, err := s.db.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, time.Now(), id); err != nil {
			log.Printf("session store: touch failed: %v", err)
		}
	}
	return nil
}

// Delete removes a session from the list. When the deleted session was
// active, the next-most-recent session is activated, or a fresh one is
// created if none remain. Returns the session that is active afterwards.
//
// Remote deletion is the caller's concern (best-effort, failure logged).
func (s *Store) Delete(id string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return model.Session{}, ErrSessionNotFound
	}

	wasActive := s.active == id
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)

	if s.db != nil {
		if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
			log.Printf("session store: delete failed: %v", err)
		}
	}

	if wasActive {
		if len(s.sessions) > 0 {
			s.active = s.sessions[0].ID
			if s.db != nil {
				s.persistActiveLocked()
			}
		} else {
			sess := model.NewSession()
			s.sessions = []model.Session{sess}
			s.active = sess.ID
			if s.db != nil {
				if _, err := s.db.Exec(
					`INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?,?,?,?)`,
					sess.ID, sess.Title, sess.CreatedAt, sess.UpdatedAt); err != nil {
					log.Printf("session store: insert failed: %v", err)
				}
				s.persistActiveLocked()
			}
		}
	}

	return s.activeLocked(), nil
}

// =============================================================================
// ACTIVE SESSION
// =============================================================================

// Active returns the active session, if any.
func (s *Store) Active() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		return model.Session{}, false
	}
	return s.activeLocked(), true
}

// SetActive marks an existing session active.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfLocked(id) < 0 {
		return ErrSessionNotFound
	}
	s.active = id
	if s.db != nil {
		s.persistActiveLocked()
	}
	return nil
}

// EnsureActive returns the active session, creating and activating a
// fresh one when the list is empty or nothing is active.
func (s *Store) EnsureActive() model.Session {
	s.mu.Lock()
	if s.active != "" {
		sess := s.activeLocked()
		s.mu.Unlock()
		return sess
	}
	if len(s.sessions) > 0 {
		s.active = s.sessions[0].ID
		if s.db != nil {
			s.persistActiveLocked()
		}
		sess := s.activeLocked()
		s.mu.Unlock()
		return sess
	}
	s.mu.Unlock()
	return s.Create()
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) indexOfLocked(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) activeLocked() model.Session {
	if i := s.indexOfLocked(s.active); i >= 0 {
		return s.sessions[i]
	}
	return model.Session{}
}

func (s *Store) persistActiveLocked() {
	if _, err := s.db.Exec(
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		activeKey, s.active); err != nil {
		log.Printf("session store: active update failed: %v", err)
	}
}

// InMemory returns true when the store is running without a database.
func (s *Store) InMemory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db == nil
}
