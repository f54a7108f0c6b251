// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"context"
	"strings"
	"sync"

	"github.com/arav7781/legalsearch-tui/internal/model"
	"github.com/arav7781/legalsearch-tui/internal/remote"
)

// =============================================================================
// FETCHER INTERFACE
// =============================================================================

// HistoryFetcher is the slice of the remote client the loader needs.
type HistoryFetcher interface {
	SessionHistory(ctx context.Context, sessionID string) ([]remote.HistoryEntry, error)
}

// =============================================================================
// LOADER
// =============================================================================

// Loader fetches session history and converts it into a transcript.
//
// At most one load per session is in flight at a time: Begin for a
// session whose first load has not completed hands back the in-flight
// generation instead of starting a second fetch. Generations are
// counted per session, so a result arriving after the user re-selected
// its session is still the latest for that session and is kept, while
// a result overtaken by a newer load of the same session is recognized
// as stale and dropped.
type Loader struct {
	fetcher HistoryFetcher

	mu      sync.Mutex
	gens    map[string]uint64
	pending map[string]uint64
}

// NewLoader creates a loader backed by the given fetcher.
func NewLoader(fetcher HistoryFetcher) *Loader {
	return &Loader{
		fetcher: fetcher,
		gens:    make(map[string]uint64),
		pending: make(map[string]uint64),
	}
}

// Begin registers a load for sessionID and returns its generation.
// ok is false when a load for the same session is already in flight;
// the returned generation is then the in-flight one, which the caller
// adopts rather than fetching again.
func (l *Loader) Begin(sessionID string) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen, busy := l.pending[sessionID]; busy {
		return gen, false
	}
	l.gens[sessionID]++
	gen := l.gens[sessionID]
	l.pending[sessionID] = gen
	return gen, true
}

// Load fetches history for a load previously registered with Begin and
// converts it. The in-flight mark for the session is cleared whether
// the fetch succeeds or fails.
func (l *Loader) Load(ctx context.Context, sessionID string, gen uint64) (*model.Transcript, error) {
	entries, err := l.fetcher.SessionHistory(ctx, sessionID)

	l.mu.Lock()
	if l.pending[sessionID] == gen {
		delete(l.pending, sessionID)
	}
	l.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return FromHistory(sessionID, entries), nil
}

// Latest reports whether gen is the most recently issued load for
// sessionID. A false result means a newer load of the same session has
// since started and this result should be discarded.
func (l *Loader) Latest(sessionID string, gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gens[sessionID]
}

// Loading reports whether a load for sessionID is in flight.
func (l *Loader) Loading(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, busy := l.pending[sessionID]
	return busy
}

// =============================================================================
// HISTORY CONVERSION
// =============================================================================

// FromHistory converts raw history entries into a transcript. Assistant
// entries pass through envelope decoding, empty and unknown entries are
// dropped, and every message arrives fully revealed.
func FromHistory(sessionID string, entries []remote.HistoryEntry) *model.Transcript {
	tr := model.NewTranscript(sessionID)
	for _, entry := range entries {
		text := strings.TrimSpace(entry.Data.Content)
		if text == "" {
			continue
		}
		switch entry.Type {
		case "human":
			tr.AppendUser(text)
		case "ai":
			msg := tr.AppendAssistant(remote.DecodeEnvelope(text))
			msg.FinishReveal()
		case "system":
			tr.AppendSystem(text)
		}
	}
	return tr
}
