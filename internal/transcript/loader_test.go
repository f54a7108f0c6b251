// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/arav7781/legalsearch-tui/internal/model"
	"github.com/arav7781/legalsearch-tui/internal/remote"
)

type stubFetcher struct {
	entries []remote.HistoryEntry
	err     error
	calls   int
}

func (f *stubFetcher) SessionHistory(_ context.Context, _ string) ([]remote.HistoryEntry, error) {
	f.calls++
	return f.entries, f.err
}

func entry(kind, content string) remote.HistoryEntry {
	return remote.HistoryEntry{Type: kind, Data: remote.HistoryData{Content: content}}
}

// =============================================================================
// CONVERSION TESTS
// =============================================================================

func TestFromHistory_MapsRoles(t *testing.T) {
	tr := FromHistory("sess_1", []remote.HistoryEntry{
		entry("human", "What is a tort?"),
		entry("ai", `{"consultation": "A tort is a civil wrong."}`),
		entry("system", "Session resumed."),
	})

	if tr.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tr.Len())
	}
	if got := tr.Messages[0].Role; got != model.RoleUser {
		t.Errorf("first role = %v, want user", got)
	}
	if got := tr.Messages[1].Text; got != "A tort is a civil wrong." {
		t.Errorf("assistant text = %q, envelope not unwrapped", got)
	}
	if tr.Messages[1].Revealing {
		t.Error("history messages should arrive fully revealed")
	}
	if got := tr.Messages[2].Role; got != model.RoleSystem {
		t.Errorf("third role = %v, want system", got)
	}
}

func TestFromHistory_DropsEmptyAndUnknown(t *testing.T) {
	tr := FromHistory("sess_1", []remote.HistoryEntry{
		entry("human", "   "),
		entry("tool", "internal trace"),
		entry("ai", "plain reply"),
	})

	if tr.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tr.Len())
	}
	if tr.Messages[0].Text != "plain reply" {
		t.Errorf("kept message = %q", tr.Messages[0].Text)
	}
}

func TestFromHistory_RawFallback(t *testing.T) {
	tr := FromHistory("sess_1", []remote.HistoryEntry{
		entry("ai", "not json at all"),
	})
	if tr.Messages[0].Text != "not json at all" {
		t.Errorf("text = %q, want raw passthrough", tr.Messages[0].Text)
	}
}

// =============================================================================
// LOAD GUARD TESTS
// =============================================================================

func TestBegin_AdoptsInFlightLoad(t *testing.T) {
	loader := NewLoader(&stubFetcher{})

	gen, ok := loader.Begin("sess_1")
	if !ok {
		t.Fatal("first Begin should succeed")
	}
	adopted, ok := loader.Begin("sess_1")
	if ok {
		t.Error("second Begin for the same session should not start a new fetch")
	}
	if adopted != gen {
		t.Errorf("second Begin returned gen %d, want in-flight gen %d", adopted, gen)
	}
	if !loader.Loading("sess_1") {
		t.Error("Loading should report the in-flight session")
	}

	// A different session is not blocked.
	if _, ok := loader.Begin("sess_2"); !ok {
		t.Error("Begin for another session should succeed")
	}

	// Generations are per session: a load for sess_2 does not stale the
	// in-flight load for sess_1.
	if !loader.Latest("sess_1", gen) {
		t.Error("in-flight load should stay the latest for its own session")
	}
}

func TestLatest_StalesOnlyWithinSession(t *testing.T) {
	fetcher := &stubFetcher{}
	loader := NewLoader(fetcher)

	gen1, _ := loader.Begin("sess_1")
	if _, err := loader.Load(context.Background(), "sess_1", gen1); err != nil {
		t.Fatalf("Load: %v", err)
	}
	gen2, ok := loader.Begin("sess_1")
	if !ok {
		t.Fatal("a new load should start after the previous one completes")
	}

	if loader.Latest("sess_1", gen1) {
		t.Error("older generation should be stale after a newer load of the same session")
	}
	if !loader.Latest("sess_1", gen2) {
		t.Error("newest generation should be the latest")
	}
}

func TestLoad_ClearsInFlightMark(t *testing.T) {
	fetcher := &stubFetcher{entries: []remote.HistoryEntry{entry("human", "hi")}}
	loader := NewLoader(fetcher)

	gen, _ := loader.Begin("sess_1")
	tr, err := loader.Load(context.Background(), "sess_1", gen)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len = %d, want 1", tr.Len())
	}
	if loader.Loading("sess_1") {
		t.Error("in-flight mark should clear after Load returns")
	}
	if _, ok := loader.Begin("sess_1"); !ok {
		t.Error("a new load should be allowed after the previous one completes")
	}
}

func TestLoad_ErrorStillClearsInFlightMark(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	loader := NewLoader(fetcher)

	gen, _ := loader.Begin("sess_1")
	if _, err := loader.Load(context.Background(), "sess_1", gen); err == nil {
		t.Fatal("Load should surface the fetch error")
	}
	if loader.Loading("sess_1") {
		t.Error("in-flight mark should clear on error")
	}
}
