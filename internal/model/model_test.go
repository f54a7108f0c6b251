// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for transcripts, messages,
// and sessions.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("message ID should start with 'msg_', got %q", msg.ID)
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %v, want user", msg.Role)
	}
	if msg.Text != "hello" {
		t.Errorf("Text = %q, want hello", msg.Text)
	}
	if msg.Revealing {
		t.Error("user messages should not be revealing")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestNewAssistantMessage_StartsRevealing(t *testing.T) {
	msg := NewAssistantMessage("full response text")

	if !msg.Revealing {
		t.Error("assistant messages should start revealing")
	}
	if msg.RevealedLen() != 0 {
		t.Errorf("RevealedLen = %d, want 0", msg.RevealedLen())
	}
	if msg.DisplayText() != "" {
		t.Errorf("DisplayText = %q, want empty while nothing revealed", msg.DisplayText())
	}
}

func TestMessage_RevealMonotone(t *testing.T) {
	msg := NewAssistantMessage("one two three")

	msg.Reveal(7)
	if got := msg.RevealedLen(); got != 7 {
		t.Errorf("RevealedLen = %d, want 7", got)
	}

	// A smaller reveal must not rewind the prefix.
	msg.Reveal(3)
	if got := msg.RevealedLen(); got != 7 {
		t.Errorf("RevealedLen after rewind attempt = %d, want 7", got)
	}

	if msg.DisplayText() != "one two" {
		t.Errorf("DisplayText = %q, want %q", msg.DisplayText(), "one two")
	}
}

func TestMessage_RevealPastEndFinishes(t *testing.T) {
	msg := NewAssistantMessage("short")

	msg.Reveal(1000)
	if msg.Revealing {
		t.Error("revealing past the end should settle the message")
	}
	if msg.DisplayText() != "short" {
		t.Errorf("DisplayText = %q, want full text", msg.DisplayText())
	}
}

func TestMessage_FinishReveal(t *testing.T) {
	msg := NewAssistantMessage("abc")
	msg.FinishReveal()

	if msg.Revealing {
		t.Error("FinishReveal should clear the revealing flag")
	}
	if msg.RevealedLen() != 3 {
		t.Errorf("RevealedLen = %d, want 3", msg.RevealedLen())
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{"short text unchanged", "hello", 50, "hello"},
		{"newlines flattened", "line one\nline two", 50, "line one line two"},
		{"long text truncated", strings.Repeat("a", 60), 10, strings.Repeat("a", 7) + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := NewUserMessage(tc.text)
			if got := msg.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_Append(t *testing.T) {
	tr := NewTranscript("sess_1")

	tr.AppendUser("question")
	tr.AppendAssistant("answer")

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
	if tr.Last().Role != RoleAssistant {
		t.Errorf("Last role = %v, want assistant", tr.Last().Role)
	}
	if tr.LastAssistant() == nil || tr.LastAssistant().Text != "answer" {
		t.Error("LastAssistant should return the appended assistant message")
	}
}

func TestTranscript_Replace(t *testing.T) {
	tr := NewTranscript("sess_1")
	tr.AppendUser("old")

	msgs := []*Message{NewUserMessage("hi")}
	tr.Replace("sess_2", msgs)

	if tr.SessionID != "sess_2" {
		t.Errorf("SessionID = %q, want sess_2", tr.SessionID)
	}
	if tr.Len() != 1 || tr.Messages[0].Text != "hi" {
		t.Error("Replace should swap the message list wholesale")
	}
}

func TestTranscript_Title(t *testing.T) {
	tr := NewTranscript("sess_1")
	if tr.Title() != "" {
		t.Error("empty transcript should have no derived title")
	}

	tr.AppendSystem("system note")
	if tr.Title() != "" {
		t.Error("system messages should not contribute a title")
	}

	tr.AppendUser("What is force majeure?")
	if got := tr.Title(); got != "What is force majeure?" {
		t.Errorf("Title = %q, want first user message", got)
	}
}

func TestTranscript_ByID(t *testing.T) {
	tr := NewTranscript("sess_1")
	msg := tr.AppendUser("hello")

	if tr.ByID(msg.ID) != msg {
		t.Error("ByID should find the appended message")
	}
	if tr.ByID("msg_missing") != nil {
		t.Error("ByID should return nil for unknown ids")
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewSession(t *testing.T) {
	s := NewSession()

	if !strings.HasPrefix(s.ID, "sess_") {
		t.Errorf("session ID should start with 'sess_', got %q", s.ID)
	}
	if s.Title != "New chat" {
		t.Errorf("Title = %q, want placeholder", s.Title)
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}
