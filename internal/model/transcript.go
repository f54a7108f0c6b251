// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for transcripts, messages,
// and sessions.
package model

import (
	"time"

	"github.com/google/uuid"
)

// TitleLen is the maximum length of an auto-generated session title.
const TitleLen = 50

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is a locally tracked conversation thread. It maps 1:1 to a
// remote history record keyed by ID; the transcript itself is never
// cached locally and is refetched from the remote store on selection.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session with a fresh identifier and a placeholder
// title.
func NewSession() Session {
	now := time.Now()
	return Session{
		ID:        NewSessionID(),
		Title:     "New chat",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSessionID generates a unique session identifier.
func NewSessionID() string {
	return "sess_" + uuid.NewString()
}

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript holds the ordered messages displayed for the active session.
// Messages are appended on send or on history load and are never deleted
// individually; switching sessions replaces the whole transcript.
type Transcript struct {
	SessionID string
	Messages  []*Message
}

// NewTranscript creates an empty transcript bound to a session.
func NewTranscript(sessionID string) *Transcript {
	return &Transcript{
		SessionID: sessionID,
		Messages:  make([]*Message, 0),
	}
}

// Append adds a message to the transcript.
func (t *Transcript) Append(msg *Message) {
	t.Messages = append(t.Messages, msg)
}

// AppendUser creates and appends a user message.
func (t *Transcript) AppendUser(text string) *Message {
	msg := NewUserMessage(text)
	t.Append(msg)
	return msg
}

// AppendAssistant creates and appends a revealing assistant message.
func (t *Transcript) AppendAssistant(text string) *Message {
	msg := NewAssistantMessage(text)
	t.Append(msg)
	return msg
}

// AppendSystem creates and appends a system message.
func (t *Transcript) AppendSystem(text string) *Message {
	msg := NewSystemMessage(text)
	t.Append(msg)
	return msg
}

// Replace swaps the transcript content wholesale. Used when history for a
// session arrives from the remote store.
func (t *Transcript) Replace(sessionID string, msgs []*Message) {
	t.SessionID = sessionID
	t.Messages = msgs
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.Messages = make([]*Message, 0)
}

// Last returns the most recent message, or nil if empty.
func (t *Transcript) Last() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// LastAssistant returns the most recent assistant message, or nil.
func (t *Transcript) LastAssistant() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleAssistant {
			return t.Messages[i]
		}
	}
	return nil
}

// ByID returns the message with the given ID, or nil.
func (t *Transcript) ByID(id string) *Message {
	for _, msg := range t.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// IsEmpty returns true if there are no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.Messages) == 0
}

// Title derives a session title from the first user message, or returns
// the empty string when no user message exists yet. The caller persists
// the title once; it is not recomputed afterwards.
func (t *Transcript) Title() string {
	for _, msg := range t.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			return msg.Preview(TitleLen)
		}
	}
	return ""
}
