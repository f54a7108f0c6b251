// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for transcripts, messages,
// and sessions.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a transcript.
//
// Assistant messages arrive with their full text already known and are
// disclosed progressively: Revealing is true while the animator is running
// and revealed marks how many bytes of Text are currently visible. The
// revealed prefix only ever grows; it is never rewound.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Content
	Text string `json:"text"`

	// Reveal state (not persisted)
	Revealing bool `json:"-"`
	revealed  int
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, text string) *Message {
	return &Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) *Message {
	return NewMessage(RoleUser, text)
}

// NewAssistantMessage creates an assistant message whose text will be
// revealed progressively.
func NewAssistantMessage(text string) *Message {
	msg := NewMessage(RoleAssistant, text)
	msg.Revealing = true
	return msg
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(text string) *Message {
	return NewMessage(RoleSystem, text)
}

// =============================================================================
// REVEAL STATE
// =============================================================================

// Reveal advances the visible prefix to n bytes of Text. The prefix is
// monotone: a smaller n than the current reveal length is ignored.
func (m *Message) Reveal(n int) {
	if !m.Revealing {
		return
	}
	if n < m.revealed {
		return
	}
	if n >= len(m.Text) {
		m.FinishReveal()
		return
	}
	m.revealed = n
}

// FinishReveal marks the message as fully disclosed.
func (m *Message) FinishReveal() {
	m.revealed = len(m.Text)
	m.Revealing = false
}

// RevealedLen returns how many bytes of Text are currently visible.
func (m *Message) RevealedLen() int {
	if !m.Revealing {
		return len(m.Text)
	}
	return m.revealed
}

// DisplayText returns the text to render: the full text for settled
// messages, or the revealed prefix while the animator is running.
func (m *Message) DisplayText() string {
	if !m.Revealing {
		return m.Text
	}
	return m.Text[:m.revealed]
}

// =============================================================================
// MESSAGE HELPERS
// =============================================================================

// Preview returns a truncated single-line preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	text := strings.ReplaceAll(m.Text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", "")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no text.
func (m *Message) IsEmpty() bool {
	return len(m.Text) == 0
}
