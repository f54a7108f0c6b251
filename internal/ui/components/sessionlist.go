// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/arav7781/legalsearch-tui/internal/model"
	"github.com/arav7781/legalsearch-tui/internal/ui/styles"
)

// =============================================================================
// SESSION LIST OVERLAY
// =============================================================================

// maxTitleWidth caps session titles in the overlay.
const maxTitleWidth = 42

// SessionList is the session picker overlay. It shows sessions newest
// first; enter switches, ctrl+d deletes, esc closes.
type SessionList struct {
	sessions []model.Session
	activeID string
	cursor   int
	visible  bool
}

// NewSessionList creates a hidden session list.
func NewSessionList() SessionList {
	return SessionList{}
}

// Show populates the list and makes it visible with the cursor on the
// active session.
func (l SessionList) Show(sessions []model.Session, activeID string) SessionList {
	l.sessions = sessions
	l.activeID = activeID
	l.visible = true
	l.cursor = 0
	for i, s := range sessions {
		if s.ID == activeID {
			l.cursor = i
			break
		}
	}
	return l
}

// Hide closes the overlay.
func (l SessionList) Hide() SessionList {
	l.visible = false
	return l
}

// Visible reports whether the overlay is open.
func (l SessionList) Visible() bool {
	return l.visible
}

// CursorUp moves the selection up.
func (l SessionList) CursorUp() SessionList {
	if l.cursor > 0 {
		l.cursor--
	}
	return l
}

// CursorDown moves the selection down.
func (l SessionList) CursorDown() SessionList {
	if l.cursor < len(l.sessions)-1 {
		l.cursor++
	}
	return l
}

// Selected returns the session under the cursor.
func (l SessionList) Selected() (model.Session, bool) {
	if !l.visible || l.cursor < 0 || l.cursor >= len(l.sessions) {
		return model.Session{}, false
	}
	return l.sessions[l.cursor], true
}

// Len returns the number of listed sessions.
func (l SessionList) Len() int {
	return len(l.sessions)
}

// Render renders the overlay.
func (l SessionList) Render(theme *styles.Theme) string {
	if !l.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.HeaderTitle.Render("Sessions"))
	b.WriteString("\n\n")

	if len(l.sessions) == 0 {
		b.WriteString(theme.SessionMeta.Render("No sessions yet."))
	}

	for i, s := range l.sessions {
		marker := "  "
		style := theme.SessionItem
		if i == l.cursor {
			marker = "> "
			style = theme.SessionItemSelected
		}

		title := runewidth.Truncate(s.Title, maxTitleWidth, "...")
		line := marker + title
		if s.ID == l.activeID {
			line += " " + theme.SessionMeta.Render("(active)")
		}
		b.WriteString(style.Render(line))

		meta := fmt.Sprintf("    %s", s.UpdatedAt.Format("Jan 2 15:04"))
		b.WriteString("\n")
		b.WriteString(theme.SessionMeta.Render(meta))
		if i < len(l.sessions)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	hints := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.ShortcutKey.Render("enter"), theme.ShortcutDesc.Render(" switch  "),
		theme.ShortcutKey.Render("ctrl+d"), theme.ShortcutDesc.Render(" delete  "),
		theme.ShortcutKey.Render("esc"), theme.ShortcutDesc.Render(" close"),
	)
	b.WriteString(hints)

	return theme.SessionList.Render(b.String())
}
