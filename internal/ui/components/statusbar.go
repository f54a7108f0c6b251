// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/arav7781/legalsearch-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom bar: current state on the left, key
// hints on the right, a degraded-storage marker when the session store
// is running in memory.
type StatusBar struct {
	State    string
	Degraded bool
	Error    bool
}

// Render renders the status bar at the given width.
func (s StatusBar) Render(theme *styles.Theme, width int) string {
	stateStyle := theme.StatusState
	if s.Error {
		stateStyle = theme.StatusError
	}
	left := stateStyle.Render(s.State)
	if s.Degraded {
		left += " " + styles.RenderWarning("memory only")
	}

	right := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.ShortcutKey.Render("ctrl+l"), theme.ShortcutDesc.Render(" sessions  "),
		theme.ShortcutKey.Render("ctrl+n"), theme.ShortcutDesc.Render(" new  "),
		theme.ShortcutKey.Render("ctrl+c"), theme.ShortcutDesc.Render(" quit"),
	)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return theme.StatusBar.Width(width).Render(line)
}
