// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/arav7781/legalsearch-tui/internal/ui/styles"
)

// =============================================================================
// HEADER
// =============================================================================

// Header renders the top bar: assistant name on the left, current
// session title on the right.
type Header struct {
	Assistant    string
	SessionTitle string
}

// Render renders the header at the given width.
func (h Header) Render(theme *styles.Theme, width int) string {
	left := theme.HeaderTitle.Render("counsel") + " " +
		theme.HeaderSubtitle.Render(h.Assistant)

	title := h.SessionTitle
	if maxW := width/2 - 4; maxW > 8 {
		title = runewidth.Truncate(title, maxW, "...")
	}
	right := theme.HeaderSubtitle.Render(title)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 6
	if gap < 1 {
		gap = 1
	}
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return theme.Header.Width(width - 2).Render(line)
}
