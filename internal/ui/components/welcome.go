// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/arav7781/legalsearch-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// welcomeBlurbs introduces each assistant on the empty-transcript screen.
var welcomeBlurbs = map[string]string{
	"legal":    "Ask about contracts, liability, procedure, or any legal question.",
	"health":   "Ask general health and medical information questions.",
	"docs":     "Upload a PDF with /upload <url>, then ask about its contents.",
	"wellness": "A supportive space to talk through stress and wellbeing.",
}

// Welcome renders the empty-transcript screen for an assistant.
type Welcome struct {
	Assistant string
}

// Render renders the welcome box.
func (w Welcome) Render(theme *styles.Theme) string {
	blurb, ok := welcomeBlurbs[w.Assistant]
	if !ok {
		blurb = "Type a message to get started."
	}

	var b strings.Builder
	b.WriteString(theme.WelcomeTitle.Render("counsel / " + w.Assistant))
	b.WriteString("\n\n")
	b.WriteString(theme.WelcomeInfo.Render(blurb))
	b.WriteString("\n\n")
	b.WriteString(theme.WelcomePressKey.Render("Type a message and press enter."))

	return theme.WelcomeBox.Render(b.String())
}
