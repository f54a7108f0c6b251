// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/arav7781/legalsearch-tui/internal/ui/styles"
)

// =============================================================================
// BANNER KINDS
// =============================================================================

// BannerKind represents the severity of a banner notification.
type BannerKind int

const (
	// BannerError is a failed-request notification (rose color)
	BannerError BannerKind = iota
	// BannerWarning is a degraded-state notification (amber color)
	BannerWarning
	// BannerInfo is an informational notification (teal color)
	BannerInfo
)

// =============================================================================
// BANNER
// =============================================================================

// Banner is a dismissable notification strip shown above the input.
// Failed requests surface here without interrupting the transcript; the
// user dismisses with Esc or by sending the next message.
type Banner struct {
	Kind    BannerKind
	Message string
	visible bool
}

// NewErrorBanner creates a visible error banner.
func NewErrorBanner(message string) Banner {
	return Banner{Kind: BannerError, Message: message, visible: true}
}

// NewWarningBanner creates a visible warning banner.
func NewWarningBanner(message string) Banner {
	return Banner{Kind: BannerWarning, Message: message, visible: true}
}

// NewInfoBanner creates a visible info banner.
func NewInfoBanner(message string) Banner {
	return Banner{Kind: BannerInfo, Message: message, visible: true}
}

// Visible reports whether the banner should render.
func (b Banner) Visible() bool {
	return b.visible && b.Message != ""
}

// Dismiss hides the banner.
func (b Banner) Dismiss() Banner {
	b.visible = false
	return b
}

// Render renders the banner at the given width.
func (b Banner) Render(theme *styles.Theme, width int) string {
	if !b.Visible() {
		return ""
	}

	var title string
	var indicator string
	box := theme.BannerBox
	switch b.Kind {
	case BannerWarning:
		title = "Warning"
		indicator = styles.StatusIndicators.Warning
		box = box.BorderForeground(styles.Amber)
	case BannerInfo:
		title = "Notice"
		indicator = styles.StatusIndicators.Info
		box = box.BorderForeground(styles.Teal)
	default:
		title = "Error"
		indicator = styles.StatusIndicators.Error
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.BannerTitle.Render(indicator+" "+title+": "),
		theme.BannerMessage.Render(b.Message),
		theme.BannerHint.Render("  (esc to dismiss)"),
	)

	if width > 0 {
		box = box.Width(width - 2)
	}
	return box.Render(line)
}
