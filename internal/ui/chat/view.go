// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arav7781/legalsearch-tui/internal/model"
	"github.com/arav7781/legalsearch-tui/internal/remote"
	"github.com/arav7781/legalsearch-tui/internal/ui/components"
)

// chromeHeight is the number of terminal rows reserved around the
// message viewport: header, input box, and status bar.
const chromeHeight = 6

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting counsel..."
	}

	header := components.Header{
		Assistant:    m.assistant,
		SessionTitle: m.session.Title,
	}.Render(m.theme, m.width)

	var middle string
	if m.sessions.Visible() {
		middle = lipgloss.Place(
			m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.sessions.Render(m.theme),
		)
	} else {
		vp := m.viewport
		if m.banner.Visible() {
			banner := m.banner.Render(m.theme, m.width)
			vp.Height -= lipgloss.Height(banner)
			if vp.Height < 1 {
				vp.Height = 1
			}
			middle = lipgloss.JoinVertical(lipgloss.Left, vp.View(), banner)
		} else {
			middle = vp.View()
		}
	}

	status := components.StatusBar{
		State:    m.state.String(),
		Degraded: m.store.InMemory(),
	}.Render(m.theme, m.width)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		middle,
		m.renderInput(),
		status,
	)
}

func (m Model) renderInput() string {
	if m.state != StateReady {
		waiting := m.theme.WaitingText.Render("waiting for reply (esc to interrupt)")
		if m.state == StateWaiting {
			waiting = m.spin.View() + " " + waiting
		}
		return m.theme.InputContainer.Width(m.width - 2).Render(waiting)
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// refreshViewport rebuilds the viewport content from the transcript.
func (m *Model) refreshViewport(bottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderMessages() string {
	if m.transcript.IsEmpty() && m.state == StateReady {
		return components.Welcome{Assistant: m.assistant}.Render(m.theme)
	}

	var sections []string
	for _, msg := range m.transcript.Messages {
		sections = append(sections, m.renderMessage(msg))
	}
	if m.state == StateWaiting {
		sections = append(sections, m.spin.View()+" "+m.theme.WaitingText.Render("thinking..."))
	}
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderMessage(msg *model.Message) string {
	bubbleWidth := m.width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	label := m.theme.MessageLabel.Render(msg.Role.DisplayName()) +
		" " + m.theme.MessageTime.Render(msg.CreatedAt.Format("15:04"))

	switch msg.Role {
	case model.RoleUser:
		body := m.theme.UserBubble.MaxWidth(bubbleWidth).Render(msg.Text)
		return label + "\n" + body

	case model.RoleAssistant:
		text := msg.DisplayText()
		// Markdown is only worth rendering once the reveal settles;
		// a half-revealed document re-parsed every tick flickers.
		if !msg.Revealing && m.md != nil {
			if rendered, err := m.md.Render(msg.Text); err == nil {
				text = strings.TrimRight(rendered, "\n")
			}
		}
		body := m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(text)
		return label + "\n" + body

	default:
		return m.theme.SystemBubble.MaxWidth(bubbleWidth).Render(msg.Text)
	}
}

// =============================================================================
// ERROR PRESENTATION
// =============================================================================

// friendlyError maps a remote failure to a short user-facing line. The
// full error goes to the log, never the screen.
func friendlyError(err error) string {
	switch {
	case remote.IsTimeout(err):
		return "The service took too long to respond. Please try again."
	case remote.IsUnreachable(err):
		return "Could not reach the service. Check your connection."
	}
	var ce *remote.ClientError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return "Something went wrong. Please try again."
}
