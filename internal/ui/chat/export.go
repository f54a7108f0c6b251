// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arav7781/legalsearch-tui/internal/model"
	"github.com/arav7781/legalsearch-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// exportCmd writes the transcript to a markdown file under dir and
// reports the path. Messages still mid-reveal are written in full.
func exportCmd(t *model.Transcript, title, assistant, dir string) tea.Cmd {
	snapshot := formatTranscript(t, title, assistant, time.Now())
	path := filepath.Join(dir, exportFilename(title, time.Now()))

	return func() tea.Msg {
		err := util.AtomicWriteFileWithDir(path, []byte(snapshot), 0o644, 0o755)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// formatTranscript renders a transcript as markdown.
func formatTranscript(t *model.Transcript, title, assistant string, now time.Time) string {
	var b strings.Builder

	if title == "" {
		title = "Conversation"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Assistant: %s\n", assistant)
	fmt.Fprintf(&b, "- Session: %s\n", t.SessionID)
	fmt.Fprintf(&b, "- Exported: %s\n\n", now.Format(time.RFC3339))

	for _, msg := range t.Messages {
		switch msg.Role {
		case model.RoleUser:
			fmt.Fprintf(&b, "**You** (%s):\n\n", msg.CreatedAt.Format("15:04"))
		case model.RoleAssistant:
			fmt.Fprintf(&b, "**Assistant** (%s):\n\n", msg.CreatedAt.Format("15:04"))
		default:
			b.WriteString("> ")
			b.WriteString(strings.ReplaceAll(msg.Text, "\n", "\n> "))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
	}

	return b.String()
}

// exportFilename builds a stable, filesystem-safe name from the session
// title and timestamp.
func exportFilename(title string, now time.Time) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	mapped = strings.Trim(mapped, "-")
	if len(mapped) > 40 {
		mapped = mapped[:40]
	}
	if mapped == "" {
		mapped = "conversation"
	}
	return fmt.Sprintf("counsel-%s-%s.md", mapped, now.Format("20060102-150405"))
}
