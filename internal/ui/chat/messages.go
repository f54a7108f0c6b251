// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/arav7781/legalsearch-tui/internal/config"
	"github.com/arav7781/legalsearch-tui/internal/model"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SendResultMsg carries the reply (or error) for a dispatched message.
// Seq identifies which send produced it; results from an aborted send
// arrive with a stale Seq and are dropped.
type SendResultMsg struct {
	SessionID string
	Seq       uint64
	Reply     string
	Err       error
}

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// HistoryLoadedMsg carries the remote transcript for a session. Gen is
// the loader generation; a message whose generation is no longer the
// latest lost a race to a newer session switch and is discarded.
type HistoryLoadedMsg struct {
	SessionID  string
	Gen        uint64
	Transcript *model.Transcript
	Err        error
}

// RemoteDeleteDoneMsg reports the outcome of a best-effort remote
// session delete. Failures are logged, never surfaced.
type RemoteDeleteDoneMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// RevealTickMsg drives the word-by-word disclosure of assistant replies.
type RevealTickMsg struct {
	Time time.Time
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a hot-reloaded configuration. Reveal pacing
// and fallback policies take effect immediately; base URLs require a
// restart.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// =============================================================================
// DOCUMENT MESSAGES
// =============================================================================

// UploadDoneMsg reports the outcome of a PDF registration. Seq ties the
// result to the upload that requested it; a result whose Seq no longer
// matches belongs to an aborted upload and is dropped.
type UploadDoneMsg struct {
	Seq        uint64
	Collection string
	Documents  int
	Err        error
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
