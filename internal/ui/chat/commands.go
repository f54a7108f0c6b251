// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arav7781/legalsearch-tui/internal/config"
	"github.com/arav7781/legalsearch-tui/internal/remote"
	"github.com/arav7781/legalsearch-tui/internal/transcript"
)

// historyTimeout bounds a remote history fetch. History loads are not
// user-cancelable, unlike sends, so they carry their own deadline.
const historyTimeout = 15 * time.Second

// =============================================================================
// SENDER INTERFACE
// =============================================================================

// Sender is the slice of the remote client the chat view dispatches
// through. One method per assistant backend, plus document registration
// and session cleanup.
type Sender interface {
	LegalConsultation(ctx context.Context, sessionID, query string) (string, error)
	HealthChat(ctx context.Context, question string) (string, error)
	DocumentChat(ctx context.Context, question, collection string) (string, error)
	GroqChat(ctx context.Context, message, model string) (string, error)
	UploadPDF(ctx context.Context, pdfURL string) (*remote.UploadPDFResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// sendCmd dispatches a user message to the backend for the given
// assistant and reports the reply as a SendResultMsg. The context is the
// one registered with the cancel manager; aborting it makes the result
// arrive with a context error and a stale Seq.
func sendCmd(ctx context.Context, client Sender, assistant string, ac config.AssistantConfig, sessionID, collection, text string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		var reply string
		var err error

		switch assistant {
		case config.AssistantLegal:
			reply, err = client.LegalConsultation(ctx, sessionID, text)
		case config.AssistantHealth:
			reply, err = client.HealthChat(ctx, text)
		case config.AssistantDocs:
			reply, err = client.DocumentChat(ctx, text, collection)
		default:
			reply, err = client.GroqChat(ctx, text, ac.Model)
		}

		return SendResultMsg{
			SessionID: sessionID,
			Seq:       seq,
			Reply:     reply,
			Err:       err,
		}
	}
}

// loadHistoryCmd fetches the remote transcript for a session. The gen
// value comes from Loader.Begin and travels with the result so stale
// loads can be recognized.
func loadHistoryCmd(loader *transcript.Loader, sessionID string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		t, err := loader.Load(ctx, sessionID, gen)
		return HistoryLoadedMsg{
			SessionID:  sessionID,
			Gen:        gen,
			Transcript: t,
			Err:        err,
		}
	}
}

// revealTickCmd schedules the next reveal step.
func revealTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return RevealTickMsg{Time: t}
	})
}

// deleteRemoteCmd asks the remote store to forget a session. Best
// effort: the local row is already gone by the time this runs.
func deleteRemoteCmd(client Sender, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		err := client.DeleteSession(ctx, sessionID)
		return RemoteDeleteDoneMsg{SessionID: sessionID, Err: err}
	}
}

// uploadCmd registers a PDF by URL with the document service.
func uploadCmd(ctx context.Context, client Sender, pdfURL string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.UploadPDF(ctx, pdfURL)
		if err != nil {
			return UploadDoneMsg{Seq: seq, Err: err}
		}
		return UploadDoneMsg{
			Seq:        seq,
			Collection: resp.CollectionName,
			Documents:  resp.DocumentCount,
		}
	}
}
