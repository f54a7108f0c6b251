// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote provides the HTTP client for the hosted assistant services.
//
// All collaborators speak JSON over HTTP against fixed base URLs: the
// legal consultation service (per-session, with remote history), the
// health Q&A service, the PDF document service (upload + collection
// chat), and the local relay exposing /api/groq-chat.
//
// # Key Types
//
//   - Client: HTTP client with per-request timeout and typed errors
//   - ClientError: Categorized error (connection, timeout, status, decode)
//   - HistoryEntry: One remote transcript record (type + content)
//
// # Usage
//
// Create a client and send a consultation query:
//
//	client := remote.NewClient(remote.DefaultConfig())
//	reply, err := client.LegalConsultation(ctx, sessionID, "What is force majeure?")
//
// Fetch remote history for a session:
//
//	entries, err := client.SessionHistory(ctx, sessionID)
//
// Responses that wrap their answer in a nested JSON envelope are decoded
// with DecodeEnvelope, which falls back to the raw payload text when the
// envelope cannot be parsed.
package remote
