// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for transcripts, messages,
// and sessions.
//
// This package defines the core domain types used throughout the
// application for representing chat transcripts, individual messages,
// and locally tracked sessions.
//
// # Key Types
//
//   - Transcript: Ordered message list for the currently displayed session
//   - Message: Single message with role, text, timestamp, and reveal state
//   - Session: Locally tracked conversation thread (id + title)
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a transcript and append messages:
//
//	tr := model.NewTranscript("sess-id")
//	tr.AppendUser("What is force majeure?")
//
// Messages created for an assistant reply start in the revealing state;
// the reveal animator grows their visible prefix until the full text is
// shown.
package model
