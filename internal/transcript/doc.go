// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript loads conversation history from the assistant
// services and converts it into display messages.
//
// # Key Types
//
//   - Loader: fetches history for a session, one load in flight per
//     session, with per-session staleness tracking
//   - HistoryFetcher: the client surface the loader depends on
//
// # Usage
//
//	loader := transcript.NewLoader(client)
//	gen, ok := loader.Begin(sessionID)
//	if ok {
//		tr, err := loader.Load(ctx, sessionID, gen)
//		if loader.Latest(sessionID, gen) {
//			// apply tr
//		}
//	}
package transcript
