// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the local relay for the wellness assistant.
//
// The relay exposes a minimal JSON API on localhost and forwards chat
// messages to Groq's OpenAI-compatible API, keeping the API key out of
// the client:
//
//   - POST /api/groq-chat - forward a message, return the reply
//   - GET  /health        - health check
//
// # Usage
//
//	srv := server.New(cfg.Relay)
//	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
//		log.Fatal(err)
//	}
package server
