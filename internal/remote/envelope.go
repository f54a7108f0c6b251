// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote provides the HTTP client for the hosted assistant services.
//
// This file implements envelope decoding: several services return their
// answer as a JSON string nested inside a JSON response field. The nested
// document carries the display text under a well-known key plus auxiliary
// fields this client does not use.
package remote

import (
	"encoding/json"
	"strings"
)

// envelopeKeys are the fields checked, in order, for the display text of
// a decoded envelope.
var envelopeKeys = []string{"consultation", "answer", "response"}

// DecodeEnvelope extracts the display text from a possibly enveloped
// payload. When raw parses as a JSON object containing one of the known
// answer keys with a non-empty string value, that value is returned.
// Otherwise the raw text is returned unchanged; a malformed envelope
// must never fail the render.
func DecodeEnvelope(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return raw
	}

	for _, key := range envelopeKeys {
		field, ok := doc[key]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(field, &text); err != nil {
			continue
		}
		if text != "" {
			return text
		}
	}

	return raw
}
