// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote provides the HTTP client for the hosted assistant services.
package remote

import "testing"

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "consultation envelope",
			raw:  `{"consultation":"Force majeure excuses performance.","references":["art 1218"]}`,
			want: "Force majeure excuses performance.",
		},
		{
			name: "answer envelope",
			raw:  `{"answer":"Drink plenty of water."}`,
			want: "Drink plenty of water.",
		},
		{
			name: "response envelope",
			raw:  `{"response":"Hello!"}`,
			want: "Hello!",
		},
		{
			name: "consultation preferred over answer",
			raw:  `{"answer":"secondary","consultation":"primary"}`,
			want: "primary",
		},
		{
			name: "plain text passes through",
			raw:  "just a sentence",
			want: "just a sentence",
		},
		{
			name: "malformed json falls back to raw",
			raw:  `{"consultation": "unterminated`,
			want: `{"consultation": "unterminated`,
		},
		{
			name: "object without known keys falls back to raw",
			raw:  `{"status":"ok"}`,
			want: `{"status":"ok"}`,
		},
		{
			name: "non-string answer field falls back to raw",
			raw:  `{"answer":42}`,
			want: `{"answer":42}`,
		},
		{
			name: "empty string field falls back to raw",
			raw:  `{"answer":""}`,
			want: `{"answer":""}`,
		},
		{
			name: "leading whitespace still decodes",
			raw:  "  \n" + `{"answer":"yes"}`,
			want: "yes",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeEnvelope(tc.raw); got != tc.want {
				t.Errorf("DecodeEnvelope(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
