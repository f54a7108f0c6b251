// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote provides the HTTP client for the hosted assistant services.
package remote

// =============================================================================
// LEGAL CONSULTATION
// =============================================================================

// LegalRequest is the request body for POST /legal-consultation.
type LegalRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

// LegalResponse is the response body for POST /legal-consultation.
// Response carries a JSON-encoded envelope string whose consultation
// field is the display text.
type LegalResponse struct {
	Response string `json:"response"`
	History  []any  `json:"history,omitempty"`
}

// =============================================================================
// HEALTH Q&A
// =============================================================================

// HealthRequest is the request body for POST /health-chat.
type HealthRequest struct {
	Question string `json:"question"`
}

// HealthResponse is the response body for POST /health-chat.
type HealthResponse struct {
	Answer string `json:"answer"`
}

// =============================================================================
// PDF DOCUMENT CHAT
// =============================================================================

// UploadPDFRequest is the request body for POST /upload-pdf.
type UploadPDFRequest struct {
	PDFURL string `json:"pdf_url"`
}

// UploadPDFResponse is the response body for POST /upload-pdf.
type UploadPDFResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	CollectionName string `json:"collection_name"`
	DocumentCount  int    `json:"document_count"`
}

// DocumentChatRequest is the request body for POST /chat.
type DocumentChatRequest struct {
	Question       string `json:"question"`
	CollectionName string `json:"collection_name"`
}

// DocumentChatResponse is the response body for POST /chat.
type DocumentChatResponse struct {
	Answer   string         `json:"answer"`
	Sources  []string       `json:"sources,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// =============================================================================
// GROQ RELAY
// =============================================================================

// GroqChatRequest is the request body for POST /api/groq-chat.
type GroqChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// GroqChatResponse is the response body for POST /api/groq-chat.
type GroqChatResponse struct {
	Response string `json:"response"`
}

// =============================================================================
// SESSION HISTORY
// =============================================================================

// HistoryEntry is one record from GET /get-session-history/{id}.
// Type is "human", "ai", or "system".
type HistoryEntry struct {
	Type string      `json:"type"`
	Data HistoryData `json:"data"`
}

// HistoryData carries the entry payload.
type HistoryData struct {
	Content string `json:"content"`
}

// SessionHistoryResponse is the response body for GET /get-session-history/{id}.
type SessionHistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// ServiceError is the error body some services return on non-2xx status.
type ServiceError struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}
