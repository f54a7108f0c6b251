// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote provides the HTTP client for the hosted assistant services.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the remote client.
type ClientConfig struct {
	// LegalBaseURL is the base URL of the legal consultation service.
	LegalBaseURL string

	// HealthBaseURL is the base URL of the health Q&A service.
	HealthBaseURL string

	// PDFBaseURL is the base URL of the PDF document service.
	PDFBaseURL string

	// GroqBaseURL is the base URL of the local groq relay.
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	GroqBaseURL string

	// Timeout per request (default: 30s). A request exceeding it is a failure.
	Timeout time.Duration

	// SendRate limits outgoing queries per second (default: 1/s, burst 3).
	// Protects the hosted services from accidental rapid-fire resends.
	SendRate  rate.Limit
	SendBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		GroqBaseURL: "http://127.0.0.1:8787",
		Timeout:     30 * time.Second,
		SendRate:    rate.Every(time.Second),
		SendBurst:   3,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the hosted assistant services.
//
// Every call takes a context; cooperative cancellation through the
// context is how the UI guarantees at most one query is in flight. The
// Client is safe for concurrent use.
//
// Example:
//
//	client := remote.NewClient(remote.DefaultConfig())
//	reply, err := client.LegalConsultation(ctx, sessionID, query)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new remote client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.SendRate == 0 {
		config.SendRate = rate.Every(time.Second)
	}
	if config.SendBurst == 0 {
		config.SendBurst = 3
	}
	if config.GroqBaseURL == "" {
		config.GroqBaseURL = "http://127.0.0.1:8787"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.SendRate, config.SendBurst),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// QUERY OPERATIONS
// =============================================================================

// LegalConsultation sends a consultation query bound to a session and
// returns the decoded reply text. The service wraps its answer in a JSON
// envelope; the consultation field is unwrapped with raw-text fallback.
func (c *Client) LegalConsultation(ctx context.Context, sessionID, query string) (string, error) {
	if err := c.reserve(ctx); err != nil {
		return "", err
	}

	var result LegalResponse
	err := c.postJSON(ctx, c.config.LegalBaseURL+"/legal-consultation",
		LegalRequest{Query: query, UserID: sessionID}, &result)
	if err != nil {
		return "", err
	}

	return DecodeEnvelope(result.Response), nil
}

// HealthChat sends a health question and returns the answer text.
func (c *Client) HealthChat(ctx context.Context, question string) (string, error) {
	if err := c.reserve(ctx); err != nil {
		return "", err
	}

	var result HealthResponse
	err := c.postJSON(ctx, c.config.HealthBaseURL+"/health-chat",
		HealthRequest{Question: question}, &result)
	if err != nil {
		return "", err
	}

	return DecodeEnvelope(result.Answer), nil
}

// UploadPDF registers a document by URL and returns the collection the
// service indexed it into.
func (c *Client) UploadPDF(ctx context.Context, pdfURL string) (*UploadPDFResponse, error) {
	if _, err := url.ParseRequestURI(pdfURL); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid pdf url", Cause: err}
	}

	var result UploadPDFResponse
	err := c.postJSON(ctx, c.config.PDFBaseURL+"/upload-pdf",
		UploadPDFRequest{PDFURL: pdfURL}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DocumentChat asks a question against an uploaded document collection.
func (c *Client) DocumentChat(ctx context.Context, question, collection string) (string, error) {
	if err := c.reserve(ctx); err != nil {
		return "", err
	}

	var result DocumentChatResponse
	err := c.postJSON(ctx, c.config.PDFBaseURL+"/chat",
		DocumentChatRequest{Question: question, CollectionName: collection}, &result)
	if err != nil {
		return "", err
	}

	return DecodeEnvelope(result.Answer), nil
}

// GroqChat sends a message through the local relay.
func (c *Client) GroqChat(ctx context.Context, message, model string) (string, error) {
	if err := c.reserve(ctx); err != nil {
		return "", err
	}

	var result GroqChatResponse
	err := c.postJSON(ctx, c.config.GroqBaseURL+"/api/groq-chat",
		GroqChatRequest{Message: message, Model: model}, &result)
	if err != nil {
		return "", err
	}

	return DecodeEnvelope(result.Response), nil
}

// =============================================================================
// SESSION HISTORY
// =============================================================================

// SessionHistory fetches the remote transcript for a session.
func (c *Client) SessionHistory(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	var result SessionHistoryResponse
	err := c.getJSON(ctx, c.config.LegalBaseURL+"/get-session-history/"+url.PathEscape(sessionID), &result)
	if err != nil {
		return nil, err
	}
	return result.History, nil
}

// DeleteSession asks the remote store to forget a session. Best-effort:
// the response body is ignored and callers log (not surface) failures.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.config.LegalBaseURL+"/delete-session/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.wrapTransportError(err)
	}
	drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ClientError{Type: ErrTypeStatus, Message: "delete session failed: " + resp.Status}
	}
	return nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// reserve applies the send limiter. It fails fast rather than queueing:
// only one outstanding user message is supported, so a blocked send is a
// user-visible error, not a silent delay.
func (c *Client) reserve(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return c.wrapTransportError(err)
	}
	if !c.limiter.Allow() {
		return &ClientError{Type: ErrTypeStatus, Message: "sending too quickly, wait a moment"}
	}
	return nil
}

// postJSON performs a JSON POST and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doJSON(req, out)
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Try to read a structured error message
		var svcErr ServiceError
		if err := json.NewDecoder(resp.Body).Decode(&svcErr); err == nil {
			if msg := svcErr.Error; msg != "" {
				return &ClientError{Type: ErrTypeStatus, Message: msg}
			}
			if msg := svcErr.Detail; msg != "" {
				return &ClientError{Type: ErrTypeStatus, Message: msg}
			}
		}
		return &ClientError{Type: ErrTypeStatus, Message: "request failed: " + resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return nil
}

// wrapTransportError maps transport failures onto the client error
// taxonomy. Timeouts and cancellation are distinguished so the UI can
// drop cancelled requests silently while surfacing timeouts.
func (c *Client) wrapTransportError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return ErrCancelled
	}

	// net/http wraps the client timeout in a url.Error with Timeout set.
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrTimeout
	}
	if strings.Contains(err.Error(), "context canceled") {
		return ErrCancelled
	}

	return &ClientError{Type: ErrTypeConnection, Message: "service is unreachable", Cause: err}
}

// Helper to drain response body so connections can be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
