// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote provides the HTTP client for the hosted assistant services.
package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// testClient returns a client whose services all point at the given test
// server, with the send limiter effectively disabled.
func testClient(srv *httptest.Server) *Client {
	return NewClient(&ClientConfig{
		LegalBaseURL:  srv.URL,
		HealthBaseURL: srv.URL,
		PDFBaseURL:    srv.URL,
		GroqBaseURL:   srv.URL,
		Timeout:       2 * time.Second,
		SendRate:      rate.Inf,
		SendBurst:     100,
	})
}

func TestLegalConsultation_UnwrapsEnvelope(t *testing.T) {
	var gotBody LegalRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/legal-consultation", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(LegalResponse{
			Response: `{"consultation":"Force majeure excuses performance.","jurisdiction":"IN"}`,
		})
	}))
	defer srv.Close()

	client := testClient(srv)
	reply, err := client.LegalConsultation(context.Background(), "S1", "What is force majeure?")

	require.NoError(t, err)
	assert.Equal(t, "Force majeure excuses performance.", reply)
	assert.Equal(t, "What is force majeure?", gotBody.Query)
	assert.Equal(t, "S1", gotBody.UserID)
}

func TestLegalConsultation_RawFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LegalResponse{Response: "plain text reply"})
	}))
	defer srv.Close()

	reply, err := testClient(srv).LegalConsultation(context.Background(), "S1", "hi")

	require.NoError(t, err)
	assert.Equal(t, "plain text reply", reply)
}

func TestHealthChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health-chat", r.URL.Path)
		json.NewEncoder(w).Encode(HealthResponse{Answer: "Drink water."})
	}))
	defer srv.Close()

	reply, err := testClient(srv).HealthChat(context.Background(), "hydration?")

	require.NoError(t, err)
	assert.Equal(t, "Drink water.", reply)
}

func TestUploadPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload-pdf", r.URL.Path)
		json.NewEncoder(w).Encode(UploadPDFResponse{
			Status:         "ok",
			CollectionName: "doc_abc",
			DocumentCount:  12,
		})
	}))
	defer srv.Close()

	resp, err := testClient(srv).UploadPDF(context.Background(), "https://example.com/contract.pdf")

	require.NoError(t, err)
	assert.Equal(t, "doc_abc", resp.CollectionName)
	assert.Equal(t, 12, resp.DocumentCount)
}

func TestUploadPDF_RejectsInvalidURL(t *testing.T) {
	client := NewClient(DefaultConfig())

	_, err := client.UploadPDF(context.Background(), "not a url")

	require.Error(t, err)
}

func TestSessionHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/get-session-history/S1", r.URL.Path)
		json.NewEncoder(w).Encode(SessionHistoryResponse{
			History: []HistoryEntry{
				{Type: "human", Data: HistoryData{Content: "hi"}},
				{Type: "ai", Data: HistoryData{Content: "hello"}},
			},
		})
	}))
	defer srv.Close()

	entries, err := testClient(srv).SessionHistory(context.Background(), "S1")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "human", entries[0].Type)
	assert.Equal(t, "hi", entries[0].Data.Content)
}

func TestDeleteSession_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testClient(srv).DeleteSession(context.Background(), "S1")

	require.Error(t, err)
}

func TestStatusErrorUsesServiceMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ServiceError{Detail: "question must not be empty"})
	}))
	defer srv.Close()

	_, err := testClient(srv).HealthChat(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "question must not be empty")
}

func TestCancelledRequestIsDistinguished(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect.
		io.Copy(io.Discard, r.Body)
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := testClient(srv)

	errCh := make(chan error, 1)
	go func() {
		_, err := client.HealthChat(ctx, "slow question")
		errCh <- err
	}()

	<-started
	cancel()

	err := <-errCh
	require.Error(t, err)
	assert.True(t, IsCancelled(err), "expected cancellation error, got %v", err)
	assert.False(t, IsTimeout(err))
}

func TestTimeoutIsDistinguished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(&ClientConfig{
		HealthBaseURL: srv.URL,
		Timeout:       50 * time.Millisecond,
		SendRate:      rate.Inf,
		SendBurst:     100,
	})

	_, err := client.HealthChat(context.Background(), "slow")

	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected timeout error, got %v", err)
}

func TestUnreachableService(t *testing.T) {
	client := NewClient(&ClientConfig{
		// Port 1 is never listening.
		HealthBaseURL: "http://127.0.0.1:1",
		Timeout:       time.Second,
		SendRate:      rate.Inf,
		SendBurst:     100,
	})

	_, err := client.HealthChat(context.Background(), "anyone there?")

	require.Error(t, err)
	assert.True(t, IsUnreachable(err), "expected unreachable error, got %v", err)
}

func TestSendLimiter_FailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HealthResponse{Answer: "ok"})
	}))
	defer srv.Close()

	client := NewClient(&ClientConfig{
		HealthBaseURL: srv.URL,
		Timeout:       time.Second,
		SendRate:      rate.Every(time.Hour),
		SendBurst:     1,
	})

	_, err := client.HealthChat(context.Background(), "first")
	require.NoError(t, err)

	_, err = client.HealthChat(context.Background(), "second")
	require.Error(t, err, "second immediate send should be rejected, not queued")
}
