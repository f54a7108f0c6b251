// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	openai "github.com/sashabaranov/go-openai"

	"github.com/arav7781/legalsearch-tui/internal/config"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// MaxMessageLength caps a single chat message.
	MaxMessageLength = 8192

	// UpstreamTimeout bounds the forwarded Groq call.
	UpstreamTimeout = 30 * time.Second

	// Version is the relay version.
	Version = "0.2.0"
)

// ============================================================================
// TYPES
// ============================================================================

// ChatRequest is the body of POST /api/groq-chat.
type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

// ChatResponse is the reply body of POST /api/groq-chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Configured bool   `json:"configured"`
}

// ChatCompleter is the upstream surface the relay calls. The go-openai
// client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the local relay for the wellness assistant.
type Server struct {
	cfg    config.RelayConfig
	router chi.Router
	server *http.Server
	llm    ChatCompleter
}

// New creates a relay from the given config. The upstream client is
// built from the configured key and base URL; WithCompleter replaces
// it for tests.
func New(cfg config.RelayConfig) *Server {
	s := &Server{cfg: cfg}

	if cfg.GroqAPIKey != "" {
		oc := openai.DefaultConfig(cfg.GroqAPIKey)
		oc.BaseURL = cfg.GroqBaseURL
		s.llm = openai.NewClientWithConfig(oc)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/groq-chat", s.handleGroqChat)
	r.Get("/health", s.handleHealth)

	s.router = r
	s.server = &http.Server{
		Addr:         cfg.Listen,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: UpstreamTimeout + 5*time.Second,
	}
	return s
}

// WithCompleter sets a custom upstream client.
func (s *Server) WithCompleter(llm ChatCompleter) *Server {
	s.llm = llm
	return s
}

// Handler returns the relay's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the configured address. It blocks until
// the server stops.
func (s *Server) Start() error {
	log.Printf("relay listening on %s", s.cfg.Listen)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the relay.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleGroqChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", s.cfg.MaxBodyBytes))
			return
		}
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "Request must contain a message")
		return
	}
	if len(req.Message) > MaxMessageLength {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Message exceeds maximum length of %d", MaxMessageLength))
		return
	}

	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}
	if !s.modelAllowed(model) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Model '%s' is not allowed", model))
		return
	}

	if s.llm == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Relay has no API key configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), UpstreamTimeout)
	defer cancel()

	resp, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
	})
	if err != nil {
		log.Printf("relay: upstream call failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "Upstream request failed. Please try again.")
		return
	}
	if len(resp.Choices) == 0 {
		s.writeError(w, http.StatusBadGateway, "Upstream returned no choices")
		return
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{
		Response: resp.Choices[0].Message.Content,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Version:    Version,
		Configured: s.llm != nil,
	})
}

// modelAllowed enforces the model whitelist. An empty whitelist allows
// only the default model.
func (s *Server) modelAllowed(model string) bool {
	if len(s.cfg.AllowedModels) == 0 {
		return model == s.cfg.DefaultModel
	}
	for _, m := range s.cfg.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

// ============================================================================
// RESPONSE HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error":  message,
		"detail": message,
	})
}
