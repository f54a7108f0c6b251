// counsel - terminal client for the hosted legal, health, document, and
// wellness assistants.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/arav7781/legalsearch-tui/internal/config"
	"github.com/arav7781/legalsearch-tui/internal/remote"
	"github.com/arav7781/legalsearch-tui/internal/server"
	"github.com/arav7781/legalsearch-tui/internal/session"
	"github.com/arav7781/legalsearch-tui/internal/transcript"
	"github.com/arav7781/legalsearch-tui/internal/ui/chat"
	"github.com/arav7781/legalsearch-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	// A .env next to the binary may carry GROQ_API_KEY for the relay.
	_ = godotenv.Load()

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			runServe(args[1:])
			return
		case "version", "--version", "-v":
			fmt.Printf("counsel %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return
		case "help", "--help", "-h":
			usage()
			return
		}
	}

	runTUI(args)
}

func usage() {
	fmt.Println(`counsel - chat with the hosted assistants from your terminal

Usage:
  counsel [assistant]    start the chat UI (legal, health, docs, wellness)
  counsel serve          run the local wellness relay
  counsel version        print version information

The assistant defaults to the configured default_assistant. Configuration
lives in ~/.counsel/config.toml and is created on first run.`)
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(args []string) {
	cfg, err := config.Load()
	if err != nil {
		if cfg == nil {
			fmt.Fprintf(os.Stderr, "counsel: %v\n", err)
			os.Exit(1)
		}
		// Parse failures fall back to defaults; say so and carry on.
		fmt.Fprintf(os.Stderr, "counsel: %v (using defaults)\n", err)
	}

	assistant := strings.ToLower(cfg.DefaultAssistant)
	if len(args) > 0 {
		assistant = strings.ToLower(args[0])
	}
	if _, ok := cfg.Assistant(assistant); !ok {
		fmt.Fprintf(os.Stderr, "counsel: unknown assistant %q (want one of: %s)\n",
			assistant, strings.Join(config.AssistantNames, ", "))
		os.Exit(1)
	}

	dbPath, err := cfg.SessionDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "counsel: %v\n", err)
		os.Exit(1)
	}
	store := session.Open(dbPath)
	defer store.Close()

	client := remote.NewClient(&remote.ClientConfig{
		LegalBaseURL:  cfg.Assistants.Legal.BaseURL,
		HealthBaseURL: cfg.Assistants.Health.BaseURL,
		PDFBaseURL:    cfg.Assistants.Docs.BaseURL,
		GroqBaseURL:   cfg.Assistants.Wellness.BaseURL,
		Timeout:       time.Duration(cfg.Request.TimeoutSecs) * time.Second,
		SendRate:      rate.Limit(cfg.Request.SendPerSec),
		SendBurst:     cfg.Request.SendBurst,
	})
	loader := transcript.NewLoader(client)
	theme := styles.NewTheme()

	m := chat.New(cfg, assistant, store, client, loader, theme)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Hot-reload reveal pacing and fallback policies on config edits.
	if path, err := config.ConfigPath(); err == nil {
		watcher, err := config.NewWatcher(path, func(c *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Cfg: c})
		})
		if err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "counsel: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// RELAY
// =============================================================================

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("listen", "", "bind address (overrides config)")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil && cfg == nil {
		fmt.Fprintf(os.Stderr, "counsel: %v\n", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Relay.Listen = *listen
	}

	srv := server.New(cfg.Relay)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("relay shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("relay: %v", err)
		}
	}
}
