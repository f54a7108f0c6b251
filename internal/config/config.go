// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arav7781/legalsearch-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete counsel configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`
	// DefaultAssistant is the profile opened at startup:
	// "legal", "health", "docs", "wellness"
	DefaultAssistant string `toml:"default_assistant"`

	// Assistant profiles
	Assistants AssistantsConfig `toml:"assistants"`

	// Typing reveal animation
	Reveal RevealConfig `toml:"reveal"`

	// Local persistence
	Storage StorageConfig `toml:"storage"`

	// Request behavior
	Request RequestConfig `toml:"request"`

	// Local groq relay
	Relay RelayConfig `toml:"relay"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// AssistantsConfig groups the four assistant profiles.
type AssistantsConfig struct {
	Legal    AssistantConfig `toml:"legal"`
	Health   AssistantConfig `toml:"health"`
	Docs     AssistantConfig `toml:"docs"`
	Wellness AssistantConfig `toml:"wellness"`
}

// Fallback policies for failed sends.
const (
	// FallbackBanner shows a dismissable error banner.
	FallbackBanner = "banner"
	// FallbackMessage also appends a placeholder assistant message.
	FallbackMessage = "message"
)

// AssistantConfig describes one remote assistant.
type AssistantConfig struct {
	// BaseURL is the service base URL for this assistant.
	BaseURL string `toml:"base_url"`
	// FallbackPolicy controls what a failed send shows: FallbackBanner
	// or FallbackMessage.
	FallbackPolicy string `toml:"fallback_policy"`
	// Model is the model identifier sent to the service, where the
	// service accepts one (the wellness relay does).
	Model string `toml:"model"`
}

// RevealConfig contains typing animation settings.
type RevealConfig struct {
	// Enabled turns the word-by-word reveal on or off. When off,
	// replies appear all at once.
	Enabled bool `toml:"enabled"`
	// WordsPerTick is how many words each tick releases.
	WordsPerTick int `toml:"words_per_tick"`
	// TickMillis is the tick interval in milliseconds.
	TickMillis int `toml:"tick_millis"`
}

// StorageConfig contains local persistence settings.
type StorageConfig struct {
	// Path is the session database file (empty = ~/.counsel/sessions.db)
	Path string `toml:"path"`
	// ExportDir is where /export writes transcripts (empty = cwd)
	ExportDir string `toml:"export_dir"`
}

// RequestConfig contains HTTP request behavior.
type RequestConfig struct {
	// TimeoutSecs is the per-request timeout in seconds. A request
	// exceeding it is treated as a failure, never retried.
	TimeoutSecs int `toml:"timeout_secs"`
	// SendPerSec limits outgoing queries per second.
	SendPerSec float64 `toml:"send_per_sec"`
	// SendBurst is the send limiter burst size.
	SendBurst int `toml:"send_burst"`
}

// RelayConfig contains the local groq relay settings.
type RelayConfig struct {
	// Listen is the relay bind address.
	Listen string `toml:"listen"`
	// GroqAPIKey authenticates against the Groq API. Usually set via
	// the GROQ_API_KEY environment variable instead of the file.
	GroqAPIKey string `toml:"groq_api_key"`
	// GroqBaseURL is the OpenAI-compatible Groq endpoint.
	GroqBaseURL string `toml:"groq_base_url"`
	// DefaultModel is used when a request names no model.
	DefaultModel string `toml:"default_model"`
	// AllowedModels is the model whitelist. Empty allows only
	// DefaultModel.
	AllowedModels []string `toml:"allowed_models"`
	// MaxBodyBytes caps the request body size.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// Markdown renders assistant replies as markdown
	Markdown bool `toml:"markdown"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
//
// Base URLs use explicit IPv4 loopback for the relay to avoid IPv6
// resolution issues on Windows.
func Default() *Config {
	return &Config{
		Version:          "1.0.0",
		DefaultAssistant: "legal",

		Assistants: AssistantsConfig{
			Legal: AssistantConfig{
				BaseURL:        "https://legalsearch-api.onrender.com",
				FallbackPolicy: FallbackBanner,
			},
			Health: AssistantConfig{
				BaseURL:        "https://healthsearch-api.onrender.com",
				FallbackPolicy: FallbackBanner,
			},
			Docs: AssistantConfig{
				BaseURL:        "https://docsearch-api.onrender.com",
				FallbackPolicy: FallbackBanner,
			},
			Wellness: AssistantConfig{
				BaseURL:        "http://127.0.0.1:8787",
				FallbackPolicy: FallbackMessage,
				Model:          "llama-3.3-70b-versatile",
			},
		},

		Reveal: RevealConfig{
			Enabled:      true,
			WordsPerTick: 2,
			TickMillis:   100,
		},

		Storage: StorageConfig{
			Path:      "", // resolved to ~/.counsel/sessions.db
			ExportDir: "",
		},

		Request: RequestConfig{
			TimeoutSecs: 30,
			SendPerSec:  1,
			SendBurst:   3,
		},

		Relay: RelayConfig{
			Listen:       "127.0.0.1:8787",
			GroqBaseURL:  "https://api.groq.com/openai/v1",
			DefaultModel: "llama-3.3-70b-versatile",
			MaxBodyBytes: 64 * 1024,
		},

		UI: UIConfig{
			Theme:       "dark",
			Markdown:    true,
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the counsel configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".counsel"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SessionDBPath resolves the session database path, falling back to
// the default location under the config directory.
func (c *Config) SessionDBPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on the config
// file. It can hold an API key, so anything wider than 0600 is
// tightened.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.counsel/config.toml, falling back
// to defaults when the file is absent. Environment overrides are
// applied last. A parse failure returns usable defaults along with the
// error so the caller can surface it without aborting.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load config: %w", err)
				cfg = Default()
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file. The write is atomic
// and the file is created 0600 since it can hold an API key.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# counsel configuration file\n")
	buf.WriteString("# Generated by counsel - edit with care\n")
	buf.WriteString("\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Assistant profile names.
const (
	AssistantLegal    = "legal"
	AssistantHealth   = "health"
	AssistantDocs     = "docs"
	AssistantWellness = "wellness"
)

// AssistantNames lists the valid assistant profile names.
var AssistantNames = []string{AssistantLegal, AssistantHealth, AssistantDocs, AssistantWellness}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	valid := map[string]bool{}
	for _, name := range AssistantNames {
		valid[name] = true
	}
	if !valid[strings.ToLower(c.DefaultAssistant)] {
		errs = append(errs, ValidationError{
			Field:   "default_assistant",
			Message: fmt.Sprintf("invalid assistant '%s', must be one of: legal, health, docs, wellness", c.DefaultAssistant),
		})
	}

	for name, a := range c.assistantMap() {
		if a.BaseURL != "" {
			if _, err := url.Parse(a.BaseURL); err != nil {
				errs = append(errs, ValidationError{
					Field:   "assistants." + name + ".base_url",
					Message: fmt.Sprintf("invalid URL: %v", err),
				})
			}
		}
		if a.FallbackPolicy != "" {
			validPolicies := map[string]bool{FallbackBanner: true, FallbackMessage: true}
			if !validPolicies[strings.ToLower(a.FallbackPolicy)] {
				errs = append(errs, ValidationError{
					Field:   "assistants." + name + ".fallback_policy",
					Message: fmt.Sprintf("invalid policy '%s', must be banner or message", a.FallbackPolicy),
				})
			}
		}
	}

	if c.Reveal.WordsPerTick < 1 || c.Reveal.WordsPerTick > 20 {
		errs = append(errs, ValidationError{
			Field:   "reveal.words_per_tick",
			Message: fmt.Sprintf("must be 1-20, got %d", c.Reveal.WordsPerTick),
		})
	}
	if c.Reveal.TickMillis < 10 || c.Reveal.TickMillis > 2000 {
		errs = append(errs, ValidationError{
			Field:   "reveal.tick_millis",
			Message: fmt.Sprintf("must be 10-2000, got %d", c.Reveal.TickMillis),
		})
	}

	if c.Request.TimeoutSecs < 1 || c.Request.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "request.timeout_secs",
			Message: fmt.Sprintf("must be 1-300, got %d", c.Request.TimeoutSecs),
		})
	}
	if c.Request.SendPerSec <= 0 {
		errs = append(errs, ValidationError{
			Field:   "request.send_per_sec",
			Message: "must be positive",
		})
	}

	if c.Relay.MaxBodyBytes < 1024 {
		errs = append(errs, ValidationError{
			Field:   "relay.max_body_bytes",
			Message: fmt.Sprintf("must be at least 1024, got %d", c.Relay.MaxBodyBytes),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills in any missing values with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.DefaultAssistant == "" {
		c.DefaultAssistant = defaults.DefaultAssistant
	}

	fillAssistant(&c.Assistants.Legal, defaults.Assistants.Legal)
	fillAssistant(&c.Assistants.Health, defaults.Assistants.Health)
	fillAssistant(&c.Assistants.Docs, defaults.Assistants.Docs)
	fillAssistant(&c.Assistants.Wellness, defaults.Assistants.Wellness)

	if c.Reveal.WordsPerTick == 0 {
		c.Reveal.WordsPerTick = defaults.Reveal.WordsPerTick
	}
	if c.Reveal.TickMillis == 0 {
		c.Reveal.TickMillis = defaults.Reveal.TickMillis
	}

	if c.Request.TimeoutSecs == 0 {
		c.Request.TimeoutSecs = defaults.Request.TimeoutSecs
	}
	if c.Request.SendPerSec == 0 {
		c.Request.SendPerSec = defaults.Request.SendPerSec
	}
	if c.Request.SendBurst == 0 {
		c.Request.SendBurst = defaults.Request.SendBurst
	}

	if c.Relay.Listen == "" {
		c.Relay.Listen = defaults.Relay.Listen
	}
	if c.Relay.GroqBaseURL == "" {
		c.Relay.GroqBaseURL = defaults.Relay.GroqBaseURL
	}
	if c.Relay.DefaultModel == "" {
		c.Relay.DefaultModel = defaults.Relay.DefaultModel
	}
	if c.Relay.MaxBodyBytes == 0 {
		c.Relay.MaxBodyBytes = defaults.Relay.MaxBodyBytes
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

func fillAssistant(a *AssistantConfig, def AssistantConfig) {
	if a.BaseURL == "" {
		a.BaseURL = def.BaseURL
	}
	if a.FallbackPolicy == "" {
		a.FallbackPolicy = def.FallbackPolicy
	}
	if a.Model == "" {
		a.Model = def.Model
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - COUNSEL_ASSISTANT: overrides default_assistant
//   - COUNSEL_LEGAL_URL, COUNSEL_HEALTH_URL, COUNSEL_DOCS_URL,
//     COUNSEL_WELLNESS_URL: override the per-assistant base URLs
//   - COUNSEL_TIMEOUT_SECS: overrides request.timeout_secs
//   - COUNSEL_NO_REVEAL: disables the typing animation
//   - COUNSEL_RELAY_LISTEN: overrides relay.listen
//   - GROQ_API_KEY: overrides relay.groq_api_key
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COUNSEL_ASSISTANT"); v != "" {
		c.DefaultAssistant = v
	}

	if v := os.Getenv("COUNSEL_LEGAL_URL"); v != "" {
		c.Assistants.Legal.BaseURL = v
	}
	if v := os.Getenv("COUNSEL_HEALTH_URL"); v != "" {
		c.Assistants.Health.BaseURL = v
	}
	if v := os.Getenv("COUNSEL_DOCS_URL"); v != "" {
		c.Assistants.Docs.BaseURL = v
	}
	if v := os.Getenv("COUNSEL_WELLNESS_URL"); v != "" {
		c.Assistants.Wellness.BaseURL = v
	}

	if v := os.Getenv("COUNSEL_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Request.TimeoutSecs = secs
		}
	}

	if v := os.Getenv("COUNSEL_NO_REVEAL"); v != "" {
		c.Reveal.Enabled = !(v == "1" || strings.ToLower(v) == "true")
	}

	if v := os.Getenv("COUNSEL_RELAY_LISTEN"); v != "" {
		c.Relay.Listen = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.Relay.GroqAPIKey = v
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Assistant returns the profile for the given assistant name.
func (c *Config) Assistant(name string) (AssistantConfig, bool) {
	a, ok := c.assistantMap()[strings.ToLower(name)]
	return a, ok
}

func (c *Config) assistantMap() map[string]AssistantConfig {
	return map[string]AssistantConfig{
		AssistantLegal:    c.Assistants.Legal,
		AssistantHealth:   c.Assistants.Health,
		AssistantDocs:     c.Assistants.Docs,
		AssistantWellness: c.Assistants.Wellness,
	}
}
