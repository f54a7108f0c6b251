// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for counsel.
//
// Configuration is TOML with built-in defaults and environment variable
// overrides. The file lives at ~/.counsel/config.toml; a missing file is
// not an error, defaults apply.
//
// # Key Types
//
//   - Config: the complete configuration tree
//   - AssistantConfig: one remote assistant profile
//   - Watcher: live reload of the config file
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//		// defaults are still usable; err is informational
//	}
package config
