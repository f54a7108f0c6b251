// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the counsel TUI.
//
// All colors use Lip Gloss AdaptiveColor so light and dark terminals
// get a readable palette without configuration. A Theme bundles the
// styled components; build one with NewTheme and pass it down to the
// views.
package styles
