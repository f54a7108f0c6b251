// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the counsel TUI.
//
// # Key Types
//
//   - Banner: dismissable notification strip for recoverable errors
//   - SessionList: overlay for browsing and switching sessions
//   - Header: assistant name and session title bar
//   - StatusBar: state indicator and keyboard shortcut hints
//   - Welcome: first-run screen shown for an empty transcript
//
// Components are pure view helpers: they hold display state, render
// with a styles.Theme, and leave event handling to the chat model.
package components
