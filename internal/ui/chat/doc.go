// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat view, the main Bubble Tea model of
// the application.
//
// # Key Types
//
//   - Model: the Bubble Tea model holding the transcript, input, and
//     session state for one assistant profile
//   - State: the interaction state (Ready, Waiting, Revealing)
//   - Sender: the remote operations the view dispatches per assistant
//   - KeyMap: keyboard bindings
//
// # Behavior
//
// One message is in flight at a time. Submitting while a request is
// outstanding aborts the previous request before dispatching the new
// one. Replies are disclosed word by word on a timer; input is disabled
// until the reveal settles. Switching sessions always refetches the
// remote history, and a fetch that loses a race to a newer switch is
// dropped.
package chat
