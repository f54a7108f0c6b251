// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal animates assistant replies word by word.
//
// An Animator is a two-state machine, Idle and Revealing. Start moves
// it to Revealing for one message; each Advance call releases the next
// batch of words until the text is exhausted, at which point the
// machine returns to Idle. The caller drives Advance from a timer at
// TickInterval.
//
// # Key Types
//
//   - Animator: the per-program reveal state machine
//   - TickInterval, WordsPerTick: pacing constants
//
// # Usage
//
//	anim := reveal.NewAnimator()
//	anim.Start(msg.ID, msg.Text)
//	for anim.Revealing() {
//		offset, done := anim.Advance()
//		msg.Reveal(offset)
//		if done {
//			break
//		}
//		// wait TickInterval
//	}
package reveal
