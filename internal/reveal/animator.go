// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"time"
	"unicode"

	"github.com/qmuntal/stateless"
)

// =============================================================================
// PACING
// =============================================================================

const (
	// TickInterval is how often the caller should call Advance while a
	// reveal is running.
	TickInterval = 100 * time.Millisecond

	// WordsPerTick is how many words each Advance releases.
	WordsPerTick = 2
)

// =============================================================================
// STATES AND TRIGGERS
// =============================================================================

type AnimState stateless.State

var (
	StateIdle      AnimState = "Idle"
	StateRevealing AnimState = "Revealing"
)

type AnimTrigger stateless.Trigger

var (
	TriggerStart   AnimTrigger = "Start"
	TriggerExhaust AnimTrigger = "Exhaust"
	TriggerCancel  AnimTrigger = "Cancel"
)

// =============================================================================
// ANIMATOR
// =============================================================================

// Animator reveals one message at a time. Starting a new reveal while
// another is running abandons the old one; Cancel is keyed by message
// id so a stale cancel cannot stop a newer reveal.
//
// Offsets returned by Advance are byte offsets into the message text,
// suitable for Message.Reveal.
type Animator struct {
	fsm *stateless.StateMachine

	messageID string
	bounds    []int // byte offset after each word
	word      int   // words released so far
	total     int   // byte length of the full text
	perTick   int
}

// NewAnimator creates an animator in the Idle state.
func NewAnimator() *Animator {
	a := &Animator{perTick: WordsPerTick}
	fsm := stateless.NewStateMachine(StateIdle)

	fsm.Configure(StateIdle).
		Permit(TriggerStart, StateRevealing)

	fsm.Configure(StateRevealing).
		PermitReentry(TriggerStart).
		Permit(TriggerExhaust, StateIdle).
		Permit(TriggerCancel, StateIdle)

	a.fsm = fsm
	return a
}

// Start begins revealing text for the given message. Any reveal already
// in progress is abandoned. Empty text completes immediately and leaves
// the animator Idle.
func (a *Animator) Start(messageID, text string) {
	a.messageID = messageID
	a.bounds = wordBounds(text)
	a.word = 0
	a.total = len(text)

	if len(a.bounds) == 0 {
		if a.Revealing() {
			_ = a.fsm.Fire(TriggerCancel)
		}
		a.reset()
		return
	}
	_ = a.fsm.Fire(TriggerStart)
}

// Advance releases the next batch of words and returns the byte offset
// the message should be revealed to. done is true when the text is
// exhausted, in which case the returned offset covers the full text and
// the animator is Idle again. Calling Advance while Idle returns 0,
// false.
func (a *Animator) Advance() (offset int, done bool) {
	if !a.Revealing() {
		return 0, false
	}

	a.word += a.perTick
	if a.word >= len(a.bounds) {
		total := a.total
		_ = a.fsm.Fire(TriggerExhaust)
		a.reset()
		return total, true
	}
	return a.bounds[a.word-1], false
}

// Cancel stops the reveal for messageID. A cancel for any other message
// is ignored. It returns true when a running reveal was stopped.
func (a *Animator) Cancel(messageID string) bool {
	if !a.Revealing() || a.messageID != messageID {
		return false
	}
	_ = a.fsm.Fire(TriggerCancel)
	a.reset()
	return true
}

// SetWordsPerTick overrides the number of words each Advance releases.
// Values below one are ignored.
func (a *Animator) SetWordsPerTick(n int) {
	if n >= 1 {
		a.perTick = n
	}
}

// Revealing reports whether a reveal is in progress.
func (a *Animator) Revealing() bool {
	return a.fsm.MustState() == stateless.State(StateRevealing)
}

// ActiveID returns the id of the message being revealed, or "" when
// the animator is Idle.
func (a *Animator) ActiveID() string {
	if !a.Revealing() {
		return ""
	}
	return a.messageID
}

func (a *Animator) reset() {
	a.messageID = ""
	a.bounds = nil
	a.word = 0
	a.total = 0
}

// =============================================================================
// WORD BOUNDARIES
// =============================================================================

// wordBounds returns the byte offset just past each whitespace-delimited
// word. Revealing to bounds[k-1] shows the first k words.
func wordBounds(text string) []int {
	var bounds []int
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				bounds = append(bounds, i)
				inWord = false
			}
			continue
		}
		inWord = true
	}
	if inWord {
		bounds = append(bounds, len(text))
	}
	return bounds
}
