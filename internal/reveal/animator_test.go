// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"strings"
	"testing"
)

// =============================================================================
// WORD BOUNDARY TESTS
// =============================================================================

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{name: "empty", text: "", want: nil},
		{name: "only spaces", text: "   ", want: nil},
		{name: "single word", text: "hello", want: []int{5}},
		{name: "two words", text: "hello world", want: []int{5, 11}},
		{name: "leading space", text: " hi there", want: []int{3, 9}},
		{name: "newlines count as space", text: "a\nb", want: []int{1, 3}},
		{name: "unicode byte offsets", text: "héllo wörld", want: []int{6, 13}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordBounds(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("wordBounds(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("bound[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// =============================================================================
// ANIMATOR TESTS
// =============================================================================

func TestAnimator_RevealsTwoWordsPerTick(t *testing.T) {
	anim := NewAnimator()
	anim.Start("msg_1", "one two three four five")

	if !anim.Revealing() {
		t.Fatal("animator should be Revealing after Start")
	}
	if got := anim.ActiveID(); got != "msg_1" {
		t.Errorf("ActiveID = %q", got)
	}

	// first tick reveals "one two"
	offset, done := anim.Advance()
	if done {
		t.Fatal("should not be done after first tick")
	}
	if want := len("one two"); offset != want {
		t.Errorf("offset = %d, want %d", offset, want)
	}

	// second tick reveals "one two three four"
	offset, done = anim.Advance()
	if done {
		t.Fatal("should not be done after second tick")
	}
	if want := len("one two three four"); offset != want {
		t.Errorf("offset = %d, want %d", offset, want)
	}

	// third tick exhausts the text
	offset, done = anim.Advance()
	if !done {
		t.Fatal("should be done after third tick")
	}
	if want := len("one two three four five"); offset != want {
		t.Errorf("final offset = %d, want full length %d", offset, want)
	}
	if anim.Revealing() {
		t.Error("animator should be Idle after exhausting the text")
	}
}

func TestAnimator_OffsetsAreNonDecreasing(t *testing.T) {
	anim := NewAnimator()
	anim.Start("msg_1", strings.Repeat("word ", 50))

	prev := 0
	for i := 0; i < 100; i++ {
		offset, done := anim.Advance()
		if offset < prev {
			t.Fatalf("offset decreased: %d after %d", offset, prev)
		}
		prev = offset
		if done {
			return
		}
	}
	t.Fatal("reveal did not terminate")
}

func TestAnimator_TerminatesInBoundedTicks(t *testing.T) {
	const words = 31
	anim := NewAnimator()
	anim.Start("msg_1", strings.TrimSpace(strings.Repeat("w ", words)))

	// ceil(31 / 2) = 16 ticks
	ticks := 0
	for {
		ticks++
		if _, done := anim.Advance(); done {
			break
		}
		if ticks > words {
			t.Fatal("reveal did not terminate")
		}
	}
	if want := (words + 1) / WordsPerTick; ticks != want {
		t.Errorf("ticks = %d, want %d", ticks, want)
	}
}

func TestAnimator_EmptyTextStaysIdle(t *testing.T) {
	anim := NewAnimator()
	anim.Start("msg_1", "   ")

	if anim.Revealing() {
		t.Error("empty text should complete immediately")
	}
	if offset, done := anim.Advance(); offset != 0 || done {
		t.Errorf("Advance while Idle = (%d, %v), want (0, false)", offset, done)
	}
}

func TestAnimator_EmptyStartSettlesRunningReveal(t *testing.T) {
	anim := NewAnimator()
	anim.Start("msg_1", "one two three")
	anim.Start("msg_2", "   ")

	if anim.Revealing() {
		t.Error("empty text should complete immediately and leave the animator Idle")
	}
	if got := anim.ActiveID(); got != "" {
		t.Errorf("ActiveID = %q, want empty after an empty start", got)
	}
	if offset, done := anim.Advance(); offset != 0 || done {
		t.Errorf("Advance while Idle = (%d, %v), want (0, false)", offset, done)
	}
}

func TestAnimator_CancelIsKeyedByMessageID(t *testing.T) {
	anim := NewAnimator()
	anim.Start("msg_1", "alpha beta gamma")

	if anim.Cancel("msg_other") {
		t.Error("cancel for a different message should be ignored")
	}
	if !anim.Revealing() {
		t.Fatal("reveal should survive a mismatched cancel")
	}

	if !anim.Cancel("msg_1") {
		t.Error("cancel for the active message should stop the reveal")
	}
	if anim.Revealing() {
		t.Error("animator should be Idle after cancel")
	}
	if anim.Cancel("msg_1") {
		t.Error("cancel while Idle should report false")
	}
}

func TestAnimator_RestartReplacesActiveReveal(t *testing.T) {
	anim := NewAnimator()
	anim.Start("msg_1", "first message text here")
	anim.Advance()

	anim.Start("msg_2", "second one")
	if got := anim.ActiveID(); got != "msg_2" {
		t.Fatalf("ActiveID = %q, want msg_2", got)
	}

	offset, done := anim.Advance()
	if !done {
		t.Error("two-word text should finish in one tick")
	}
	if want := len("second one"); offset != want {
		t.Errorf("offset = %d, want %d", offset, want)
	}
}
