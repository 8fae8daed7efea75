// Package pipeline implements PerSlotGenerator, ReferenceExecutor,
// TestStrengthGate, and GenerationPipeline (spec.md §4.6-4.9): the core's
// per-slot generation state machine and the retry policy that drives it.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// attemptTracker records, per slot, the content hash of every raw LLM
// attempt seen so far — the same mutex-guarded map idiom as the teacher's
// atomizer.StateTracker, repurposed from "postgres id per code block" to
// "seen attempt hashes per slot" to back the "substantive change required"
// retry invariant (spec.md §4.9).
type attemptTracker struct {
	seen map[int]map[string]bool
	mu   sync.Mutex
}

func newAttemptTracker() *attemptTracker {
	return &attemptTracker{seen: make(map[int]map[string]bool)}
}

// RecordAndCheck hashes raw and reports whether this exact text was already
// seen for slotIndex. The hash is recorded regardless, so the caller never
// needs a separate record call.
func (t *attemptTracker) RecordAndCheck(slotIndex int, raw string) (isRepeat bool) {
	hash := hashAttempt(raw)

	t.mu.Lock()
	defer t.mu.Unlock()

	bySlot, ok := t.seen[slotIndex]
	if !ok {
		bySlot = make(map[string]bool)
		t.seen[slotIndex] = bySlot
	}
	isRepeat = bySlot[hash]
	bySlot[hash] = true
	return isRepeat
}

// AttemptCount returns how many distinct raw attempts have been recorded
// for slotIndex.
func (t *attemptTracker) AttemptCount(slotIndex int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen[slotIndex])
}

func hashAttempt(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
