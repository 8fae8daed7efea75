package pipeline

import "testing"

func TestAttemptTracker_FirstAttemptIsNeverARepeat(t *testing.T) {
	tr := newAttemptTracker()
	if tr.RecordAndCheck(0, "draft one") {
		t.Fatal("first attempt should not be a repeat")
	}
}

func TestAttemptTracker_IdenticalRawTextIsARepeat(t *testing.T) {
	tr := newAttemptTracker()
	tr.RecordAndCheck(0, "draft one")
	if !tr.RecordAndCheck(0, "draft one") {
		t.Fatal("identical raw text should be flagged as a repeat")
	}
}

func TestAttemptTracker_DifferentTextIsNotARepeat(t *testing.T) {
	tr := newAttemptTracker()
	tr.RecordAndCheck(0, "draft one")
	if tr.RecordAndCheck(0, "draft two") {
		t.Fatal("different raw text should not be a repeat")
	}
}

func TestAttemptTracker_SlotsAreIndependent(t *testing.T) {
	tr := newAttemptTracker()
	tr.RecordAndCheck(0, "same text")
	if tr.RecordAndCheck(1, "same text") {
		t.Fatal("a different slot index should not share attempt history")
	}
}

func TestAttemptTracker_AttemptCount(t *testing.T) {
	tr := newAttemptTracker()
	tr.RecordAndCheck(0, "a")
	tr.RecordAndCheck(0, "b")
	tr.RecordAndCheck(0, "a")
	if got := tr.AttemptCount(0); got != 2 {
		t.Fatalf("expected 2 distinct attempts, got %d", got)
	}
}
