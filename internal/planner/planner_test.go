package planner

import (
	"testing"

	"github.com/genforge/genforge/internal/genmodel"
)

func baseSpec() genmodel.ActivitySpec {
	return genmodel.ActivitySpec{
		Language:     genmodel.LanguagePython,
		ProblemCount: 2,
		DifficultyPlan: []genmodel.DifficultyCount{
			{Difficulty: genmodel.DifficultyEasy, Count: 2},
		},
		TopicTags:    []string{"strings"},
		ProblemStyle: genmodel.StyleStdout,
		Constraints:  "no external libraries",
	}
}

func TestPlan_S1_PythonStdoutEasyTwo(t *testing.T) {
	slots, err := Plan(baseSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	for i, s := range slots {
		if s.Index != i {
			t.Errorf("slot %d: Index = %d", i, s.Index)
		}
		if s.Language != genmodel.LanguagePython {
			t.Errorf("slot %d: expected python", i)
		}
		if s.Difficulty != genmodel.DifficultyEasy {
			t.Errorf("slot %d: expected easy, got %s", i, s.Difficulty)
		}
		if s.PrimaryTopic() != "strings" {
			t.Errorf("slot %d: expected primary topic strings, got %s", i, s.PrimaryTopic())
		}
		if s.TestCaseCount != genmodel.TestCaseCount {
			t.Errorf("slot %d: expected default test case count", i)
		}
	}
}

func TestPlan_SortsDifficultyPlanRegardlessOfInputOrder(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 3
	spec.DifficultyPlan = []genmodel.DifficultyCount{
		{Difficulty: genmodel.DifficultyHard, Count: 1},
		{Difficulty: genmodel.DifficultyEasy, Count: 1},
		{Difficulty: genmodel.DifficultyMedium, Count: 1},
	}
	spec.TopicTags = []string{"a", "b"}

	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []genmodel.Difficulty{genmodel.DifficultyEasy, genmodel.DifficultyMedium, genmodel.DifficultyHard}
	for i, w := range want {
		if slots[i].Difficulty != w {
			t.Errorf("slot %d: expected %s, got %s", i, w, slots[i].Difficulty)
		}
	}
}

func TestPlan_HardSlotGetsSecondaryTopicWhenTwoTagsAvailable(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 1
	spec.DifficultyPlan = []genmodel.DifficultyCount{{Difficulty: genmodel.DifficultyHard, Count: 1}}
	spec.TopicTags = []string{"recursion", "memoization"}

	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots[0].Topics) != 2 {
		t.Fatalf("expected 2 topics on a hard slot, got %v", slots[0].Topics)
	}
	if slots[0].PrimaryTopic() == slots[0].SecondaryTopic() {
		t.Errorf("expected distinct primary/secondary topics, got both %q", slots[0].PrimaryTopic())
	}
}

func TestPlan_HardSlotKeepsSingleTopicWhenOnlyOneTagAvailable(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 1
	spec.DifficultyPlan = []genmodel.DifficultyCount{{Difficulty: genmodel.DifficultyHard, Count: 1}}
	spec.TopicTags = []string{"recursion"}

	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots[0].Topics) != 1 {
		t.Fatalf("expected a single topic when only one tag exists, got %v", slots[0].Topics)
	}
}

func TestPlan_EasyAndMediumSlotsNeverGetSecondaryTopic(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 2
	spec.DifficultyPlan = []genmodel.DifficultyCount{{Difficulty: genmodel.DifficultyEasy, Count: 2}}
	spec.TopicTags = []string{"a", "b"}

	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.SecondaryTopic() != "" {
			t.Errorf("expected no secondary topic on easy slot, got %q", s.SecondaryTopic())
		}
	}
}

func TestPlan_RoundRobinsTopicsAcrossSlots(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 3
	spec.DifficultyPlan = []genmodel.DifficultyCount{{Difficulty: genmodel.DifficultyEasy, Count: 3}}
	spec.TopicTags = []string{"a", "b"}

	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{slots[0].PrimaryTopic(), slots[1].PrimaryTopic(), slots[2].PrimaryTopic()}
	want := []string{"a", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d: expected topic %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPlan_FocusConceptsNarrowTopicSource(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 1
	spec.DifficultyPlan = []genmodel.DifficultyCount{{Difficulty: genmodel.DifficultyEasy, Count: 1}}
	spec.TopicTags = []string{"strings", "arrays", "recursion"}
	spec.FocusConcepts = []string{"recursion"}

	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots[0].PrimaryTopic() != "recursion" {
		t.Errorf("expected focus_concepts to override topic_tags, got %s", slots[0].PrimaryTopic())
	}
}

func TestPlan_ConstraintsCopiedVerbatim(t *testing.T) {
	spec := baseSpec()
	spec.Constraints = "no recursion, O(n) time"
	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.Constraints != spec.Constraints {
			t.Errorf("expected constraints copied verbatim, got %q", s.Constraints)
		}
	}
}

func TestPlan_InvalidSpecIsRejected(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 0
	if _, err := Plan(spec); err == nil {
		t.Fatal("expected an error for an invalid activity spec")
	}
}

func TestPlan_ExactlyProblemCountSlots(t *testing.T) {
	spec := baseSpec()
	spec.ProblemCount = 5
	spec.DifficultyPlan = []genmodel.DifficultyCount{
		{Difficulty: genmodel.DifficultyEasy, Count: 2},
		{Difficulty: genmodel.DifficultyMedium, Count: 2},
		{Difficulty: genmodel.DifficultyHard, Count: 1},
	}
	slots, err := Plan(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != spec.ProblemCount {
		t.Fatalf("expected %d slots, got %d", spec.ProblemCount, len(slots))
	}
	for i, s := range slots {
		if s.Index != i {
			t.Errorf("expected slots in index order, slot %d has Index %d", i, s.Index)
		}
	}
}
