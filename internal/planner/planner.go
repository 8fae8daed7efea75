// Package planner implements Planner (spec.md §4.5): the deterministic
// expansion of an ActivitySpec into an ordered list of ProblemSlot units.
// Unlike TaskWing's generator.generateWithRetry, which loops an LLM call
// against a validator until a schema-valid plan appears, this expansion is
// pure arithmetic over the ActivitySpec — there is no model in the loop and
// no retry: the same ActivitySpec always yields the same slot list.
package planner

import (
	"fmt"
	"sort"

	"github.com/genforge/genforge/internal/genmodel"
)

// Plan expands spec into problem_count ordered, immutable slots.
// Any error here is a programmer error (spec.md §4.5 step 5): the caller is
// expected to have already run ActivitySpec.Validate.
func Plan(spec genmodel.ActivitySpec) ([]genmodel.ProblemSlot, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("planner: invalid activity spec: %w", err)
	}

	difficulties := expandDifficulties(spec.DifficultyPlan)

	topicSource := spec.TopicTags
	if len(spec.FocusConcepts) > 0 {
		topicSource = spec.FocusConcepts
	}

	testCaseCount := spec.TestCaseCount
	if testCaseCount == 0 {
		testCaseCount = genmodel.TestCaseCount
	}

	slots := make([]genmodel.ProblemSlot, 0, len(difficulties))
	topicCursor := 0
	for i, difficulty := range difficulties {
		primary := topicSource[topicCursor%len(topicSource)]
		topicCursor++

		topics := []string{primary}
		if difficulty == genmodel.DifficultyHard && len(topicSource) >= 2 {
			if secondary, ok := nextDistinctTopic(topicSource, topicCursor, primary); ok {
				topics = append(topics, secondary)
				topicCursor++
			}
		}

		slots = append(slots, genmodel.ProblemSlot{
			Index:         i,
			Language:      spec.Language,
			Difficulty:    difficulty,
			Topics:        topics,
			ProblemStyle:  spec.ProblemStyle,
			Constraints:   spec.Constraints,
			TestCaseCount: testCaseCount,
		})
	}

	if err := validateSlots(spec, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// expandDifficulties sorts difficulty_plan entries by the fixed order
// easy < medium < hard (stable sort preserves insertion order among entries
// that repeat a difficulty, which Validate allows) and flattens each entry's
// count into repeated values.
func expandDifficulties(plan []genmodel.DifficultyCount) []genmodel.Difficulty {
	sorted := make([]genmodel.DifficultyCount, len(plan))
	copy(sorted, plan)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Difficulty.Less(sorted[j].Difficulty)
	})

	out := make([]genmodel.Difficulty, 0, len(sorted))
	for _, entry := range sorted {
		for n := 0; n < entry.Count; n++ {
			out = append(out, entry.Difficulty)
		}
	}
	return out
}

// nextDistinctTopic walks forward from cursor looking for a topic other than
// primary, wrapping around at most once. If every candidate equals primary
// (a single-tag topic source), it reports false so the slot keeps only its
// primary topic.
func nextDistinctTopic(topics []string, cursor int, primary string) (string, bool) {
	for offset := 0; offset < len(topics); offset++ {
		candidate := topics[(cursor+offset)%len(topics)]
		if candidate != primary {
			return candidate, true
		}
	}
	return "", false
}

// validateSlots enforces the ProblemPlan shape spec.md §4.5 step 5 requires:
// exactly problem_count slots, constraints copied verbatim, each slot valid
// on its own.
func validateSlots(spec genmodel.ActivitySpec, slots []genmodel.ProblemSlot) error {
	if len(slots) != spec.ProblemCount {
		return fmt.Errorf("planner: produced %d slots, want problem_count %d", len(slots), spec.ProblemCount)
	}
	for _, slot := range slots {
		if slot.Constraints != spec.Constraints {
			return fmt.Errorf("planner: slot %d constraints diverge from activity spec", slot.Index)
		}
		if len(slot.Topics) == 0 {
			return fmt.Errorf("planner: slot %d has no topics", slot.Index)
		}
	}
	return nil
}
