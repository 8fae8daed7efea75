// Package genmodel holds the data model shared across the generation core:
// the input ActivitySpec, the Planner's ProblemSlot units, and the
// GeneratedProblemDraft the pipeline produces for each slot.
package genmodel

import "fmt"

// Language is one of the four languages the generation core supports.
type Language string

const (
	LanguageJava   Language = "java"
	LanguagePython Language = "python"
	LanguageCPP    Language = "cpp"
	LanguageSQL    Language = "sql"
)

// Difficulty orders easy < medium < hard; Planner expansion depends on this order.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// rank gives the fixed sort order easy < medium < hard used by Planner.
func (d Difficulty) rank() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	case DifficultyHard:
		return 2
	default:
		return 3
	}
}

// Less reports whether d sorts before other under the fixed difficulty order.
func (d Difficulty) Less(other Difficulty) bool {
	return d.rank() < other.rank()
}

// ProblemStyle controls whether a problem is graded by return value, stdout, or both.
type ProblemStyle string

const (
	StyleReturn ProblemStyle = "return"
	StyleStdout ProblemStyle = "stdout"
	StyleMixed  ProblemStyle = "mixed"
)

// TestCaseCount is fixed at 8 for v1 (spec.md §3).
const TestCaseCount = 8

// DifficultyCount pairs a difficulty with how many slots it should produce.
type DifficultyCount struct {
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	Count      int        `json:"count" yaml:"count"`
}

// ActivitySpec is the immutable input to the core, normally produced by the
// external dialogue layer.
type ActivitySpec struct {
	Language       Language          `json:"language" yaml:"language"`
	ProblemCount   int               `json:"problem_count" yaml:"problem_count"`
	DifficultyPlan []DifficultyCount `json:"difficulty_plan" yaml:"difficulty_plan"`
	TopicTags      []string          `json:"topic_tags" yaml:"topic_tags"`
	// FocusConcepts, when non-empty, narrows the round-robin topic assignment
	// to this subset instead of the full TopicTags list (spec.md §4.5 step 3).
	FocusConcepts []string     `json:"focus_concepts,omitempty" yaml:"focus_concepts,omitempty"`
	ProblemStyle  ProblemStyle `json:"problem_style" yaml:"problem_style"`
	Constraints   string       `json:"constraints" yaml:"constraints"`
	TestCaseCount int          `json:"test_case_count" yaml:"test_case_count"`

	// ExplicitHardRequested resolves spec.md §9's Open Question #2: the
	// dialogue layer must set this explicitly rather than the core
	// re-deriving "the user asked for hard" from free text.
	ExplicitHardRequested bool `json:"explicit_hard_requested" yaml:"explicit_hard_requested"`
}

// Validate checks the structural constraints spec.md §3 places on ActivitySpec.
// This includes the cross-field check that difficulty_plan counts sum to
// ProblemCount; Planner re-checks the expanded slot list, and any error there
// is a fatal/programmer error per spec.md §4.5 step 5.
func (s ActivitySpec) Validate() error {
	switch s.Language {
	case LanguageJava, LanguagePython, LanguageCPP, LanguageSQL:
	default:
		return fmt.Errorf("activity spec: unsupported language %q", s.Language)
	}
	if s.ProblemCount < 1 || s.ProblemCount > 7 {
		return fmt.Errorf("activity spec: problem_count %d out of range [1,7]", s.ProblemCount)
	}
	if len(s.DifficultyPlan) == 0 {
		return fmt.Errorf("activity spec: difficulty_plan must be non-empty")
	}
	sum := 0
	for _, dc := range s.DifficultyPlan {
		if dc.Count < 1 {
			return fmt.Errorf("activity spec: difficulty_plan entry %q has count %d < 1", dc.Difficulty, dc.Count)
		}
		switch dc.Difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
		default:
			return fmt.Errorf("activity spec: unsupported difficulty %q", dc.Difficulty)
		}
		sum += dc.Count
	}
	if sum != s.ProblemCount {
		return fmt.Errorf("activity spec: difficulty_plan counts sum to %d, want problem_count %d", sum, s.ProblemCount)
	}
	if len(s.TopicTags) == 0 {
		return fmt.Errorf("activity spec: topic_tags must be non-empty")
	}
	switch s.ProblemStyle {
	case StyleReturn, StyleStdout, StyleMixed:
	default:
		return fmt.Errorf("activity spec: unsupported problem_style %q", s.ProblemStyle)
	}
	if s.TestCaseCount != 0 && s.TestCaseCount != TestCaseCount {
		return fmt.Errorf("activity spec: test_case_count is fixed at %d for v1", TestCaseCount)
	}
	return nil
}

// ProblemSlot is one unit of work carved out of an ActivitySpec by Planner.
// A slot is immutable once produced.
type ProblemSlot struct {
	Index         int          `json:"index"`
	Language      Language     `json:"language"`
	Difficulty    Difficulty   `json:"difficulty"`
	Topics        []string     `json:"topics"` // 1 or 2 entries
	ProblemStyle  ProblemStyle `json:"problem_style"`
	Constraints   string       `json:"constraints"`
	TestCaseCount int          `json:"test_case_count"`
}

// PrimaryTopic returns the slot's primary (first) topic tag.
func (p ProblemSlot) PrimaryTopic() string {
	if len(p.Topics) == 0 {
		return ""
	}
	return p.Topics[0]
}

// SecondaryTopic returns the slot's secondary topic, or "" if it has none.
func (p ProblemSlot) SecondaryTopic() string {
	if len(p.Topics) < 2 {
		return ""
	}
	return p.Topics[1]
}
