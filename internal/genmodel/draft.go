package genmodel

// RewriteRecord documents one mechanical RewritePass edit applied to a draft.
type RewriteRecord struct {
	ID      string `json:"id"`
	Applied bool   `json:"applied"`
	Detail  string `json:"detail"`
}

// ObligationResult is the outcome of one ObligationChecker rule.
type ObligationResult struct {
	ID      string `json:"id"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// GeneratedProblemDraft is the core's internal, per-slot output. It carries
// the reference solution; GeneratedProblemDraftExternal strips that before
// the draft leaves the core (spec.md §3 invariant).
type GeneratedProblemDraft struct {
	ID          string       `json:"id"`
	SlotIndex   int          `json:"slot_index"`
	Language    Language     `json:"language"`
	Difficulty  Difficulty   `json:"difficulty"`
	TopicTag    string       `json:"topic_tag"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Constraints string       `json:"constraints"`

	StarterCode string `json:"starter_code,omitempty"`
	// Workspace holds multi-file starter content, used for Java
	// workspace-shaped drafts. Exactly one of StarterCode/Workspace is set
	// per language convention, but both fields exist so a Java draft can
	// carry either shape.
	Workspace map[string]string `json:"workspace,omitempty"`

	TestSuite string `json:"test_suite"`

	ReferenceSolution  string            `json:"reference_solution,omitempty"`
	ReferenceWorkspace map[string]string `json:"reference_workspace,omitempty"`

	SampleInputs  []string `json:"sample_inputs"`
	SampleOutputs []string `json:"sample_outputs"`

	Rewrites   []RewriteRecord    `json:"rewrites,omitempty"`
	Obligations []ObligationResult `json:"obligations,omitempty"`
}

// External strips reference material before the draft leaves the core
// (spec.md §3, §6 GeneratedProblemDraftExternal).
func (d GeneratedProblemDraft) External() GeneratedProblemDraftExternal {
	return GeneratedProblemDraftExternal{
		ID:            d.ID,
		SlotIndex:     d.SlotIndex,
		Language:      d.Language,
		Difficulty:    d.Difficulty,
		TopicTag:      d.TopicTag,
		Title:         d.Title,
		Description:   d.Description,
		Constraints:   d.Constraints,
		StarterCode:   d.StarterCode,
		Workspace:     d.Workspace,
		TestSuite:     d.TestSuite,
		SampleInputs:  d.SampleInputs,
		SampleOutputs: d.SampleOutputs,
		Rewrites:      d.Rewrites,
	}
}

// GeneratedProblemDraftExternal is what callers outside the core see: no
// reference_solution, no reference_workspace.
type GeneratedProblemDraftExternal struct {
	ID          string     `json:"id"`
	SlotIndex   int        `json:"slot_index"`
	Language    Language   `json:"language"`
	Difficulty  Difficulty `json:"difficulty"`
	TopicTag    string     `json:"topic_tag"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Constraints string     `json:"constraints"`

	StarterCode string            `json:"starter_code,omitempty"`
	Workspace   map[string]string `json:"workspace,omitempty"`

	TestSuite string `json:"test_suite"`

	SampleInputs  []string        `json:"sample_inputs"`
	SampleOutputs []string        `json:"sample_outputs"`
	Rewrites      []RewriteRecord `json:"rewrites,omitempty"`
}

// FailureKind is the tagged SlotFailure taxonomy (spec.md §3, §7). It is a
// sum type with fields, matched exhaustively by the pipeline retry policy —
// deliberately not an exception hierarchy (spec.md §9 DESIGN NOTES).
type FailureKind string

const (
	FailureContract  FailureKind = "contract"
	FailureExecution FailureKind = "execution"
	FailureQuality   FailureKind = "quality"
	FailureFatal     FailureKind = "fatal"
)

// SlotFailure is the typed failure a slot attempt can produce.
type SlotFailure struct {
	SlotIndex     int         `json:"slot_index"`
	Attempt       int         `json:"attempt"`
	Kind          FailureKind `json:"kind"`
	ObligationID  string      `json:"obligation_id,omitempty"`
	ShortError    string      `json:"short_error"`
	JudgeStdout   string      `json:"judge_stdout,omitempty"`
	JudgeStderr   string      `json:"judge_stderr,omitempty"`
}

func (f *SlotFailure) Error() string {
	if f.ObligationID != "" {
		return f.ShortError + " [" + string(f.Kind) + ":" + f.ObligationID + "]"
	}
	return f.ShortError + " [" + string(f.Kind) + "]"
}

// Retriable reports whether the pipeline's retry table allows another attempt
// for this failure kind (spec.md §4.9). Fatal failures are never retriable.
func (f *SlotFailure) Retriable() bool {
	return f.Kind != FailureFatal
}

// GenerationSlotFailureError is the single external error surface
// (spec.md §6): the first failing slot's kind, obligation id, and a
// one-line redacted message.
type GenerationSlotFailureError struct {
	SlotIndex    int
	Kind         FailureKind
	ObligationID string
	ShortError   string
}

func (e *GenerationSlotFailureError) Error() string {
	return e.ShortError
}
