package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() *slog.Logger { return slog.Default() }

func testSpec() genmodel.ActivitySpec {
	return genmodel.ActivitySpec{
		Language:     genmodel.LanguagePython,
		ProblemCount: 2,
		DifficultyPlan: []genmodel.DifficultyCount{
			{Difficulty: genmodel.DifficultyEasy, Count: 1},
			{Difficulty: genmodel.DifficultyMedium, Count: 1},
		},
		TopicTags:    []string{"loops", "recursion"},
		ProblemStyle: genmodel.StyleReturn,
		Constraints:  "1 <= n <= 1000",
	}
}

func testRunContext() genmodel.RunContext {
	return genmodel.RunContext{
		ActivityID: "activity-1",
		RunID:      "run-1",
		IDs:        genmodel.NewSeededIDGenerator("draft"),
		Clock:      genmodel.SystemClock{},
	}
}

// fakeGenerator hands back a scripted sequence of (draft, raw, failure)
// results per call, in order, regardless of slot.
type fakeGenerator struct {
	results []generateResult
	calls   int
}

type generateResult struct {
	draft   genmodel.GeneratedProblemDraft
	raw     string
	failure *genmodel.SlotFailure
}

func (f *fakeGenerator) GenerateSlot(ctx context.Context, slot genmodel.ProblemSlot, attempt int, repair *RepairInput, rc genmodel.RunContext) (genmodel.GeneratedProblemDraft, string, *genmodel.SlotFailure) {
	if f.calls >= len(f.results) {
		panic("fakeGenerator: exhausted scripted results")
	}
	r := f.results[f.calls]
	f.calls++
	return r.draft, r.raw, r.failure
}

type fakeReference struct {
	failures map[int]*genmodel.SlotFailure
	calls    int
}

func (f *fakeReference) Execute(ctx context.Context, slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft, attempt int) *genmodel.SlotFailure {
	f.calls++
	return f.failures[slot.Index]
}

type fakeGate struct {
	failures map[int]*genmodel.SlotFailure
	calls    int
}

func (f *fakeGate) Check(ctx context.Context, slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft, attempt int) *genmodel.SlotFailure {
	f.calls++
	return f.failures[slot.Index]
}

func okDraft(slotIndex int, raw string) generateResult {
	return generateResult{
		draft: genmodel.GeneratedProblemDraft{ID: raw, SlotIndex: slotIndex, TestSuite: "ts"},
		raw:   raw,
	}
}

func TestPipeline_Run_AllSlotsSucceedOnFirstAttempt(t *testing.T) {
	gen := &fakeGenerator{results: []generateResult{okDraft(0, "raw-0"), okDraft(1, "raw-1")}}
	p := &Pipeline{
		generator: gen,
		reference: &fakeReference{failures: map[int]*genmodel.SlotFailure{}},
		gate:      &fakeGate{failures: map[int]*genmodel.SlotFailure{}},
		logger:    noopLogger(),
	}

	drafts, err := p.Run(context.Background(), testSpec(), testRunContext())
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
	assert.Equal(t, 2, gen.calls)
}

func TestPipeline_Run_RetriesContractFailureWithinBudget(t *testing.T) {
	gen := &fakeGenerator{results: []generateResult{
		{raw: "raw-bad", failure: contractFailure(0, 1, "json_parse.invalid", "bad json")},
		okDraft(0, "raw-good"),
		okDraft(1, "raw-1"),
	}}
	p := &Pipeline{
		generator: gen,
		reference: &fakeReference{failures: map[int]*genmodel.SlotFailure{}},
		gate:      &fakeGate{failures: map[int]*genmodel.SlotFailure{}},
		logger:    noopLogger(),
	}

	drafts, err := p.Run(context.Background(), testSpec(), testRunContext())
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
	assert.Equal(t, 3, gen.calls)
}

func TestPipeline_Run_ExhaustingContractBudgetFailsTheRun(t *testing.T) {
	failure := contractFailure(0, 1, "json_parse.invalid", "still bad")
	gen := &fakeGenerator{results: []generateResult{
		{raw: "raw-1", failure: failure},
		{raw: "raw-2", failure: failure},
		{raw: "raw-3", failure: failure},
	}}
	p := &Pipeline{
		generator: gen,
		reference: &fakeReference{failures: map[int]*genmodel.SlotFailure{}},
		gate:      &fakeGate{failures: map[int]*genmodel.SlotFailure{}},
		logger:    noopLogger(),
	}

	drafts, err := p.Run(context.Background(), testSpec(), testRunContext())
	require.Error(t, err)
	assert.Nil(t, drafts)

	var slotErr *genmodel.GenerationSlotFailureError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, genmodel.FailureContract, slotErr.Kind)
	assert.Equal(t, 3, gen.calls)
}

func TestPipeline_Run_FatalFailureNeverRetries(t *testing.T) {
	gen := &fakeGenerator{results: []generateResult{
		{raw: "", failure: fatalFailure(0, 1, "llm call failed: timeout")},
	}}
	p := &Pipeline{
		generator: gen,
		reference: &fakeReference{failures: map[int]*genmodel.SlotFailure{}},
		gate:      &fakeGate{failures: map[int]*genmodel.SlotFailure{}},
		logger:    noopLogger(),
	}

	_, err := p.Run(context.Background(), testSpec(), testRunContext())
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestPipeline_Run_IdenticalRetryTextIsRejectedAsNonSubstantive(t *testing.T) {
	gen := &fakeGenerator{results: []generateResult{
		{raw: "same-text", failure: contractFailure(0, 1, "json_parse.invalid", "bad json")},
		{raw: "same-text"}, // retry returns byte-identical raw text, no failure of its own
		okDraft(0, "raw-different"),
		okDraft(1, "raw-1"),
	}}
	p := &Pipeline{
		generator: gen,
		reference: &fakeReference{failures: map[int]*genmodel.SlotFailure{}},
		gate:      &fakeGate{failures: map[int]*genmodel.SlotFailure{}},
		logger:    noopLogger(),
	}

	drafts, err := p.Run(context.Background(), testSpec(), testRunContext())
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
	assert.Equal(t, 4, gen.calls)
}

func TestPipeline_Run_SoftFallbackDowngradesHardSlotAfterQualityExhaustion(t *testing.T) {
	spec := genmodel.ActivitySpec{
		Language:     genmodel.LanguagePython,
		ProblemCount: 1,
		DifficultyPlan: []genmodel.DifficultyCount{
			{Difficulty: genmodel.DifficultyHard, Count: 1},
		},
		TopicTags:             []string{"loops", "recursion"},
		ProblemStyle:          genmodel.StyleReturn,
		Constraints:           "1 <= n <= 1000",
		ExplicitHardRequested: false,
	}

	qualityFailure := &genmodel.SlotFailure{SlotIndex: 0, Kind: genmodel.FailureQuality, ObligationID: "tests.reject_baselines", ShortError: "too weak"}
	// Quality retry budget is 2 (3 attempts to exhaust); the gate fails every
	// attempt, so the hard slot exhausts its budget, falls back to medium,
	// then exhausts the budget a second time and fails for good: 6 calls.
	gen := &fakeGenerator{results: []generateResult{
		okDraft(0, "raw-1"), okDraft(0, "raw-2"), okDraft(0, "raw-3"),
		okDraft(0, "raw-4"), okDraft(0, "raw-5"), okDraft(0, "raw-6"),
	}}
	gate := &fakeGate{failures: map[int]*genmodel.SlotFailure{0: qualityFailure}}

	p := &Pipeline{
		generator: gen,
		reference: &fakeReference{failures: map[int]*genmodel.SlotFailure{}},
		gate:      gate,
		logger:    noopLogger(),
	}

	drafts, err := p.Run(context.Background(), spec, testRunContext())
	require.Error(t, err)
	assert.Nil(t, drafts)
	assert.Equal(t, 6, gen.calls)

	var slotErr *genmodel.GenerationSlotFailureError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, genmodel.FailureQuality, slotErr.Kind)
}

func TestPipeline_Run_CancelledRunContextStopsBeforeNextSlot(t *testing.T) {
	cancelled := make(chan struct{})
	close(cancelled)
	rc := testRunContext()
	rc.Cancel = cancelled

	gen := &fakeGenerator{results: []generateResult{}}
	p := &Pipeline{
		generator: gen,
		reference: &fakeReference{failures: map[int]*genmodel.SlotFailure{}},
		gate:      &fakeGate{failures: map[int]*genmodel.SlotFailure{}},
		logger:    noopLogger(),
	}

	_, err := p.Run(context.Background(), testSpec(), rc)
	require.Error(t, err)
	assert.Equal(t, 0, gen.calls)
}
