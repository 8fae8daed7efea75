package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/llm"
	"github.com/genforge/genforge/internal/obligation"
	"github.com/genforge/genforge/internal/testsuite"
)

// RepairInput carries what a retried slot attempt needs to know about why
// its predecessor failed (spec.md §4.6 repair-mode input).
type RepairInput struct {
	PreviousDraft *genmodel.GeneratedProblemDraft
	PreviousRaw   string
	ErrorMessage  string
	JudgeStdout   string
	JudgeStderr   string
	// TargetReferenceSolution, when true with a Java PreviousDraft set,
	// directs the generator down the narrow reference-solution-only repair
	// path instead of rebuilding the whole draft.
	TargetReferenceSolution bool
}

// Generator is PerSlotGenerator: it drives one slot attempt through
// prompt_build -> llm_call -> json_parse -> normalize_fields ->
// mechanical_rewrites -> shape_validate(test_suite) -> obligation_check
// (spec.md §4.6).
type Generator struct {
	client   llm.Client
	repairer *testsuite.Repairer
	model    string
}

func NewGenerator(client llm.Client, model string) *Generator {
	return &Generator{
		client:   client,
		repairer: testsuite.NewRepairer(client, model),
		model:    model,
	}
}

// GenerateSlot runs one slot attempt to completion. raw is the model's raw
// completion text (for the caller's attemptTracker bookkeeping); failure is
// nil only when draft is ready to hand to ReferenceExecutor.
func (g *Generator) GenerateSlot(ctx context.Context, slot genmodel.ProblemSlot, attempt int, repair *RepairInput, rc genmodel.RunContext) (draft genmodel.GeneratedProblemDraft, raw string, failure *genmodel.SlotFailure) {
	if repair != nil && repair.TargetReferenceSolution && slot.Language == genmodel.LanguageJava && repair.PreviousDraft != nil {
		return g.repairReferenceSolution(ctx, slot, attempt, *repair, rc)
	}

	system, user := buildDraftPrompt(slot, repairFeedback(repair))

	resp, err := g.client.Complete(ctx, llm.CompletionRequest{
		System: system,
		User:   user,
		Model:  g.model,
	})
	if err != nil {
		return draft, "", fatalFailure(slot.Index, attempt, fmt.Sprintf("llm call failed: %v", err))
	}
	raw = resp.Text

	jsonText, err := llm.ExtractJSON(raw)
	if err != nil {
		return draft, raw, contractFailure(slot.Index, attempt, "json_parse.unextractable", fmt.Sprintf("no JSON object found in completion: %v", err))
	}

	payload, err := parseDraft(jsonText)
	if err != nil {
		return draft, raw, contractFailure(slot.Index, attempt, "json_parse.invalid", err.Error())
	}

	draft, normalizeRewrites := normalizeDraft(rc.IDs.NewID(), slot, payload)
	draft, mechanicalRewrites := applyMechanicalRewrites(draft)
	draft.Rewrites = append(normalizeRewrites, mechanicalRewrites...)

	if failure = g.shapeValidateAndRepair(ctx, slot, &draft); failure != nil {
		return draft, raw, failure
	}

	checker := obligation.NewChecker(slot.Language)
	results, violation := checker.CheckAll(obligation.CheckContext{Slot: slot, Draft: draft})
	draft.Obligations = results
	if violation != nil {
		return draft, raw, contractFailure(slot.Index, attempt, violation.ID, violation.Message)
	}

	return draft, raw, nil
}

// shapeValidateAndRepair runs TestSuiteValidator and, on failure, the single
// authorized TestSuiteRepairer call, then re-validates (spec.md §4.4, §4.6).
func (g *Generator) shapeValidateAndRepair(ctx context.Context, slot genmodel.ProblemSlot, draft *genmodel.GeneratedProblemDraft) *genmodel.SlotFailure {
	shape := testsuite.Validate(slot.Language, slot.ProblemStyle, draft.TestSuite)
	if shape.OK {
		return nil
	}

	repaired, err := g.repairer.Repair(ctx, slot.Language, slot.ProblemStyle, draft.TestSuite, shape.Errors)
	if err != nil {
		return contractFailure(slot.Index, 0, "test_suite.repair_failed", err.Error())
	}

	reShape := testsuite.Validate(slot.Language, slot.ProblemStyle, repaired)
	if !reShape.OK {
		return contractFailure(slot.Index, 0, "test_suite.shape_invalid", fmt.Sprintf("still invalid after repair: %v", reShape.Errors))
	}

	draft.TestSuite = repaired
	draft.Rewrites = append(draft.Rewrites, genmodel.RewriteRecord{
		ID:      "test_suite.repaired",
		Applied: true,
		Detail:  "test_suite failed shape validation and was repaired by a single authorized LLM call",
	})
	return nil
}

// repairReferenceSolution is the targeted repair path spec.md §4.6
// describes: one LLM call whose sole task is to rewrite reference_solution
// against the existing test suite. Any other field the model returns is
// ignored; an unchanged reference_solution counts as failure.
func (g *Generator) repairReferenceSolution(ctx context.Context, slot genmodel.ProblemSlot, attempt int, repair RepairInput, rc genmodel.RunContext) (genmodel.GeneratedProblemDraft, string, *genmodel.SlotFailure) {
	previous := *repair.PreviousDraft

	system := `You fix a single Java reference solution so it passes its existing test suite. Respond with strict JSON only: {"reference_solution": "..."}. Do not change the test suite, starter code, or problem description.`
	user := fmt.Sprintf(
		"test_suite:\n%s\n\ncurrent reference_solution (failing):\n%s\n\njudge stdout:\n%s\n\njudge stderr:\n%s\n",
		previous.TestSuite, previous.ReferenceSolution, truncate(repair.JudgeStdout, 2000), truncate(repair.JudgeStderr, 2000),
	)

	resp, err := g.client.Complete(ctx, llm.CompletionRequest{System: system, User: user, Model: g.model})
	if err != nil {
		return previous, "", fatalFailure(slot.Index, attempt, fmt.Sprintf("llm call failed: %v", err))
	}
	raw := resp.Text

	jsonText, err := llm.ExtractJSON(raw)
	if err != nil {
		return previous, raw, contractFailure(slot.Index, attempt, "json_parse.unextractable", err.Error())
	}

	var payload struct {
		ReferenceSolution string `json:"reference_solution"`
	}
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return previous, raw, contractFailure(slot.Index, attempt, "json_parse.invalid", err.Error())
	}

	if payload.ReferenceSolution == "" || payload.ReferenceSolution == previous.ReferenceSolution {
		return previous, raw, contractFailure(slot.Index, attempt, "retry.substantive_change_required", "reference solution repair returned an unchanged source")
	}

	next := previous
	next.ID = rc.IDs.NewID()
	next.ReferenceSolution = payload.ReferenceSolution
	return next, raw, nil
}

func repairFeedback(repair *RepairInput) string {
	if repair == nil {
		return ""
	}
	if repair.ErrorMessage == "" {
		return ""
	}
	failure := &genmodel.SlotFailure{
		ShortError:  repair.ErrorMessage,
		JudgeStdout: repair.JudgeStdout,
		JudgeStderr: repair.JudgeStderr,
	}
	return buildContractRepairFeedback(failure, repair.PreviousRaw)
}

func contractFailure(slotIndex, attempt int, obligationID, message string) *genmodel.SlotFailure {
	return &genmodel.SlotFailure{
		SlotIndex:    slotIndex,
		Attempt:      attempt,
		Kind:         genmodel.FailureContract,
		ObligationID: obligationID,
		ShortError:   message,
	}
}

func fatalFailure(slotIndex, attempt int, message string) *genmodel.SlotFailure {
	return &genmodel.SlotFailure{
		SlotIndex:  slotIndex,
		Attempt:    attempt,
		Kind:       genmodel.FailureFatal,
		ShortError: message,
	}
}
