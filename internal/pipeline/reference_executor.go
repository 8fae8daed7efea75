package pipeline

import (
	"context"
	"fmt"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/judge"
)

const judgeSnippetBudget = 4000

// ReferenceExecutor implements spec.md §4.7: it submits a completed draft's
// reference solution against its own test suite and reports a binary
// pass/fail. It never retries — GenerationPipeline owns retry policy.
type ReferenceExecutor struct {
	adapter judge.Adapter
}

func NewReferenceExecutor(adapter judge.Adapter) *ReferenceExecutor {
	return &ReferenceExecutor{adapter: adapter}
}

// Execute runs draft's reference solution against its test suite. On
// failure the returned SlotFailure carries judge stdout/stderr (truncated)
// so the next repair prompt can include real assertion failures.
func (e *ReferenceExecutor) Execute(ctx context.Context, slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft, attempt int) *genmodel.SlotFailure {
	req := referenceRequest(slot, draft)

	result, err := e.adapter.Judge(ctx, req)
	if err != nil {
		return &genmodel.SlotFailure{
			SlotIndex:  slot.Index,
			Attempt:    attempt,
			Kind:       genmodel.FailureExecution,
			ShortError: fmt.Sprintf("reference execution failed: %v", err),
		}
	}

	if result.TimedOut {
		return &genmodel.SlotFailure{
			SlotIndex:  slot.Index,
			Attempt:    attempt,
			Kind:       genmodel.FailureExecution,
			ShortError: "reference solution timed out against its own test suite",
		}
	}

	if !result.Success {
		return &genmodel.SlotFailure{
			SlotIndex:   slot.Index,
			Attempt:     attempt,
			Kind:        genmodel.FailureExecution,
			ShortError:  fmt.Sprintf("reference solution failed %d test(s)", len(result.FailedTests)),
			JudgeStdout: truncate(result.Stdout, judgeSnippetBudget),
			JudgeStderr: truncate(result.Stderr, judgeSnippetBudget),
		}
	}

	return nil
}

func referenceRequest(slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft) judge.Request {
	if len(draft.ReferenceWorkspace) > 0 {
		return judge.Request{
			Kind:      judge.RequestKindFiles,
			Language:  slot.Language,
			Files:     draft.ReferenceWorkspace,
			TestSuite: draft.TestSuite,
		}
	}
	return judge.Request{
		Kind:      judge.RequestKindCode,
		Language:  slot.Language,
		Code:      draft.ReferenceSolution,
		TestSuite: draft.TestSuite,
	}
}
