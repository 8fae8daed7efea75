package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/planner"
	"github.com/genforge/genforge/internal/progress"
)

const (
	contractRetryBudget  = 2
	executionRetryBudget = 2
	qualityRetryBudget   = 2
)

// slotGenerator is the subset of *Generator the pipeline depends on, broken
// out so tests can drive the retry loop without a real LLM client.
type slotGenerator interface {
	GenerateSlot(ctx context.Context, slot genmodel.ProblemSlot, attempt int, repair *RepairInput, rc genmodel.RunContext) (genmodel.GeneratedProblemDraft, string, *genmodel.SlotFailure)
}

// referenceRunner is the subset of *ReferenceExecutor the pipeline depends on.
type referenceRunner interface {
	Execute(ctx context.Context, slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft, attempt int) *genmodel.SlotFailure
}

// strengthChecker is the subset of *TestStrengthGate the pipeline depends on.
type strengthChecker interface {
	Check(ctx context.Context, slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft, attempt int) *genmodel.SlotFailure
}

// Pipeline is GenerationPipeline (spec.md §4.9): it drives every slot in
// order through PerSlotGenerator, ReferenceExecutor, and TestStrengthGate,
// applying the per-failure-kind retry table and the hard-difficulty soft
// fallback, and emits ProgressStream events throughout.
type Pipeline struct {
	generator slotGenerator
	reference referenceRunner
	gate      strengthChecker
	sink      *progress.Stream
	logger    *slog.Logger
}

func NewPipeline(generator *Generator, reference *ReferenceExecutor, gate *TestStrengthGate, sink *progress.Stream) *Pipeline {
	return &Pipeline{
		generator: generator,
		reference: reference,
		gate:      gate,
		sink:      sink,
		logger:    slog.Default().With("component", "pipeline"),
	}
}

// Run generates every slot of spec in order. On the first non-retriable (or
// retry-exhausted) slot failure, all prior successful drafts are discarded
// and a single GenerationSlotFailureError is returned (spec.md §4.9: no
// partial activity is ever saved).
func (p *Pipeline) Run(ctx context.Context, spec genmodel.ActivitySpec, rc genmodel.RunContext) ([]genmodel.GeneratedProblemDraftExternal, error) {
	slots, err := planner.Plan(spec)
	if err != nil {
		p.emit(progress.Event{Type: progress.EventGenerationFailed, ActivityID: rc.ActivityID, Message: err.Error()})
		return nil, err
	}

	p.emit(progress.Event{Type: progress.EventGenerationStarted, ActivityID: rc.ActivityID, Message: fmt.Sprintf("generating %d problems", len(slots))})

	tracker := newAttemptTracker()
	drafts := make([]genmodel.GeneratedProblemDraft, 0, len(slots))

	for _, slot := range slots {
		if rc.Cancelled() {
			p.emit(progress.Event{Type: progress.EventGenerationFailed, ActivityID: rc.ActivityID, Message: "cancelled"})
			return nil, fmt.Errorf("pipeline: run cancelled at slot %d", slot.Index)
		}

		p.emit(progress.Event{Type: progress.EventSlotStarted, ActivityID: rc.ActivityID, SlotIndex: slot.Index})

		draft, failure := p.runSlot(ctx, slot, spec.ExplicitHardRequested, tracker, rc)
		if failure != nil {
			p.emit(progress.Event{
				Type:         progress.EventGenerationFailed,
				ActivityID:   rc.ActivityID,
				SlotIndex:    slot.Index,
				FailureKind:  failure.Kind,
				ObligationID: failure.ObligationID,
				Message:      failure.ShortError,
			})
			return nil, &genmodel.GenerationSlotFailureError{
				SlotIndex:    failure.SlotIndex,
				Kind:         failure.Kind,
				ObligationID: failure.ObligationID,
				ShortError:   failure.ShortError,
			}
		}

		drafts = append(drafts, draft)
		p.emit(progress.Event{Type: progress.EventSlotCompleted, ActivityID: rc.ActivityID, SlotIndex: slot.Index})
	}

	external := make([]genmodel.GeneratedProblemDraftExternal, len(drafts))
	for i, d := range drafts {
		external[i] = d.External()
	}

	p.emit(progress.Event{Type: progress.EventGenerationCompleted, ActivityID: rc.ActivityID, Message: fmt.Sprintf("%d problems generated", len(external))})
	return external, nil
}

// runSlot drives one slot through generate -> reference-execute ->
// strength-gate, retrying per spec.md §4.9's failure-kind budget table and
// applying the hard->medium soft fallback when eligible.
func (p *Pipeline) runSlot(ctx context.Context, slot genmodel.ProblemSlot, explicitHard bool, tracker *attemptTracker, rc genmodel.RunContext) (genmodel.GeneratedProblemDraft, *genmodel.SlotFailure) {
	var repair *RepairInput
	usedByKind := map[genmodel.FailureKind]int{}
	softFallbackApplied := false
	attempt := 0

	for {
		attempt++
		p.emit(progress.Event{Type: progress.EventSlotLLMAttemptStarted, ActivityID: rc.ActivityID, SlotIndex: slot.Index, Attempt: attempt})

		draft, raw, failure := p.generator.GenerateSlot(ctx, slot, attempt, repair, rc)
		if raw != "" && tracker.RecordAndCheck(slot.Index, raw) && failure == nil {
			failure = contractFailure(slot.Index, attempt, "retry.substantive_change_required", "retry produced output identical to a prior attempt")
		}

		if failure == nil {
			p.emit(progress.Event{
				Type:        progress.EventSlotContractValidated,
				ActivityID:  rc.ActivityID,
				SlotIndex:   slot.Index,
				Attempt:     attempt,
			})
			p.emit(progress.Event{
				Type:        progress.EventSlotEvidence,
				ActivityID:  rc.ActivityID,
				SlotIndex:   slot.Index,
				Attempt:     attempt,
				Obligations: draft.Obligations,
				Rewrites:    draft.Rewrites,
			})

			p.emit(progress.Event{Type: progress.EventSlotDockerValidationRun, ActivityID: rc.ActivityID, SlotIndex: slot.Index, Attempt: attempt})
			if execFailure := p.reference.Execute(ctx, slot, draft, attempt); execFailure != nil {
				failure = execFailure
				p.emit(progress.Event{Type: progress.EventSlotDockerValidationFail, ActivityID: rc.ActivityID, SlotIndex: slot.Index, Attempt: attempt, Message: failure.ShortError})
			}
		}

		if failure == nil {
			if qualityFailure := p.gate.Check(ctx, slot, draft, attempt); qualityFailure != nil {
				failure = qualityFailure
			}
		}

		if failure == nil {
			return draft, nil
		}

		if failure.Kind == genmodel.FailureContract {
			p.emit(progress.Event{Type: progress.EventSlotContractFailed, ActivityID: rc.ActivityID, SlotIndex: slot.Index, Attempt: attempt, ObligationID: failure.ObligationID, Message: failure.ShortError})
		}

		if !failure.Retriable() {
			return draft, failure
		}

		usedByKind[failure.Kind]++
		if usedByKind[failure.Kind] > retryBudgetFor(failure.Kind) {
			if !softFallbackApplied && failure.Kind == genmodel.FailureQuality && slot.Difficulty == genmodel.DifficultyHard && !explicitHard {
				softFallbackApplied = true
				slot.Difficulty = genmodel.DifficultyMedium
				usedByKind = map[genmodel.FailureKind]int{}
				repair = nil
				p.emit(progress.Event{
					Type:       progress.EventSoftFallbackApplied,
					ActivityID: rc.ActivityID,
					SlotIndex:  slot.Index,
					Message:    "hard slot downgraded to medium after exhausting quality retries",
				})
				continue
			}
			return draft, failure
		}

		repair = &RepairInput{
			PreviousDraft:           &draft,
			PreviousRaw:             raw,
			ErrorMessage:            failure.ShortError,
			JudgeStdout:             failure.JudgeStdout,
			JudgeStderr:             failure.JudgeStderr,
			TargetReferenceSolution: failure.Kind == genmodel.FailureExecution && slot.Language == genmodel.LanguageJava,
		}
	}
}

func retryBudgetFor(kind genmodel.FailureKind) int {
	switch kind {
	case genmodel.FailureContract:
		return contractRetryBudget
	case genmodel.FailureExecution:
		return executionRetryBudget
	case genmodel.FailureQuality:
		return qualityRetryBudget
	default:
		return 0
	}
}

func (p *Pipeline) emit(evt progress.Event) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Emit(evt); err != nil {
		p.logger.Warn("progress emit failed", "event_type", evt.Type, "error", err)
	}
}
