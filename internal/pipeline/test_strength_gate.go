package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/judge"
	"github.com/genforge/genforge/internal/scanner"
)

// TestStrengthGate implements spec.md §4.8: a generated test suite must
// separate a correct solution from degenerate code. Every baseline listed
// for the draft's language is submitted to the judge against the draft's
// own test suite; if any baseline succeeds, the suite is too weak.
type TestStrengthGate struct {
	adapter judge.Adapter
}

func NewTestStrengthGate(adapter judge.Adapter) *TestStrengthGate {
	return &TestStrengthGate{adapter: adapter}
}

// Check runs every baseline for draft's language in sequence (judge calls
// within a slot are always serialized, spec.md §5) and fails the slot if
// any baseline passes the test suite.
func (g *TestStrengthGate) Check(ctx context.Context, slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft, attempt int) *genmodel.SlotFailure {
	for _, baseline := range baselinesFor(slot, draft) {
		result, err := g.adapter.Judge(ctx, baseline.request)
		if err != nil {
			return &genmodel.SlotFailure{
				SlotIndex:  slot.Index,
				Attempt:    attempt,
				Kind:       genmodel.FailureExecution,
				ShortError: fmt.Sprintf("baseline %q submission failed: %v", baseline.name, err),
			}
		}
		if result.Success {
			return &genmodel.SlotFailure{
				SlotIndex:    slot.Index,
				Attempt:      attempt,
				Kind:         genmodel.FailureQuality,
				ObligationID: "tests.reject_baselines",
				ShortError:   fmt.Sprintf("%s baseline passed the test suite; tests are too weak", baseline.name),
			}
		}
	}
	return nil
}

type baseline struct {
	name    string
	request judge.Request
}

// baselinesFor returns the baseline submissions spec.md §4.8 names for a
// slot's language. Java only ever gets the starter-scaffold baseline: its
// scaffold is already a minimal stub, so no synthesized trivial baseline is
// meaningful on top of it.
func baselinesFor(slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft) []baseline {
	baselines := []baseline{{name: "starter-scaffold", request: starterScaffoldRequest(slot, draft)}}

	switch slot.Language {
	case genmodel.LanguagePython:
		baselines = append(baselines, baseline{name: "trivial-constant", request: judge.Request{
			Kind:      judge.RequestKindCode,
			Language:  slot.Language,
			Code:      pythonTrivialBaseline(slot.ProblemStyle),
			TestSuite: draft.TestSuite,
		}})
	case genmodel.LanguageCPP:
		baselines = append(baselines, baseline{name: "trivial-constant", request: judge.Request{
			Kind:      judge.RequestKindCode,
			Language:  slot.Language,
			Code:      cppTrivialBaseline(slot.ProblemStyle, draft.ReferenceSolution),
			TestSuite: draft.TestSuite,
		}})
	case genmodel.LanguageSQL:
		baselines = append(baselines, baseline{name: "trivial-constant", request: judge.Request{
			Kind:      judge.RequestKindCode,
			Language:  slot.Language,
			Code:      "SELECT 1;",
			TestSuite: draft.TestSuite,
		}})
	}

	return baselines
}

func starterScaffoldRequest(slot genmodel.ProblemSlot, draft genmodel.GeneratedProblemDraft) judge.Request {
	if len(draft.Workspace) > 0 {
		return judge.Request{Kind: judge.RequestKindFiles, Language: slot.Language, Files: draft.Workspace, TestSuite: draft.TestSuite}
	}
	return judge.Request{Kind: judge.RequestKindCode, Language: slot.Language, Code: draft.StarterCode, TestSuite: draft.TestSuite}
}

func pythonTrivialBaseline(style genmodel.ProblemStyle) string {
	if style == genmodel.StyleStdout || style == genmodel.StyleMixed {
		return "def solve(*args, **kwargs):\n    print(0)\n    return 0\n"
	}
	return "def solve(*args, **kwargs):\n    return 0\n"
}

func cppTrivialBaseline(style genmodel.ProblemStyle, referenceSolution string) string {
	signature := scanner.ScanCpp(referenceSolution).SolveSignature
	if signature == "" {
		signature = "int solve()"
	}
	returnType, params := splitSignature(signature)

	var body strings.Builder
	if style == genmodel.StyleStdout || style == genmodel.StyleMixed {
		body.WriteString("    std::cout << 0;\n")
	}
	body.WriteString("    return " + zeroValueFor(returnType) + ";\n")

	return fmt.Sprintf("#include <bits/stdc++.h>\nusing namespace std;\n\n%s solve(%s) {\n%s}\n", returnType, params, body.String())
}

func splitSignature(signature string) (returnType, params string) {
	open := strings.Index(signature, "solve(")
	if open < 0 {
		return "int", ""
	}
	returnType = strings.TrimSpace(signature[:open])
	close := strings.LastIndex(signature, ")")
	if close < open {
		return returnType, ""
	}
	return returnType, signature[open+len("solve(") : close]
}

func zeroValueFor(returnType string) string {
	t := strings.TrimSpace(returnType)
	switch {
	case strings.Contains(t, "bool"):
		return "false"
	case strings.Contains(t, "double"), strings.Contains(t, "float"):
		return "0.0"
	case strings.Contains(t, "string"):
		return `""`
	case strings.HasPrefix(t, "vector"), strings.HasPrefix(t, "std::vector"):
		return t + "{}"
	case t == "void":
		return ""
	default:
		return "0"
	}
}
