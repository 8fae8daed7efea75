package pipeline

import (
	"fmt"
	"strings"

	"github.com/genforge/genforge/internal/genmodel"
)

// buildDraftPrompt renders the system/user prompt pair for a fresh slot
// attempt, the same dispatch-by-kind fmt.Sprintf template style as the
// teacher's PromptGenerator.GeneratePrompt (switch on a kind, one template
// function per kind), generalized from "kind of code-health fix" to
// "language of generated problem".
func buildDraftPrompt(slot genmodel.ProblemSlot, feedback string) (system, user string) {
	system = draftSystemPrompt(slot.Language)

	var b strings.Builder
	fmt.Fprintf(&b, "difficulty: %s\n", slot.Difficulty)
	fmt.Fprintf(&b, "primary_topic: %s\n", slot.PrimaryTopic())
	if secondary := slot.SecondaryTopic(); secondary != "" {
		fmt.Fprintf(&b, "secondary_topic: %s\n", secondary)
	}
	fmt.Fprintf(&b, "problem_style: %s\n", slot.ProblemStyle)
	fmt.Fprintf(&b, "constraints: %s\n", slot.Constraints)
	fmt.Fprintf(&b, "test_case_count: %d\n", slot.TestCaseCount)
	if feedback != "" {
		b.WriteString("\n")
		b.WriteString(feedback)
	}
	user = b.String()
	return system, user
}

func draftSystemPrompt(lang genmodel.Language) string {
	switch lang {
	case genmodel.LanguageJava:
		return `You write Java programming practice problems for students. Respond with strict JSON only:
{"title": "...", "description": "...", "starter_code": "...", "test_suite": "...", "reference_solution": "...", "sample_inputs": ["..."], "sample_outputs": ["..."]}
The reference_solution must be a complete, correct Java source file. The test_suite is a JUnit test class exercising it.
Do not leak the reference solution's approach into the description beyond what is necessary to state the problem.`
	case genmodel.LanguagePython:
		return `You write Python programming practice problems for students. Respond with strict JSON only:
{"title": "...", "description": "...", "starter_code": "...", "test_suite": "...", "reference_solution": "...", "sample_inputs": ["..."], "sample_outputs": ["..."]}
The test_suite is a pytest module with exactly the requested number of test_case_N functions.
Do not use eval, exec, or disallowed standard library modules in student-facing code.`
	case genmodel.LanguageCPP:
		return `You write C++ programming practice problems for students. Respond with strict JSON only:
{"title": "...", "description": "...", "starter_code": "...", "test_suite": "...", "reference_solution": "...", "sample_inputs": ["..."], "sample_outputs": ["..."]}
reference_solution defines a solve(...) function the test_suite calls via #include "solution.cpp" and a RUN_TEST macro.`
	case genmodel.LanguageSQL:
		return `You write SQL programming practice problems for students. Respond with strict JSON only:
{"title": "...", "description": "...", "starter_code": "...", "test_suite": "...", "reference_solution": "...", "sample_inputs": ["..."], "sample_outputs": ["..."]}
test_suite is a JSON document: {"schema_sql": "...", "expected_rows": [{"query": "...", "rows": [...]}]} with exactly the requested number of expected_rows entries.`
	default:
		return `You write programming practice problems for students. Respond with strict JSON only.`
	}
}

// buildContractRepairFeedback formats a validation/obligation failure into
// the feedback block the next attempt's prompt includes, mirroring the
// teacher's own "previous attempt failed, here's why" retry framing pattern
// that recurs across its LLM-call sites.
func buildContractRepairFeedback(failure *genmodel.SlotFailure, previousRaw string) string {
	var b strings.Builder
	b.WriteString("PREVIOUS ATTEMPT FAILED\n\n")
	fmt.Fprintf(&b, "Reason: %s\n", failure.ShortError)
	if failure.ObligationID != "" {
		fmt.Fprintf(&b, "Obligation violated: %s\n", failure.ObligationID)
	}
	if failure.JudgeStdout != "" {
		fmt.Fprintf(&b, "Judge stdout:\n%s\n", truncate(failure.JudgeStdout, 2000))
	}
	if failure.JudgeStderr != "" {
		fmt.Fprintf(&b, "Judge stderr:\n%s\n", truncate(failure.JudgeStderr, 2000))
	}
	b.WriteString("\nGenerate a substantively different problem that fixes this. Output strict JSON only.\n")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... [truncated]"
}
