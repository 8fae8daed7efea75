package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/scanner"
)

const maxSamples = 10

// rawDraftPayload is the strict JSON shape every draftSystemPrompt variant
// asks the model for (spec.md §4.6 json_parse stage).
type rawDraftPayload struct {
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Constraints        string            `json:"constraints"`
	StarterCode        string            `json:"starter_code"`
	Workspace          map[string]string `json:"workspace"`
	TestSuite          string            `json:"test_suite"`
	ReferenceSolution  string            `json:"reference_solution"`
	ReferenceWorkspace map[string]string `json:"reference_workspace"`
	SampleInputs       []string          `json:"sample_inputs"`
	SampleOutputs      []string          `json:"sample_outputs"`
}

// parseDraft unmarshals the tolerantly-extracted JSON object into a raw
// payload. Schema validation beyond "is this valid JSON" happens in
// normalizeDraft and the obligation/shape checkers further down the
// pipeline, not here.
func parseDraft(jsonText string) (rawDraftPayload, error) {
	var payload rawDraftPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return rawDraftPayload{}, fmt.Errorf("json_parse: %w", err)
	}
	return payload, nil
}

// normalizeDraft is the normalize_fields stage (spec.md §4.6): it fills in
// a stable id/slot metadata, enforces constraints equal the slot's verbatim,
// trims/truncates sample pairs, and synthesizes starter code when the model
// omitted it. It returns the assembled draft plus any RewriteRecords the
// normalization itself produced (constraints/sample-pair fixups are
// themselves rewrites, same as a mechanical RewritePass edit).
func normalizeDraft(id string, slot genmodel.ProblemSlot, payload rawDraftPayload) (genmodel.GeneratedProblemDraft, []genmodel.RewriteRecord) {
	var rewrites []genmodel.RewriteRecord

	draft := genmodel.GeneratedProblemDraft{
		ID:                 id,
		SlotIndex:          slot.Index,
		Language:           slot.Language,
		Difficulty:         slot.Difficulty,
		TopicTag:           slot.PrimaryTopic(),
		Title:              payload.Title,
		Description:        payload.Description,
		Constraints:         slot.Constraints,
		StarterCode:        payload.StarterCode,
		Workspace:          payload.Workspace,
		TestSuite:          payload.TestSuite,
		ReferenceSolution:  payload.ReferenceSolution,
		ReferenceWorkspace: payload.ReferenceWorkspace,
		SampleInputs:       payload.SampleInputs,
		SampleOutputs:      payload.SampleOutputs,
	}

	if payload.Constraints != "" && payload.Constraints != slot.Constraints {
		rewrites = append(rewrites, genmodel.RewriteRecord{
			ID:      "normalize.constraints_replaced",
			Applied: true,
			Detail:  "draft constraints diverged from the slot's constraints; replaced verbatim",
		})
	}

	draft.SampleInputs, draft.SampleOutputs, rewrites = normalizeSamples(draft.SampleInputs, draft.SampleOutputs, rewrites)

	if draft.StarterCode == "" && len(draft.Workspace) == 0 {
		draft.StarterCode, rewrites = synthesizeStarter(slot.Language, draft, rewrites)
	}

	return draft, rewrites
}

func normalizeSamples(inputs, outputs []string, rewrites []genmodel.RewriteRecord) ([]string, []string, []genmodel.RewriteRecord) {
	trim := func(s []string) []string {
		out := make([]string, len(s))
		for i, v := range s {
			out[i] = strings.TrimSpace(v)
		}
		return out
	}
	inputs, outputs = trim(inputs), trim(outputs)

	if len(inputs) == 0 || len(outputs) == 0 || len(inputs) != len(outputs) {
		rewrites = append(rewrites, genmodel.RewriteRecord{
			ID:      "normalize.sample_pair_placeholder",
			Applied: true,
			Detail:  "sample_inputs/sample_outputs were empty or mismatched in length; replaced with a placeholder pair",
		})
		return []string{"sample input"}, []string{"sample output"}, rewrites
	}

	if len(inputs) > maxSamples {
		inputs = inputs[:maxSamples]
		outputs = outputs[:maxSamples]
		rewrites = append(rewrites, genmodel.RewriteRecord{
			ID:      "normalize.samples_truncated",
			Applied: true,
			Detail:  fmt.Sprintf("sample pairs truncated to %d entries", maxSamples),
		})
	}

	return inputs, outputs, rewrites
}

// synthesizeStarter builds a minimal scaffold when the model left
// starter_code empty, per spec.md §4.6: Java gets a class skeleton inferred
// from the title, C++ gets a signature-only stub of the reference's
// solve(...) so the body never leaks the solution.
func synthesizeStarter(lang genmodel.Language, draft genmodel.GeneratedProblemDraft, rewrites []genmodel.RewriteRecord) (string, []genmodel.RewriteRecord) {
	switch lang {
	case genmodel.LanguageJava:
		className := inferJavaClassName(draft.Title)
		starter := fmt.Sprintf("public class %s {\n    // TODO: implement\n}\n", className)
		return starter, append(rewrites, genmodel.RewriteRecord{
			ID:      "normalize.java_starter_synthesized",
			Applied: true,
			Detail:  fmt.Sprintf("starter_code was empty; synthesized a skeleton for class %s", className),
		})
	case genmodel.LanguageCPP:
		sig := scanner.ScanCpp(draft.ReferenceSolution).SolveSignature
		if sig == "" {
			sig = "int solve()"
		}
		starter := fmt.Sprintf("#include <bits/stdc++.h>\nusing namespace std;\n\n%s {\n    // TODO: implement\n}\n", sig)
		return starter, append(rewrites, genmodel.RewriteRecord{
			ID:      "normalize.cpp_starter_synthesized",
			Applied: true,
			Detail:  "starter_code was empty; synthesized a signature-only stub from the reference solve(...)",
		})
	default:
		return draft.StarterCode, rewrites
	}
}

// inferJavaClassName derives a PascalCase identifier from a problem title,
// falling back to a generic name if the title yields nothing usable.
func inferJavaClassName(title string) string {
	var b strings.Builder
	nextUpper := true
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if nextUpper {
				b.WriteRune(unicode.ToUpper(r))
				nextUpper = false
			} else {
				b.WriteRune(r)
			}
		default:
			nextUpper = true
		}
	}
	name := b.String()
	if name == "" {
		return "Solution"
	}
	if unicode.IsDigit(rune(name[0])) {
		return "Problem" + name
	}
	return name
}
