package testsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/llm"
)

const repairSystemPrompt = `You repair a single field of a previously generated programming problem: its test suite.
You are given the invalid test suite and the exact shape errors found in it.
Return strict JSON of the form {"test_suite": "..."} with no other fields, no markdown fences, no commentary.
Fix only the listed shape errors; do not change the problem's behavior or difficulty.`

// Repairer issues the one authorized repair call for a draft whose sole
// validation failure is its test_suite (spec.md §4.4). Like llm.Client
// itself, Repairer performs exactly one call — the pipeline decides whether
// a retry is warranted, this type never retries internally.
type Repairer struct {
	client llm.Client
	model  string
}

func NewRepairer(client llm.Client, model string) *Repairer {
	return &Repairer{client: client, model: model}
}

// Repair asks the model to rewrite invalidSuite so it no longer exhibits
// shapeErrors, then returns the raw (unvalidated) replacement text. Callers
// must re-run Validate on the result themselves.
func (r *Repairer) Repair(ctx context.Context, lang genmodel.Language, style genmodel.ProblemStyle, invalidSuite string, shapeErrors []string) (string, error) {
	user := fmt.Sprintf(
		"language: %s\nproblem_style: %s\n\ninvalid test suite:\n%s\n\nshape errors:\n- %s\n",
		lang, style, invalidSuite, strings.Join(shapeErrors, "\n- "),
	)

	resp, err := r.client.Complete(ctx, llm.CompletionRequest{
		System:      repairSystemPrompt,
		User:        user,
		Model:       r.model,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("testsuite repair: llm call failed: %w", err)
	}

	raw, err := llm.ExtractJSON(resp.Text)
	if err != nil {
		return "", fmt.Errorf("testsuite repair: %w", err)
	}

	var payload struct {
		TestSuite string `json:"test_suite"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", fmt.Errorf("testsuite repair: invalid repair payload: %w", err)
	}
	if payload.TestSuite == "" {
		return "", fmt.Errorf("testsuite repair: repair payload had an empty test_suite")
	}

	return payload.TestSuite, nil
}
