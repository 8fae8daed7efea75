package testsuite

import (
	"context"
	"testing"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepairClient struct {
	response string
	err      error
	lastReq  llm.CompletionRequest
}

func (f *fakeRepairClient) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return llm.CompletionResponse{}, f.err
	}
	return llm.CompletionResponse{Text: f.response}, nil
}

func TestRepairer_Repair_Success(t *testing.T) {
	client := &fakeRepairClient{response: `{"test_suite": "public class BillingTest {}"}`}
	r := NewRepairer(client, "gpt-4o-mini")

	out, err := r.Repair(context.Background(), genmodel.LanguageJava, genmodel.StyleReturn, "broken", []string{"missing @Test methods"})
	require.NoError(t, err)
	assert.Equal(t, "public class BillingTest {}", out)
	assert.Contains(t, client.lastReq.User, "missing @Test methods")
	assert.Contains(t, client.lastReq.System, "test_suite")
}

func TestRepairer_Repair_LLMError(t *testing.T) {
	client := &fakeRepairClient{err: assert.AnError}
	r := NewRepairer(client, "gpt-4o-mini")

	_, err := r.Repair(context.Background(), genmodel.LanguagePython, genmodel.StyleReturn, "broken", []string{"x"})
	assert.Error(t, err)
}

func TestRepairer_Repair_InvalidJSON(t *testing.T) {
	client := &fakeRepairClient{response: "not json at all"}
	r := NewRepairer(client, "gpt-4o-mini")

	_, err := r.Repair(context.Background(), genmodel.LanguagePython, genmodel.StyleReturn, "broken", []string{"x"})
	assert.Error(t, err)
}

func TestRepairer_Repair_EmptyTestSuiteField(t *testing.T) {
	client := &fakeRepairClient{response: `{"test_suite": ""}`}
	r := NewRepairer(client, "gpt-4o-mini")

	_, err := r.Repair(context.Background(), genmodel.LanguagePython, genmodel.StyleReturn, "broken", []string{"x"})
	assert.Error(t, err)
}
