package llm

import "context"

// CompletionRequest is the single call shape every provider adapter accepts.
// Model/Temperature/MaxTokens are optional; a zero value means "use the
// client's configured default" (spec.md §6 LLMClient.complete).
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	Temperature float32
	MaxTokens   int
}

// CompletionResponse carries the raw completion text. The pipeline's
// json_parse stage is responsible for everything past this point — Client
// implementations do not parse or validate the text they return.
type CompletionResponse struct {
	Text string
}

// Client is the external LLM collaborator (spec.md §6 LLMClient). It has no
// internal retry logic: a failed call returns an error and the pipeline's
// own retry table (internal/pipeline) decides whether to try again.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}
