package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient is the default Client implementation (spec.md §6), backed by
// sashabaranov/go-openai.
type OpenAIClient struct {
	client       *openai.Client
	defaultModel string
	logger       *slog.Logger
}

// NewOpenAIClient creates an OpenAI-backed Client. defaultModel is used
// whenever a CompletionRequest leaves Model empty.
func NewOpenAIClient(apiKey, defaultModel string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if defaultModel == "" {
		defaultModel = openai.GPT4oMini
	}

	return &OpenAIClient{
		client:       openai.NewClient(apiKey),
		defaultModel: defaultModel,
		logger:       slog.Default().With("component", "llm.openai"),
	}, nil
}

// Complete sends one chat completion request. It does not retry internally;
// callers that need a retry table own that policy (spec.md §4.9).
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return CompletionResponse{}, fmt.Errorf("openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	c.logger.Debug("openai completion",
		"model", model,
		"prompt_length", len(req.User),
		"response_length", len(text),
		"tokens_used", resp.Usage.TotalTokens,
	)

	return CompletionResponse{Text: text}, nil
}
