package llm

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GeminiClient is the Gemini-backed Client implementation, for activities
// configured with llm.provider = "gemini" (spec.md §6).
type GeminiClient struct {
	client       *genai.Client
	defaultModel string
	logger       *slog.Logger
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey, defaultModel string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:       client,
		defaultModel: defaultModel,
		logger:       slog.Default().With("component", "llm.gemini"),
	}, nil
}

// Complete sends one generation request. Like OpenAIClient, it makes exactly
// one attempt and leaves retry policy to the caller — rate-limit backoff is
// the rate limiter's job (rate_limiter.go), not the Client's.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	var systemInstruction *genai.Content
	if req.System != "" {
		systemInstruction = genai.Text(req.System)[0]
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       ptrFloat32(temperature),
		MaxOutputTokens:   int32(maxTokens),
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.User), genConfig)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return CompletionResponse{}, fmt.Errorf("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return CompletionResponse{}, fmt.Errorf("gemini returned no content parts")
	}

	text := candidate.Content.Parts[0].Text
	c.logger.Debug("gemini completion",
		"model", model,
		"prompt_length", len(req.User),
		"response_length", len(text),
	)

	return CompletionResponse{Text: text}, nil
}

// Close releases resources held by the Gemini client.
func (c *GeminiClient) Close() error {
	return nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
