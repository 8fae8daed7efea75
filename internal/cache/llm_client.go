package cache

import (
	"context"

	"github.com/genforge/genforge/internal/llm"
)

// CachingClient wraps an llm.Client so an identical (system, user, model)
// request within one run returns the memoized completion instead of issuing
// a second call — useful when a retried slot's repair prompt happens to
// collapse back to a previously seen one.
type CachingClient struct {
	inner llm.Client
	cache *Manager
}

func NewCachingClient(inner llm.Client, cache *Manager) *CachingClient {
	return &CachingClient{inner: inner, cache: cache}
}

func (c *CachingClient) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	key := HashKey(req.System, req.User, req.Model)
	if text, ok := c.cache.GetLLMResponse(key); ok {
		return llm.CompletionResponse{Text: text}, nil
	}

	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		return resp, err
	}
	c.cache.PutLLMResponse(key, resp.Text)
	return resp, nil
}
