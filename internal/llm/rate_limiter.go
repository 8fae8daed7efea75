package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Gemini/OpenAI tier 1 defaults — requests per minute and (approximate)
// tokens per minute, used to size the in-process limiter below.
const (
	DefaultRPM = 1000      // requests per minute
	DefaultTPM = 1_000_000 // tokens per minute, input+output combined
)

// RateLimitedClient wraps a Client with local request/token throttling. The
// teacher's rate limiter proactively checked shared Redis counters across
// processes; a single generateFromSpec run has no such shared state, so this
// reimplements the same RPM/TPM budget with golang.org/x/time/rate instead
// of a cross-process Lua script.
type RateLimitedClient struct {
	inner       Client
	requestLim  *rate.Limiter
	tokenLim    *rate.Limiter
	tokensPerReq int
}

// NewRateLimitedClient wraps inner with a limiter sized for rpm requests and
// tpm tokens per minute. tokensPerReq estimates the token cost charged
// against the token bucket for each call (the real count isn't known until
// the response returns, so this is a conservative per-call debit).
func NewRateLimitedClient(inner Client, rpm, tpm, tokensPerReq int) *RateLimitedClient {
	if rpm <= 0 {
		rpm = DefaultRPM
	}
	if tpm <= 0 {
		tpm = DefaultTPM
	}
	if tokensPerReq <= 0 {
		tokensPerReq = 1000
	}

	return &RateLimitedClient{
		inner:        inner,
		requestLim:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		tokenLim:     rate.NewLimiter(rate.Limit(float64(tpm)/60.0), tpm),
		tokensPerReq: tokensPerReq,
	}
}

// Complete blocks until both the request and token buckets admit the call,
// then delegates to the wrapped Client. Blocking respects ctx cancellation
// (spec.md §5 Cancellation: suspension points include LLM calls).
func (c *RateLimitedClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if err := c.requestLim.Wait(ctx); err != nil {
		return CompletionResponse{}, fmt.Errorf("rate limiter: request budget: %w", err)
	}
	if err := c.tokenLim.WaitN(ctx, c.tokensPerReq); err != nil {
		return CompletionResponse{}, fmt.Errorf("rate limiter: token budget: %w", err)
	}
	return c.inner.Complete(ctx, req)
}
