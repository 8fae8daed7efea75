package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	calls int
}

func (f *fakeClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	f.calls++
	return CompletionResponse{Text: "ok"}, nil
}

func TestRateLimitedClient_AllowsWithinBudget(t *testing.T) {
	inner := &fakeClient{}
	rl := NewRateLimitedClient(inner, DefaultRPM, DefaultTPM, 100)

	resp, err := rl.Complete(context.Background(), CompletionRequest{User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 1, inner.calls)
}

func TestRateLimitedClient_ThrottlesBurst(t *testing.T) {
	inner := &fakeClient{}
	// 1 request per minute, burst of 1 — the second call must wait.
	rl := NewRateLimitedClient(inner, 1, DefaultTPM, 10)

	ctx := context.Background()
	_, err := rl.Complete(ctx, CompletionRequest{User: "first"})
	require.NoError(t, err)

	ctx2, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	_, err = rl.Complete(ctx2, CompletionRequest{User: "second"})
	assert.Error(t, err, "second call should be throttled past the short deadline")
}

func TestRateLimitedClient_RespectsCancellation(t *testing.T) {
	inner := &fakeClient{}
	rl := NewRateLimitedClient(inner, 1, DefaultTPM, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rl.Complete(ctx, CompletionRequest{User: "cancelled"})
	assert.Error(t, err)
}

func TestNewRateLimitedClient_Defaults(t *testing.T) {
	inner := &fakeClient{}
	rl := NewRateLimitedClient(inner, 0, 0, 0)

	assert.NotNil(t, rl.requestLim)
	assert.NotNil(t, rl.tokenLim)
	assert.Equal(t, 1000, rl.tokensPerReq)
}
