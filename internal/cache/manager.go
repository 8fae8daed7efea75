// Package cache provides in-run memoization for the generation pipeline.
// It is deliberately process-local and non-persistent: spec.md scopes out
// any durable cache or shared-cache registry, so this package keeps only
// the in-memory half of the teacher's cache.Manager (github.com/patrickmn/go-cache),
// repurposed to avoid re-issuing an identical LLM completion or judge
// submission within a single generateFromSpec run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Manager memoizes LLM completions and judge results by content hash for
// the lifetime of one run. It is not safe to share across runs: entries
// are keyed only on content, not on RunContext.RunID, so a fresh Manager
// per run is the caller's responsibility.
type Manager struct {
	logger *logrus.Logger
	llm    *gocache.Cache
	judge  *gocache.Cache
}

// NewManager creates a cache manager scoped to a single run. Entries expire
// after ttl if unused; ttl of 0 disables expiry for the run's lifetime.
func NewManager(logger *logrus.Logger, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Manager{
		logger: logger,
		llm:    gocache.New(ttl, ttl),
		judge:  gocache.New(ttl, ttl),
	}
}

// HashKey derives a stable cache key from arbitrary prompt/request content.
func HashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetLLMResponse returns a previously memoized completion for key, if any.
func (m *Manager) GetLLMResponse(key string) (string, bool) {
	v, found := m.llm.Get(key)
	if !found {
		return "", false
	}
	text, _ := v.(string)
	return text, true
}

// PutLLMResponse memoizes a completion's raw text under key.
func (m *Manager) PutLLMResponse(key, text string) {
	m.llm.Set(key, text, gocache.DefaultExpiration)
}

// GetJudgeResult returns a previously memoized judge result for key, if any.
// Judge submissions are deterministic (spec.md §5), so replaying a result
// for an identical request is safe within a run.
func (m *Manager) GetJudgeResult(key string) (any, bool) {
	return m.judge.Get(key)
}

// PutJudgeResult memoizes a judge result under key.
func (m *Manager) PutJudgeResult(key string, result any) {
	m.judge.Set(key, result, gocache.DefaultExpiration)
}

// Reset discards all memoized entries. Callers start a fresh run with this
// rather than constructing a new Manager when a logger is already wired in.
func (m *Manager) Reset() {
	m.llm.Flush()
	m.judge.Flush()
}
