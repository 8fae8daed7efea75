package genmodel

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces opaque string ids. Production code uses UUIDGenerator;
// tests inject a deterministic sequence so two runs over identical LLM/judge
// output are byte-identical (spec.md §5 Determinism).
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production IDGenerator, backed by google/uuid.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SeededIDGenerator returns ids "seed-0", "seed-1", ... — deterministic and
// human-readable for tests and golden fixtures.
type SeededIDGenerator struct {
	prefix string
	next   int
}

func NewSeededIDGenerator(prefix string) *SeededIDGenerator {
	return &SeededIDGenerator{prefix: prefix}
}

func (g *SeededIDGenerator) NewID() string {
	id := g.prefix + "-" + itoa(g.next)
	g.next++
	return id
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Clock abstracts wall-clock time so a run's time source can be injected in
// tests. progress.Stream stamps events with time.Now and does not read it.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// RunContext threads the randomness (ids) and time source a single
// generateFromSpec invocation needs, per spec.md §5 Determinism and §9
// DESIGN NOTES ("global LLM client vs injected adapter").
type RunContext struct {
	ActivityID string
	RunID      string
	IDs        IDGenerator
	Clock      Clock
	// Cancel, when non-nil and closed, signals the pipeline to stop issuing
	// new LLM/judge calls at the next suspension point (spec.md §5 Cancellation).
	Cancel <-chan struct{}
}

// NewRunContext builds a production RunContext with a fresh activity id.
func NewRunContext(cancel <-chan struct{}) RunContext {
	ids := UUIDGenerator{}
	return RunContext{
		ActivityID: ids.NewID(),
		RunID:      ids.NewID(),
		IDs:        ids,
		Clock:      SystemClock{},
		Cancel:     cancel,
	}
}

// Cancelled reports whether the run's cancellation signal has fired.
func (rc RunContext) Cancelled() bool {
	if rc.Cancel == nil {
		return false
	}
	select {
	case <-rc.Cancel:
		return true
	default:
		return false
	}
}
