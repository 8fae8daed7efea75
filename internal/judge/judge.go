// Package judge defines JudgeAdapter, the one collaborator the generation
// core treats as a sandboxed code runner (spec.md §6). The core never
// executes generated code itself; it hands a request to whatever
// JudgeAdapter the caller wired in and trusts the binary pass/fail and
// captured output it gets back.
package judge

import (
	"context"

	"github.com/genforge/genforge/internal/genmodel"
)

// RequestKind distinguishes a single-file submission from a multi-file
// workspace submission (Java's class-per-file shape).
type RequestKind string

const (
	RequestKindCode  RequestKind = "code"
	RequestKindFiles RequestKind = "files"
)

// Request is what the core submits to a judge: either a single source blob
// (Python/C++/SQL) or a file-path-to-content workspace (Java).
type Request struct {
	Kind      RequestKind
	Language  genmodel.Language
	Code      string
	Files     map[string]string
	TestSuite string
}

// Result is what a judge call returns (spec.md §6 JudgeResult). A judge
// implementation must be deterministic: identical Request in, identical
// Result out.
type Result struct {
	Success         bool
	PassedTests     []string
	FailedTests     []string
	Stdout          string
	Stderr          string
	ExecutionTimeMs int64
	ExitCode        int
	TimedOut        bool
}

// Adapter is the external sandboxed-execution collaborator. Implementations
// must be safe for concurrent use across slots; within one slot the pipeline
// serializes its own calls (spec.md §5).
type Adapter interface {
	Judge(ctx context.Context, req Request) (Result, error)
}
