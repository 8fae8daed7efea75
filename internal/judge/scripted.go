package judge

import (
	"context"
	"fmt"
)

// ScriptedJudge is a deterministic Adapter test double: it returns a queued
// Result for each Judge call in order, so pipeline tests can script exactly
// which attempt passes and which fails without a real sandbox.
type ScriptedJudge struct {
	results []Result
	errs    []error
	calls   []Request
	next    int
}

// NewScriptedJudge queues results to return in call order.
func NewScriptedJudge(results ...Result) *ScriptedJudge {
	return &ScriptedJudge{results: results}
}

// QueueError arranges for the Nth call (0-indexed) to return err in place of
// the queued Result at that index; later calls still use their own index.
func (s *ScriptedJudge) QueueError(callIndex int, err error) {
	for len(s.errs) <= callIndex {
		s.errs = append(s.errs, nil)
	}
	s.errs[callIndex] = err
}

func (s *ScriptedJudge) Judge(ctx context.Context, req Request) (Result, error) {
	idx := s.next
	s.calls = append(s.calls, req)
	s.next++

	if idx < len(s.errs) && s.errs[idx] != nil {
		return Result{}, s.errs[idx]
	}
	if idx >= len(s.results) {
		return Result{}, fmt.Errorf("scripted judge: no result queued for call %d", idx)
	}
	return s.results[idx], nil
}

// Calls returns every Request submitted so far, in order.
func (s *ScriptedJudge) Calls() []Request {
	return s.calls
}
