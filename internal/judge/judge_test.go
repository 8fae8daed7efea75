package judge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/genforge/genforge/internal/genmodel"
)

func TestScriptedJudge_ReturnsQueuedResultsInOrder(t *testing.T) {
	sj := NewScriptedJudge(
		Result{Success: false},
		Result{Success: true},
	)

	r1, err := sj.Judge(context.Background(), Request{Kind: RequestKindCode})
	if err != nil || r1.Success {
		t.Fatalf("call 1: got %+v, %v", r1, err)
	}
	r2, err := sj.Judge(context.Background(), Request{Kind: RequestKindCode})
	if err != nil || !r2.Success {
		t.Fatalf("call 2: got %+v, %v", r2, err)
	}
	if len(sj.Calls()) != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", len(sj.Calls()))
	}
}

func TestScriptedJudge_QueueErrorOverridesResult(t *testing.T) {
	sj := NewScriptedJudge(Result{Success: true})
	sj.QueueError(0, os.ErrClosed)

	_, err := sj.Judge(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected queued error")
	}
}

func TestScriptedJudge_ExhaustedQueueErrors(t *testing.T) {
	sj := NewScriptedJudge()
	_, err := sj.Judge(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected an error when no result is queued")
	}
}

func TestParseTestNames_SplitsPassAndFail(t *testing.T) {
	stdout := "PASS test_case_1\nFAIL test_case_2\nPASS test_case_3\nsome other noise\n"
	passed, failed := parseTestNames(stdout)
	if len(passed) != 2 || len(failed) != 1 {
		t.Fatalf("got passed=%v failed=%v", passed, failed)
	}
	if passed[0] != "test_case_1" || failed[0] != "test_case_2" {
		t.Fatalf("got passed=%v failed=%v", passed, failed)
	}
}

func TestSubmissionFilename_PerLanguage(t *testing.T) {
	cases := map[genmodel.Language]string{
		genmodel.LanguagePython: "solution.py",
		genmodel.LanguageCPP:    "solution.cpp",
		genmodel.LanguageSQL:    "solution.sql",
		genmodel.LanguageJava:   "Solution.java",
	}
	for lang, want := range cases {
		if got := submissionFilename(lang); got != want {
			t.Errorf("%s: got %s, want %s", lang, got, want)
		}
	}
}

func TestWriteSubmission_FilesKind(t *testing.T) {
	dir := t.TempDir()
	req := Request{
		Kind: RequestKindFiles,
		Files: map[string]string{
			"Billing.java":     "class Billing {}",
			"BillingTest.java": "class BillingTest {}",
		},
		Language:  genmodel.LanguageJava,
		TestSuite: "written for files kind too",
	}
	if err := writeSubmission(dir, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name := range req.Files {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}

func TestWriteSubmission_CodeKind(t *testing.T) {
	dir := t.TempDir()
	req := Request{
		Kind:      RequestKindCode,
		Code:      "def solve(): return 1",
		Language:  genmodel.LanguagePython,
		TestSuite: "def test_case_1(): assert solve() == 1",
	}
	if err := writeSubmission(dir, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "solution.py")); err != nil {
		t.Errorf("expected solution.py: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "test_solution.py")); err != nil {
		t.Errorf("expected test_solution.py: %v", err)
	}
}
