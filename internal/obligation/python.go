package obligation

import (
	"fmt"
	"regexp"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/scanner"
)

var (
	pythonTestCaseRe  = regexp.MustCompile(`(?m)^\s*def\s+test_case_\d+\s*\(`)
	pythonAssertSolve = regexp.MustCompile(`\bassert\s+solve\s*\(`)
	pythonCapsys      = regexp.MustCompile(`\bcapsys\b`)
)

var pythonCatalog = []Obligation{
	NewRule("python.valid_pytest_skeleton", 1, func(ctx CheckContext) (bool, string) {
		if !pythonTestCaseRe.MatchString(ctx.Draft.TestSuite) {
			return false, "test suite declares no test_case_N functions"
		}
		return true, ""
	}),

	NewRule("python.exactly_8_test_cases", 2, func(ctx CheckContext) (bool, string) {
		n := len(pythonTestCaseRe.FindAllString(ctx.Draft.TestSuite, -1))
		if n != genmodel.TestCaseCount {
			return false, fmt.Sprintf("test suite declares %d test_case_N functions, want %d", n, genmodel.TestCaseCount)
		}
		return true, ""
	}),

	NewRule("python.no_disallowed_imports", 3, func(ctx CheckContext) (bool, string) {
		for label, src := range ctx.ReferenceUnits() {
			if bad := scanner.ScanPython(src).DisallowedImports; len(bad) > 0 {
				return false, fmt.Sprintf("%s imports disallowed modules: %v", label, bad)
			}
		}
		return true, ""
	}),

	NewRule("python.test_suite_style_shape", 4, func(ctx CheckContext) (bool, string) {
		switch ctx.Slot.ProblemStyle {
		case genmodel.StyleReturn:
			if !pythonAssertSolve.MatchString(ctx.Draft.TestSuite) {
				return false, "return-style test suite has no `assert solve(...)` assertion"
			}
		case genmodel.StyleStdout:
			if !pythonCapsys.MatchString(ctx.Draft.TestSuite) {
				return false, "stdout-style test suite does not use capsys"
			}
		case genmodel.StyleMixed:
			if !pythonAssertSolve.MatchString(ctx.Draft.TestSuite) || !pythonCapsys.MatchString(ctx.Draft.TestSuite) {
				return false, "mixed-style test suite must both assert on solve(...) and use capsys"
			}
		}
		return true, ""
	}),
}
