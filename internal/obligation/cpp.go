package obligation

import (
	"fmt"
	"regexp"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/scanner"
)

var (
	cppIncludesSolution = regexp.MustCompile(`#include\s*"solution\.cpp"`)
	cppDefinesMain      = regexp.MustCompile(`\bint\s+main\s*\(`)
	cppRunTestCall      = regexp.MustCompile(`\bRUN_TEST\s*\(`)
	cppCoutCapture      = regexp.MustCompile(`\bostringstream\b|\.rdbuf\s*\(`)
)

var cppCatalog = []Obligation{
	NewRule("cpp.test_includes_solution", 1, func(ctx CheckContext) (bool, string) {
		if !cppIncludesSolution.MatchString(scanner.MaskCStyle(ctx.Draft.TestSuite)) {
			return false, `test suite does not #include "solution.cpp"`
		}
		return true, ""
	}),

	NewRule("cpp.test_defines_main", 2, func(ctx CheckContext) (bool, string) {
		if !cppDefinesMain.MatchString(scanner.MaskCStyle(ctx.Draft.TestSuite)) {
			return false, "test suite does not define int main("
		}
		return true, ""
	}),

	NewRule("cpp.test_uses_run_test_macro", 3, func(ctx CheckContext) (bool, string) {
		masked := scanner.MaskCStyle(ctx.Draft.TestSuite)
		n := len(cppRunTestCall.FindAllString(masked, -1))
		if n != genmodel.TestCaseCount {
			return false, fmt.Sprintf("test suite invokes RUN_TEST %d times, want %d", n, genmodel.TestCaseCount)
		}
		return true, ""
	}),

	NewRule("cpp.stdout_capture_when_required", 4, func(ctx CheckContext) (bool, string) {
		if ctx.Slot.ProblemStyle == genmodel.StyleReturn {
			return true, ""
		}
		if !cppCoutCapture.MatchString(scanner.MaskCStyle(ctx.Draft.TestSuite)) {
			return false, "test suite does not capture std::cout for a stdout/mixed-style problem"
		}
		return true, ""
	}),
}
