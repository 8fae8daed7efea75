// Package testsuite implements TestSuiteValidator and TestSuiteRepairer
// (spec.md §4.4): a narrow shape check over the test_suite field alone —
// counts, required imports/macros, forbidden constructs — run before
// obligation checking, plus a single-shot LLM repair path authorized only
// when the test suite is the draft's sole validation failure.
package testsuite

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/genforge/genforge/internal/genmodel"
)

// ShapeResult is the outcome of validating one test suite's shape.
type ShapeResult struct {
	OK     bool
	Errors []string
}

func (r *ShapeResult) fail(format string, args ...any) {
	r.OK = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Validate checks testSuite's shape for lang/style, independent of the
// starter/reference it will eventually pair with.
func Validate(lang genmodel.Language, style genmodel.ProblemStyle, testSuite string) ShapeResult {
	result := ShapeResult{OK: true}
	if testSuite == "" {
		result.fail("test suite is empty")
		return result
	}

	switch lang {
	case genmodel.LanguageJava:
		validateJavaShape(&result, style, testSuite)
	case genmodel.LanguagePython:
		validatePythonShape(&result, style, testSuite)
	case genmodel.LanguageCPP:
		validateCppShape(&result, style, testSuite)
	case genmodel.LanguageSQL:
		validateSQLShape(&result, testSuite)
	default:
		result.fail("unsupported language %q", lang)
	}

	return result
}

var (
	javaTestClassRe  = regexp.MustCompile(`public\s+class\s+\w+Test\b`)
	javaAtTestRe     = regexp.MustCompile(`@Test\b`)
	pythonTestCaseRe = regexp.MustCompile(`(?m)^\s*def\s+test_case_\d+\s*\(`)
	pythonForbidden  = regexp.MustCompile(`\b(eval|exec)\s*\(`)
	cppIncludeRe     = regexp.MustCompile(`#include\s*"solution\.cpp"`)
	cppMainRe        = regexp.MustCompile(`\bint\s+main\s*\(`)
	cppRunTestRe     = regexp.MustCompile(`\bRUN_TEST\s*\(`)
)

func validateJavaShape(result *ShapeResult, style genmodel.ProblemStyle, testSuite string) {
	if !javaTestClassRe.MatchString(testSuite) {
		result.fail("test suite does not declare a public <Target>Test class")
	}
	n := len(javaAtTestRe.FindAllString(testSuite, -1))
	if n != genmodel.TestCaseCount {
		result.fail("test suite has %d @Test methods, want %d", n, genmodel.TestCaseCount)
	}
	if style == genmodel.StyleStdout || style == genmodel.StyleMixed {
		if !regexp.MustCompile(`System\.setOut\s*\(`).MatchString(testSuite) {
			result.fail("stdout/mixed-style test suite does not capture System.out")
		}
	}
}

func validatePythonShape(result *ShapeResult, style genmodel.ProblemStyle, testSuite string) {
	n := len(pythonTestCaseRe.FindAllString(testSuite, -1))
	if n != genmodel.TestCaseCount {
		result.fail("test suite has %d test_case_N functions, want %d", n, genmodel.TestCaseCount)
	}
	if pythonForbidden.MatchString(testSuite) {
		result.fail("test suite uses eval()/exec()")
	}
	if style == genmodel.StyleStdout || style == genmodel.StyleMixed {
		if !regexp.MustCompile(`\bcapsys\b`).MatchString(testSuite) {
			result.fail("stdout/mixed-style test suite does not use capsys")
		}
	}
	if style == genmodel.StyleReturn || style == genmodel.StyleMixed {
		if !regexp.MustCompile(`\bassert\s+solve\s*\(`).MatchString(testSuite) {
			result.fail("return/mixed-style test suite has no assert solve(...) assertion")
		}
	}
}

func validateCppShape(result *ShapeResult, style genmodel.ProblemStyle, testSuite string) {
	if !cppIncludeRe.MatchString(testSuite) {
		result.fail(`test suite does not #include "solution.cpp"`)
	}
	if !cppMainRe.MatchString(testSuite) {
		result.fail("test suite does not define int main(")
	}
	n := len(cppRunTestRe.FindAllString(testSuite, -1))
	if n != genmodel.TestCaseCount {
		result.fail("test suite invokes RUN_TEST %d times, want %d", n, genmodel.TestCaseCount)
	}
	if style != genmodel.StyleReturn {
		if !regexp.MustCompile(`\bostringstream\b|\.rdbuf\s*\(`).MatchString(testSuite) {
			result.fail("stdout/mixed-style test suite does not capture std::cout")
		}
	}
}

type sqlShape struct {
	SchemaSQL    string           `json:"schema_sql"`
	ExpectedRows []map[string]any `json:"expected_rows"`
}

func validateSQLShape(result *ShapeResult, testSuite string) {
	var doc sqlShape
	if err := json.Unmarshal([]byte(testSuite), &doc); err != nil {
		result.fail("test suite is not valid JSON: %v", err)
		return
	}
	if doc.SchemaSQL == "" {
		result.fail("test suite has no schema_sql")
	}
	if len(doc.ExpectedRows) != genmodel.TestCaseCount {
		result.fail("test suite has %d expected_rows entries, want %d", len(doc.ExpectedRows), genmodel.TestCaseCount)
	}
}
