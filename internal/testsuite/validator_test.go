package testsuite

import (
	"strings"
	"testing"

	"github.com/genforge/genforge/internal/genmodel"
)

func eightJavaTests() string {
	var b strings.Builder
	b.WriteString("public class BillingTest {\n")
	for i := 1; i <= genmodel.TestCaseCount; i++ {
		b.WriteString("    @Test\n    void t() {}\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func TestValidate_JavaShapeOK(t *testing.T) {
	result := Validate(genmodel.LanguageJava, genmodel.StyleReturn, eightJavaTests())
	if !result.OK {
		t.Fatalf("expected OK, got errors: %v", result.Errors)
	}
}

func TestValidate_JavaWrongTestCount(t *testing.T) {
	src := `public class BillingTest {
    @Test
    void t() {}
}`
	result := Validate(genmodel.LanguageJava, genmodel.StyleReturn, src)
	if result.OK {
		t.Fatal("expected shape failure for wrong @Test count")
	}
}

func TestValidate_JavaStdoutRequiresCapture(t *testing.T) {
	result := Validate(genmodel.LanguageJava, genmodel.StyleStdout, eightJavaTests())
	if result.OK {
		t.Fatal("expected failure: stdout style test suite has no System.setOut")
	}
}

func pythonTests(withAssert, withCapsys bool) string {
	var b strings.Builder
	for i := 1; i <= genmodel.TestCaseCount; i++ {
		b.WriteString("def test_case_" + string(rune('0'+i)) + "():\n")
		if withAssert {
			b.WriteString("    assert solve(1) == 1\n")
		}
		if withCapsys {
			b.WriteString("    def inner(capsys): pass\n")
		}
	}
	return b.String()
}

func TestValidate_PythonReturnStyleRequiresAssertSolve(t *testing.T) {
	result := Validate(genmodel.LanguagePython, genmodel.StyleReturn, pythonTests(false, false))
	if result.OK {
		t.Fatal("expected failure: no assert solve(...)")
	}
}

func TestValidate_PythonRejectsEval(t *testing.T) {
	src := "def test_case_1():\n    assert eval('1+1') == 2\n"
	result := Validate(genmodel.LanguagePython, genmodel.StyleReturn, src)
	if result.OK {
		t.Fatal("expected failure for eval() usage")
	}
}

func TestValidate_CppRequiresIncludeAndMain(t *testing.T) {
	result := Validate(genmodel.LanguageCPP, genmodel.StyleReturn, "int other() { return 1; }")
	if result.OK {
		t.Fatal("expected failure: missing include/main/RUN_TEST")
	}
}

func TestValidate_SQLRequiresEightExpectedRows(t *testing.T) {
	src := `{"schema_sql":"CREATE TABLE t(x int);","expected_rows":[{"query":"SELECT 1","rows":[]}]}`
	result := Validate(genmodel.LanguageSQL, genmodel.StyleReturn, src)
	if result.OK {
		t.Fatal("expected failure: only 1 expected_rows entry")
	}
}

func TestValidate_EmptyTestSuite(t *testing.T) {
	result := Validate(genmodel.LanguageJava, genmodel.StyleReturn, "")
	if result.OK {
		t.Fatal("expected failure for empty test suite")
	}
}
