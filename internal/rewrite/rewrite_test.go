package rewrite

import (
	"strings"
	"testing"

	"github.com/genforge/genforge/internal/scanner"
)

func TestDemoteExtraPublicTypes_NoOpWhenSingle(t *testing.T) {
	src := `public class Billing {}`
	out, rec := DemoteExtraPublicTypes(src, "")
	if rec.Applied {
		t.Errorf("expected no-op, got %+v", rec)
	}
	if out != src {
		t.Errorf("expected unchanged source")
	}
}

func TestDemoteExtraPublicTypes_KeepsNamedAndDemotesRest(t *testing.T) {
	src := `public class Billing {}
public class Helper {}`
	out, rec := DemoteExtraPublicTypes(src, "Billing")
	if !rec.Applied {
		t.Fatal("expected a rewrite to be applied")
	}
	scan := scanner.ScanJava(out)
	publics := scan.PublicTypes()
	if len(publics) != 1 || publics[0].Name != "Billing" {
		t.Errorf("expected only Billing left public, got %+v", publics)
	}
}

func TestPromoteToPublic_PromotesFirstNonInterface(t *testing.T) {
	src := `interface Rate {}
class Billing {}`
	out, rec := PromoteToPublic(src, "")
	if !rec.Applied {
		t.Fatal("expected a rewrite to be applied")
	}
	publics := scanner.ScanJava(out).PublicTypes()
	if len(publics) != 1 || publics[0].Name != "Billing" {
		t.Errorf("expected Billing promoted to public, got %+v", publics)
	}
}

func TestPromoteToPublic_NoOpWhenAlreadyPublic(t *testing.T) {
	src := `public class Billing {}`
	out, rec := PromoteToPublic(src, "")
	if rec.Applied {
		t.Error("expected no-op")
	}
	if out != src {
		t.Error("expected unchanged source")
	}
}

func TestRenamePublicClass_RenamesDeclarationAndConstructor(t *testing.T) {
	src := `public class Foo {
    public Foo() {}
}`
	out, rec := RenamePublicClass(src, "BillingTest")
	if !rec.Applied {
		t.Fatal("expected a rewrite to be applied")
	}
	if strings.Contains(out, "Foo") {
		t.Errorf("expected all Foo occurrences renamed, got: %s", out)
	}
	if !strings.Contains(out, "public class BillingTest") || !strings.Contains(out, "public BillingTest()") {
		t.Errorf("expected class and constructor renamed, got: %s", out)
	}
}

func TestSanitizeStringLiteralWhitespace_TrimsBoundarySpaces(t *testing.T) {
	src := `String s = " hello world ";`
	out, rec := SanitizeStringLiteralWhitespace(src)
	if !rec.Applied {
		t.Fatal("expected a rewrite to be applied")
	}
	if out != `String s = "hello world";` {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSanitizeStringLiteralWhitespace_SkipsAllWhitespaceLiteral(t *testing.T) {
	src := `String s = "   ";`
	out, rec := SanitizeStringLiteralWhitespace(src)
	if rec.Applied {
		t.Error("expected all-whitespace literal to be left alone")
	}
	if out != src {
		t.Error("expected unchanged source")
	}
}

func TestRebuildJavaStdinTestSuite_FailsOnStderr(t *testing.T) {
	run := func(stdin string) (string, string, error) {
		return "", "exception in thread", nil
	}
	_, _, err := RebuildJavaStdinTestSuite("Reader", []string{"1\n"}, run)
	if err == nil {
		t.Fatal("expected an error when the reference produces stderr")
	}
}

func TestRebuildJavaStdinTestSuite_BuildsJUnitClass(t *testing.T) {
	run := func(stdin string) (string, string, error) {
		return "echo:" + stdin, "", nil
	}
	out, rec, err := RebuildJavaStdinTestSuite("Reader", []string{"hi\n", "bye\n"}, run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Applied {
		t.Error("expected Applied true")
	}
	if !strings.Contains(out, "public class ReaderTest") {
		t.Errorf("expected ReaderTest class, got: %s", out)
	}
	if strings.Count(out, "@Test") != 2 {
		t.Errorf("expected 2 test cases, got: %s", out)
	}
}
