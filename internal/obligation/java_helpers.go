package obligation

import (
	"regexp"

	"github.com/genforge/genforge/internal/scanner"
)

// mentionsAll reports whether every name appears as a whole word somewhere
// in text, outside comments and string literals.
func mentionsAll(text string, names []string) bool {
	masked := scanner.MaskCStyle(text)
	for _, name := range names {
		if !regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`).MatchString(masked) {
			return false
		}
	}
	return true
}

// hasBaseTypedAssignment reports whether text declares a base-typed
// variable assigned to a concrete instance of one of impls, e.g.
// `Shape s = new Circle(...)` — the pattern the spec requires to confirm
// a test actually exercises dynamic dispatch rather than merely naming
// the types.
func hasBaseTypedAssignment(text, base string, impls []string) bool {
	masked := scanner.MaskCStyle(text)
	alts := make([]string, len(impls))
	for i, impl := range impls {
		alts[i] = regexp.QuoteMeta(impl)
	}
	pattern := `\b` + regexp.QuoteMeta(base) + `\s+[A-Za-z_]\w*\s*=\s*new\s+(` + join(alts, "|") + `)\s*\(`
	return regexp.MustCompile(pattern).MatchString(masked)
}

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// countFieldModifier counts field declarations (not method signatures) on
// the given modifier within src.
func countFieldModifier(src, modifier string) int {
	masked := scanner.MaskCStyle(src)
	re := regexp.MustCompile(`\b` + modifier + `\b\s+(?:(?:static|final)\s+)*[A-Za-z_][\w\[\]<>,.\s]*\s+[A-Za-z_]\w*\s*;`)
	return len(re.FindAllString(masked, -1))
}

// countDistinctMethodCalls counts distinct method names invoked on any
// variable declared as typeName within src.
func countDistinctMethodCalls(src, typeName string) int {
	masked := scanner.MaskCStyle(src)

	declRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(typeName) + `\s+([A-Za-z_]\w*)\s*=`)
	vars := map[string]bool{}
	for _, m := range declRe.FindAllStringSubmatch(masked, -1) {
		vars[m[1]] = true
	}

	methods := map[string]bool{}
	for varName := range vars {
		callRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(varName) + `\.([A-Za-z_]\w*)\s*\(`)
		for _, m := range callRe.FindAllStringSubmatch(masked, -1) {
			methods[m[1]] = true
		}
	}
	return len(methods)
}

var javaPrimitives = map[string]bool{
	"int": true, "long": true, "short": true, "byte": true, "char": true,
	"boolean": true, "float": true, "double": true, "void": true,
	"String": true, "Integer": true, "Long": true, "Double": true, "Boolean": true,
}

// fieldTypeReferencingDeclared finds a private/protected field in src whose
// declared type is itself one of the declared top-level types (composition:
// "has-a" relationship to another declared type, not a primitive/stdlib type).
func fieldTypeReferencingDeclared(src string, declared map[string]bool, excludeName string) (string, bool) {
	masked := scanner.MaskCStyle(src)
	re := regexp.MustCompile(`\b(?:private|protected)\b\s+(?:(?:static|final)\s+)*([A-Za-z_]\w*)(?:<[^>]*>)?\s+[A-Za-z_]\w*\s*;`)
	for _, m := range re.FindAllStringSubmatch(masked, -1) {
		typeName := m[1]
		if typeName == excludeName || javaPrimitives[typeName] {
			continue
		}
		if declared[typeName] {
			return typeName, true
		}
	}
	return "", false
}
