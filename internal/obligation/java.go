package obligation

import (
	"fmt"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/scanner"
)

var structuralTopics = map[string]bool{
	"encapsulation": true, "inheritance": true, "polymorphism": true,
	"abstraction": true, "composition": true,
}

// allJavaUnits returns every compilation unit a draft carries: starter,
// reference, and the test suite, keyed by a stable label for messages.
func allJavaUnits(ctx CheckContext) map[string]string {
	units := map[string]string{}
	for k, v := range ctx.StarterUnits() {
		units["starter:"+k] = v
	}
	for k, v := range ctx.ReferenceUnits() {
		units["reference:"+k] = v
	}
	units["test_suite"] = ctx.Draft.TestSuite
	return units
}

// primaryPublicName returns the single public top-level type name found
// across units, or "" if zero or more than one exists.
func primaryPublicName(units map[string]string) (string, bool) {
	name := ""
	found := 0
	for _, src := range units {
		for _, t := range scanner.ScanJava(src).PublicTypes() {
			found++
			name = t.Name
		}
	}
	if found != 1 {
		return "", false
	}
	return name, true
}

var javaCatalog = []Obligation{
	NewRule("java.single_public_type_per_unit", 1, func(ctx CheckContext) (bool, string) {
		for label, src := range allJavaUnits(ctx) {
			if src == "" {
				continue
			}
			if n := len(scanner.ScanJava(src).PublicTypes()); n > 1 {
				return false, fmt.Sprintf("%s declares %d top-level public types, want at most 1", label, n)
			}
		}
		return true, ""
	}),

	NewRule("java.primary_type_matches_target", 2, func(ctx CheckContext) (bool, string) {
		starterName, ok := primaryPublicName(ctx.StarterUnits())
		if !ok {
			return false, "starter does not declare exactly one public type"
		}
		refName, ok := primaryPublicName(ctx.ReferenceUnits())
		if !ok {
			return false, "reference does not declare exactly one public type"
		}
		if starterName != refName {
			return false, fmt.Sprintf("reference public type %q does not match starter public type %q", refName, starterName)
		}
		return true, ""
	}),

	NewRule("java.test_class_matches_target", 3, func(ctx CheckContext) (bool, string) {
		targetName, ok := primaryPublicName(ctx.StarterUnits())
		if !ok {
			return false, "cannot resolve target type from starter"
		}
		publics := scanner.ScanJava(ctx.Draft.TestSuite).PublicTypes()
		if len(publics) != 1 {
			return false, "test suite must declare exactly one public top-level class"
		}
		want := targetName + "Test"
		if publics[0].Name != want {
			return false, fmt.Sprintf("test suite public class %q, want %q", publics[0].Name, want)
		}
		return true, ""
	}),

	NewRule("java.no_while_false", 4, func(ctx CheckContext) (bool, string) {
		for label, src := range ctx.ReferenceUnits() {
			if scanner.ScanJava(src).HasWhileFalse {
				return false, fmt.Sprintf("%s contains while(false)", label)
			}
		}
		return true, ""
	}),

	NewRule("java.stdout_solution_prints", 5, func(ctx CheckContext) (bool, string) {
		if ctx.Slot.ProblemStyle != genmodel.StyleStdout && ctx.Slot.ProblemStyle != genmodel.StyleMixed {
			return true, ""
		}
		for _, src := range ctx.ReferenceUnits() {
			if scanner.ScanJava(src).UsesStdoutPrint {
				return true, ""
			}
		}
		return false, "reference does not write to System.out"
	}),

	NewRule("java.stdout_tests_capture", 6, func(ctx CheckContext) (bool, string) {
		if ctx.Slot.ProblemStyle != genmodel.StyleStdout && ctx.Slot.ProblemStyle != genmodel.StyleMixed {
			return true, ""
		}
		if !scanner.ScanJava(ctx.Draft.TestSuite).UsesSystemSetOut {
			return false, "test suite does not capture System.out"
		}
		return true, ""
	}),

	NewRule("java.stdin_tests_provide", 7, func(ctx CheckContext) (bool, string) {
		refReadsStdin := false
		for _, src := range ctx.ReferenceUnits() {
			if scanner.ScanJava(src).UsesStdin {
				refReadsStdin = true
			}
		}
		if !refReadsStdin {
			return true, ""
		}
		tests := scanner.ScanJava(ctx.Draft.TestSuite)
		if !tests.UsesSystemSetIn || !tests.UsesByteArrayInput {
			return false, "test suite does not feed stdin via System.setIn(ByteArrayInputStream)"
		}
		return true, ""
	}),

	NewRule("java.stdin_requires_main", 8, func(ctx CheckContext) (bool, string) {
		for label, src := range ctx.ReferenceUnits() {
			scan := scanner.ScanJava(src)
			if scan.UsesStdin && !scan.HasPublicStaticMain {
				return false, fmt.Sprintf("%s reads stdin but declares no public static void main(String[] args)", label)
			}
		}
		return true, ""
	}),

	NewRule("java.stdin_disallowed_for_structural_topics", 9, func(ctx CheckContext) (bool, string) {
		topicIsStructural := structuralTopics[ctx.Slot.PrimaryTopic()] || structuralTopics[ctx.Slot.SecondaryTopic()]
		if !topicIsStructural {
			return true, ""
		}
		for label, src := range ctx.ReferenceUnits() {
			if scanner.ScanJava(src).UsesStdin {
				return false, fmt.Sprintf("%s reads stdin, incompatible with structural topic %q", label, ctx.Slot.PrimaryTopic())
			}
		}
		return true, ""
	}),

	NewRule("java.structural_topic.polymorphism", 10, func(ctx CheckContext) (bool, string) {
		if !ctx.HasTopic("polymorphism") {
			return true, ""
		}
		return checkPolymorphism(ctx)
	}),

	NewRule("java.structural_topic.inheritance", 11, func(ctx CheckContext) (bool, string) {
		if !ctx.HasTopic("inheritance") {
			return true, ""
		}
		return checkInheritance(ctx)
	}),

	NewRule("java.structural_topic.abstraction", 12, func(ctx CheckContext) (bool, string) {
		if !ctx.HasTopic("abstraction") {
			return true, ""
		}
		return checkAbstraction(ctx)
	}),

	NewRule("java.structural_topic.encapsulation", 13, func(ctx CheckContext) (bool, string) {
		if !ctx.HasTopic("encapsulation") {
			return true, ""
		}
		return checkEncapsulation(ctx)
	}),

	NewRule("java.structural_topic.composition", 14, func(ctx CheckContext) (bool, string) {
		if !ctx.HasTopic("composition") {
			return true, ""
		}
		return checkComposition(ctx)
	}),
}

// refTypes returns every top-level type declaration across all reference units.
func refTypes(ctx CheckContext) []scanner.JavaTypeDecl {
	var out []scanner.JavaTypeDecl
	for _, src := range ctx.ReferenceUnits() {
		out = append(out, scanner.ScanJava(src).TopLevelTypes...)
	}
	return out
}

func checkPolymorphism(ctx CheckContext) (bool, string) {
	types := refTypes(ctx)
	for _, base := range types {
		if base.Kind != scanner.JavaTypeInterface && !(base.Kind == scanner.JavaTypeClass && base.Abstract) {
			continue
		}
		var impls []string
		for _, t := range types {
			if t.Name == base.Name {
				continue
			}
			if t.Extends == base.Name || containsName(t.Implements, base.Name) {
				impls = append(impls, t.Name)
			}
		}
		if len(impls) < 2 {
			continue
		}
		if mentionsAll(ctx.Draft.TestSuite, append([]string{base.Name}, impls...)) &&
			hasBaseTypedAssignment(ctx.Draft.TestSuite, base.Name, impls) {
			return true, ""
		}
	}
	return false, "reference has no interface/abstract base with >=2 implementations exercised polymorphically by the tests"
}

func checkInheritance(ctx CheckContext) (bool, string) {
	types := refTypes(ctx)
	for _, sub := range types {
		if sub.Extends == "" || sub.Extends == "Object" {
			continue
		}
		var base *scanner.JavaTypeDecl
		for i := range types {
			if types[i].Name == sub.Extends {
				base = &types[i]
			}
		}
		if base == nil {
			continue
		}
		if mentionsAll(ctx.Draft.TestSuite, []string{base.Name, sub.Name}) &&
			hasBaseTypedAssignment(ctx.Draft.TestSuite, base.Name, []string{sub.Name}) {
			return true, ""
		}
	}
	return false, "reference has no subclass/base pair exercised through a base-typed reference in the tests"
}

func checkAbstraction(ctx CheckContext) (bool, string) {
	types := refTypes(ctx)
	for _, base := range types {
		if base.Kind != scanner.JavaTypeInterface && !(base.Kind == scanner.JavaTypeClass && base.Abstract) {
			continue
		}
		for _, impl := range types {
			if impl.Name == base.Name {
				continue
			}
			if impl.Extends == base.Name || containsName(impl.Implements, base.Name) {
				if mentionsAll(ctx.Draft.TestSuite, []string{base.Name, impl.Name}) {
					return true, ""
				}
			}
		}
	}
	return false, "reference has no base/implementation pair mentioned by the tests"
}

func checkEncapsulation(ctx CheckContext) (bool, string) {
	name, ok := primaryPublicName(ctx.ReferenceUnits())
	if !ok || name == "Main" {
		return false, "no non-Main primary type to check for encapsulation"
	}
	var src string
	for _, s := range ctx.ReferenceUnits() {
		if n, ok := primaryPublicName(map[string]string{"u": s}); ok && n == name {
			src = s
		}
	}
	if src == "" {
		return false, "could not locate primary type source"
	}
	if countFieldModifier(src, "private") < 1 {
		return false, "primary type has no private field"
	}
	if countFieldModifier(src, "public") > 0 {
		return false, "primary type has a public field"
	}
	if countDistinctMethodCalls(ctx.Draft.TestSuite, name) < 2 {
		return false, "tests call fewer than 2 distinct methods on the primary type"
	}
	return true, ""
}

func checkComposition(ctx CheckContext) (bool, string) {
	types := refTypes(ctx)
	declared := map[string]bool{}
	for _, t := range types {
		declared[t.Name] = true
	}
	name, ok := primaryPublicName(ctx.ReferenceUnits())
	if !ok {
		return false, "no primary type to check for composition"
	}
	var src string
	for _, s := range ctx.ReferenceUnits() {
		if n, ok := primaryPublicName(map[string]string{"u": s}); ok && n == name {
			src = s
		}
	}
	fieldType, ok := fieldTypeReferencingDeclared(src, declared, name)
	if !ok {
		return false, "primary type has no private/protected field typed as another declared type"
	}
	if !mentionsAll(ctx.Draft.TestSuite, []string{name, fieldType}) {
		return false, "tests do not mention both the composing and composed types"
	}
	return true, ""
}

func containsName(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
