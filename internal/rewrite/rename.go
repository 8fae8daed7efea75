package rewrite

import (
	"fmt"
	"regexp"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/scanner"
)

// RenamePublicClass rewrites the sole top-level public class's name to
// expected, renaming any explicit constructor alongside it. A no-op if the
// unit doesn't have exactly one public type or it is already named expected.
func RenamePublicClass(source, expected string) (string, genmodel.RewriteRecord) {
	publics := scanner.ScanJava(source).PublicTypes()
	if len(publics) != 1 {
		return source, genmodel.RewriteRecord{ID: "rename_test_class", Applied: false, Detail: "not exactly one public type"}
	}

	old := publics[0].Name
	if old == expected {
		return source, noop("rename_test_class")
	}

	masked := scanner.MaskCStyle(source)
	out := renameWholeWordOutsideLiterals(source, masked, old, expected)

	return out, genmodel.RewriteRecord{
		ID:      "rename_test_class",
		Applied: true,
		Detail:  fmt.Sprintf("renamed %s to %s", old, expected),
	}
}

// renameWholeWordOutsideLiterals replaces every whole-word occurrence of old
// with replacement, using masked (a comment/string-safe, same-length mask of
// source) to decide which occurrences are real code rather than literal
// text. Edits apply from the last match to the first so earlier offsets stay
// valid.
func renameWholeWordOutsideLiterals(source, masked, old, replacement string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(old) + `\b`)
	locs := re.FindAllStringIndex(masked, -1)

	out := []byte(source)
	for i := len(locs) - 1; i >= 0; i-- {
		start, end := locs[i][0], locs[i][1]
		tail := append([]byte(replacement), out[end:]...)
		out = append(out[:start], tail...)
	}
	return string(out)
}
