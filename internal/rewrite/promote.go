package rewrite

import (
	"fmt"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/scanner"
)

// PromoteToPublic inserts "public " before a top-level type's keyword when
// the compilation unit has no public top-level type at all. keepName, when
// present among the declared types, is promoted; otherwise the first
// non-interface type is chosen.
func PromoteToPublic(source, keepName string) (string, genmodel.RewriteRecord) {
	scan := scanner.ScanJava(source)
	if len(scan.PublicTypes()) > 0 {
		return source, noop("promote_to_public")
	}
	if len(scan.TopLevelTypes) == 0 {
		return source, genmodel.RewriteRecord{ID: "promote_to_public", Applied: false, Detail: "no top-level type found"}
	}

	target := scan.TopLevelTypes[0]
	found := false
	if keepName != "" {
		for _, t := range scan.TopLevelTypes {
			if t.Name == keepName {
				target, found = t, true
			}
		}
	}
	if !found {
		for _, t := range scan.TopLevelTypes {
			if t.Kind != scanner.JavaTypeInterface {
				target, found = t, true
				break
			}
		}
	}

	out := source[:target.TypeKeywordStart] + publicToken + " " + source[target.TypeKeywordStart:]
	return out, genmodel.RewriteRecord{
		ID:      "promote_to_public",
		Applied: true,
		Detail:  fmt.Sprintf("made %s public", target.Name),
	}
}
