package rewrite

import (
	"fmt"
	"sort"

	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/scanner"
)

const publicToken = "public"

// DemoteExtraPublicTypes removes the "public" modifier from every top-level
// type declaration in source except the kept one. If zero or one top-level
// public type exists, this is a no-op. keepName, when non-empty and present
// among the public types, is kept; otherwise the first non-interface type is
// kept, falling back to the first declared public type.
func DemoteExtraPublicTypes(source, keepName string) (string, genmodel.RewriteRecord) {
	publics := scanner.ScanJava(source).PublicTypes()
	if len(publics) <= 1 {
		return source, noop("demote_extra_public_types")
	}

	keep := choosePublicType(publics, keepName)

	var others []scanner.JavaTypeDecl
	for _, t := range publics {
		if t.Name != keep.Name || t.TypeKeywordStart != keep.TypeKeywordStart {
			others = append(others, t)
		}
	}
	sort.Slice(others, func(i, j int) bool {
		return others[i].PublicModifierStart > others[j].PublicModifierStart
	})

	out := []byte(source)
	for _, t := range others {
		start := t.PublicModifierStart
		end := start + len(publicToken)
		for end < len(out) && (out[end] == ' ' || out[end] == '\t') {
			end++
		}
		out = append(out[:start], out[end:]...)
	}

	return string(out), genmodel.RewriteRecord{
		ID:      "demote_extra_public_types",
		Applied: len(others) > 0,
		Detail:  fmt.Sprintf("kept %s public; demoted %d other top-level public type(s)", keep.Name, len(others)),
	}
}

func choosePublicType(publics []scanner.JavaTypeDecl, keepName string) scanner.JavaTypeDecl {
	if keepName != "" {
		for _, t := range publics {
			if t.Name == keepName {
				return t
			}
		}
	}
	for _, t := range publics {
		if t.Kind != scanner.JavaTypeInterface {
			return t
		}
	}
	return publics[0]
}
