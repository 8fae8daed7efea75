package pipeline

import (
	"github.com/genforge/genforge/internal/genmodel"
	"github.com/genforge/genforge/internal/rewrite"
)

// applyMechanicalRewrites runs the mechanical_rewrites stage (spec.md §4.6)
// over draft in place, returning the updated draft and every RewriteRecord
// produced, applied vs not.
func applyMechanicalRewrites(draft genmodel.GeneratedProblemDraft) (genmodel.GeneratedProblemDraft, []genmodel.RewriteRecord) {
	var records []genmodel.RewriteRecord

	switch draft.Language {
	case genmodel.LanguageJava:
		className := inferJavaClassName(draft.Title)

		if draft.StarterCode != "" {
			demoted, rec := rewrite.DemoteExtraPublicTypes(draft.StarterCode, className)
			draft.StarterCode = demoted
			records = append(records, rec)

			promoted, rec := rewrite.PromoteToPublic(draft.StarterCode, className)
			draft.StarterCode = promoted
			records = append(records, rec)

			sanitized, rec := rewrite.SanitizeStringLiteralWhitespace(draft.StarterCode)
			draft.StarterCode = sanitized
			records = append(records, rec)
		}

		if draft.ReferenceSolution != "" {
			sanitized, rec := rewrite.SanitizeStringLiteralWhitespace(draft.ReferenceSolution)
			draft.ReferenceSolution = sanitized
			records = append(records, rec)
		}

		if draft.TestSuite != "" {
			renamed, rec := rewrite.RenamePublicClass(draft.TestSuite, className+"Test")
			draft.TestSuite = renamed
			records = append(records, rec)

			sanitized, rec := rewrite.SanitizeStringLiteralWhitespace(draft.TestSuite)
			draft.TestSuite = sanitized
			records = append(records, rec)
		}

	case genmodel.LanguageCPP:
		if draft.TestSuite != "" {
			sanitized, rec := rewrite.SanitizeStringLiteralWhitespace(draft.TestSuite)
			draft.TestSuite = sanitized
			records = append(records, rec)
		}
	}

	return draft, records
}
