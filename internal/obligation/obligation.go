// Package obligation implements ObligationChecker: a priority-ordered catalog
// of pure, deterministic structural checks run against a generated draft.
// Evaluation stops at the first violation (spec.md §4.3); the catalog shape
// generalizes the teacher's Agent/BaseAgent sequential-chain pattern from a
// fixed list of one-method stubs into a table of named rules per language.
package obligation

import (
	"github.com/genforge/genforge/internal/genmodel"
)

// Obligation is one named structural rule, evaluated in Priority order.
type Obligation interface {
	ID() string
	Priority() int
	Check(ctx CheckContext) genmodel.ObligationResult
}

// BaseObligation carries the id/priority pair every Obligation embeds,
// mirroring the teacher's BaseAgent.
type BaseObligation struct {
	id       string
	priority int
}

func NewBaseObligation(id string, priority int) *BaseObligation {
	return &BaseObligation{id: id, priority: priority}
}

func (b *BaseObligation) ID() string    { return b.id }
func (b *BaseObligation) Priority() int { return b.priority }

// CheckFunc is the predicate body of a RuleObligation.
type CheckFunc func(ctx CheckContext) (ok bool, message string)

// RuleObligation adapts a CheckFunc into the Obligation interface. Every
// per-language catalog in this package is a slice of these.
type RuleObligation struct {
	*BaseObligation
	fn CheckFunc
}

func NewRule(id string, priority int, fn CheckFunc) *RuleObligation {
	return &RuleObligation{BaseObligation: NewBaseObligation(id, priority), fn: fn}
}

func (r *RuleObligation) Check(ctx CheckContext) genmodel.ObligationResult {
	ok, msg := r.fn(ctx)
	return genmodel.ObligationResult{ID: r.ID(), OK: ok, Message: msg}
}

// CheckContext bundles everything an Obligation needs to evaluate one draft
// against its originating slot.
type CheckContext struct {
	Slot  genmodel.ProblemSlot
	Draft genmodel.GeneratedProblemDraft
}

// StarterUnits returns the starter compilation units, keyed by file path for
// workspace-shaped drafts or "starter_code" for single-file drafts.
func (c CheckContext) StarterUnits() map[string]string {
	if len(c.Draft.Workspace) > 0 {
		return c.Draft.Workspace
	}
	if c.Draft.StarterCode != "" {
		return map[string]string{"starter_code": c.Draft.StarterCode}
	}
	return nil
}

// ReferenceUnits returns the reference compilation units, analogous to
// StarterUnits.
func (c CheckContext) ReferenceUnits() map[string]string {
	if len(c.Draft.ReferenceWorkspace) > 0 {
		return c.Draft.ReferenceWorkspace
	}
	if c.Draft.ReferenceSolution != "" {
		return map[string]string{"reference_solution": c.Draft.ReferenceSolution}
	}
	return nil
}

// HasTopic reports whether slot carries the given topic as primary or secondary.
func (c CheckContext) HasTopic(topic string) bool {
	return c.Slot.PrimaryTopic() == topic || c.Slot.SecondaryTopic() == topic
}

// Violation is the typed obligation failure that stops evaluation (spec.md §4.3).
type Violation struct {
	ID      string
	Message string
}

func (v *Violation) Error() string { return v.ID + ": " + v.Message }

// Checker runs a language's obligation catalog in priority order, stopping
// at the first violation.
type Checker struct {
	catalog []Obligation
}

// NewChecker builds a Checker for the given language and slot; the catalog
// is resolved once so repeated draft attempts for the same slot reuse it.
func NewChecker(lang genmodel.Language) *Checker {
	return &Checker{catalog: CatalogFor(lang)}
}

// CheckAll runs every obligation in priority order, returning every result
// evaluated so far plus the first violation (nil if every check passed).
func (c *Checker) CheckAll(ctx CheckContext) ([]genmodel.ObligationResult, *Violation) {
	results := make([]genmodel.ObligationResult, 0, len(c.catalog))
	for _, o := range c.catalog {
		result := o.Check(ctx)
		results = append(results, result)
		if !result.OK {
			return results, &Violation{ID: result.ID, Message: result.Message}
		}
	}
	return results, nil
}

// CatalogFor returns the priority-ordered obligation list for a language.
// The slice is already sorted by Priority; callers must not mutate it.
func CatalogFor(lang genmodel.Language) []Obligation {
	switch lang {
	case genmodel.LanguageJava:
		return javaCatalog
	case genmodel.LanguagePython:
		return pythonCatalog
	case genmodel.LanguageCPP:
		return cppCatalog
	case genmodel.LanguageSQL:
		return sqlCatalog
	default:
		return nil
	}
}
