// Package rewrite implements RewritePass: mechanical, deterministic source
// edits applied to a draft before obligation checking, so a cheap text
// transform fixes what would otherwise cost another LLM round-trip. Every
// rewrite in this package is idempotent and returns a genmodel.RewriteRecord
// describing whether it changed anything.
package rewrite

import "github.com/genforge/genforge/internal/genmodel"

func noop(id string) genmodel.RewriteRecord {
	return genmodel.RewriteRecord{ID: id, Applied: false}
}
