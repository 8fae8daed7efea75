package obligation

import (
	"encoding/json"
	"fmt"

	"github.com/genforge/genforge/internal/genmodel"
)

// sqlTestSuite is the JSON shape a SQL draft's TestSuite field must parse
// into: a schema plus an ordered list of expected-row specifications.
type sqlTestSuite struct {
	SchemaSQL   string           `json:"schema_sql"`
	ExpectedRows []sqlExpectedRow `json:"expected_rows"`
}

type sqlExpectedRow struct {
	Query string           `json:"query"`
	Rows  []map[string]any `json:"rows"`
}

var sqlCatalog = []Obligation{
	NewRule("sql.test_suite_is_valid_json_document", 1, func(ctx CheckContext) (bool, string) {
		var doc sqlTestSuite
		if err := json.Unmarshal([]byte(ctx.Draft.TestSuite), &doc); err != nil {
			return false, fmt.Sprintf("test suite is not a valid JSON document: %v", err)
		}
		return true, ""
	}),

	NewRule("sql.schema_sql_present", 2, func(ctx CheckContext) (bool, string) {
		var doc sqlTestSuite
		if err := json.Unmarshal([]byte(ctx.Draft.TestSuite), &doc); err != nil {
			return false, "test suite is not valid JSON"
		}
		if doc.SchemaSQL == "" {
			return false, "test suite has no schema_sql"
		}
		return true, ""
	}),

	NewRule("sql.exactly_8_expected_rows", 3, func(ctx CheckContext) (bool, string) {
		var doc sqlTestSuite
		if err := json.Unmarshal([]byte(ctx.Draft.TestSuite), &doc); err != nil {
			return false, "test suite is not valid JSON"
		}
		if len(doc.ExpectedRows) != genmodel.TestCaseCount {
			return false, fmt.Sprintf("test suite has %d expected_rows entries, want %d", len(doc.ExpectedRows), genmodel.TestCaseCount)
		}
		for i, row := range doc.ExpectedRows {
			if row.Query == "" {
				return false, fmt.Sprintf("expected_rows[%d] has no query", i)
			}
		}
		return true, ""
	}),
}
