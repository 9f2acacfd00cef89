// Why this file: ./internal/tools/sqltool.go
// This is the shared machinery for the three domain database tools: regex
// pattern -> SQL translation, a SELECT-only guard, and natural-language result
// formatting. Each domain tool supplies its pattern table and row formatter.

package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/deshq-knowledge-agent/models"
	"github.com/yourusername/deshq-knowledge-agent/storage"
)

// sqlPattern maps a query regex to a SQL builder over its capture groups.
type sqlPattern struct {
	re    *regexp.Regexp
	build func(m []string) string
}

// rowFormatter renders one result row as a list-item line.
type rowFormatter func(row map[string]any) string

// SQLTool answers natural-language questions for one domain database by
// matching the query against a fixed pattern table.
type SQLTool struct {
	name      string
	noun      string // plural noun used in formatted responses
	db        *storage.DomainDB
	patterns  []sqlPattern
	formatRow rowFormatter
}

// Name returns the tool identifier.
func (t *SQLTool) Name() string { return t.name }

// Run translates the query to SQL, executes it, and formats the result.
// Failures are reported through the outcome, never panics or raw errors.
func (t *SQLTool) Run(ctx context.Context, query models.Query) models.ExecutionOutcome {
	sqlText := t.generateSQL(query.Normalized)
	if sqlText == "" {
		return models.ExecutionOutcome{
			Success:     true,
			ResultEmpty: true,
			RawResult:   fmt.Sprintf("I couldn't match your question to the %s dataset.", t.noun),
		}
	}

	if !validateSQL(sqlText) {
		return models.ExecutionOutcome{
			Success:   false,
			RawResult: "Invalid query detected. Only SELECT statements are allowed.",
			SQLText:   sqlText,
		}
	}

	if err := ctx.Err(); err != nil {
		return models.ExecutionOutcome{
			Success:   false,
			RawResult: fmt.Sprintf("Query canceled: %v", err),
			SQLText:   sqlText,
		}
	}

	rows, err := t.db.ExecuteSelect(sqlText)
	if err != nil {
		return models.ExecutionOutcome{
			Success:   false,
			RawResult: fmt.Sprintf("Error querying %s database: %v", t.noun, err),
			SQLText:   sqlText,
		}
	}

	text, empty := t.formatResults(rows, sqlText)
	return models.ExecutionOutcome{
		Success:     true,
		ResultEmpty: empty,
		RawResult:   text,
		SQLText:     sqlText,
	}
}

// generateSQL returns the SQL for the first matching pattern, or "".
func (t *SQLTool) generateSQL(normalized string) string {
	for _, p := range t.patterns {
		if m := p.re.FindStringSubmatch(normalized); m != nil {
			return p.build(m)
		}
	}
	return ""
}

// validateSQL allows only plain SELECT statements.
func validateSQL(sqlText string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sqlText))
	if !strings.HasPrefix(upper, "SELECT") {
		return false
	}
	for _, kw := range []string{
		"DROP", "DELETE", "UPDATE", "INSERT", "CREATE", "ALTER",
		"TRUNCATE", "EXEC", "UNION", "MERGE", ";",
	} {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	return true
}

// formatResults renders rows as natural language and reports emptiness.
func (t *SQLTool) formatResults(rows []map[string]any, sqlText string) (string, bool) {
	if strings.Contains(strings.ToUpper(sqlText), "COUNT") {
		count := countFromRows(rows)
		if count == 0 {
			return fmt.Sprintf("Found no %s matching your criteria.", t.noun), true
		}
		return fmt.Sprintf("Found %d %s matching your criteria.", count, t.noun), false
	}

	if len(rows) == 0 {
		return fmt.Sprintf("No %s found matching your query.", t.noun), true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s:\n", len(rows), t.noun)
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.formatRow(rows[i]))
	}
	if len(rows) > limit {
		fmt.Fprintf(&b, "... and %d more %s.", len(rows)-limit, t.noun)
	}
	return strings.TrimRight(b.String(), "\n"), false
}

func countFromRows(rows []map[string]any) int64 {
	if len(rows) == 0 {
		return 0
	}
	for _, key := range []string{"total", "count", "COUNT(*)"} {
		if v, ok := rows[0][key]; ok {
			return asInt64(v)
		}
	}
	return int64(len(rows))
}

// titleCase uppercases the first letter only, matching how the seed data
// capitalizes enum-ish text columns.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return "Unknown"
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}
