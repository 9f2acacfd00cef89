package tools

import (
	"fmt"
	"regexp"

	"github.com/yourusername/deshq-knowledge-agent/storage"
)

// NewInstitutionsTool answers questions about educational institutions:
// universities, colleges, government institutions, degree offerings, counts.
func NewInstitutionsTool(db *storage.DomainDB) *SQLTool {
	return &SQLTool{
		name: "institutions",
		noun: "institutions",
		db:   db,
		patterns: []sqlPattern{
			// Count queries
			{regexp.MustCompile(`how many.*universit(y|ies).*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT COUNT(*) as total FROM institutions WHERE type LIKE '%%University%%' AND location LIKE '%%%s%%'", m[2])
			}},
			{regexp.MustCompile(`how many.*universit(y|ies)`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM institutions WHERE type LIKE '%University%'"
			}},
			{regexp.MustCompile(`how many.*colleges?.*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT COUNT(*) as total FROM institutions WHERE type LIKE '%%College%%' AND location LIKE '%%%s%%'", m[1])
			}},
			{regexp.MustCompile(`how many.*colleges?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM institutions WHERE type LIKE '%College%'"
			}},
			{regexp.MustCompile(`how many.*government.*institutions?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM institutions WHERE public_private = 'Public' AND type LIKE '%Government%'"
			}},
			{regexp.MustCompile(`how many.*institutions?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM institutions"
			}},

			// Establishment year queries
			{regexp.MustCompile(`established after (\d{4})`), func(m []string) string {
				return fmt.Sprintf("SELECT name, type, established FROM institutions WHERE established > %s ORDER BY established", m[1])
			}},
			{regexp.MustCompile(`established before (\d{4})`), func(m []string) string {
				return fmt.Sprintf("SELECT name, type, established FROM institutions WHERE established < %s ORDER BY established", m[1])
			}},
			{regexp.MustCompile(`established in (\d{4})`), func(m []string) string {
				return fmt.Sprintf("SELECT name, type, established FROM institutions WHERE established = %s", m[1])
			}},

			// Degree and specialization queries
			{regexp.MustCompile(`offer.*medical`), func(m []string) string {
				return "SELECT name, location, degrees_offered FROM institutions WHERE degrees_offered LIKE '%Medic%' OR specialization LIKE '%Medic%'"
			}},
			{regexp.MustCompile(`offer.*engineering`), func(m []string) string {
				return "SELECT name, location, degrees_offered FROM institutions WHERE degrees_offered LIKE '%Engineering%' OR specialization LIKE '%Engineering%'"
			}},

			// Location-based queries
			{regexp.MustCompile(`universit(y|ies).*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, established, students_count FROM institutions WHERE type LIKE '%%University%%' AND location LIKE '%%%s%%' ORDER BY name", m[2])
			}},
			{regexp.MustCompile(`colleges?.*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, established, students_count FROM institutions WHERE type LIKE '%%College%%' AND location LIKE '%%%s%%' ORDER BY name", m[1])
			}},
			{regexp.MustCompile(`institutions?.*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, type, location FROM institutions WHERE location LIKE '%%%s%%' ORDER BY name", m[1])
			}},

			// Public/private and listings
			{regexp.MustCompile(`government.*institutions?|public.*institutions?`), func(m []string) string {
				return "SELECT name, type, location FROM institutions WHERE public_private = 'Public' ORDER BY name"
			}},
			{regexp.MustCompile(`private.*(universit|college|institution)`), func(m []string) string {
				return "SELECT name, type, location FROM institutions WHERE public_private = 'Private' ORDER BY name"
			}},
			{regexp.MustCompile(`largest.*students?`), func(m []string) string {
				return "SELECT name, type, students_count FROM institutions ORDER BY students_count DESC LIMIT 5"
			}},
			{regexp.MustCompile(`(list|show|find|display).*universit(y|ies)`), func(m []string) string {
				return "SELECT name, location, established, students_count FROM institutions WHERE type LIKE '%University%' ORDER BY name"
			}},
			{regexp.MustCompile(`(list|show|find|display).*colleges?`), func(m []string) string {
				return "SELECT name, location, established, students_count FROM institutions WHERE type LIKE '%College%' ORDER BY name"
			}},
			{regexp.MustCompile(`(list|show|find|display).*institutions?`), func(m []string) string {
				return "SELECT name, type, location FROM institutions ORDER BY name"
			}},

			// Generic fallback when the classifier sent us something vaguer
			{regexp.MustCompile(`universit|college|institution|school|campus|student|degree`), func(m []string) string {
				return "SELECT name, type, location FROM institutions ORDER BY name LIMIT 10"
			}},
		},
		formatRow: func(row map[string]any) string {
			line := asString(row["name"])
			if typ, ok := row["type"]; ok {
				line += fmt.Sprintf(" - %s", asString(typ))
			}
			if loc, ok := row["location"]; ok {
				line += fmt.Sprintf(" in %s", asString(loc))
			}
			if est, ok := row["established"]; ok && est != nil {
				line += fmt.Sprintf(" (Est. %d)", asInt64(est))
			}
			if n, ok := row["students_count"]; ok && n != nil {
				line += fmt.Sprintf(", %d students", asInt64(n))
			}
			return line
		},
	}
}
