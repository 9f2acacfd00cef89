package tools

import (
	"fmt"
	"regexp"

	"github.com/yourusername/deshq-knowledge-agent/storage"
)

// NewHospitalsTool answers questions about medical facilities: bed capacity,
// emergency services, specialties, public/private split, counts.
func NewHospitalsTool(db *storage.DomainDB) *SQLTool {
	return &SQLTool{
		name: "hospitals",
		noun: "hospitals",
		db:   db,
		patterns: []sqlPattern{
			// Count queries
			{regexp.MustCompile(`how many.*hospitals?.*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT COUNT(*) as total FROM hospitals WHERE location LIKE '%%%s%%'", m[1])
			}},
			{regexp.MustCompile(`how many.*public.*hospitals?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM hospitals WHERE public_private = 'Public'"
			}},
			{regexp.MustCompile(`how many.*private.*hospitals?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM hospitals WHERE public_private = 'Private'"
			}},
			{regexp.MustCompile(`how many.*teaching.*hospitals?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM hospitals WHERE type LIKE '%Teaching%'"
			}},
			{regexp.MustCompile(`how many.*hospitals?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM hospitals"
			}},

			// Bed capacity queries
			{regexp.MustCompile(`more than (\d+) beds?`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, bed_capacity FROM hospitals WHERE bed_capacity > %s ORDER BY bed_capacity DESC", m[1])
			}},
			{regexp.MustCompile(`at least (\d+) beds?`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, bed_capacity FROM hospitals WHERE bed_capacity >= %s ORDER BY bed_capacity DESC", m[1])
			}},
			{regexp.MustCompile(`less than (\d+) beds?`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, bed_capacity FROM hospitals WHERE bed_capacity < %s ORDER BY bed_capacity", m[1])
			}},
			{regexp.MustCompile(`largest.*(bed|capacity)`), func(m []string) string {
				return "SELECT name, location, bed_capacity, type FROM hospitals ORDER BY bed_capacity DESC LIMIT 10"
			}},

			// Emergency services
			{regexp.MustCompile(`without.*emergency`), func(m []string) string {
				return "SELECT name, location, bed_capacity, type FROM hospitals WHERE emergency_services = 0 ORDER BY name"
			}},
			{regexp.MustCompile(`emergency`), func(m []string) string {
				return "SELECT name, location, bed_capacity, type FROM hospitals WHERE emergency_services = 1 ORDER BY name"
			}},

			// Specialties
			{regexp.MustCompile(`(cardiology|neurology|oncology|pediatrics|orthopedics|nephrology)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, specialties FROM hospitals WHERE specialties LIKE '%%%s%%'", titleCase(m[1]))
			}},

			// Location-based queries
			{regexp.MustCompile(`public.*hospitals?.*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, bed_capacity, type FROM hospitals WHERE public_private = 'Public' AND location LIKE '%%%s%%'", m[1])
			}},
			{regexp.MustCompile(`private.*hospitals?.*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, bed_capacity, type FROM hospitals WHERE public_private = 'Private' AND location LIKE '%%%s%%'", m[1])
			}},
			{regexp.MustCompile(`(hospitals?|clinics?|medical).*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, type, bed_capacity, location FROM hospitals WHERE location LIKE '%%%s%%' ORDER BY name", m[2])
			}},

			// Listings
			{regexp.MustCompile(`(list|show|find|display).*hospitals?`), func(m []string) string {
				return "SELECT name, type, location, bed_capacity FROM hospitals ORDER BY name"
			}},

			// Generic fallback
			{regexp.MustCompile(`hospital|medical|clinic|healthcare|doctor|patient|bed`), func(m []string) string {
				return "SELECT name, type, location, bed_capacity FROM hospitals ORDER BY name LIMIT 10"
			}},
		},
		formatRow: func(row map[string]any) string {
			line := asString(row["name"])
			if typ, ok := row["type"]; ok {
				line += fmt.Sprintf(" (%s)", asString(typ))
			}
			if loc, ok := row["location"]; ok {
				line += fmt.Sprintf(" in %s", asString(loc))
			}
			if beds, ok := row["bed_capacity"]; ok && beds != nil {
				line += fmt.Sprintf(", %d beds", asInt64(beds))
			}
			if sp, ok := row["specialties"]; ok {
				line += fmt.Sprintf(" - %s", asString(sp))
			}
			return line
		},
	}
}
