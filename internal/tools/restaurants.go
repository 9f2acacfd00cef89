package tools

import (
	"fmt"
	"regexp"

	"github.com/yourusername/deshq-knowledge-agent/storage"
)

// NewRestaurantsTool answers questions about restaurants: cuisine types,
// ratings, price ranges, locations, counts.
func NewRestaurantsTool(db *storage.DomainDB) *SQLTool {
	return &SQLTool{
		name: "restaurants",
		noun: "restaurants",
		db:   db,
		patterns: []sqlPattern{
			// Count queries
			{regexp.MustCompile(`how many.*restaurants?.*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT COUNT(*) as total FROM restaurants WHERE location LIKE '%%%s%%'", m[1])
			}},
			{regexp.MustCompile(`how many.*(bangladeshi|italian|american|chinese|indian|continental).*restaurants?`), func(m []string) string {
				return fmt.Sprintf("SELECT COUNT(*) as total FROM restaurants WHERE cuisine_type LIKE '%%%s%%'", titleCase(m[1]))
			}},
			{regexp.MustCompile(`how many.*restaurants?`), func(m []string) string {
				return "SELECT COUNT(*) as total FROM restaurants"
			}},

			// Rating queries
			{regexp.MustCompile(`rating.*above (\d+(?: \d+)?)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, cuisine_type, rating, location FROM restaurants WHERE rating > %s ORDER BY rating DESC", ratingLiteral(m[1]))
			}},
			{regexp.MustCompile(`rating.*below (\d+(?: \d+)?)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, cuisine_type, rating, location FROM restaurants WHERE rating < %s ORDER BY rating DESC", ratingLiteral(m[1]))
			}},
			{regexp.MustCompile(`(highest rated|best|top|high ratings?)`), func(m []string) string {
				return "SELECT name, cuisine_type, rating, location FROM restaurants ORDER BY rating DESC LIMIT 10"
			}},

			// Cuisine + location
			{regexp.MustCompile(`(bangladeshi|italian|american|chinese|indian|continental).*(restaurants?|food|cuisine|dining).*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, rating, price_range, specialties FROM restaurants WHERE cuisine_type LIKE '%%%s%%' AND location LIKE '%%%s%%'", titleCase(m[1]), m[3])
			}},
			{regexp.MustCompile(`(serve|serving).*(bangladeshi|italian|american|chinese|indian|continental)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, rating, price_range FROM restaurants WHERE cuisine_type LIKE '%%%s%%' ORDER BY rating DESC", titleCase(m[2]))
			}},
			{regexp.MustCompile(`(bangladeshi|italian|american|chinese|indian|continental).*(restaurants?|food|cuisine)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, location, rating, price_range FROM restaurants WHERE cuisine_type LIKE '%%%s%%' ORDER BY rating DESC", titleCase(m[1]))
			}},

			// Location
			{regexp.MustCompile(`(restaurants?|food|dining|eat).*in (\w+)`), func(m []string) string {
				return fmt.Sprintf("SELECT name, cuisine_type, rating, price_range FROM restaurants WHERE location LIKE '%%%s%%' ORDER BY rating DESC", m[2])
			}},

			// Listings
			{regexp.MustCompile(`(list|show|find|display).*restaurants?`), func(m []string) string {
				return "SELECT name, cuisine_type, location, rating FROM restaurants ORDER BY name"
			}},

			// Generic fallback
			{regexp.MustCompile(`restaurant|food|dining|cuisine|meal|menu|dish|eat`), func(m []string) string {
				return "SELECT name, cuisine_type, location, rating FROM restaurants ORDER BY rating DESC LIMIT 10"
			}},
		},
		formatRow: func(row map[string]any) string {
			line := asString(row["name"])
			if cuisine, ok := row["cuisine_type"]; ok {
				line += fmt.Sprintf(" (%s)", asString(cuisine))
			}
			if loc, ok := row["location"]; ok {
				line += fmt.Sprintf(" in %s", asString(loc))
			}
			if rating, ok := row["rating"]; ok && rating != nil {
				line += fmt.Sprintf(", rated %.1f", asFloat(rating))
			}
			if price, ok := row["price_range"]; ok {
				line += fmt.Sprintf(" %s", asString(price))
			}
			return line
		},
	}
}

// ratingLiteral rebuilds a decimal rating from normalized text, where
// punctuation stripping turned "4.5" into "4 5".
func ratingLiteral(m string) string {
	out := make([]byte, 0, len(m))
	dotted := false
	for i := 0; i < len(m); i++ {
		if m[i] == ' ' {
			if !dotted {
				out = append(out, '.')
				dotted = true
			}
			continue
		}
		out = append(out, m[i])
	}
	return string(out)
}
