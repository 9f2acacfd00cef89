// Why this file: ./internal/classifier/lexicon.go
// This holds the static weighted keyword tables per tool, the priority-ordered
// question-type patterns, and the location gazetteer. Pure data, no behavior -
// constructed once at startup and passed by reference into the classifier.

package classifier

import (
	"github.com/yourusername/deshq-knowledge-agent/models"
)

// Keyword is a weighted lexicon entry. Multi-word terms are matched as fixed
// phrases; single words are matched whole-word only.
type Keyword struct {
	Term   string
	Weight float64
}

// questionPattern maps fixed phrases to a question type. Patterns are
// evaluated in slice order; the first type with any match wins.
type questionPattern struct {
	Type    models.QuestionType
	Phrases []string
}

// Lexicon is the immutable classification configuration.
type Lexicon struct {
	toolKeywords     map[string][]Keyword
	questionPatterns []questionPattern
	gazetteer        []gazetteerEntry
}

// gazetteerEntry pairs a normalized place name with its display form.
type gazetteerEntry struct {
	Normalized string
	Display    string
}

// DefaultLexicon builds the built-in lexicon for the Bangladesh knowledge
// domains. Weights: plain domain words 1.0, fixed phrases 2.0, the
// analysis/economy terms that strongly indicate web search 3.0.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		toolKeywords: map[string][]Keyword{
			models.ToolInstitutions: {
				{Term: "university", Weight: 1.0},
				{Term: "universities", Weight: 1.0},
				{Term: "college", Weight: 1.0},
				{Term: "colleges", Weight: 1.0},
				{Term: "institution", Weight: 1.0},
				{Term: "institutions", Weight: 1.0},
				{Term: "education", Weight: 1.0},
				{Term: "educational", Weight: 1.0},
				{Term: "school", Weight: 1.0},
				{Term: "academic", Weight: 1.0},
				{Term: "student", Weight: 1.0},
				{Term: "students", Weight: 1.0},
				{Term: "faculty", Weight: 1.0},
				{Term: "degree", Weight: 1.0},
				{Term: "degrees", Weight: 1.0},
				{Term: "campus", Weight: 1.0},
				{Term: "university of", Weight: 2.0},
				{Term: "college of", Weight: 2.0},
				{Term: "institute of", Weight: 2.0},
				{Term: "university in", Weight: 2.0},
				{Term: "universities in", Weight: 2.0},
				{Term: "colleges in", Weight: 2.0},
				{Term: "institutions in", Weight: 2.0},
			},
			models.ToolHospitals: {
				{Term: "hospital", Weight: 1.0},
				{Term: "hospitals", Weight: 1.0},
				{Term: "medical", Weight: 1.0},
				{Term: "healthcare", Weight: 1.0},
				{Term: "clinic", Weight: 1.0},
				{Term: "clinics", Weight: 1.0},
				{Term: "doctor", Weight: 1.0},
				{Term: "doctors", Weight: 1.0},
				{Term: "nurse", Weight: 1.0},
				{Term: "patient", Weight: 1.0},
				{Term: "patients", Weight: 1.0},
				{Term: "bed", Weight: 1.0},
				{Term: "beds", Weight: 1.0},
				{Term: "emergency", Weight: 1.0},
				{Term: "surgery", Weight: 1.0},
				{Term: "medical college", Weight: 2.0},
				{Term: "health center", Weight: 2.0},
				{Term: "medical facility", Weight: 2.0},
				{Term: "hospital in", Weight: 2.0},
				{Term: "hospitals in", Weight: 2.0},
			},
			models.ToolRestaurants: {
				{Term: "restaurant", Weight: 1.0},
				{Term: "restaurants", Weight: 1.0},
				{Term: "food", Weight: 1.0},
				{Term: "dining", Weight: 1.0},
				{Term: "eat", Weight: 1.0},
				{Term: "meal", Weight: 1.0},
				{Term: "cuisine", Weight: 1.0},
				{Term: "menu", Weight: 1.0},
				{Term: "dish", Weight: 1.0},
				{Term: "dishes", Weight: 1.0},
				{Term: "cooking", Weight: 1.0},
				{Term: "chef", Weight: 1.0},
				{Term: "rated", Weight: 1.0},
				{Term: "ratings", Weight: 1.0},
				{Term: "restaurant in", Weight: 2.0},
				{Term: "restaurants in", Weight: 2.0},
				{Term: "food in", Weight: 2.0},
				{Term: "dining in", Weight: 2.0},
			},
			models.ToolWebSearch: {
				{Term: "policy", Weight: 1.0},
				{Term: "policies", Weight: 1.0},
				{Term: "government", Weight: 1.0},
				{Term: "history", Weight: 1.0},
				{Term: "cultural", Weight: 1.0},
				{Term: "culture", Weight: 1.0},
				{Term: "festival", Weight: 1.0},
				{Term: "festivals", Weight: 1.0},
				{Term: "development", Weight: 1.0},
				{Term: "statistics", Weight: 1.0},
				{Term: "population", Weight: 1.0},
				{Term: "weather", Weight: 1.0},
				{Term: "news", Weight: 1.0},
				{Term: "current", Weight: 1.0},
				{Term: "definition", Weight: 1.0},
				{Term: "overview", Weight: 1.0},
				{Term: "background", Weight: 1.0},
				{Term: "what is", Weight: 2.0},
				{Term: "who is", Weight: 2.0},
				{Term: "when was", Weight: 2.0},
				{Term: "how to", Weight: 2.0},
				{Term: "inflation", Weight: 3.0},
				{Term: "impact", Weight: 3.0},
				{Term: "analysis", Weight: 3.0},
				{Term: "trend", Weight: 3.0},
				{Term: "growth", Weight: 3.0},
				{Term: "market", Weight: 3.0},
				{Term: "economy", Weight: 3.0},
				{Term: "economic", Weight: 3.0},
				{Term: "finance", Weight: 3.0},
				{Term: "investment", Weight: 3.0},
				{Term: "budget", Weight: 3.0},
			},
		},
		questionPatterns: []questionPattern{
			{Type: models.QuestionCount, Phrases: []string{
				"how many", "number of", "count of", "total number", "how much",
			}},
			{Type: models.QuestionList, Phrases: []string{
				"list", "list all", "show all", "find all", "get all", "display all",
			}},
			{Type: models.QuestionComparison, Phrases: []string{
				"compare", "versus", "vs", "better than", "compared to",
			}},
			{Type: models.QuestionFilter, Phrases: []string{
				"with", "without", "established after", "established before",
				"more than", "less than", "at least", "above", "below",
			}},
		},
		gazetteer: []gazetteerEntry{
			{Normalized: "dhaka university", Display: "Dhaka University"},
			{Normalized: "coxs bazar", Display: "Cox's Bazar"},
			{Normalized: "dhaka", Display: "Dhaka"},
			{Normalized: "chattogram", Display: "Chattogram"},
			{Normalized: "chittagong", Display: "Chittagong"},
			{Normalized: "rajshahi", Display: "Rajshahi"},
			{Normalized: "khulna", Display: "Khulna"},
			{Normalized: "sylhet", Display: "Sylhet"},
			{Normalized: "barisal", Display: "Barisal"},
			{Normalized: "rangpur", Display: "Rangpur"},
			{Normalized: "mymensingh", Display: "Mymensingh"},
			{Normalized: "bangladesh", Display: "Bangladesh"},
		},
	}
}

// Keywords returns the keyword table for a tool.
func (l *Lexicon) Keywords(tool string) []Keyword {
	return l.toolKeywords[tool]
}
