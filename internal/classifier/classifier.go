// Why this file: ./internal/classifier/classifier.go
// This implements the deterministic query classifier: normalization, weighted
// whole-word lexicon scoring with a positional bonus, question-type detection,
// longest-match location extraction, and the documented tie-break ladder.
// Classify is pure - identical input always yields an identical decision.

package classifier

import (
	"strings"
	"unicode"

	"github.com/yourusername/deshq-knowledge-agent/models"
)

const (
	// positionalBonus is the fraction of a keyword's weight added when the
	// match starts in the first third of the normalized query.
	positionalBonus = 0.25

	confidenceFloor = 0.05
	confidenceCeil  = 0.95
)

// Classifier scores queries against a lexicon and emits routing decisions.
type Classifier struct {
	lexicon *Lexicon
}

// New creates a classifier over the given lexicon.
func New(lexicon *Lexicon) *Classifier {
	return &Classifier{lexicon: lexicon}
}

// Normalize lowercases the input, strips punctuation (digits survive), and
// collapses runs of whitespace. The result is the matching and cache-key form.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Classify routes a raw query string. It never fails: empty or unmatched
// input degrades to web_search with zero confidence.
func (c *Classifier) Classify(raw string) models.RoutingDecision {
	normalized := Normalize(raw)

	scores := models.ToolScores{}
	matched := map[string][]string{}
	for _, tool := range models.ToolPriority() {
		scores[tool] = 0
	}

	if normalized == "" {
		return models.RoutingDecision{
			PrimaryTool:  models.ToolWebSearch,
			Confidence:   0.0,
			QuestionType: models.QuestionGeneral,
			ToolScores:   scores,
		}
	}

	// Pad with sentinels so every term match is word-bounded; normalization
	// already removed punctuation, so spaces are the only boundaries.
	padded := " " + normalized + " "
	firstThird := len(normalized) / 3

	for _, tool := range models.ToolPriority() {
		for _, kw := range c.lexicon.Keywords(tool) {
			idx := strings.Index(padded, " "+kw.Term+" ")
			if idx < 0 {
				continue
			}
			scores[tool] += kw.Weight
			if idx <= firstThird {
				scores[tool] += kw.Weight * positionalBonus
			}
			matched[tool] = append(matched[tool], kw.Term)
		}
	}

	location, hasLocation := c.detectLocation(padded)
	questionType := c.detectQuestionType(padded)
	primary := c.pickPrimary(scores, matched, hasLocation)

	confidence := 0.0
	if total := scores.Total(); total > 0 && scores[primary] > 0 {
		confidence = clamp(scores[primary]/total, confidenceFloor, confidenceCeil)
	}
	if scores.Max() == 0 {
		// Nothing matched anything: universal fallback, no confidence.
		primary = models.ToolWebSearch
		confidence = 0.0
	}

	return models.RoutingDecision{
		PrimaryTool:  primary,
		Confidence:   confidence,
		QuestionType: questionType,
		HasLocation:  hasLocation,
		Location:     location,
		ToolScores:   scores,
	}
}

// detectQuestionType evaluates the priority-ordered pattern list. The first
// question type with any whole-phrase match wins; otherwise general.
func (c *Classifier) detectQuestionType(padded string) models.QuestionType {
	for _, qp := range c.lexicon.questionPatterns {
		for _, phrase := range qp.Phrases {
			if strings.Contains(padded, " "+phrase+" ") {
				return qp.Type
			}
		}
	}
	return models.QuestionGeneral
}

// detectLocation scans the gazetteer and keeps the longest matching span, so
// "dhaka university" is preferred over the bare "dhaka" inside it.
func (c *Classifier) detectLocation(padded string) (string, bool) {
	best := gazetteerEntry{}
	for _, entry := range c.lexicon.gazetteer {
		if !strings.Contains(padded, " "+entry.Normalized+" ") {
			continue
		}
		if len(entry.Normalized) > len(best.Normalized) {
			best = entry
		}
	}
	if best.Normalized == "" {
		return "", false
	}
	return best.Display, true
}

// pickPrimary resolves the argmax over tool scores with the deterministic
// tie-break ladder: location-qualified keyword match, then the fixed
// priority order (which is also declaration order).
func (c *Classifier) pickPrimary(scores models.ToolScores, matched map[string][]string, hasLocation bool) string {
	max := scores.Max()

	var tied []string
	for _, tool := range models.ToolPriority() {
		if scores[tool] == max {
			tied = append(tied, tool)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}

	if hasLocation {
		for _, tool := range tied {
			if hasLocationQualifiedMatch(matched[tool]) {
				return tool
			}
		}
	}
	// ToolPriority order already resolves the remaining tie.
	return tied[0]
}

// hasLocationQualifiedMatch reports whether any matched term is a
// location-qualified phrase ("hospital in", "restaurants in", ...).
func hasLocationQualifiedMatch(terms []string) bool {
	for _, t := range terms {
		if strings.HasSuffix(t, " in") {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
