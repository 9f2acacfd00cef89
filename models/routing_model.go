// Why this file: ./models/routing_model.go
// This defines the data structures for query routing: the normalized query, per-tool
// scores, and the immutable RoutingDecision the classifier emits. The router and the
// confidence scorer both consume RoutingDecision, so it lives in the shared models package.

package models

import (
	"time"
)

// QuestionType represents the shape of question being asked
type QuestionType string

const (
	QuestionCount      QuestionType = "count"
	QuestionList       QuestionType = "list"
	QuestionFilter     QuestionType = "filter"
	QuestionComparison QuestionType = "comparison"
	QuestionGeneral    QuestionType = "general"
)

// Tool identifiers. The declaration order here is also the fixed
// tie-break priority order used by the classifier.
const (
	ToolInstitutions = "institutions"
	ToolHospitals    = "hospitals"
	ToolRestaurants  = "restaurants"
	ToolWebSearch    = "web_search"
)

// ToolPriority lists every routable tool in tie-break priority order.
func ToolPriority() []string {
	return []string{ToolInstitutions, ToolHospitals, ToolRestaurants, ToolWebSearch}
}

// Query represents a single user query. Raw preserves the original text for
// display; Normalized is the lowercased, punctuation-stripped form used for
// matching and cache keying.
type Query struct {
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized"`
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id,omitempty"`
}

// ToolScores maps tool identifier to its non-negative match score.
// Every routable tool is present even when its score is zero.
type ToolScores map[string]float64

// Max returns the highest score in the map.
func (ts ToolScores) Max() float64 {
	max := 0.0
	for _, s := range ts {
		if s > max {
			max = s
		}
	}
	return max
}

// Total returns the sum of all scores.
func (ts ToolScores) Total() float64 {
	total := 0.0
	for _, s := range ts {
		total += s
	}
	return total
}

// RoutingDecision is the classifier's output. It is immutable once produced:
// identical input always yields an identical decision.
type RoutingDecision struct {
	PrimaryTool  string       `json:"primary_tool"`
	Confidence   float64      `json:"confidence"`
	QuestionType QuestionType `json:"question_type"`
	HasLocation  bool         `json:"has_location"`
	Location     string       `json:"location,omitempty"`
	ToolScores   ToolScores   `json:"tool_scores"`
}
