// Why this file: ./models/response_model.go
// This defines the execution-side structures: what a tool reports back after running
// a query, the end-to-end answer envelope the router returns, and cache statistics.

package models

import (
	"time"
)

// ExecutionOutcome is produced by a ToolExecutor after running a query.
type ExecutionOutcome struct {
	Success      bool   `json:"success"`
	UsedFallback bool   `json:"used_fallback"`
	ResultEmpty  bool   `json:"result_empty"`
	RawResult    string `json:"raw_result"`
	SQLText      string `json:"sql_text,omitempty"`
}

// Answer is the unified envelope returned by Router.Answer.
type Answer struct {
	Query             string        `json:"query"`
	Response          string        `json:"response"`
	ToolUsed          string        `json:"tool_used"`
	QuestionType      QuestionType  `json:"question_type"`
	RoutingConfidence float64       `json:"routing_confidence"`
	ResultConfidence  float64       `json:"result_confidence"`
	Cached            bool          `json:"cached"`
	CacheHits         int           `json:"cache_hits"`
	ExecutionTime     time.Duration `json:"execution_time"`
	Timestamp         time.Time     `json:"timestamp"`
}

// CacheStats summarizes result-cache state and effectiveness.
type CacheStats struct {
	TotalEntries    int     `json:"total_entries"`
	LiveEntries     int     `json:"live_entries"`
	AverageHitCount float64 `json:"average_hit_count"`
	HitRate         float64 `json:"hit_rate"`
}
