package storage

import (
	"time"

	"github.com/yourusername/deshq-knowledge-agent/models"
)

// LoggedQuery is one query-history row.
type LoggedQuery struct {
	ID                int64     `json:"id"`
	SessionID         string    `json:"session_id"`
	QueryText         string    `json:"query_text"`
	QuestionType      string    `json:"question_type"`
	ToolUsed          string    `json:"tool_used"`
	RoutingConfidence float64   `json:"routing_confidence"`
	ResultConfidence  float64   `json:"result_confidence"`
	Cached            bool      `json:"cached"`
	CacheHits         int       `json:"cache_hits"`
	DurationMs        int64     `json:"duration_ms"`
	CreatedAt         time.Time `json:"created_at"`
}

// LogQuery records an answered query in the history log.
func (s *Store) LogQuery(sessionID string, questionType models.QuestionType, answer *models.Answer) error {
	_, err := s.db.Exec(`
        INSERT INTO query_log
        (session_id, query_text, question_type, tool_used, routing_confidence,
         result_confidence, cached, cache_hits, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, answer.Query, string(questionType), answer.ToolUsed,
		answer.RoutingConfidence, answer.ResultConfidence,
		answer.Cached, answer.CacheHits, answer.ExecutionTime.Milliseconds())
	return err
}

// RecentQueries returns the most recent history rows, newest first.
func (s *Store) RecentQueries(limit int) ([]LoggedQuery, error) {
	rows, err := s.db.Query(`
        SELECT id, session_id, query_text, question_type, tool_used,
               routing_confidence, result_confidence, cached, cache_hits,
               duration_ms, created_at
        FROM query_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logged []LoggedQuery
	for rows.Next() {
		var q LoggedQuery
		if err := rows.Scan(&q.ID, &q.SessionID, &q.QueryText, &q.QuestionType,
			&q.ToolUsed, &q.RoutingConfidence, &q.ResultConfidence,
			&q.Cached, &q.CacheHits, &q.DurationMs, &q.CreatedAt); err != nil {
			return nil, err
		}
		logged = append(logged, q)
	}
	return logged, rows.Err()
}

// SessionStats aggregates the history log for one session.
type SessionStats struct {
	TotalQueries  int            `json:"total_queries"`
	AvgConfidence float64        `json:"avg_confidence"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	CachedCount   int            `json:"cached_count"`
	ToolUsage     map[string]int `json:"tool_usage"`
}

// GetSessionStats summarizes one session's logged queries.
func (s *Store) GetSessionStats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{ToolUsage: make(map[string]int)}
	err := s.db.QueryRow(`
        SELECT COUNT(*),
               COALESCE(AVG(result_confidence), 0),
               COALESCE(AVG(duration_ms), 0),
               COALESCE(SUM(CASE WHEN cached THEN 1 ELSE 0 END), 0)
        FROM query_log WHERE session_id = ?`, sessionID).Scan(
		&stats.TotalQueries, &stats.AvgConfidence, &stats.AvgDurationMs, &stats.CachedCount)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
        SELECT tool_used, COUNT(*)
        FROM query_log WHERE session_id = ? GROUP BY tool_used`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tool string
		var count int
		if err := rows.Scan(&tool, &count); err != nil {
			return nil, err
		}
		stats.ToolUsage[tool] = count
	}
	return stats, rows.Err()
}
