// Why this file: ./internal/router/router.go
// This is the orchestrator: classify -> check cache -> on miss delegate to the
// routed tool (with timeout) -> score confidence -> fill cache -> return the
// unified answer envelope. Tools are resolved once at construction into a map,
// never via reflection.

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/deshq-knowledge-agent/internal/cache"
	"github.com/yourusername/deshq-knowledge-agent/internal/classifier"
	"github.com/yourusername/deshq-knowledge-agent/internal/confidence"
	"github.com/yourusername/deshq-knowledge-agent/models"
)

// ToolExecutor is the capability the domain-tool layer supplies per tool.
type ToolExecutor interface {
	Name() string
	Run(ctx context.Context, query models.Query) models.ExecutionOutcome
}

// Config holds router behavior knobs.
type Config struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	ToolTimeout  time.Duration
}

// Router composes the classifier, cache, tools and scorer.
type Router struct {
	classifier *classifier.Classifier
	scorer     *confidence.Scorer
	cache      *cache.ResultCache
	tools      map[string]ToolExecutor
	cfg        Config
	logger     *zap.Logger
}

// cachedPayload is the JSON string stored as a cache entry value, so a hit
// can reproduce the exact response text and its confidence.
type cachedPayload struct {
	Response   string  `json:"response"`
	ToolUsed   string  `json:"tool_used"`
	Confidence float64 `json:"confidence"`
}

// New builds a router. Every registered tool must have a unique name, and the
// universal fallback (web_search) must be present.
func New(cls *classifier.Classifier, scorer *confidence.Scorer, resultCache *cache.ResultCache,
	tools []ToolExecutor, cfg Config, logger *zap.Logger) (*Router, error) {

	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	toolMap := make(map[string]ToolExecutor, len(tools))
	for _, t := range tools {
		if _, dup := toolMap[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool registered: %s", t.Name())
		}
		toolMap[t.Name()] = t
	}
	if _, ok := toolMap[models.ToolWebSearch]; !ok {
		return nil, fmt.Errorf("missing required fallback tool: %s", models.ToolWebSearch)
	}

	return &Router{
		classifier: cls,
		scorer:     scorer,
		cache:      resultCache,
		tools:      toolMap,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Route exposes classification directly for diagnostics.
func (r *Router) Route(raw string) models.RoutingDecision {
	return r.classifier.Classify(raw)
}

// Answer is the end-to-end entry point: cache lookup, delegation, scoring.
// It never returns an error to the caller; failures become low-confidence
// answers.
func (r *Router) Answer(ctx context.Context, raw string) *models.Answer {
	start := time.Now()
	decision := r.classifier.Classify(raw)
	query := models.Query{
		Raw:        raw,
		Normalized: classifier.Normalize(raw),
		Timestamp:  start,
	}

	answer := &models.Answer{
		Query:             raw,
		ToolUsed:          decision.PrimaryTool,
		QuestionType:      decision.QuestionType,
		RoutingConfidence: decision.Confidence,
		Timestamp:         start,
	}

	// The cache key derives from classifier output, so an identical query
	// always lands on the same entry regardless of any later fallback.
	if r.cfg.CacheEnabled {
		if value, hits, ok := r.cache.Get(query.Normalized, decision.PrimaryTool); ok {
			var payload cachedPayload
			if err := json.Unmarshal([]byte(value), &payload); err == nil {
				answer.Response = payload.Response
				answer.ToolUsed = payload.ToolUsed
				answer.ResultConfidence = payload.Confidence
				answer.Cached = true
				answer.CacheHits = hits
				answer.ExecutionTime = time.Since(start)
				r.logger.Debug("cache hit",
					zap.String("tool", payload.ToolUsed),
					zap.Int("hits", hits))
				return answer
			}
			// Unreadable entry: drop it and fall through to execution.
			r.cache.Invalidate(query.Normalized, decision.PrimaryTool)
		}
	}

	outcome, toolUsed, timedOut := r.executeWithFallback(ctx, decision, query)
	score := r.scorer.Score(decision, outcome)

	answer.Response = r.renderResponse(outcome)
	answer.ToolUsed = toolUsed
	answer.ResultConfidence = score
	answer.ExecutionTime = time.Since(start)

	// Timeouts never touch the cache; failed and empty outcomes are not
	// cached so transient tool errors do not become sticky for a whole TTL.
	if r.cfg.CacheEnabled && outcome.Success && !outcome.ResultEmpty && !timedOut {
		payload, err := json.Marshal(cachedPayload{
			Response:   answer.Response,
			ToolUsed:   toolUsed,
			Confidence: score,
		})
		if err == nil {
			r.cache.Set(query.Normalized, decision.PrimaryTool, string(payload), r.cfg.CacheTTL)
		}
	}

	r.logger.Debug("query answered",
		zap.String("tool", toolUsed),
		zap.Float64("routing_confidence", decision.Confidence),
		zap.Float64("result_confidence", score),
		zap.Bool("fallback", outcome.UsedFallback),
		zap.Duration("took", answer.ExecutionTime))
	return answer
}

// executeWithFallback runs the routed tool under the configured timeout and,
// when a domain tool fails or comes back empty, tries the web-search fallback
// once. Timeouts are surfaced as plain failures and never fall back.
func (r *Router) executeWithFallback(ctx context.Context, decision models.RoutingDecision,
	query models.Query) (outcome models.ExecutionOutcome, toolUsed string, timedOut bool) {

	toolUsed = decision.PrimaryTool
	tool, ok := r.tools[decision.PrimaryTool]
	if !ok {
		return models.ExecutionOutcome{
			Success:   false,
			RawResult: fmt.Sprintf("no executor registered for tool %q", decision.PrimaryTool),
		}, toolUsed, false
	}

	outcome, timedOut = r.execute(ctx, tool, query)
	if timedOut {
		return outcome, toolUsed, true
	}

	needsFallback := decision.PrimaryTool != models.ToolWebSearch &&
		(!outcome.Success || outcome.ResultEmpty)
	if !needsFallback {
		return outcome, toolUsed, false
	}

	fallbackOutcome, fbTimedOut := r.execute(ctx, r.tools[models.ToolWebSearch], query)
	if fbTimedOut || !fallbackOutcome.Success || fallbackOutcome.ResultEmpty {
		// Fallback did not help; keep the original outcome.
		return outcome, toolUsed, false
	}

	r.logger.Debug("fallback to web search",
		zap.String("primary_tool", decision.PrimaryTool))
	fallbackOutcome.UsedFallback = true
	return fallbackOutcome, models.ToolWebSearch, false
}

// execute runs one tool bounded by the configured timeout. The tool runs in
// its own goroutine so a stuck executor cannot hold the request hostage.
func (r *Router) execute(ctx context.Context, tool ToolExecutor, query models.Query) (models.ExecutionOutcome, bool) {
	toolCtx, cancel := context.WithTimeout(ctx, r.cfg.ToolTimeout)
	defer cancel()

	done := make(chan models.ExecutionOutcome, 1)
	go func() {
		done <- tool.Run(toolCtx, query)
	}()

	select {
	case outcome := <-done:
		return outcome, false
	case <-toolCtx.Done():
		return models.ExecutionOutcome{
			Success:   false,
			RawResult: fmt.Sprintf("Tool %q did not answer in time.", tool.Name()),
		}, true
	}
}

// renderResponse turns an outcome into user-facing text. Failures become an
// explanatory low-confidence message rather than an error.
func (r *Router) renderResponse(outcome models.ExecutionOutcome) string {
	if outcome.Success {
		return outcome.RawResult
	}
	if outcome.RawResult != "" {
		return fmt.Sprintf("I couldn't answer that reliably: %s", outcome.RawResult)
	}
	return "I couldn't answer that reliably. Please try rephrasing your question."
}

// Explain produces a human-readable routing breakdown for diagnostics.
func (r *Router) Explain(raw string) string {
	decision := r.Route(raw)

	var b strings.Builder
	fmt.Fprintf(&b, "Query analysis for: %q\n\n", raw)
	fmt.Fprintf(&b, "Primary tool:  %s\n", decision.PrimaryTool)
	fmt.Fprintf(&b, "Confidence:    %.2f\n", decision.Confidence)
	fmt.Fprintf(&b, "Question type: %s\n", decision.QuestionType)
	fmt.Fprintf(&b, "Has location:  %t\n", decision.HasLocation)
	if decision.Location != "" {
		fmt.Fprintf(&b, "Location:      %s\n", decision.Location)
	}

	b.WriteString("\nTool scores:\n")
	names := make([]string, 0, len(decision.ToolScores))
	for name := range decision.ToolScores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-14s %.2f\n", name, decision.ToolScores[name])
	}
	return b.String()
}

// CacheStats reports cache statistics.
func (r *Router) CacheStats() models.CacheStats { return r.cache.Stats() }

// CacheClearAll empties the result cache.
func (r *Router) CacheClearAll() { r.cache.ClearAll() }

// CacheClearExpired removes expired entries and returns the count removed.
func (r *Router) CacheClearExpired() int { return r.cache.InvalidateExpired() }
