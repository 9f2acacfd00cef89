package router

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/deshq-knowledge-agent/internal/cache"
	"github.com/yourusername/deshq-knowledge-agent/internal/classifier"
	"github.com/yourusername/deshq-knowledge-agent/internal/confidence"
	"github.com/yourusername/deshq-knowledge-agent/models"
)

// fakeTool is a scripted ToolExecutor.
type fakeTool struct {
	name    string
	outcome models.ExecutionOutcome
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeTool) Name() string { return f.name }

func (f *fakeTool) Run(ctx context.Context, query models.Query) models.ExecutionOutcome {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	return f.outcome
}

func okTool(name, result string) *fakeTool {
	return &fakeTool{name: name, outcome: models.ExecutionOutcome{Success: true, RawResult: result}}
}

func newTestRouter(t *testing.T, cfg Config, tools ...ToolExecutor) *Router {
	t.Helper()
	r, err := New(
		classifier.New(classifier.DefaultLexicon()),
		confidence.NewScorer(),
		cache.New(cache.Config{MaxEntries: 100}),
		tools,
		cfg,
		zap.NewNop(),
	)
	require.NoError(t, err)
	return r
}

func defaultTools() []ToolExecutor {
	return []ToolExecutor{
		okTool(models.ToolInstitutions, "Found 5 institutions."),
		okTool(models.ToolHospitals, "Found 3 hospitals."),
		okTool(models.ToolRestaurants, "Found 7 restaurants."),
		okTool(models.ToolWebSearch, "Here is what I found online."),
	}
}

func TestNewRejectsMissingWebSearchTool(t *testing.T) {
	_, err := New(
		classifier.New(classifier.DefaultLexicon()),
		confidence.NewScorer(),
		cache.New(cache.Config{MaxEntries: 10}),
		[]ToolExecutor{okTool(models.ToolInstitutions, "x")},
		Config{},
		zap.NewNop(),
	)
	assert.Error(t, err)
}

func TestNewRejectsDuplicateTools(t *testing.T) {
	_, err := New(
		classifier.New(classifier.DefaultLexicon()),
		confidence.NewScorer(),
		cache.New(cache.Config{MaxEntries: 10}),
		[]ToolExecutor{
			okTool(models.ToolWebSearch, "a"),
			okTool(models.ToolWebSearch, "b"),
		},
		Config{},
		zap.NewNop(),
	)
	assert.Error(t, err)
}

func TestAnswerRoutesToDomainTool(t *testing.T) {
	r := newTestRouter(t, Config{CacheEnabled: true}, defaultTools()...)

	answer := r.Answer(context.Background(), "How many universities are in Dhaka?")
	assert.Equal(t, models.ToolInstitutions, answer.ToolUsed)
	assert.Equal(t, "Found 5 institutions.", answer.Response)
	assert.Equal(t, models.QuestionCount, answer.QuestionType)
	assert.False(t, answer.Cached)
	assert.Greater(t, answer.ResultConfidence, 0.79)
}

func TestAnswerSecondCallIsCached(t *testing.T) {
	tools := defaultTools()
	institutions := tools[0].(*fakeTool)
	r := newTestRouter(t, Config{CacheEnabled: true}, tools...)

	first := r.Answer(context.Background(), "How many universities are in Dhaka?")
	second := r.Answer(context.Background(), "How many universities are in Dhaka?")

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, second.CacheHits)
	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, first.ResultConfidence, second.ResultConfidence)
	assert.Equal(t, int32(1), institutions.calls.Load(), "tool must not run on a cache hit")
}

func TestAnswerCacheKeyIgnoresPunctuationAndCase(t *testing.T) {
	r := newTestRouter(t, Config{CacheEnabled: true}, defaultTools()...)

	r.Answer(context.Background(), "How many universities are in Dhaka?")
	answer := r.Answer(context.Background(), "how MANY universities are in dhaka!!")
	assert.True(t, answer.Cached)
}

func TestAnswerCacheDisabled(t *testing.T) {
	tools := defaultTools()
	institutions := tools[0].(*fakeTool)
	r := newTestRouter(t, Config{CacheEnabled: false}, tools...)

	r.Answer(context.Background(), "How many universities are in Dhaka?")
	answer := r.Answer(context.Background(), "How many universities are in Dhaka?")

	assert.False(t, answer.Cached)
	assert.Equal(t, int32(2), institutions.calls.Load())
}

func TestAnswerFallsBackToWebSearchOnFailure(t *testing.T) {
	failing := &fakeTool{
		name:    models.ToolInstitutions,
		outcome: models.ExecutionOutcome{Success: false, RawResult: "db unavailable"},
	}
	r := newTestRouter(t, Config{CacheEnabled: true},
		failing,
		okTool(models.ToolHospitals, "h"),
		okTool(models.ToolRestaurants, "r"),
		okTool(models.ToolWebSearch, "Here is what I found online."),
	)

	answer := r.Answer(context.Background(), "How many universities are in Dhaka?")
	assert.Equal(t, models.ToolWebSearch, answer.ToolUsed)
	assert.Equal(t, "Here is what I found online.", answer.Response)
	// Fallback answers score in the middle band.
	assert.GreaterOrEqual(t, answer.ResultConfidence, 0.50)
	assert.LessOrEqual(t, answer.ResultConfidence, 0.79)
}

func TestAnswerFallsBackOnEmptyResult(t *testing.T) {
	empty := &fakeTool{
		name:    models.ToolInstitutions,
		outcome: models.ExecutionOutcome{Success: true, ResultEmpty: true, RawResult: "No matches."},
	}
	r := newTestRouter(t, Config{CacheEnabled: true},
		empty,
		okTool(models.ToolHospitals, "h"),
		okTool(models.ToolRestaurants, "r"),
		okTool(models.ToolWebSearch, "Found online."),
	)

	answer := r.Answer(context.Background(), "How many universities are in Dhaka?")
	assert.Equal(t, models.ToolWebSearch, answer.ToolUsed)
	assert.Equal(t, "Found online.", answer.Response)
}

func TestAnswerFallbackResultIsCachedUnderPrimaryKey(t *testing.T) {
	failing := &fakeTool{
		name:    models.ToolInstitutions,
		outcome: models.ExecutionOutcome{Success: false},
	}
	web := okTool(models.ToolWebSearch, "Found online.")
	r := newTestRouter(t, Config{CacheEnabled: true},
		failing,
		okTool(models.ToolHospitals, "h"),
		okTool(models.ToolRestaurants, "r"),
		web,
	)

	first := r.Answer(context.Background(), "How many universities are in Dhaka?")
	second := r.Answer(context.Background(), "How many universities are in Dhaka?")

	require.True(t, second.Cached)
	assert.Equal(t, models.ToolWebSearch, second.ToolUsed)
	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, int32(1), web.calls.Load())
}

func TestAnswerNoFallbackWhenWebSearchIsPrimary(t *testing.T) {
	web := &fakeTool{
		name:    models.ToolWebSearch,
		outcome: models.ExecutionOutcome{Success: false, RawResult: "provider down"},
	}
	r := newTestRouter(t, Config{CacheEnabled: true},
		okTool(models.ToolInstitutions, "i"),
		okTool(models.ToolHospitals, "h"),
		okTool(models.ToolRestaurants, "r"),
		web,
	)

	answer := r.Answer(context.Background(), "inflation impact on the economy")
	assert.Equal(t, models.ToolWebSearch, answer.ToolUsed)
	assert.LessOrEqual(t, answer.ResultConfidence, 0.49)
	assert.Equal(t, int32(1), web.calls.Load())
}

func TestAnswerTimeoutScoresLowAndSkipsCacheAndFallback(t *testing.T) {
	slow := &fakeTool{
		name:    models.ToolInstitutions,
		outcome: models.ExecutionOutcome{Success: true, RawResult: "too late"},
		delay:   500 * time.Millisecond,
	}
	web := okTool(models.ToolWebSearch, "Found online.")
	r := newTestRouter(t, Config{CacheEnabled: true, ToolTimeout: 20 * time.Millisecond},
		slow,
		okTool(models.ToolHospitals, "h"),
		okTool(models.ToolRestaurants, "r"),
		web,
	)

	answer := r.Answer(context.Background(), "How many universities are in Dhaka?")
	assert.Equal(t, models.ToolInstitutions, answer.ToolUsed)
	assert.LessOrEqual(t, answer.ResultConfidence, 0.49)
	assert.Equal(t, int32(0), web.calls.Load(), "timeouts never fall back")

	// A timed-out attempt must not poison the cache.
	assert.Equal(t, 0, r.CacheStats().TotalEntries)
}

func TestAnswerFailureIsNotCached(t *testing.T) {
	failing := &fakeTool{
		name:    models.ToolWebSearch,
		outcome: models.ExecutionOutcome{Success: false},
	}
	r := newTestRouter(t, Config{CacheEnabled: true},
		okTool(models.ToolInstitutions, "i"),
		okTool(models.ToolHospitals, "h"),
		okTool(models.ToolRestaurants, "r"),
		failing,
	)

	r.Answer(context.Background(), "inflation trends")
	assert.Equal(t, 0, r.CacheStats().TotalEntries)

	answer := r.Answer(context.Background(), "inflation trends")
	assert.False(t, answer.Cached)
	assert.Equal(t, int32(2), failing.calls.Load())
}

func TestAnswerEmptyQuery(t *testing.T) {
	web := &fakeTool{
		name:    models.ToolWebSearch,
		outcome: models.ExecutionOutcome{Success: true, ResultEmpty: true, RawResult: "Please ask a question."},
	}
	r := newTestRouter(t, Config{CacheEnabled: true},
		okTool(models.ToolInstitutions, "i"),
		okTool(models.ToolHospitals, "h"),
		okTool(models.ToolRestaurants, "r"),
		web,
	)

	answer := r.Answer(context.Background(), "   ")
	assert.Equal(t, models.ToolWebSearch, answer.ToolUsed)
	assert.Equal(t, 0.0, answer.RoutingConfidence)
	assert.Equal(t, 0.0, answer.ResultConfidence)
	assert.Equal(t, 0, r.CacheStats().TotalEntries, "empty results are not cached")
}

func TestExplainIncludesScoresAndDecision(t *testing.T) {
	r := newTestRouter(t, Config{}, defaultTools()...)

	text := r.Explain("How many universities are in Dhaka?")
	assert.Contains(t, text, models.ToolInstitutions)
	assert.Contains(t, text, "count")
	assert.Contains(t, text, "Dhaka")
	for _, tool := range models.ToolPriority() {
		assert.Contains(t, text, tool)
	}
}

func TestCacheAdminSurface(t *testing.T) {
	r := newTestRouter(t, Config{CacheEnabled: true}, defaultTools()...)

	r.Answer(context.Background(), "How many universities are in Dhaka?")
	require.Equal(t, 1, r.CacheStats().TotalEntries)

	assert.Equal(t, 0, r.CacheClearExpired())
	r.CacheClearAll()
	assert.Equal(t, 0, r.CacheStats().TotalEntries)
}
