package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/deshq-knowledge-agent/models"
)

func decision(questionType models.QuestionType, routing float64) models.RoutingDecision {
	return models.RoutingDecision{
		PrimaryTool:  models.ToolInstitutions,
		Confidence:   routing,
		QuestionType: questionType,
	}
}

func TestScoreBands(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		decision models.RoutingDecision
		outcome  models.ExecutionOutcome
		want     float64
	}{
		{
			"clean success at zero routing confidence",
			decision(models.QuestionGeneral, 0.0),
			models.ExecutionOutcome{Success: true},
			0.80,
		},
		{
			"clean success at high routing confidence",
			decision(models.QuestionCount, 0.95),
			models.ExecutionOutcome{Success: true},
			0.94, // 0.80 + 0.95*0.15
		},
		{
			"filter query lands in the complex band",
			decision(models.QuestionFilter, 0.5),
			models.ExecutionOutcome{Success: true},
			0.80, // 0.70 + 0.5*0.19 = 0.795 rounded
		},
		{
			"comparison query lands in the complex band",
			decision(models.QuestionComparison, 0.0),
			models.ExecutionOutcome{Success: true},
			0.70,
		},
		{
			"fallback success",
			decision(models.QuestionGeneral, 0.95),
			models.ExecutionOutcome{Success: true, UsedFallback: true},
			0.78, // 0.50 + 0.95*0.29 = 0.7755 rounded
		},
		{
			"failed execution",
			decision(models.QuestionGeneral, 0.95),
			models.ExecutionOutcome{Success: false},
			0.47, // 0.95*0.49 = 0.4655 rounded
		},
		{
			"empty result without fallback scores as failed",
			decision(models.QuestionGeneral, 0.0),
			models.ExecutionOutcome{Success: true, ResultEmpty: true},
			0.00,
		},
		{
			"failure outranks the fallback flag",
			decision(models.QuestionGeneral, 0.5),
			models.ExecutionOutcome{Success: false, UsedFallback: true},
			0.25, // 0.5*0.49 = 0.245 rounded
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Score(tt.decision, tt.outcome), 1e-9)
		})
	}
}

func TestScoreBoundsAcrossAllInputs(t *testing.T) {
	s := NewScorer()

	outcomes := []models.ExecutionOutcome{
		{Success: true},
		{Success: true, UsedFallback: true},
		{Success: true, ResultEmpty: true},
		{Success: false},
	}
	for _, qt := range []models.QuestionType{
		models.QuestionCount, models.QuestionList, models.QuestionFilter,
		models.QuestionComparison, models.QuestionGeneral,
	} {
		for routing := 0.0; routing <= 1.0; routing += 0.05 {
			for _, outcome := range outcomes {
				score := s.Score(decision(qt, routing), outcome)
				require.GreaterOrEqual(t, score, 0.0)
				require.LessOrEqual(t, score, MaxScore)
			}
		}
	}
}

func TestScoreCleanDominatesWorseOutcomes(t *testing.T) {
	s := NewScorer()

	// At any fixed routing confidence, a clean success never scores below a
	// fallback or failed outcome.
	for routing := 0.0; routing <= 1.0; routing += 0.1 {
		d := decision(models.QuestionGeneral, routing)
		clean := s.Score(d, models.ExecutionOutcome{Success: true})
		fallback := s.Score(d, models.ExecutionOutcome{Success: true, UsedFallback: true})
		failed := s.Score(d, models.ExecutionOutcome{Success: false})

		require.GreaterOrEqual(t, clean, fallback, "routing %.2f", routing)
		require.GreaterOrEqual(t, fallback, failed, "routing %.2f", routing)
	}
}

func TestScoreFailedNeverExceedsHalf(t *testing.T) {
	s := NewScorer()

	for routing := 0.0; routing <= 1.0; routing += 0.01 {
		score := s.Score(decision(models.QuestionGeneral, routing),
			models.ExecutionOutcome{Success: false})
		require.LessOrEqual(t, score, 0.49)
	}
}

func TestScoreClampsOutOfRangeRoutingConfidence(t *testing.T) {
	s := NewScorer()

	assert.InDelta(t, 0.95,
		s.Score(decision(models.QuestionGeneral, 2.0), models.ExecutionOutcome{Success: true}), 1e-9)
	assert.InDelta(t, 0.80,
		s.Score(decision(models.QuestionGeneral, -1.0), models.ExecutionOutcome{Success: true}), 1e-9)
}
