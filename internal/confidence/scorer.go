// Why this file: ./internal/confidence/scorer.go
// This fuses the routing decision with the tool-execution outcome into a single
// bounded confidence value. The business rule that the system never reports full
// certainty is encoded here, and only here, as the 0.95 ceiling on return.

package confidence

import (
	"math"

	"github.com/yourusername/deshq-knowledge-agent/models"
)

// MaxScore is the global confidence ceiling; the system never reports 1.00.
const MaxScore = 0.95

// band is an outcome-determined confidence range. The routing confidence
// interpolates linearly inside it.
type band struct {
	lo, hi float64
}

var (
	bandClean    = band{0.80, 0.95} // success, no fallback, non-empty, simple query
	bandComplex  = band{0.70, 0.89} // success, no fallback, but filter/comparison phrasing
	bandFallback = band{0.50, 0.79} // answered via the fallback path
	bandFailed   = band{0.00, 0.49} // execution failed, or empty with no fallback
)

// Scorer computes result confidence from routing and execution signals.
// It is stateless and safe for concurrent use.
type Scorer struct{}

// NewScorer creates a confidence scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns a value in [0.00, 0.95], rounded to two decimals. Holding the
// routing confidence fixed, a clean successful execution always scores at or
// above a failed or fallback one: the bands are ordered and non-crossing on
// their interpolation ranges.
func (s *Scorer) Score(decision models.RoutingDecision, outcome models.ExecutionOutcome) float64 {
	b := selectBand(decision, outcome)

	routing := clamp01(decision.Confidence)
	raw := b.lo + routing*(b.hi-b.lo)

	rounded := math.Round(raw*100) / 100
	if rounded > MaxScore {
		rounded = MaxScore
	}
	if rounded < 0 {
		rounded = 0
	}
	return rounded
}

func selectBand(decision models.RoutingDecision, outcome models.ExecutionOutcome) band {
	switch {
	case !outcome.Success:
		return bandFailed
	case outcome.UsedFallback:
		return bandFallback
	case outcome.ResultEmpty:
		// Empty result and nothing was attempted to recover it.
		return bandFailed
	case decision.QuestionType == models.QuestionFilter ||
		decision.QuestionType == models.QuestionComparison:
		return bandComplex
	default:
		return bandClean
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
