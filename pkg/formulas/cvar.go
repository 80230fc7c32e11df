package formulas

import (
	"math"
	"sort"
)

// CVaR calculates Conditional Value at Risk (expected shortfall) at the
// specified confidence level: the mean of the worst (1-confidence) tail of
// the outcome distribution. Lower outcome = worse, so the tail is taken from
// the bottom of the sorted values.
//
// Args:
//   - outcomes: Outcome values (e.g., terminal wealth per path)
//   - confidence: Confidence level (e.g., 0.95 for the worst 5%)
func CVaR(outcomes []float64, confidence float64) float64 {
	if len(outcomes) == 0 {
		return 0.0
	}

	if len(outcomes) == 1 {
		return outcomes[0]
	}

	// Sort ascending (worst first)
	sorted := make([]float64, len(outcomes))
	copy(sorted, outcomes)
	sort.Float64s(sorted)

	// For 95% confidence we average the worst 5% of outcomes
	tailProbability := 1.0 - confidence
	tailCount := int(math.Ceil(float64(len(sorted)) * tailProbability))

	if tailCount == 0 {
		tailCount = 1
	}
	if tailCount > len(sorted) {
		tailCount = len(sorted)
	}

	tail := sorted[:tailCount]
	sum := 0.0
	for _, v := range tail {
		sum += v
	}

	return sum / float64(len(tail))
}
