package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCVaR(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   []float64
		confidence float64
		want       float64
		tolerance  float64
	}{
		{
			name:       "ten outcomes 95% confidence",
			outcomes:   []float64{0.70, 0.85, 0.92, 1.00, 1.02, 1.05, 1.10, 1.15, 1.20, 1.25},
			confidence: 0.95,
			want:       0.70, // worst 5% of 10 values rounds up to one value
			tolerance:  1e-9,
		},
		{
			name:       "twenty outcomes 90% confidence averages worst two",
			outcomes:   []float64{0.5, 0.6, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
			confidence: 0.90,
			want:       0.55,
			tolerance:  1e-9,
		},
		{
			name:       "single outcome",
			outcomes:   []float64{0.9},
			confidence: 0.95,
			want:       0.9,
			tolerance:  1e-9,
		},
		{
			name:       "empty outcomes",
			outcomes:   []float64{},
			confidence: 0.95,
			want:       0,
			tolerance:  1e-9,
		},
		{
			name:       "unsorted input",
			outcomes:   []float64{1.2, 0.4, 1.0, 0.9, 1.1, 1.3, 0.95, 1.05, 1.15, 1.25},
			confidence: 0.95,
			want:       0.4,
			tolerance:  1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CVaR(tt.outcomes, tt.confidence)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestCVaRNeverExceedsMean(t *testing.T) {
	outcomes := []float64{0.6, 0.8, 0.9, 1.0, 1.1, 1.2, 1.4, 1.5, 1.7, 2.0}
	cvar := CVaR(outcomes, 0.95)
	assert.LessOrEqual(t, cvar, Mean(outcomes))
}
