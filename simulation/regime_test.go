package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationaryDistribution(t *testing.T) {
	pi := defaultRegimes.stationary()
	require.Len(t, pi, 2)

	// Two-state closed form: pi_stressed = p12 / (p12 + p21).
	wantStressed := 0.04 / (0.04 + 0.15)
	assert.InDelta(t, wantStressed, pi[regimeStressed], 1e-9)
	assert.InDelta(t, 1.0, pi[regimeCalm]+pi[regimeStressed], 1e-9)
}

func TestSampleState(t *testing.T) {
	dist := []float64{0.3, 0.5, 0.2}

	assert.Equal(t, 0, sampleState(dist, 0.0))
	assert.Equal(t, 0, sampleState(dist, 0.29))
	assert.Equal(t, 1, sampleState(dist, 0.3))
	assert.Equal(t, 1, sampleState(dist, 0.79))
	assert.Equal(t, 2, sampleState(dist, 0.8))
	assert.Equal(t, 2, sampleState(dist, 0.999999))
}

func TestRegimeTransitions(t *testing.T) {
	assert.Equal(t, regimeCalm, defaultRegimes.next(regimeCalm, 0.5))
	assert.Equal(t, regimeStressed, defaultRegimes.next(regimeCalm, 0.97))
	assert.Equal(t, regimeCalm, defaultRegimes.next(regimeStressed, 0.10))
	assert.Equal(t, regimeStressed, defaultRegimes.next(regimeStressed, 0.5))
}

func TestRegimeTableRowsAreStochastic(t *testing.T) {
	for i, row := range defaultRegimes.transition {
		sum := 0.0
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDeltaf(t, 1.0, sum, 1e-9, "row %d must sum to 1", i)
	}
	require.Len(t, defaultRegimes.muMult, defaultRegimes.numStates())
	require.Len(t, defaultRegimes.volMult, defaultRegimes.numStates())
}
