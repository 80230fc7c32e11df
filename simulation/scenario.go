package simulation

import "math"

// OverlayVersion identifies the stress-scenario constant tables baked into
// this build. It is recorded on every result so stored projections can be
// traced back to the overlay parameters that produced them.
const OverlayVersion = "2025.1"

// scenarioOverlay holds the fixed parameters of one stress scenario.
// Magnitudes are versioned constants, never configurable inputs: two runs
// with the same scenario tag are guaranteed the same transform.
type scenarioOverlay struct {
	muShift  float64 // additive shift to every annual expected return
	volMult  float64 // multiplier on every asset volatility
	corrPull float64 // fraction to pull pairwise correlations toward 1
}

var overlays = map[Scenario]scenarioOverlay{
	// Sustained deflationary stagnation: equity expected returns suppressed
	// well below normal, volatility elevated for the whole horizon.
	ScenarioJapanLostDecade: {muShift: -0.07, volMult: 1.5},

	// Depressed real returns with inflation-sensitive assets moving
	// together: correlations tightened toward 1 on top of the vol bump.
	ScenarioStagflation: {muShift: -0.04, volMult: 1.25, corrPull: 0.25},
}

// applyScenario deterministically transforms the annual expected-return
// vector and covariance matrix before they reach the return model. The
// inputs are never modified; ScenarioNone returns them unchanged.
func applyScenario(s Scenario, mu []float64, cov [][]float64) ([]float64, [][]float64) {
	overlay, ok := overlays[s]
	if !ok {
		return mu, cov
	}

	n := len(mu)
	outMu := make([]float64, n)
	for i, m := range mu {
		outMu[i] = m + overlay.muShift
	}

	// Decompose covariance into vols and correlations so the two stress
	// dimensions can be transformed independently.
	vols := make([]float64, n)
	for i := 0; i < n; i++ {
		vols[i] = math.Sqrt(math.Max(cov[i][i], 0))
	}

	outCov := make([][]float64, n)
	for i := 0; i < n; i++ {
		outCov[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				v := vols[i] * overlay.volMult
				outCov[i][j] = v * v
				continue
			}
			corr := 0.0
			if vols[i] > 0 && vols[j] > 0 {
				corr = cov[i][j] / (vols[i] * vols[j])
			}
			corr += overlay.corrPull * (1 - corr)
			outCov[i][j] = corr * vols[i] * overlay.volMult * vols[j] * overlay.volMult
		}
	}

	return outMu, outCov
}
