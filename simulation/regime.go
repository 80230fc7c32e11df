package simulation

// Regime labels for the default two-state Markov chain.
const (
	regimeCalm = iota
	regimeStressed
)

var regimeNames = []string{"calm", "stressed"}

// regimeTable is the explicit finite-state representation of the
// regime-switching chain: a state set, a row-stochastic transition matrix
// and per-state return/volatility multipliers. Regimes are data, not
// behavior, so no polymorphism is involved.
type regimeTable struct {
	transition [][]float64 // transition[from][to]
	muMult     []float64   // per-state multiplier on expected return
	volMult    []float64   // per-state multiplier on volatility
}

// defaultRegimes models calm markets with mildly damped volatility and a
// stressed state with negative drift and roughly doubled volatility. The
// stressed state is sticky enough to produce multi-month drawdown clusters.
var defaultRegimes = regimeTable{
	transition: [][]float64{
		{0.96, 0.04},
		{0.15, 0.85},
	},
	muMult:  []float64{1.0, -0.5},
	volMult: []float64{0.85, 2.0},
}

func (t *regimeTable) numStates() int {
	return len(t.transition)
}

// stationary returns the long-run occupancy distribution of the chain,
// computed by power iteration. Each path's initial state is drawn from it.
func (t *regimeTable) stationary() []float64 {
	k := t.numStates()
	pi := make([]float64, k)
	for i := range pi {
		pi[i] = 1 / float64(k)
	}
	next := make([]float64, k)
	for iter := 0; iter < 200; iter++ {
		for j := range next {
			next[j] = 0
		}
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				next[j] += pi[i] * t.transition[i][j]
			}
		}
		copy(pi, next)
	}
	return pi
}

// next transitions the chain given a uniform draw in [0, 1).
func (t *regimeTable) next(from int, u float64) int {
	return sampleState(t.transition[from], u)
}

// sampleState picks an index from a discrete distribution via inverse
// transform on a uniform draw.
func sampleState(dist []float64, u float64) int {
	acc := 0.0
	for s, p := range dist {
		acc += p
		if u < acc {
			return s
		}
	}
	return len(dist) - 1
}
