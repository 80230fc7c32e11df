package simulation

// rebalancePath converts one path's per-period return vectors into a single
// portfolio value series under the configured rebalancing rule.
//
// Each asset's dollar allocation drifts with its realized returns; at every
// rebalancing boundary (monthly = every period, quarterly = every third
// period, buy-and-hold = never) allocations reset to the target weight
// fraction of the then-current total. Rebalancing is friction-free: costs
// and taxes are out of scope.
//
// The returned series has one value per period; the terminal value is the
// last entry.
func rebalancePath(returns [][]float64, weights []float64, initialValue float64, freq RebalanceFrequency) []float64 {
	interval := freq.periods()

	alloc := make([]float64, len(weights))
	for i, w := range weights {
		alloc[i] = initialValue * w
	}

	path := make([]float64, len(returns))
	for t, periodReturns := range returns {
		total := 0.0
		for i := range alloc {
			alloc[i] *= 1 + periodReturns[i]
			total += alloc[i]
		}
		path[t] = total

		if interval > 0 && (t+1)%interval == 0 {
			for i, w := range weights {
				alloc[i] = total * w
			}
		}
	}
	return path
}
