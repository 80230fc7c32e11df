package formulas

// MaxDrawdown calculates the maximum peak-to-trough decline of a value series.
//
// Drawdown Formula:
//   Drawdown = (Peak Value - Current Value) / Peak Value
//   Max Drawdown = Maximum of all drawdowns
//
// Returns the maximum drawdown as a positive fraction (0.25 = 25% loss from
// peak), or 0 for series shorter than two values.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		// Update peak
		if v > peak {
			peak = v
		}

		// Calculate drawdown from peak
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}
