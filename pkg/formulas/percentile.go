package formulas

import (
	"math"
	"sort"
)

// Percentile calculates the pth percentile (0-100) of sorted values using
// linear-interpolation order statistics: the target rank is p/100 * (n-1)
// and values between adjacent order statistics are interpolated linearly.
//
// The input MUST already be sorted in ascending order.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation between the two surrounding order statistics
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Percentiles calculates several percentiles in one pass over an unsorted
// input. The input slice is not modified.
func Percentiles(data []float64, ps []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = Percentile(sorted, p)
	}
	return out
}

// Median returns the 50th percentile of an unsorted input.
func Median(data []float64) float64 {
	return Percentiles(data, []float64{50})[0]
}
