package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// CompoundGrowth compounds a periodic return over the given number of periods.
// CompoundGrowth(0.01, 12) is the total growth factor of twelve 1% periods.
func CompoundGrowth(periodReturn float64, periods int) float64 {
	growth := 1.0
	for i := 0; i < periods; i++ {
		growth *= 1 + periodReturn
	}
	return growth
}
