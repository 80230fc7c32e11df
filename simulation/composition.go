package simulation

import "math"

// weightSumTolerance is the allowed deviation of the weight sum from 1.0.
const weightSumTolerance = 1e-6

// PortfolioComposition is the resolved snapshot of a portfolio's holdings
// handed in by the external holdings service: an ordered set of assets with
// target weights, expected annual returns (historical and forward-looking)
// and an annual covariance matrix over the same asset order. It is immutable
// for the duration of one simulation.
type PortfolioComposition struct {
	Symbols           []string    `json:"symbols" msgpack:"symbols"`
	Weights           []float64   `json:"weights" msgpack:"weights"`
	HistoricalReturns []float64   `json:"historical_returns" msgpack:"historical_returns"`
	ForwardReturns    []float64   `json:"forward_returns" msgpack:"forward_returns"`
	Covariance        [][]float64 `json:"covariance" msgpack:"covariance"`
	InitialValue      float64     `json:"initial_value" msgpack:"initial_value"`
}

// NumAssets returns the number of assets in the composition.
func (p PortfolioComposition) NumAssets() int {
	return len(p.Symbols)
}

// ExpectedReturns returns the annual expected-return vector for the selected
// source. The returned slice aliases the composition and must not be
// modified.
func (p PortfolioComposition) ExpectedReturns(src MuType) []float64 {
	if src == MuForward {
		return p.ForwardReturns
	}
	return p.HistoricalReturns
}

// Validate checks the composition for internal consistency. All failures are
// ConfigurationErrors raised before any sampling begins.
func (p PortfolioComposition) Validate() error {
	n := p.NumAssets()
	if n == 0 {
		return configErr("composition", "must contain at least one asset")
	}
	if len(p.Weights) != n {
		return configErr("weights", "length %d does not match asset count %d", len(p.Weights), n)
	}
	if len(p.HistoricalReturns) != n {
		return configErr("historical_returns", "length %d does not match asset count %d", len(p.HistoricalReturns), n)
	}
	if len(p.ForwardReturns) != n {
		return configErr("forward_returns", "length %d does not match asset count %d", len(p.ForwardReturns), n)
	}
	if len(p.Covariance) != n {
		return configErr("covariance", "matrix has %d rows, expected %d", len(p.Covariance), n)
	}
	for i, row := range p.Covariance {
		if len(row) != n {
			return configErr("covariance", "row %d has %d columns, expected %d", i, len(row), n)
		}
	}
	// Symmetry check; positive semi-definiteness is handled downstream by
	// the Cholesky regularization path.
	for i := 0; i < n; i++ {
		if p.Covariance[i][i] < 0 {
			return configErr("covariance", "negative variance %g for asset %s", p.Covariance[i][i], p.Symbols[i])
		}
		for j := i + 1; j < n; j++ {
			if math.Abs(p.Covariance[i][j]-p.Covariance[j][i]) > 1e-9 {
				return configErr("covariance", "matrix is not symmetric at (%d,%d)", i, j)
			}
		}
	}
	sum := 0.0
	for i, w := range p.Weights {
		if w < 0 {
			return configErr("weights", "negative weight %g for asset %s", w, p.Symbols[i])
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return configErr("weights", "must sum to 1.0, got %g", sum)
	}
	if p.InitialValue <= 0 {
		return configErr("initial_value", "must be positive, got %g", p.InitialValue)
	}
	return nil
}
