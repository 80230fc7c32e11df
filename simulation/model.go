package simulation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// studentTDoF is the fixed degrees of freedom for the Student-t model.
// Correlated draws are scaled by sqrt((dof-2)/X), X ~ chi-squared(dof), which
// fattens the tails while preserving the covariance structure in expectation.
const studentTDoF = 5.0

// Diagonal regularization bounds for ill-conditioned covariance matrices.
const (
	regularizeEpsStart = 1e-10
	regularizeEpsMax   = 1e-2
)

// returnModel produces one simulated multi-period return trajectory per
// path: for each of `periods` months, a vector of per-asset returns. The
// model is built once per run and shared read-only across all paths; each
// path supplies its own seeded random source.
type returnModel struct {
	model   ModelType
	periods int
	mu      []float64     // per-asset expected return per period (monthly)
	chol    *mat.TriDense // lower-triangular factor of the monthly covariance
	regimes *regimeTable  // non-nil only for regime-switching
	initial []float64     // stationary distribution of the regime chain
}

// newReturnModel prepares the shared model state: scenario overlay, monthly
// scaling of mu and covariance, and the Cholesky factor used to induce
// cross-asset correlation. Covariance matrices that are not positive
// definite get minimal diagonal regularization with a recorded warning; the
// run is never aborted for that condition.
func newReturnModel(cfg SimulationConfig, comp PortfolioComposition, log zerolog.Logger) (*returnModel, []Warning, error) {
	n := comp.NumAssets()

	muAnnual := comp.ExpectedReturns(cfg.MuSource)
	if len(muAnnual) != n {
		return nil, nil, configErr("expected_returns", "length %d does not match asset count %d", len(muAnnual), n)
	}

	muAnnual, covAnnual := applyScenario(cfg.Scenario, muAnnual, comp.Covariance)

	mu := make([]float64, n)
	for i := range mu {
		mu[i] = muAnnual[i] / PeriodsPerYear
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, covAnnual[i][j]/PeriodsPerYear)
		}
	}

	chol, warnings := factorizeCovariance(sym, log)

	m := &returnModel{
		model:   cfg.Model,
		periods: cfg.Periods(),
		mu:      mu,
		chol:    chol,
	}
	if cfg.Model == ModelRegimeSwitching {
		m.regimes = &defaultRegimes
		m.initial = m.regimes.stationary()
	}
	return m, warnings, nil
}

// factorizeCovariance computes the lower-triangular Cholesky factor of the
// monthly covariance. A zero matrix (riskless portfolio) short-circuits to a
// zero factor. Failed factorizations escalate a diagonal epsilon until the
// matrix becomes positive definite.
func factorizeCovariance(sym *mat.SymDense, log zerolog.Logger) (*mat.TriDense, []Warning) {
	n := sym.SymmetricDim()

	allZero := true
	for i := 0; i < n && allZero; i++ {
		for j := i; j < n; j++ {
			if sym.At(i, j) != 0 {
				allZero = false
				break
			}
		}
	}
	if allZero {
		return mat.NewTriDense(n, mat.Lower, nil), nil
	}

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		l := mat.NewTriDense(n, mat.Lower, nil)
		chol.LTo(l)
		return l, nil
	}

	var warnings []Warning
	work := mat.NewSymDense(n, nil)
	for eps := regularizeEpsStart; eps <= regularizeEpsMax; eps *= 10 {
		work.CopySym(sym)
		for i := 0; i < n; i++ {
			work.SetSym(i, i, work.At(i, i)+eps)
		}
		if chol.Factorize(work) {
			log.Warn().
				Float64("epsilon", eps).
				Msg("Covariance matrix not positive definite, regularized diagonal")
			warnings = append(warnings, Warning{
				Code:   WarnCovarianceRegularized,
				Detail: fmt.Sprintf("covariance matrix not positive definite, added epsilon=%g to diagonal", eps),
			})
			l := mat.NewTriDense(n, mat.Lower, nil)
			chol.LTo(l)
			return l, warnings
		}
	}

	// Still indefinite after maximal regularization: fall back to the
	// diagonal-only factor so the run can proceed with zero cross-asset
	// correlation rather than failing outright.
	log.Warn().Msg("Covariance matrix indefinite beyond regularization bounds, dropping correlations")
	warnings = append(warnings, Warning{
		Code:   WarnCovarianceRegularized,
		Detail: "covariance matrix indefinite beyond regularization bounds, correlations dropped",
	})
	l := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		l.SetTri(i, i, math.Sqrt(math.Max(sym.At(i, i), 0)))
	}
	return l, warnings
}

// generate produces the full return trajectory for one path: periods rows of
// per-asset returns, plus the per-state regime occupancy counts (nil unless
// the model is regime-switching). Draw order is fixed so that the same
// source always yields the same trajectory.
func (m *returnModel) generate(src *rand.Rand) ([][]float64, []int) {
	n := len(m.mu)
	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	chi := distuv.ChiSquared{K: studentTDoF, Src: src}

	var occupancy []int
	state := 0
	if m.regimes != nil {
		occupancy = make([]int, m.regimes.numStates())
		state = sampleState(m.initial, src.Float64())
	}

	z := make([]float64, n)
	shock := make([]float64, n)
	returns := make([][]float64, m.periods)

	for t := 0; t < m.periods; t++ {
		for i := range z {
			z[i] = std.Rand()
		}
		// shock = L * z induces the configured cross-asset correlation
		for i := 0; i < n; i++ {
			s := 0.0
			for j := 0; j <= i; j++ {
				s += m.chol.At(i, j) * z[j]
			}
			shock[i] = s
		}

		r := make([]float64, n)
		switch m.model {
		case ModelStudentT:
			scale := math.Sqrt((studentTDoF - 2) / chi.Rand())
			for i := range r {
				r[i] = m.mu[i] + scale*shock[i]
			}
		case ModelRegimeSwitching:
			reg := m.regimes
			for i := range r {
				r[i] = m.mu[i]*reg.muMult[state] + reg.volMult[state]*shock[i]
			}
			occupancy[state]++
			state = reg.next(state, src.Float64())
		default: // ModelGaussian
			for i := range r {
				r[i] = m.mu[i] + shock[i]
			}
		}
		returns[t] = r
	}

	return returns, occupancy
}
