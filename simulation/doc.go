// Package simulation implements the Monte Carlo portfolio projection engine.
//
// Given a portfolio composition (weights, expected returns, covariance) and a
// simulation configuration, the engine generates an ensemble of forward
// monthly price paths under a chosen stochastic return model (Gaussian,
// Student-t, or regime-switching), applies periodic target-weight
// rebalancing, and reduces the ensemble to risk metrics: terminal-wealth
// percentiles, CVaR, drawdown distribution, probability of ruin, plus a small
// set of representative sample paths for charting.
//
// The engine is a pure function of its inputs and a master seed: the same
// configuration, composition and seed produce a bit-identical result. Path
// generation is parallel across workers, with every path driven by its own
// deterministically derived random source, so no path ever depends on
// another. The engine performs no I/O; persistence of the produced
// SimulationResult belongs to an external collaborator.
package simulation
