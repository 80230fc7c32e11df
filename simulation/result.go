package simulation

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// PathOutcome is the scalar summary retained for every simulated path.
// Full trajectories are kept only for the selected sample paths.
type PathOutcome struct {
	PathIndex     int     `json:"path_index" msgpack:"path_index"`
	TerminalValue float64 `json:"terminal_value" msgpack:"terminal_value"`
	MaxDrawdown   float64 `json:"max_drawdown" msgpack:"max_drawdown"`
	Ruined        bool    `json:"ruined" msgpack:"ruined"`
}

// SamplePath is one retained full trajectory. PercentileRank is the
// terminal-value percentile the path was selected to represent (the evenly
// spaced selection target, e.g. decile midpoints when 10 are requested), not
// the path's achieved empirical rank; ties and rank collisions can shift the
// selected path slightly off target while the label stays on the grid, so
// charts get evenly spaced, stably labeled sample curves.
type SamplePath struct {
	PathIndex      int       `json:"path_index" msgpack:"path_index"`
	PercentileRank float64   `json:"percentile_rank" msgpack:"percentile_rank"`
	Values         []float64 `json:"values" msgpack:"values"`
}

// SimulationResult is the aggregated output of one projection run. It is
// immutable once produced; ownership passes to the caller, which typically
// hands it to the persistence collaborator as an opaque blob (see
// EncodeResult) keyed by ID and PortfolioRef.
type SimulationResult struct {
	ID             string           `json:"id" msgpack:"id"`
	PortfolioRef   string           `json:"portfolio_ref" msgpack:"portfolio_ref"`
	MasterSeed     uint64           `json:"master_seed" msgpack:"master_seed"`
	Config         SimulationConfig `json:"config" msgpack:"config"`
	OverlayVersion string           `json:"overlay_version,omitempty" msgpack:"overlay_version"`
	NumPaths       int              `json:"num_paths" msgpack:"num_paths"`
	ElapsedMS      int64            `json:"elapsed_ms" msgpack:"elapsed_ms"`

	MeanTerminal        float64            `json:"mean_terminal" msgpack:"mean_terminal"`
	MedianTerminal      float64            `json:"median_terminal" msgpack:"median_terminal"`
	TerminalPercentiles map[string]float64 `json:"terminal_percentiles" msgpack:"terminal_percentiles"`
	MeanMaxDrawdown     float64            `json:"mean_max_drawdown" msgpack:"mean_max_drawdown"`
	DrawdownPercentiles map[string]float64 `json:"drawdown_percentiles" msgpack:"drawdown_percentiles"`
	CVaR95              float64            `json:"cvar_95" msgpack:"cvar_95"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin" msgpack:"probability_of_ruin"`

	// RegimeOccupancy is the ensemble fraction of periods spent in each
	// regime. Only present for regime-switching runs.
	RegimeOccupancy map[string]float64 `json:"regime_occupancy,omitempty" msgpack:"regime_occupancy"`

	Warnings    []Warning    `json:"warnings,omitempty" msgpack:"warnings"`
	SamplePaths []SamplePath `json:"sample_paths" msgpack:"sample_paths"`
}

// EncodeResult serializes a result into the single nested document the
// persistence collaborator stores as an opaque blob. All fields also carry
// JSON tags, so the same structure is JSON-compatible.
func EncodeResult(r *SimulationResult) ([]byte, error) {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode simulation result: %w", err)
	}
	return data, nil
}

// DecodeResult is the inverse of EncodeResult.
func DecodeResult(data []byte) (*SimulationResult, error) {
	var r SimulationResult
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode simulation result: %w", err)
	}
	return &r, nil
}
