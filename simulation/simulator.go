package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/projections/internal/config"
	"github.com/aristath/projections/pkg/formulas"
	"github.com/aristath/projections/pkg/logger"
)

// pathBatchSize is the number of paths dispatched to a worker per job.
const pathBatchSize = 256

// Options holds operational tuning for a Simulator. The zero value is
// usable: workers default to the CPU count and no time budget applies.
type Options struct {
	Workers int
	Timeout time.Duration
}

// DefaultOptions returns options from the environment (SIM_WORKERS,
// SIM_TIMEOUT_SECONDS).
func DefaultOptions() Options {
	cfg := config.Load()
	return Options{Workers: cfg.Workers, Timeout: cfg.Timeout}
}

// Simulator drives Monte Carlo projection runs. It is stateless between
// runs and safe for concurrent use.
type Simulator struct {
	opts Options
	log  zerolog.Logger
}

// New creates a simulator with the given logger and options.
func New(log zerolog.Logger, opts Options) *Simulator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Simulator{
		opts: opts,
		log:  logger.Component(log, "simulator"),
	}
}

// NewFromEnv creates a simulator with logging and tuning read from the
// environment.
func NewFromEnv() *Simulator {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.Pretty})
	return New(log, Options{Workers: cfg.Workers, Timeout: cfg.Timeout})
}

// Run executes one full projection: validation, ensemble generation across
// the worker pool, metric aggregation and sample-path regeneration. The
// result is bit-identical for identical (cfg, comp, masterSeed) inputs.
//
// The engine performs no I/O; persisting the returned result is the
// caller's responsibility.
func (s *Simulator) Run(
	ctx context.Context,
	cfg SimulationConfig,
	comp PortfolioComposition,
	portfolioRef string,
	masterSeed uint64,
) (*SimulationResult, error) {
	start := time.Now()

	// Fail fast: cheap to validate, expensive to discover mid-run.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	model, warnings, err := newReturnModel(cfg, comp, s.log)
	if err != nil {
		return nil, err
	}

	ruinLevel, checkRuin := resolveRuinLevel(cfg, comp)

	s.log.Info().
		Str("portfolio", portfolioRef).
		Str("model", string(cfg.Model)).
		Str("scenario", string(cfg.Scenario)).
		Int("num_paths", cfg.NumPaths).
		Int("horizon_years", cfg.HorizonYears).
		Uint64("master_seed", masterSeed).
		Msg("Starting projection run")

	outcomes, occupancy, err := s.runPaths(ctx, cfg, comp, model, masterSeed, ruinLevel, checkRuin)
	if err != nil {
		return nil, err
	}

	result, err := aggregate(cfg, outcomes, occupancy, checkRuin)
	if err != nil {
		return nil, err
	}

	// Sample trajectories are regenerated from their per-path seeds rather
	// than retained during the ensemble pass, keeping memory at
	// O(num_paths) scalars plus sample_paths full series.
	for i := range result.SamplePaths {
		sp := &result.SamplePaths[i]
		sp.Values = generatePricePath(model, comp, cfg, masterSeed, sp.PathIndex)
	}

	result.ID = uuid.NewString()
	result.PortfolioRef = portfolioRef
	result.MasterSeed = masterSeed
	result.Config = cfg
	if cfg.Scenario != ScenarioNone {
		result.OverlayVersion = OverlayVersion
	}
	result.Warnings = warnings
	result.ElapsedMS = time.Since(start).Milliseconds()

	s.log.Info().
		Str("result_id", result.ID).
		Int64("elapsed_ms", result.ElapsedMS).
		Float64("median_terminal", result.MedianTerminal).
		Float64("probability_of_ruin", result.ProbabilityOfRuin).
		Msg("Projection run complete")

	return result, nil
}

// RegeneratePath rebuilds the full value series of a single path
// bit-identically from the master seed and path index, without running the
// rest of the ensemble. Intended for debugging individual outcomes.
func (s *Simulator) RegeneratePath(
	cfg SimulationConfig,
	comp PortfolioComposition,
	masterSeed uint64,
	pathIndex int,
) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	if pathIndex < 0 || pathIndex >= cfg.NumPaths {
		return nil, configErr("path_index", "%d out of range [0, %d)", pathIndex, cfg.NumPaths)
	}

	model, _, err := newReturnModel(cfg, comp, s.log)
	if err != nil {
		return nil, err
	}
	return generatePricePath(model, comp, cfg, masterSeed, pathIndex), nil
}

// pathJob is a contiguous range of path indices dispatched to one worker.
type pathJob struct {
	start, end int
}

// pathJobResult carries the outcomes of one batch plus its regime occupancy
// tally (nil unless the model is regime-switching).
type pathJobResult struct {
	outcomes  []PathOutcome
	occupancy []int
}

// runPaths generates the full ensemble across the worker pool. Paths are
// embarrassingly parallel: workers share only the read-only model, config
// and composition, and every path derives its own random source.
func (s *Simulator) runPaths(
	ctx context.Context,
	cfg SimulationConfig,
	comp PortfolioComposition,
	model *returnModel,
	masterSeed uint64,
	ruinLevel float64,
	checkRuin bool,
) ([]PathOutcome, []int, error) {
	numPaths := cfg.NumPaths
	numBatches := (numPaths + pathBatchSize - 1) / pathBatchSize

	jobs := make(chan pathJob, numBatches)
	results := make(chan pathJobResult, numBatches)

	workers := s.opts.Workers
	if workers > numBatches {
		workers = numBatches
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Cancelled runs drain remaining jobs without work.
				if ctx.Err() != nil {
					continue
				}
				res := pathJobResult{outcomes: make([]PathOutcome, 0, job.end-job.start)}
				if model.regimes != nil {
					res.occupancy = make([]int, model.regimes.numStates())
				}
				for idx := job.start; idx < job.end; idx++ {
					outcome, occ := simulatePath(model, comp, cfg, masterSeed, idx, ruinLevel, checkRuin)
					res.outcomes = append(res.outcomes, outcome)
					for st, c := range occ {
						res.occupancy[st] += c
					}
				}
				results <- res
			}
		}()
	}

	for b := 0; b < numBatches; b++ {
		first := b * pathBatchSize
		last := first + pathBatchSize
		if last > numPaths {
			last = numPaths
		}
		jobs <- pathJob{start: first, end: last}
	}
	close(jobs)

	wg.Wait()
	close(results)

	if ctx.Err() != nil {
		// Discard everything: metrics over an unpredictable subset of
		// paths would misrepresent tail statistics.
		s.log.Warn().
			Int("num_paths", numPaths).
			Msg("Projection run aborted, discarding partial results")
		return nil, nil, fmt.Errorf("projection run aborted: %w", ErrTimeout)
	}

	outcomes := make([]PathOutcome, numPaths)
	var occupancy []int
	if model.regimes != nil {
		occupancy = make([]int, model.regimes.numStates())
	}
	for res := range results {
		for _, o := range res.outcomes {
			outcomes[o.PathIndex] = o
		}
		for st, c := range res.occupancy {
			occupancy[st] += c
		}
	}
	return outcomes, occupancy, nil
}

// simulatePath produces the scalar outcome of one path: returns trajectory,
// rebalanced value series, terminal value, maximum drawdown and ruin flag.
func simulatePath(
	model *returnModel,
	comp PortfolioComposition,
	cfg SimulationConfig,
	masterSeed uint64,
	pathIndex int,
	ruinLevel float64,
	checkRuin bool,
) (PathOutcome, []int) {
	src := pathSource(masterSeed, pathIndex)
	returns, occupancy := model.generate(src)
	path := rebalancePath(returns, comp.Weights, comp.InitialValue, cfg.Rebalance)

	// Drawdown is measured from the initial value onward so a decline in
	// the very first periods counts against the starting peak.
	series := make([]float64, 0, len(path)+1)
	series = append(series, comp.InitialValue)
	series = append(series, path...)

	outcome := PathOutcome{
		PathIndex:     pathIndex,
		TerminalValue: path[len(path)-1],
		MaxDrawdown:   formulas.MaxDrawdown(series),
	}
	if checkRuin {
		for _, v := range path {
			if v < ruinLevel {
				outcome.Ruined = true
				break
			}
		}
	}
	return outcome, occupancy
}

// generatePricePath rebuilds one path's full value series from its seed.
func generatePricePath(
	model *returnModel,
	comp PortfolioComposition,
	cfg SimulationConfig,
	masterSeed uint64,
	pathIndex int,
) []float64 {
	src := pathSource(masterSeed, pathIndex)
	returns, _ := model.generate(src)
	return rebalancePath(returns, comp.Weights, comp.InitialValue, cfg.Rebalance)
}

// resolveRuinLevel translates the configured ruin threshold into an absolute
// value level. The second return is false when no threshold is configured,
// in which case probability of ruin is 0 by definition.
func resolveRuinLevel(cfg SimulationConfig, comp PortfolioComposition) (float64, bool) {
	if cfg.RuinThreshold == nil {
		return 0, false
	}
	if cfg.RuinType == RuinAbsolute {
		return *cfg.RuinThreshold, true
	}
	return *cfg.RuinThreshold * comp.InitialValue, true
}
