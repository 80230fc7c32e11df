package simulation

import (
	"math"
	"sort"

	"github.com/aristath/projections/pkg/formulas"
)

// percentileSet is the fixed, documented percentile grid reported for both
// terminal wealth and maximum drawdown.
var (
	percentileSet  = []float64{5, 25, 50, 75, 95}
	percentileKeys = []string{"p05", "p25", "p50", "p75", "p95"}
)

// cvarConfidence is the tail confidence level: CVaR95 averages the worst 5%
// of terminal values.
const cvarConfidence = 0.95

// aggregate reduces the full outcome collection into the metric set of a
// SimulationResult. Sample paths are selected here by index and percentile
// rank; their values are filled in afterwards by regenerating each selected
// path from its seed.
func aggregate(cfg SimulationConfig, outcomes []PathOutcome, occupancy []int, ruinConfigured bool) (*SimulationResult, error) {
	if len(outcomes) == 0 {
		return nil, &InvariantError{Msg: "aggregating empty outcome set"}
	}

	terminals := make([]float64, len(outcomes))
	drawdowns := make([]float64, len(outcomes))
	ruined := 0
	for i, o := range outcomes {
		terminals[i] = o.TerminalValue
		drawdowns[i] = o.MaxDrawdown
		if o.Ruined {
			ruined++
		}
	}

	res := &SimulationResult{
		NumPaths:            len(outcomes),
		MeanTerminal:        formulas.Mean(terminals),
		MedianTerminal:      formulas.Median(terminals),
		TerminalPercentiles: percentileMap(terminals),
		MeanMaxDrawdown:     formulas.Mean(drawdowns),
		DrawdownPercentiles: percentileMap(drawdowns),
		CVaR95:              formulas.CVaR(terminals, cvarConfidence),
	}

	if ruinConfigured {
		res.ProbabilityOfRuin = float64(ruined) / float64(len(outcomes))
	}

	if occupancy != nil {
		totalPeriods := 0
		for _, c := range occupancy {
			totalPeriods += c
		}
		if totalPeriods > 0 {
			res.RegimeOccupancy = make(map[string]float64, len(occupancy))
			for s, c := range occupancy {
				res.RegimeOccupancy[regimeNames[s]] = float64(c) / float64(totalPeriods)
			}
		}
	}

	res.SamplePaths = selectSamplePaths(outcomes, cfg.SamplePaths)
	return res, nil
}

func percentileMap(data []float64) map[string]float64 {
	vals := formulas.Percentiles(data, percentileSet)
	m := make(map[string]float64, len(vals))
	for i, key := range percentileKeys {
		m[key] = vals[i]
	}
	return m
}

// selectSamplePaths picks the paths whose terminal values rank closest to
// evenly spaced percentile targets (decile midpoints when 10 are requested),
// so the retained sample spans the outcome distribution instead of being an
// arbitrary random subset. Ties and rank collisions resolve toward lower
// path indices.
func selectSamplePaths(outcomes []PathOutcome, count int) []SamplePath {
	if count <= 0 {
		return nil
	}
	n := len(outcomes)
	if count > n {
		count = n
	}

	// Order paths by terminal value, path index breaking ties.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		oa, ob := outcomes[order[a]], outcomes[order[b]]
		if oa.TerminalValue != ob.TerminalValue {
			return oa.TerminalValue < ob.TerminalValue
		}
		return oa.PathIndex < ob.PathIndex
	})

	used := make(map[int]bool, count)
	samples := make([]SamplePath, 0, count)
	for i := 0; i < count; i++ {
		target := (float64(i) + 0.5) / float64(count)
		rank := int(math.Round(target * float64(n-1)))
		for rank < n && used[rank] {
			rank++
		}
		if rank >= n {
			rank = n - 1
			for used[rank] {
				rank--
			}
		}
		used[rank] = true
		// The label is the selection target, not the achieved rank: when a
		// collision advanced rank, the path still represents its grid slot.
		samples = append(samples, SamplePath{
			PathIndex:      outcomes[order[rank]].PathIndex,
			PercentileRank: target * 100,
		})
	}
	return samples
}
