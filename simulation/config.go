package simulation

// PeriodsPerYear is the simulation granularity: one period per month.
const PeriodsPerYear = 12

// ModelType selects the stochastic return model.
type ModelType string

const (
	ModelGaussian        ModelType = "gaussian"
	ModelStudentT        ModelType = "student_t"
	ModelRegimeSwitching ModelType = "regime_switching"
)

// Scenario selects a stress-scenario overlay. Overlay magnitudes are fixed,
// versioned constants; configuration only selects which overlay applies.
type Scenario string

const (
	ScenarioNone            Scenario = ""
	ScenarioJapanLostDecade Scenario = "japan_lost_decade"
	ScenarioStagflation     Scenario = "stagflation"
)

// RebalanceFrequency controls how often allocations reset to target weights.
// The empty value means buy-and-hold (never rebalance).
type RebalanceFrequency string

const (
	RebalanceNone      RebalanceFrequency = ""
	RebalanceQuarterly RebalanceFrequency = "quarterly"
	RebalanceMonthly   RebalanceFrequency = "monthly"
)

// periods returns the number of periods between rebalancing boundaries,
// or 0 for buy-and-hold.
func (f RebalanceFrequency) periods() int {
	switch f {
	case RebalanceMonthly:
		return 1
	case RebalanceQuarterly:
		return 3
	default:
		return 0
	}
}

// MuType selects which expected-return estimate drives the simulation.
type MuType string

const (
	MuHistorical MuType = "historical"
	MuForward    MuType = "forward"
)

// RuinThresholdType describes how RuinThreshold is interpreted.
type RuinThresholdType string

const (
	RuinPercentage RuinThresholdType = "percentage"
	RuinAbsolute   RuinThresholdType = "absolute"
)

// SimulationConfig describes one projection run. It is immutable for the
// duration of the run.
type SimulationConfig struct {
	HorizonYears int                `json:"horizon_years" msgpack:"horizon_years"`
	NumPaths     int                `json:"num_paths" msgpack:"num_paths"`
	Model        ModelType          `json:"model" msgpack:"model"`
	Scenario     Scenario           `json:"scenario,omitempty" msgpack:"scenario"`
	Rebalance    RebalanceFrequency `json:"rebalance_frequency,omitempty" msgpack:"rebalance_frequency"`
	MuSource     MuType             `json:"mu_type" msgpack:"mu_type"`
	SamplePaths  int                `json:"sample_paths" msgpack:"sample_paths"`

	// RuinThreshold is optional. When nil, probability of ruin is 0 by
	// definition. Percentage thresholds are fractions of initial value.
	RuinThreshold *float64          `json:"ruin_threshold,omitempty" msgpack:"ruin_threshold"`
	RuinType      RuinThresholdType `json:"ruin_threshold_type,omitempty" msgpack:"ruin_threshold_type"`
}

// Periods returns the total number of simulated periods.
func (c SimulationConfig) Periods() int {
	return c.HorizonYears * PeriodsPerYear
}

// Validate checks the configuration for internal consistency. All failures
// are ConfigurationErrors raised before any sampling begins.
func (c SimulationConfig) Validate() error {
	if c.HorizonYears <= 0 {
		return configErr("horizon_years", "must be positive, got %d", c.HorizonYears)
	}
	if c.NumPaths < 1 {
		return configErr("num_paths", "must be at least 1, got %d", c.NumPaths)
	}
	switch c.Model {
	case ModelGaussian, ModelStudentT, ModelRegimeSwitching:
	default:
		return configErr("model", "unknown model type %q", c.Model)
	}
	switch c.Scenario {
	case ScenarioNone, ScenarioJapanLostDecade, ScenarioStagflation:
	default:
		return configErr("scenario", "unknown scenario %q", c.Scenario)
	}
	switch c.Rebalance {
	case RebalanceNone, RebalanceQuarterly, RebalanceMonthly:
	default:
		return configErr("rebalance_frequency", "unknown frequency %q", c.Rebalance)
	}
	switch c.MuSource {
	case MuHistorical, MuForward:
	default:
		return configErr("mu_type", "unknown expected-return source %q", c.MuSource)
	}
	if c.SamplePaths < 0 {
		return configErr("sample_paths", "must not be negative, got %d", c.SamplePaths)
	}
	if c.SamplePaths > c.NumPaths {
		return configErr("sample_paths", "%d exceeds num_paths %d", c.SamplePaths, c.NumPaths)
	}
	if c.RuinThreshold != nil {
		switch c.RuinType {
		case RuinPercentage:
			if *c.RuinThreshold <= 0 || *c.RuinThreshold >= 1 {
				return configErr("ruin_threshold", "percentage threshold must be in (0, 1), got %g", *c.RuinThreshold)
			}
		case RuinAbsolute:
			if *c.RuinThreshold <= 0 {
				return configErr("ruin_threshold", "absolute threshold must be positive, got %g", *c.RuinThreshold)
			}
		default:
			return configErr("ruin_threshold_type", "unknown threshold type %q", c.RuinType)
		}
	}
	return nil
}
