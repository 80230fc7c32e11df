package simulation

import (
	"errors"
	"fmt"
)

// ErrTimeout reports that a run exceeded its time budget. Partial results
// are discarded: metrics over an unpredictable subset of paths would
// misrepresent tail statistics.
var ErrTimeout = errors.New("simulation timed out before completion")

// ConfigurationError reports an invalid or inconsistent SimulationConfig or
// PortfolioComposition. It is always raised before any simulation work
// begins and is safe to surface verbatim to the caller.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports a broken internal invariant (e.g., aggregating an
// empty outcome set). It always indicates a programming error and is fatal
// to the run.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Msg
}

// Warning codes for non-fatal numerical conditions.
const (
	WarnCovarianceRegularized = "covariance_regularized"
)

// Warning is a non-fatal numerical condition observed during a run. Warnings
// are logged and attached to the result as metadata; they never abort the
// simulation.
type Warning struct {
	Code   string `json:"code" msgpack:"code"`
	Detail string `json:"detail" msgpack:"detail"`
}
