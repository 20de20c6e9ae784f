package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState reports a body whose position or velocity is NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	ErrInvalidConfig = errors.New("sim: invalid run config")

	ErrEmptyScenario = errors.New("sim: scenario has no bodies")
)

// SimulationError wraps an error with the step and time it occurred at.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%v (step %d, t=%.6g)", e.Wrapped, e.Step, e.Time)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
