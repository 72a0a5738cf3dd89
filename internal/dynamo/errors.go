package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration and analysis.
var (
	// ErrInvalidGrid indicates a time grid that is too short or not strictly increasing.
	ErrInvalidGrid = errors.New("dynamo: invalid time grid")

	// ErrDimensionMismatch indicates a derivative whose size differs from the state.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidParameter indicates a negative or non-finite model rate.
	ErrInvalidParameter = errors.New("dynamo: invalid model parameter")

	// ErrInsufficientData indicates too few samples for an estimate.
	ErrInsufficientData = errors.New("dynamo: insufficient data")

	// ErrInvalidValue indicates an input value outside the domain of an analysis.
	ErrInvalidValue = errors.New("dynamo: invalid value")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
