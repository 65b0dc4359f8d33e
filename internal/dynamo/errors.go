package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrEmptyState indicates an initial state with no components.
	ErrEmptyState = errors.New("dynamo: initial state is empty")

	// ErrInvalidInterval indicates a time interval whose start does not precede its end.
	ErrInvalidInterval = errors.New("dynamo: invalid time interval (start must precede end)")

	// ErrInvalidTolerance indicates a non-positive or non-finite tolerance.
	ErrInvalidTolerance = errors.New("dynamo: tolerance must be positive and finite")

	// ErrInvalidSteps indicates a non-positive step count for fixed-step runs.
	ErrInvalidSteps = errors.New("dynamo: number of steps must be positive")

	// ErrStall indicates a step could not be accepted within the attempt budget.
	ErrStall = errors.New("dynamo: step size control stalled")

	// ErrStepTooSmall indicates the step size no longer advances time.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrContextCanceled indicates the integration was interrupted.
	ErrContextCanceled = errors.New("dynamo: integration canceled by context")

	// ErrUnknownParameter indicates a parameter name a system does not define.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrDimensionMismatch indicates a derivative whose length differs from the state.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and derivative")
)

// SimulationError wraps an error with the integration context it occurred in.
type SimulationError struct {
	Step     int
	Time     float64
	State    State
	StepSize float64
	Attempts int
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g, h=%.3g, attempts=%d): %v", e.Step, e.Time, e.StepSize, e.Attempts, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
