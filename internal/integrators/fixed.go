package integrators

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Stepper advances a state by one fixed step dt.
type Stepper interface {
	Step(f dynamo.Func, t float64, x dynamo.State, dt float64) dynamo.State
}

// dimensionChecker is implemented by steppers that only accept some state layouts.
type dimensionChecker interface {
	CheckDim(n int) error
}

// Fixed integrates on a uniform grid with no error control. Steppers keep
// scratch buffers, so a Fixed value must not be shared between goroutines.
type Fixed struct {
	stepper Stepper
}

func NewFixed(stepper Stepper) *Fixed {
	return &Fixed{stepper: stepper}
}

// Integrate takes n uniform steps of (end-start)/n. Times are computed as
// start + i*dt rather than accumulated.
func (fx *Fixed) Integrate(ctx context.Context, f dynamo.Func, n int, interval [2]float64, y0 dynamo.State) (*dynamo.Trajectory, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrInvalidSteps, n)
	}
	if err := validateProblem(interval, y0); err != nil {
		return nil, err
	}
	if dc, ok := fx.stepper.(dimensionChecker); ok {
		if err := dc.CheckDim(len(y0)); err != nil {
			return nil, err
		}
	}

	start := interval[0]
	if got := len(f(start, y0)); got != len(y0) {
		return nil, fmt.Errorf("%w: derivative has %d components, state has %d", dynamo.ErrDimensionMismatch, got, len(y0))
	}

	dt := (interval[1] - start) / float64(n)
	traj := dynamo.NewTrajectory(start, y0, n+1)
	x := y0.Clone()

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return traj, &dynamo.SimulationError{Step: i, Time: traj.Times[i], State: x, StepSize: dt, Wrapped: errors.Join(dynamo.ErrContextCanceled, err)}
		}

		t := start + float64(i)*dt
		next := fx.stepper.Step(f, t, x, dt)
		if !next.IsValid() {
			return traj, &dynamo.SimulationError{Step: i + 1, Time: t, State: x, StepSize: dt, Wrapped: dynamo.ErrInvalidState}
		}
		x = next
		traj.Append(start+float64(i+1)*dt, x)
		traj.Stats.Accepted++
	}
	traj.Stats.LastStep = dt
	traj.Stats.NextStep = dt

	return traj, nil
}

// FixedStep integrates the autonomous system y' = f(y) with n classic RK4
// steps and returns the states and their times.
func FixedStep(n int, interval [2]float64, y0 dynamo.State, f func(dynamo.State) dynamo.State) ([]dynamo.State, []float64, error) {
	traj, err := NewFixed(NewRK4()).Integrate(context.Background(), dynamo.Autonomous(f), n, interval, y0)
	if traj == nil {
		return nil, nil, err
	}
	return traj.States, traj.Times, err
}
