package integrators

import (
	"fmt"

	"github.com/san-kum/odekit/internal/dynamo"
)

// checkPhaseSpace requires a state laid out as [positions..., velocities...].
func checkPhaseSpace(n int) error {
	if n%2 != 0 {
		return fmt.Errorf("%w: symplectic steppers need an even state dimension, got %d", dynamo.ErrDimensionMismatch, n)
	}
	return nil
}

// Verlet is velocity Verlet for states [q..., v...] whose derivative is
// [v..., a...].
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) CheckDim(n int) error { return checkPhaseSpace(n) }

func (v *Verlet) Step(f dynamo.Func, t float64, x dynamo.State, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := f(t, x)
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	dxNew := f(t+dt, v.scratch)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfDt
	}

	return result
}

// Leapfrog is the kick-drift-kick scheme for the same state layout as Verlet.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) CheckDim(n int) error { return checkPhaseSpace(n) }

func (l *Leapfrog) Step(f dynamo.Func, t float64, x dynamo.State, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := f(t, x)
	halfDt := dt * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + dx[half+i]*halfDt
	}

	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	dxNew := f(t+dt, l.scratch)

	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + dxNew[half+i]*halfDt
	}

	return result
}
