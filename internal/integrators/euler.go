package integrators

import "github.com/san-kum/odekit/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Func, t float64, x dynamo.State, dt float64) dynamo.State {
	return x.AddScaled(dt, f(t, x))
}
