// Package dynamo provides the core primitives shared by the ODE integrators.
//
// The package defines the fundamental types for numerical integration of
// ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [Func]: derivative function dy/dt = f(t, y)
//   - [Trajectory]: accepted (time, state) samples of one run
//   - [Stats]: step bookkeeping for one run
//
// # Example
//
//	f := func(t float64, y dynamo.State) dynamo.State { return dynamo.State{-y[0]} }
//	solver := integrators.NewDormandPrince()
//	traj, err := solver.Integrate(ctx, f, [2]float64{0, 5}, dynamo.State{1}, 1e-6)
//
// # Thread Safety
//
// A Trajectory is owned by the integration call that produced it. Derivative
// functions must be free of side effects so that independent runs can share them.
package dynamo
