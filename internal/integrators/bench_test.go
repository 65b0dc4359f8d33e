package integrators

import (
	"context"
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator, 0, x, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator, 0, x, 0.01)
	}
}

func BenchmarkVerlet(b *testing.B) {
	integrator := NewVerlet()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator, 0, x, 0.01)
	}
}

func BenchmarkLeapfrog(b *testing.B) {
	integrator := NewLeapfrog()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator, 0, x, 0.01)
	}
}

func BenchmarkDormandPrince_Oscillator(b *testing.B) {
	solver := NewDormandPrince()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Integrate(ctx, oscillator, [2]float64{0, 10}, dynamo.State{1, 0}, 1e-6); err != nil {
			b.Fatal(err)
		}
	}
}

func nbody5(_ float64, x dynamo.State) dynamo.State {
	dx := make(dynamo.State, 20)
	for i := 0; i < 5; i++ {
		dx[i*4] = x[i*4+2]
		dx[i*4+1] = x[i*4+3]
		dx[i*4+2] = -x[i*4] * 0.1
		dx[i*4+3] = -x[i*4+1] * 0.1
	}
	return dx
}

func BenchmarkRK4_NBody5(b *testing.B) {
	integrator := NewRK4()
	x := make(dynamo.State, 20)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(nbody5, 0, x, 0.001)
	}
}

func BenchmarkDormandPrince_NBody5(b *testing.B) {
	solver := NewDormandPrince()
	ctx := context.Background()
	x0 := make(dynamo.State, 20)
	for i := range x0 {
		x0[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Integrate(ctx, nbody5, [2]float64{0, 1}, x0, 1e-6); err != nil {
			b.Fatal(err)
		}
	}
}
