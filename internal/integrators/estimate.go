package integrators

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

const (
	// norms below this are treated as degenerate
	minScaleNorm = 1e-5
	// seed step used when the problem scale cannot be estimated
	fallbackStep = 1e-6
)

// InitialStep estimates a first trial step size for an embedded pair of
// order 5, starting from (t0, y0). It evaluates f once. The result is always
// strictly positive; degenerate or non-finite problem scales yield 1e-6.
func InitialStep(f dynamo.Func, t0 float64, y0 dynamo.State) float64 {
	f0 := f(t0, y0)
	if len(f0) != len(y0) {
		return fallbackStep
	}
	return initialStepFrom(y0, f0, DormandPrince45.Order)
}

func initialStepFrom(y0, f0 dynamo.State, order int) float64 {
	d0 := y0.Norm()
	d1 := f0.Norm()
	// negated comparisons also catch NaN
	if !(d0 >= minScaleNorm) || !(d1 >= minScaleNorm) || math.IsInf(d0, 0) || math.IsInf(d1, 0) {
		return fallbackStep
	}

	h0 := 0.01 * d0 / d1

	// explicit Euler predictor
	y1 := y0.AddScaled(h0, f0)
	d2 := y1.Norm() / h0
	dMax := math.Max(d1, d2)

	var h1 float64
	if dMax < 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/dMax, 1.0/float64(order))
	}

	h := math.Min(h1, 100*h0)
	if !(h > 0) || math.IsInf(h, 0) {
		return fallbackStep
	}
	return h
}
