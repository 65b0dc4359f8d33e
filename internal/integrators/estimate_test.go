package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
)

func TestInitialStep_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		y0   dynamo.State
		f    dynamo.Func
	}{
		{"zero state and derivative", dynamo.State{0}, func(float64, dynamo.State) dynamo.State { return dynamo.State{0} }},
		{"zero state", dynamo.State{0, 0}, func(float64, dynamo.State) dynamo.State { return dynamo.State{1, 1} }},
		{"zero derivative", dynamo.State{3}, func(float64, dynamo.State) dynamo.State { return dynamo.State{0} }},
		{"nan derivative", dynamo.State{1}, func(float64, dynamo.State) dynamo.State { return dynamo.State{math.NaN()} }},
		{"inf derivative", dynamo.State{1}, func(float64, dynamo.State) dynamo.State { return dynamo.State{math.Inf(-1)} }},
		{"wrong dimension", dynamo.State{1}, func(float64, dynamo.State) dynamo.State { return dynamo.State{1, 1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h := InitialStep(tt.f, 0, tt.y0); h != 1e-6 {
				t.Errorf("InitialStep = %v, want exactly 1e-6", h)
			}
		})
	}
}

func TestInitialStep_Decay(t *testing.T) {
	h := InitialStep(decay, 0, dynamo.State{1})

	// d0 = d1 = 1, h0 = 0.01, predictor 0.99, d2 = 99
	want := math.Min(math.Pow(0.01/99, 0.2), 1.0)
	if math.Abs(h-want) > 1e-15 {
		t.Errorf("InitialStep = %.17g, want %.17g", h, want)
	}
}

func TestInitialStep_CappedByPredictor(t *testing.T) {
	// tiny state, large derivative: 100*h0 is the binding bound
	f := func(float64, dynamo.State) dynamo.State { return dynamo.State{1e3} }
	y0 := dynamo.State{1e-2}

	h := InitialStep(f, 0, y0)
	h0 := 0.01 * 1e-2 / 1e3
	if want := 100 * h0; math.Abs(h-want) > 1e-18 {
		t.Errorf("InitialStep = %g, want %g", h, want)
	}
}

func TestInitialStep_Positive(t *testing.T) {
	for _, y0 := range []dynamo.State{{1, 0}, {1e6, -1e6}, {1e-3, 2e-3, 3e-3}} {
		f := func(_ float64, y dynamo.State) dynamo.State { return y.Scale(-2) }
		if h := InitialStep(f, 0, y0); !(h > 0) || math.IsInf(h, 0) {
			t.Errorf("InitialStep(%v) = %v, want positive finite", y0, h)
		}
	}
}
