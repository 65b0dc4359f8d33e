package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
)

type model interface {
	dynamo.System
	dynamo.Configurable
}

func allModels() map[string]model {
	return map[string]model{
		"decay":        NewDecay(),
		"growth":       NewGrowth(),
		"harmonic":     NewHarmonic(),
		"spring_mass":  NewSpringMass(),
		"spring_chain": NewSpringMassChain(3),
		"vanderpol":    NewVanDerPol(),
		"lorenz":       NewLorenz(),
		"rossler":      NewRossler(),
		"duffing":      NewDuffing(),
		"cyclic":       NewCyclic(),
		"riccati":      NewRiccati(),
	}
}

func TestModels_DerivativeShape(t *testing.T) {
	for name, m := range allModels() {
		t.Run(name, func(t *testing.T) {
			x0 := m.DefaultState()
			if len(x0) != m.StateDim() {
				t.Fatalf("default state has %d components, StateDim is %d", len(x0), m.StateDim())
			}
			dx := m.Derive(0.3, x0)
			if len(dx) != len(x0) {
				t.Errorf("derivative has %d components, want %d", len(dx), len(x0))
			}
			if !dx.IsValid() {
				t.Errorf("derivative %v is not finite", dx)
			}
		})
	}
}

func TestModels_UnknownParam(t *testing.T) {
	for name, m := range allModels() {
		if err := m.SetParam("no_such_param", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
			t.Errorf("%s: expected unknown parameter error, got %v", name, err)
		}
	}
}

func TestModels_SetParamRoundTrip(t *testing.T) {
	for name, m := range allModels() {
		for p := range m.GetParams() {
			if err := m.SetParam(p, 0.75); err != nil {
				t.Errorf("%s: SetParam(%s) failed: %v", name, p, err)
				continue
			}
			if got := m.GetParams()[p]; got != 0.75 {
				t.Errorf("%s: %s = %v after SetParam", name, p, got)
			}
		}
	}
}

func TestHarmonic_Energy(t *testing.T) {
	h := NewHarmonic()
	if e := h.Energy(dynamo.State{1, 0}); math.Abs(e-0.5) > 1e-15 {
		t.Errorf("expected energy 0.5, got %v", e)
	}
	dx := h.Derive(0, dynamo.State{1, 0})
	if dx[0] != 0 || dx[1] != -1 {
		t.Errorf("expected [0 -1], got %v", dx)
	}
}

func TestRiccati_Derive(t *testing.T) {
	r := NewRiccati()
	// y(2-t)t + t - 1 at t=1, y=2
	if got := r.Derive(1, dynamo.State{2})[0]; got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestSpringMass_InvalidMass(t *testing.T) {
	s := NewSpringMass()
	if err := s.SetParam("mass_0", 0); err == nil {
		t.Error("expected error for zero mass")
	}
	if err := s.SetParam("k_9", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("expected out of range error, got %v", err)
	}
}
