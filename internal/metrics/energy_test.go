package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
)

// oscillator is the unit harmonic oscillator, E = (x² + v²)/2.
type oscillator struct{}

func (oscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy(oscillator{})

	m.OnStep(0, dynamo.State{1, 0})
	m.OnStep(1, dynamo.State{0, 2})

	expected := (0.5 + 2.0) / 2
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected mean energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(oscillator{})

	m.OnStep(0, dynamo.State{1.0, 1.0})
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(oscillator{})

	m.OnStep(0, dynamo.State{1, 0})
	m.OnStep(1, dynamo.State{0, 1})
	if m.Value() != 0 {
		t.Errorf("expected no drift on the energy shell, got %g", m.Value())
	}

	m.OnStep(2, dynamo.State{1.1, 0})
	m.OnStep(3, dynamo.State{1, 0})
	expected := (0.5*1.21 - 0.5) / 0.5
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected max drift %g, got %g", expected, m.Value())
	}

	m.Reset()
	m.OnStep(0, dynamo.State{2, 0})
	if m.Value() != 0 {
		t.Errorf("expected drift relative to new first sample, got %g", m.Value())
	}
}

func TestEnergyDriftZeroEnergy(t *testing.T) {
	m := NewEnergyDrift(oscillator{})
	m.OnStep(0, dynamo.State{0, 0})
	m.OnStep(1, dynamo.State{1, 0})
	if m.Value() != 0 {
		t.Errorf("relative drift from zero energy should stay 0, got %g", m.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	if s.Value() != 1 {
		t.Errorf("empty run should be fully stable, got %f", s.Value())
	}

	s.OnStep(0, dynamo.State{1, 2})
	s.OnStep(1, dynamo.State{1, -20})
	s.OnStep(2, dynamo.State{5, 5})
	s.OnStep(3, dynamo.State{math.Inf(1), 0})

	if s.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", s.Value())
	}
}

func TestEvaluate(t *testing.T) {
	traj := dynamo.NewTrajectory(0, dynamo.State{1, 0}, 3)
	traj.Append(1, dynamo.State{0, 1})
	traj.Append(2, dynamo.State{-1, 0})

	drift := NewEnergyDrift(oscillator{})
	drift.OnStep(0, dynamo.State{100, 0}) // stale state must be cleared

	got := Evaluate(traj, drift, NewStability(0.5), NewEnergy(oscillator{}))

	if got["energy_drift"] != 0 {
		t.Errorf("energy_drift = %g, want 0", got["energy_drift"])
	}
	if math.Abs(got["energy"]-0.5) > 1e-12 {
		t.Errorf("energy = %g, want 0.5", got["energy"])
	}
	if got["stability"] != 0 {
		t.Errorf("stability = %g, want 0", got["stability"])
	}
}
