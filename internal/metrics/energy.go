package metrics

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Energy is the mean energy over all samples.
type Energy struct {
	name        string
	h           dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(h dynamo.Hamiltonian) *Energy {
	return &Energy{
		name: "energy",
		h:    h,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnStep(_ float64, x dynamo.State) {
	e.totalEnergy += e.h.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the energy of the first sample.
type EnergyDrift struct {
	name          string
	h             dynamo.Hamiltonian
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(h dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		h:    h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(_ float64, x dynamo.State) {
	energy := e.h.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
