// Package physics provides named dynamical systems for integration runs.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [Exponential]: linear growth and decay
//   - [SpringMass]: harmonic oscillator and spring chains
//   - [VanDerPol]: relaxation oscillator
//   - [Lorenz], [Rossler]: chaotic attractors
//   - [Duffing]: forced nonlinear oscillator
//   - [Cyclic]: cyclically coupled sine system
//   - [Riccati]: scalar non-autonomous test equation
//
// All models implement [dynamo.Configurable] for parameter adjustment and
// some implement [dynamo.Hamiltonian] for energy calculation.
//
// # Energy Conservation
//
// For Hamiltonian systems, use [dynamo.Hamiltonian] to monitor energy drift:
//
//	var dyn dynamo.System = physics.NewHarmonic()
//	if h, ok := dyn.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics

import (
	"fmt"

	"github.com/san-kum/odekit/internal/dynamo"
)

func unknownParam(system, name string) error {
	return fmt.Errorf("%w: %s has no parameter %q", dynamo.ErrUnknownParameter, system, name)
}
