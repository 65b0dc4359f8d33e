package physics

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Duffing implements a nonlinear forced oscillator.
// State: [x, v]; the forcing is evaluated at time t.
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{-1.0, 1.0, 0.3, 0.5, 1.2}
}

func (d *Duffing) StateDim() int { return 2 }

func (d *Duffing) Derive(t float64, s dynamo.State) dynamo.State {
	x, v := s[0], s[1]
	return dynamo.State{v, -d.Delta*v - d.Alpha*x - d.Beta*x*x*x + d.Gamma*math.Cos(d.Omega*t)}
}

func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0} }

// Energy is the unforced, undamped energy.
func (d *Duffing) Energy(s dynamo.State) float64 {
	x, v := s[0], s[1]
	return 0.5*v*v + 0.5*d.Alpha*x*x + 0.25*d.Beta*x*x*x*x
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(n string, v float64) error {
	switch n {
	case "alpha":
		d.Alpha = v
	case "beta":
		d.Beta = v
	case "delta":
		d.Delta = v
	case "gamma":
		d.Gamma = v
	case "omega":
		d.Omega = v
	default:
		return unknownParam("duffing", n)
	}
	return nil
}
