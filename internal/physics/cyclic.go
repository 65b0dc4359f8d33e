package physics

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Cyclic couples three damped components through sines:
//
//	dx/dt = sin(y) - αx
//	dy/dt = sin(z) - αy
//	dz/dt = sin(x) - αz
type Cyclic struct {
	alpha float64
}

func NewCyclic() *Cyclic { return &Cyclic{alpha: 0.1} }

func (c *Cyclic) StateDim() int { return 3 }

func (c *Cyclic) Derive(_ float64, s dynamo.State) dynamo.State {
	return dynamo.State{
		math.Sin(s[1]) - c.alpha*s[0],
		math.Sin(s[2]) - c.alpha*s[1],
		math.Sin(s[0]) - c.alpha*s[2],
	}
}

func (c *Cyclic) DefaultState() dynamo.State { return dynamo.State{1.0, 2.0, 3.0} }

func (c *Cyclic) GetParams() map[string]float64 {
	return map[string]float64{"alpha": c.alpha}
}

func (c *Cyclic) SetParam(n string, v float64) error {
	if n != "alpha" {
		return unknownParam("cyclic", n)
	}
	c.alpha = v
	return nil
}
