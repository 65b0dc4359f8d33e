package physics

import "github.com/san-kum/odekit/internal/dynamo"

// Exponential is the scalar equation y' = rate*y.
type Exponential struct {
	Rate float64
	Init float64
}

func NewDecay() *Exponential  { return &Exponential{Rate: -1.0, Init: 1.0} }
func NewGrowth() *Exponential { return &Exponential{Rate: 2.0, Init: 0.25} }

func (e *Exponential) StateDim() int { return 1 }

func (e *Exponential) Derive(_ float64, s dynamo.State) dynamo.State {
	return s.Scale(e.Rate)
}

func (e *Exponential) DefaultState() dynamo.State { return dynamo.State{e.Init} }

func (e *Exponential) GetParams() map[string]float64 {
	return map[string]float64{"rate": e.Rate}
}

func (e *Exponential) SetParam(n string, v float64) error {
	if n != "rate" {
		return unknownParam("exponential", n)
	}
	e.Rate = v
	return nil
}
