package physics

import "github.com/san-kum/odekit/internal/dynamo"

// Riccati is the scalar non-autonomous equation y' = y(2-t)t + t - 1.
type Riccati struct{}

func NewRiccati() *Riccati { return &Riccati{} }

func (r *Riccati) StateDim() int { return 1 }

func (r *Riccati) Derive(t float64, s dynamo.State) dynamo.State {
	return dynamo.State{s[0]*(2-t)*t + t - 1}
}

func (r *Riccati) DefaultState() dynamo.State { return dynamo.State{1.0} }

func (r *Riccati) GetParams() map[string]float64 { return map[string]float64{} }

func (r *Riccati) SetParam(n string, _ float64) error {
	return unknownParam("riccati", n)
}
