package metrics

import "github.com/san-kum/odekit/internal/dynamo"

// Metric accumulates a scalar over the samples of a run.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// Evaluate resets each metric, replays the trajectory through it and
// returns the values by name.
func Evaluate(traj *dynamo.Trajectory, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i := range traj.Times {
			m.OnStep(traj.Times[i], traj.States[i])
		}
		out[m.Name()] = m.Value()
	}
	return out
}
