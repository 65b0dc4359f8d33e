package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm.
func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

// AddScaled returns s + alpha*other as a new state.
func (s State) AddScaled(alpha float64, other State) State {
	result := make(State, len(s))
	floats.AddScaledTo(result, s, alpha, other)
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	floats.SubTo(result, s, other)
	return result
}

// Func is a derivative function dy/dt = f(t, y). It must return a slice of
// the same length as y and must not modify y. Returning y itself is allowed.
type Func func(t float64, y State) State

// Autonomous adapts a time-independent derivative to a Func.
func Autonomous(f func(y State) State) Func {
	return func(_ float64, y State) State { return f(y) }
}

// System is a named dynamical system with a default initial condition.
type System interface {
	Derive(t float64, x State) State
	StateDim() int
	DefaultState() State
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Observer receives every accepted sample of a run, starting with the initial condition.
type Observer interface {
	OnStep(t float64, x State)
}

// ObserverFunc adapts a plain function to an Observer.
type ObserverFunc func(t float64, x State)

func (f ObserverFunc) OnStep(t float64, x State) { f(t, x) }

// Stats records step bookkeeping for one integration run.
type Stats struct {
	Accepted    int
	Rejected    int
	Evaluations int
	LastStep    float64
	NextStep    float64
}

// Trajectory holds accepted samples in increasing time order. Times[i] is
// the time of States[i]; index 0 is the initial condition.
type Trajectory struct {
	Times  []float64
	States []State
	Stats  Stats
}

func NewTrajectory(t0 float64, x0 State, capacity int) *Trajectory {
	tr := &Trajectory{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
	tr.Append(t0, x0)
	return tr
}

// Append records a sample. The state is copied.
func (tr *Trajectory) Append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x.Clone())
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Last returns the most recent sample.
func (tr *Trajectory) Last() (float64, State) {
	i := len(tr.Times) - 1
	return tr.Times[i], tr.States[i]
}

// Component extracts the i-th state component across all samples.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		if i < len(s) {
			out[k] = s[i]
		}
	}
	return out
}
