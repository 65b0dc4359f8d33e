package physics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/odekit/internal/dynamo"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

// SpringMass is a chain of masses between two walls.
// State: [x_1..x_n, v_1..v_n].
type SpringMass struct {
	NumMasses int
	Masses    []float64
	Stiffness []float64
	Damping   []float64
}

// NewHarmonic returns the unit oscillator d²x/dt² = -x.
func NewHarmonic() *SpringMass {
	return &SpringMass{
		NumMasses: 1,
		Masses:    []float64{1},
		Stiffness: []float64{1},
		Damping:   []float64{0},
	}
}

func NewSpringMass() *SpringMass {
	return &SpringMass{
		NumMasses: 1,
		Masses:    []float64{DefaultMass},
		Stiffness: []float64{DefaultStiffness},
		Damping:   []float64{DefaultDamping},
	}
}

func NewSpringMassChain(n int) *SpringMass {
	masses := make([]float64, n)
	stiffness := make([]float64, n+1)
	damping := make([]float64, n)

	for i := 0; i < n; i++ {
		masses[i] = DefaultMass
		stiffness[i] = DefaultStiffness
		damping[i] = 0.2
	}
	stiffness[n] = DefaultStiffness

	return &SpringMass{
		NumMasses: n,
		Masses:    masses,
		Stiffness: stiffness,
		Damping:   damping,
	}
}

func (s *SpringMass) StateDim() int { return s.NumMasses * 2 }

func (s *SpringMass) Derive(_ float64, x dynamo.State) dynamo.State {
	n := s.NumMasses
	dx := make(dynamo.State, n*2)

	for i := 0; i < n; i++ {
		dx[i] = x[n+i]
	}

	for i := 0; i < n; i++ {
		pos, vel := x[i], x[n+i]

		var forceLeft, forceRight float64
		if i == 0 {
			forceLeft = -s.Stiffness[0] * pos
		} else {
			forceLeft = -s.Stiffness[i] * (pos - x[i-1])
		}

		if i == n-1 {
			if len(s.Stiffness) > n {
				forceRight = -s.Stiffness[n] * pos
			}
		} else {
			forceRight = -s.Stiffness[i+1] * (pos - x[i+1])
		}

		dx[n+i] = (forceLeft + forceRight - s.Damping[i]*vel) / s.Masses[i]
	}

	return dx
}

// DefaultState displaces the first mass by one unit.
func (s *SpringMass) DefaultState() dynamo.State {
	x := make(dynamo.State, s.StateDim())
	x[0] = 1
	return x
}

func (s *SpringMass) Energy(x dynamo.State) float64 {
	n := s.NumMasses
	energy := 0.0

	for i := 0; i < n; i++ {
		v := x[n+i]
		energy += 0.5 * s.Masses[i] * v * v
	}

	for i := 0; i < n; i++ {
		pos := x[i]
		if i == 0 {
			energy += 0.5 * s.Stiffness[0] * pos * pos
		} else {
			stretch := pos - x[i-1]
			energy += 0.5 * s.Stiffness[i] * stretch * stretch
		}
	}

	if len(s.Stiffness) > n {
		energy += 0.5 * s.Stiffness[n] * x[n-1] * x[n-1]
	}

	return energy
}

// GetParams reports per-element parameters as mass_i, k_i and c_i.
func (s *SpringMass) GetParams() map[string]float64 {
	p := make(map[string]float64, 3*s.NumMasses+1)
	for i := 0; i < s.NumMasses; i++ {
		p["mass_"+strconv.Itoa(i)] = s.Masses[i]
		p["c_"+strconv.Itoa(i)] = s.Damping[i]
	}
	for i, k := range s.Stiffness {
		p["k_"+strconv.Itoa(i)] = k
	}
	return p
}

func (s *SpringMass) SetParam(n string, v float64) error {
	prefix, idx, ok := strings.Cut(n, "_")
	if !ok {
		return unknownParam("spring_mass", n)
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return unknownParam("spring_mass", n)
	}

	var target []float64
	switch prefix {
	case "mass":
		target = s.Masses
	case "k":
		target = s.Stiffness
	case "c":
		target = s.Damping
	default:
		return unknownParam("spring_mass", n)
	}
	if i >= len(target) {
		return fmt.Errorf("%w: %s index %d out of range", dynamo.ErrUnknownParameter, prefix, i)
	}
	if prefix == "mass" && v <= 0 {
		return fmt.Errorf("mass must be positive, got %g", v)
	}
	target[i] = v
	return nil
}
