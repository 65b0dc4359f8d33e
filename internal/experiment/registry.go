package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
	"github.com/san-kum/odekit/internal/physics"
)

// Model is a system whose parameters can be set by name.
type Model interface {
	dynamo.System
	dynamo.Configurable
}

type Registry struct {
	models   map[string]func() Model
	steppers map[string]func() integrators.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		models:   make(map[string]func() Model),
		steppers: make(map[string]func() integrators.Stepper),
	}

	r.models["decay"] = func() Model { return physics.NewDecay() }
	r.models["growth"] = func() Model { return physics.NewGrowth() }
	r.models["harmonic"] = func() Model { return physics.NewHarmonic() }
	r.models["spring_mass"] = func() Model { return physics.NewSpringMass() }
	r.models["spring_chain"] = func() Model { return physics.NewSpringMassChain(3) }
	r.models["vanderpol"] = func() Model { return physics.NewVanDerPol() }
	r.models["lorenz"] = func() Model { return physics.NewLorenz() }
	r.models["rossler"] = func() Model { return physics.NewRossler() }
	r.models["duffing"] = func() Model { return physics.NewDuffing() }
	r.models["cyclic"] = func() Model { return physics.NewCyclic() }
	r.models["riccati"] = func() Model { return physics.NewRiccati() }

	r.steppers[config.MethodEuler] = func() integrators.Stepper { return integrators.NewEuler() }
	r.steppers[config.MethodRK4] = func() integrators.Stepper { return integrators.NewRK4() }
	r.steppers[config.MethodVerlet] = func() integrators.Stepper { return integrators.NewVerlet() }
	r.steppers[config.MethodLeapfrog] = func() integrators.Stepper { return integrators.NewLeapfrog() }

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() Model) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetStepper(name string) (integrators.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown fixed-step method: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
