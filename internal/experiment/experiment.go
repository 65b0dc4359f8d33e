package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
	"github.com/san-kum/odekit/internal/metrics"
)

// Experiment is one configured integration run of a named system.
type Experiment struct {
	cfg       *config.Config
	model     Model
	stepper   integrators.Stepper
	logger    *slog.Logger
	recorder  *metrics.Recorder
	observers []dynamo.Observer
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(e *Experiment) { e.recorder = r }
}

// New validates cfg and resolves its system and method from the registry.
func New(cfg *config.Config, registry *Registry, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := registry.GetModel(cfg.System)
	if err != nil {
		return nil, err
	}
	for name, v := range cfg.Params {
		if err := model.SetParam(name, v); err != nil {
			return nil, err
		}
	}

	e := &Experiment{
		cfg:    cfg,
		model:  model,
		logger: slog.New(slog.DiscardHandler),
	}
	if !cfg.Adaptive() {
		if e.stepper, err = registry.GetStepper(cfg.Method); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) Model() Model { return e.model }

// InitialState returns the configured initial state, or the model default.
func (e *Experiment) InitialState() dynamo.State {
	if len(e.cfg.InitialState) > 0 {
		return dynamo.State(e.cfg.InitialState).Clone()
	}
	return e.model.DefaultState()
}

// Solver builds the adaptive solver described by the configuration.
func (e *Experiment) Solver() *integrators.DormandPrince {
	opts := []integrators.Option{
		integrators.WithLogger(e.logger),
		integrators.WithMaxAttempts(e.cfg.MaxAttempts),
	}
	if e.cfg.InitialStep > 0 {
		opts = append(opts, integrators.WithInitialStep(e.cfg.InitialStep))
	}
	if e.cfg.ExactEnd {
		opts = append(opts, integrators.WithExactEnd())
	}
	for _, o := range e.observers {
		opts = append(opts, integrators.WithObserver(o))
	}
	return integrators.NewDormandPrince(opts...)
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Trajectory, error) {
	x0 := e.InitialState()
	if len(x0) != e.model.StateDim() {
		return nil, fmt.Errorf("%w: %s expects %d components, got %d", dynamo.ErrDimensionMismatch, e.cfg.System, e.model.StateDim(), len(x0))
	}

	start := time.Now()
	var (
		traj *dynamo.Trajectory
		err  error
	)
	if e.cfg.Adaptive() {
		traj, err = e.Solver().Integrate(ctx, e.model.Derive, e.cfg.Interval(), x0, e.cfg.Tolerance)
	} else {
		traj, err = e.runFixed(ctx, x0)
	}
	elapsed := time.Since(start)

	if e.recorder != nil {
		e.recorder.Record(e.cfg.System, e.cfg.Method, traj, err, elapsed)
	}
	if err != nil {
		e.logger.Error("integration failed", "system", e.cfg.System, "method", e.cfg.Method, "err", err)
		return traj, err
	}
	e.logger.Info("integration complete",
		"system", e.cfg.System, "method", e.cfg.Method, "samples", traj.Len(), "elapsed", elapsed)
	return traj, nil
}

func (e *Experiment) runFixed(ctx context.Context, x0 dynamo.State) (*dynamo.Trajectory, error) {
	traj, err := integrators.NewFixed(e.stepper).Integrate(ctx, e.model.Derive, e.cfg.Steps, e.cfg.Interval(), x0)
	if traj != nil {
		for i := range traj.Times {
			for _, o := range e.observers {
				o.OnStep(traj.Times[i], traj.States[i])
			}
		}
	}
	return traj, err
}
