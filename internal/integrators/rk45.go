package integrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odekit/internal/dynamo"
)

// DefaultMaxAttempts bounds the number of trial steps spent on one step.
const DefaultMaxAttempts = 1000

// DormandPrince integrates with the adaptive Dormand-Prince 4(5) pair.
//
// A DormandPrince value only holds configuration; Integrate keeps all run
// state on its own stack, so one value may serve concurrent runs as long as
// the configured observers are safe for concurrent use.
type DormandPrince struct {
	tableau     *Tableau
	controller  Controller
	initialStep float64
	maxAttempts int
	exactEnd    bool
	logger      *slog.Logger
	observers   []dynamo.Observer
}

type Option func(*DormandPrince)

// WithInitialStep skips the step estimator and seeds the run with h.
func WithInitialStep(h float64) Option {
	return func(d *DormandPrince) { d.initialStep = h }
}

func WithMaxAttempts(n int) Option {
	return func(d *DormandPrince) { d.maxAttempts = n }
}

// WithExactEnd clamps the last step so the trajectory ends exactly at the
// requested end time instead of overshooting it.
func WithExactEnd() Option {
	return func(d *DormandPrince) { d.exactEnd = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *DormandPrince) { d.logger = l }
}

func WithController(c Controller) Option {
	return func(d *DormandPrince) { d.controller = c }
}

// WithObserver registers o to receive every accepted sample.
func WithObserver(o dynamo.Observer) Option {
	return func(d *DormandPrince) { d.observers = append(d.observers, o) }
}

func NewDormandPrince(opts ...Option) *DormandPrince {
	d := &DormandPrince{
		tableau:     &DormandPrince45,
		controller:  DefaultController(),
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxAttempts <= 0 {
		d.maxAttempts = DefaultMaxAttempts
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Integrate solves y' = f(t, y) over interval starting from y0, keeping the
// per-step error norm within tol.
//
// The returned trajectory starts with (interval[0], y0) and ends at the first
// accepted time >= interval[1]. On stall or cancellation the samples accepted
// so far are returned together with a *dynamo.SimulationError.
func (d *DormandPrince) Integrate(ctx context.Context, f dynamo.Func, interval [2]float64, y0 dynamo.State, tol float64) (*dynamo.Trajectory, error) {
	if err := validateProblem(interval, y0); err != nil {
		return nil, err
	}
	if !(tol > 0) || math.IsInf(tol, 0) {
		return nil, fmt.Errorf("%w: got %g", dynamo.ErrInvalidTolerance, tol)
	}

	t0, tEnd := interval[0], interval[1]
	span := tEnd - t0
	dim := len(y0)
	traj := dynamo.NewTrajectory(t0, y0, 64)
	d.notify(t0, y0)

	h := d.initialStep
	if h <= 0 {
		f0 := f(t0, y0)
		traj.Stats.Evaluations++
		if len(f0) != dim {
			return nil, fmt.Errorf("%w: derivative has %d components, state has %d", dynamo.ErrDimensionMismatch, len(f0), dim)
		}
		h = initialStepFrom(y0, f0, d.tableau.Order)
	}
	d.logger.Debug("integration started", "t0", t0, "t_end", tEnd, "dim", dim, "tol", tol, "h0", h)

	k := make([]dynamo.State, d.tableau.Stages())
	for i := range k {
		k[i] = make(dynamo.State, dim)
	}
	scratch := make(dynamo.State, dim)
	t, y := t0, y0.Clone()

	for step := 1; t < tEnd; step++ {
		accepted := false
		for attempt := 1; attempt <= d.maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return traj, d.fail(step, t, y, h, attempt, errors.Join(dynamo.ErrContextCanceled, err))
			}

			trial := h
			clamped := false
			if d.exactEnd && t+trial >= tEnd {
				trial = tEnd - t
				clamped = true
			}
			if !(trial > 0) || t+trial == t {
				return traj, d.fail(step, t, y, trial, attempt, fmt.Errorf("%w: %w", dynamo.ErrStall, dynamo.ErrStepTooSmall))
			}

			errNorm, evals, err := d.attempt(f, t, y, trial, k, scratch)
			traj.Stats.Evaluations += evals
			if err != nil {
				return traj, d.fail(step, t, y, trial, attempt, err)
			}

			next, ok := d.controller.Rescale(errNorm, tol, trial, span)
			var yNext dynamo.State
			if ok {
				yNext = d.propagate(y, trial, k)
				if !yNext.IsValid() {
					ok = false
					next = trial * d.controller.Shrink
				}
			}
			h = next

			if !ok {
				traj.Stats.Rejected++
				d.logger.Debug("step rejected", "step", step, "t", t, "h", trial, "err", errNorm, "next_h", next)
				continue
			}

			if clamped {
				t = tEnd
			} else {
				t += trial
			}
			y = yNext
			traj.Append(t, y)
			traj.Stats.Accepted++
			traj.Stats.LastStep = trial
			traj.Stats.NextStep = h
			d.notify(t, y)
			accepted = true
			break
		}

		if !accepted {
			d.logger.Warn("step size control stalled", "step", step, "t", t, "h", h, "attempts", d.maxAttempts)
			return traj, d.fail(step, t, y, h, d.maxAttempts, dynamo.ErrStall)
		}
	}

	d.logger.Debug("integration finished",
		"t", t, "accepted", traj.Stats.Accepted, "rejected", traj.Stats.Rejected, "evaluations", traj.Stats.Evaluations)
	return traj, nil
}

// attempt evaluates all stages of one trial step of size h from (t, y) into k
// and returns the Euclidean norm of the embedded error vector together with
// the number of derivative evaluations made. The stage buffers in k are owned
// by the run; derivatives are copied in so f may return its argument.
func (d *DormandPrince) attempt(f dynamo.Func, t float64, y dynamo.State, h float64, k []dynamo.State, scratch dynamo.State) (float64, int, error) {
	tb := d.tableau
	for i := range tb.C {
		copy(scratch, y)
		for j, a := range tb.A[i] {
			if a != 0 {
				floats.AddScaled(scratch, h*a, k[j])
			}
		}
		ki := f(t+h*tb.C[i], scratch)
		if len(ki) != len(y) {
			return 0, i + 1, fmt.Errorf("%w: derivative has %d components, state has %d", dynamo.ErrDimensionMismatch, len(ki), len(y))
		}
		copy(k[i], ki)
	}

	e := make(dynamo.State, len(y))
	for i, w := range d.errorWeights() {
		if w != 0 {
			floats.AddScaled(e, w, k[i])
		}
	}
	return e.Norm(), tb.Stages(), nil
}

func (d *DormandPrince) propagate(y dynamo.State, h float64, k []dynamo.State) dynamo.State {
	next := y.Clone()
	for i, b := range d.tableau.Bhat {
		if b != 0 {
			floats.AddScaled(next, h*b, k[i])
		}
	}
	return next
}

func (d *DormandPrince) errorWeights() []float64 {
	if d.tableau == &DormandPrince45 {
		return dopriErrorWeights
	}
	return d.tableau.errorWeights()
}

func (d *DormandPrince) notify(t float64, y dynamo.State) {
	for _, o := range d.observers {
		o.OnStep(t, y)
	}
}

func (d *DormandPrince) fail(step int, t float64, y dynamo.State, h float64, attempts int, err error) error {
	return &dynamo.SimulationError{
		Step:     step,
		Time:     t,
		State:    y.Clone(),
		StepSize: h,
		Attempts: attempts,
		Wrapped:  err,
	}
}

var defaultSolver = NewDormandPrince()

// Integrate solves y' = f(t, y) with default options and returns the
// parallel times and states of the accepted samples. On failure the samples
// accepted before the error, if any, are returned with it.
func Integrate(f dynamo.Func, interval [2]float64, y0 dynamo.State, tol float64) ([]float64, []dynamo.State, error) {
	traj, err := defaultSolver.Integrate(context.Background(), f, interval, y0, tol)
	if traj == nil {
		return nil, nil, err
	}
	return traj.Times, traj.States, err
}
