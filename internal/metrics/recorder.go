package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Recorder exports integration run statistics as Prometheus metrics.
type Recorder struct {
	runs        *prometheus.CounterVec
	steps       *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	stepSize    *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
}

// NewRecorder registers the solver metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odekit_runs_total",
			Help: "Integration runs by system, method and outcome",
		}, []string{"system", "method", "outcome"}),

		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odekit_steps_total",
			Help: "Trial steps by system and result",
		}, []string{"system", "result"}),

		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odekit_derivative_evaluations_total",
			Help: "Derivative function evaluations by system",
		}, []string{"system"}),

		stepSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "odekit_accepted_step_size",
			Help:    "Size of accepted steps",
			Buckets: prometheus.ExponentialBuckets(1e-8, 10, 10), // 1e-8 to 10
		}, []string{"system"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "odekit_run_duration_seconds",
			Help:    "Wall time of integration runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"method"}),
	}
}

// Record adds the statistics of one run. traj may be nil when the run failed validation.
func (r *Recorder) Record(system, method string, traj *dynamo.Trajectory, err error, elapsed time.Duration) {
	r.runs.WithLabelValues(system, method, outcome(err)).Inc()
	r.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	if traj == nil {
		return
	}

	r.steps.WithLabelValues(system, "accepted").Add(float64(traj.Stats.Accepted))
	r.steps.WithLabelValues(system, "rejected").Add(float64(traj.Stats.Rejected))
	r.evaluations.WithLabelValues(system).Add(float64(traj.Stats.Evaluations))

	hist := r.stepSize.WithLabelValues(system)
	for i := 1; i < len(traj.Times); i++ {
		hist.Observe(traj.Times[i] - traj.Times[i-1])
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, dynamo.ErrStall):
		return "stall"
	case errors.Is(err, dynamo.ErrContextCanceled):
		return "canceled"
	default:
		return "error"
	}
}
