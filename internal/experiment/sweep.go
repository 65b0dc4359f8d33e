package experiment

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
)

// Sweep integrates f from each initial condition concurrently, with at most
// workers runs in flight (workers <= 0 means unbounded). Trajectories are
// returned in the order of initials. The first failure cancels the remaining
// runs and is returned with the index of the run that caused it.
func Sweep(ctx context.Context, solver *integrators.DormandPrince, f dynamo.Func, interval [2]float64, initials []dynamo.State, tol float64, workers int) ([]*dynamo.Trajectory, error) {
	results := make([]*dynamo.Trajectory, len(initials))

	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, x0 := range initials {
		g.Go(func() error {
			traj, err := solver.Integrate(gCtx, f, interval, x0, tol)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Grid returns n initial states spaced evenly between lo and hi (inclusive).
func Grid(lo, hi dynamo.State, n int) []dynamo.State {
	if n <= 0 || len(lo) != len(hi) {
		return nil
	}
	out := make([]dynamo.State, n)
	for k := 0; k < n; k++ {
		frac := 0.0
		if n > 1 {
			frac = float64(k) / float64(n-1)
		}
		x := make(dynamo.State, len(lo))
		for i := range lo {
			x[i] = lo[i] + frac*(hi[i]-lo[i])
		}
		out[k] = x
	}
	return out
}
