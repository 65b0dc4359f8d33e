package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

func validateProblem(interval [2]float64, y0 dynamo.State) error {
	start, end := interval[0], interval[1]
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) || start >= end {
		return fmt.Errorf("%w: [%g, %g]", dynamo.ErrInvalidInterval, start, end)
	}
	if len(y0) == 0 {
		return dynamo.ErrEmptyState
	}
	if !y0.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}
