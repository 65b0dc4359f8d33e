package integrators

import "math"

// Controller rescales the trial step from the embedded error estimate.
//
// The scale factor is s = (0.5*tol*h / err / span)^Exponent. When Safety*s
// falls below one the step shrinks by Shrink, when it reaches Grow the step
// grows by Grow, otherwise the step is multiplied by s.
type Controller struct {
	Safety   float64
	Exponent float64
	Shrink   float64
	Grow     float64
}

func DefaultController() Controller {
	return Controller{
		Safety:   0.9,
		Exponent: 1.0 / 5.0,
		Shrink:   0.5,
		Grow:     2.0,
	}
}

// Rescale returns the next trial step and whether the step of size h with
// error norm errNorm is accepted. span is the length of the whole interval.
// The next step is computed whether or not the step is accepted.
func (c Controller) Rescale(errNorm, tol, h, span float64) (float64, bool) {
	switch {
	case math.IsNaN(errNorm):
		return h * c.Shrink, false
	case errNorm == 0:
		return h * c.Grow, true
	}

	s := math.Pow(0.5*tol*h/errNorm/span, c.Exponent)
	next := h * s
	switch {
	case c.Safety*s < 1:
		next = h * c.Shrink
	case c.Safety*s >= c.Grow:
		next = h * c.Grow
	}

	return next, errNorm <= tol
}
