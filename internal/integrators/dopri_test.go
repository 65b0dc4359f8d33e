package integrators_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
)

var _ = Describe("DormandPrince", func() {
	var solver *integrators.DormandPrince

	BeforeEach(func() {
		solver = integrators.NewDormandPrince()
	})

	Describe("exponential decay", func() {
		decay := func(_ float64, y dynamo.State) dynamo.State { return dynamo.State{-y[0]} }

		It("reaches the end of the interval and tracks the exact solution", func() {
			traj, err := solver.Integrate(context.Background(), decay, [2]float64{0, 5}, dynamo.State{1}, 1e-6)
			Expect(err).NotTo(HaveOccurred())

			tEnd, y := traj.Last()
			Expect(tEnd).To(BeNumerically(">=", 5.0))
			Expect(y[0]).To(BeNumerically("~", math.Exp(-tEnd), 1e-4))
		})

		It("lands on e^-5 when the last step is clamped", func() {
			clamped := integrators.NewDormandPrince(integrators.WithExactEnd())
			traj, err := clamped.Integrate(context.Background(), decay, [2]float64{0, 5}, dynamo.State{1}, 1e-6)
			Expect(err).NotTo(HaveOccurred())

			tEnd, y := traj.Last()
			Expect(tEnd).To(Equal(5.0))
			Expect(y[0]).To(BeNumerically("~", 0.0067379, 1e-4))
		})
	})

	Describe("harmonic oscillator", func() {
		oscillator := func(_ float64, x dynamo.State) dynamo.State { return dynamo.State{x[1], -x[0]} }

		It("keeps every sample on the unit energy circle", func() {
			traj, err := solver.Integrate(context.Background(), oscillator, [2]float64{0, 2 * math.Pi}, dynamo.State{1, 0}, 1e-8)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Times).To(HaveLen(len(traj.States)))

			for _, s := range traj.States {
				Expect(s[0]*s[0] + s[1]*s[1]).To(BeNumerically("~", 1.0, 1e-5))
			}
		})

		It("records strictly increasing times", func() {
			traj, err := solver.Integrate(context.Background(), oscillator, [2]float64{0, 2 * math.Pi}, dynamo.State{1, 0}, 1e-8)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i+1 < traj.Len(); i++ {
				Expect(traj.Times[i]).To(BeNumerically("<", traj.Times[i+1]))
			}
		})
	})

	Describe("non-finite derivatives", func() {
		It("reports a stall instead of accepting NaN states", func() {
			nan := func(_ float64, y dynamo.State) dynamo.State { return dynamo.State{math.NaN()} }

			traj, err := solver.Integrate(context.Background(), nan, [2]float64{0, 1}, dynamo.State{1}, 1e-6)
			Expect(err).To(MatchError(dynamo.ErrStall))

			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			for _, s := range traj.States {
				Expect(s.IsValid()).To(BeTrue())
			}
		})
	})

	Describe("initial step estimate", func() {
		It("falls back to 1e-6 for a zero problem", func() {
			zero := func(_ float64, y dynamo.State) dynamo.State { return dynamo.State{0} }
			Expect(integrators.InitialStep(zero, 0, dynamo.State{0})).To(Equal(1e-6))
		})
	})
})

var _ = Describe("FixedStep", func() {
	It("matches exponential growth on a 64 step grid", func() {
		growth := func(y dynamo.State) dynamo.State { return dynamo.State{2 * y[0]} }

		states, times, err := integrators.FixedStep(64, [2]float64{0, 2}, dynamo.State{0.25}, growth)
		Expect(err).NotTo(HaveOccurred())
		Expect(times).To(HaveLen(65))
		Expect(states[len(states)-1][0]).To(BeNumerically("~", 0.25*math.Exp(4), 1e-3))
	})

	It("rejects a non-positive step count", func() {
		_, _, err := integrators.FixedStep(0, [2]float64{0, 1}, dynamo.State{1}, func(y dynamo.State) dynamo.State { return y })
		Expect(err).To(MatchError(dynamo.ErrInvalidSteps))
	})
})
