package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

func fromPreset(name, stepper string, dt, duration float64) (*sim.Sim, *config.Config) {
	cfg := config.GetPreset(name)
	Expect(cfg).NotTo(BeNil())
	cfg.Integrator = stepper
	cfg.Dt = dt
	cfg.Duration = duration
	s, err := sim.FromConfig(cfg)
	Expect(err).NotTo(HaveOccurred())
	return s, cfg
}

var _ = Describe("Sim", func() {
	Describe("an isolated body", func() {
		DescribeTable("at rest stays put for any dt",
			func(stepper string, dt float64) {
				st, err := integrators.Lookup(stepper)
				Expect(err).NotTo(HaveOccurred())
				sys := physics.NewSystem(physics.WithStepper(st))
				sys.Spawn(physics.NewBodyBuilder(5).WithPosition(r3.Vec{X: 1, Y: 2, Z: 3}))
				s := sim.Wrap(sys)

				s.Step(dt)

				b := s.System().Body(0)
				Expect(b.Position()).To(Equal(r3.Vec{X: 1, Y: 2, Z: 3}))
				Expect(b.Velocity()).To(Equal(r3.Vec{}))
			},
			Entry("rk4, small dt", "rk4", 1e-6),
			Entry("rk4, huge dt", "rk4", 1e6),
			Entry("rk4-classic", "rk4-classic", 0.5),
			Entry("leapfrog", "leapfrog", 0.5),
			Entry("euler", "euler", 0.5),
		)

		It("keeps its velocity when moving", func() {
			sys := physics.NewSystem()
			sys.Spawn(physics.NewBodyBuilder(1).WithVelocity(r3.Vec{X: 3, Y: -1}))
			s := sim.Wrap(sys)

			for i := 0; i < 10; i++ {
				s.Step(0.1)
			}
			Expect(s.System().Body(0).Velocity()).To(Equal(r3.Vec{X: 3, Y: -1}))
		})
	})

	Describe("the sun-earth scene", func() {
		It("moves the earth by v·dt/6 along x after one rk4 step", func() {
			s := sim.New()
			before := s.System().Body(1).Position()
			s.Step(1e-3)
			after := s.System().Body(1).Position()

			Expect(after.X - before.X).To(BeNumerically("~", 6.38966e-3/6, 1e-12))
			Expect(after.Y).To(BeNumerically("~", before.Y, 1e-12))
		})

		It("moves the earth by v·dt after one rk4-classic step", func() {
			s, _ := fromPreset("sun-earth", "rk4-classic", 1e-3, 1)
			before := s.System().Body(1).Position()
			s.Step(1e-3)
			after := s.System().Body(1).Position()

			Expect(after.X - before.X).To(BeNumerically("~", 6.38966e-3, 1e-12))
		})

		It("conserves linear momentum", func() {
			s := sim.New()
			p0 := s.System().Momentum()
			for i := 0; i < 1000; i++ {
				s.Step(1e-3)
			}
			Expect(r3.Norm(r3.Sub(s.System().Momentum(), p0))).To(BeNumerically("<", 1e-15))
		})
	})

	Describe("a two-body binary", func() {
		// mirror-symmetric steppers keep the pair's momentum exactly zero
		DescribeTable("conserves linear momentum",
			func(stepper string) {
				s, cfg := fromPreset("binary", stepper, 1e-3, 2)
				res, err := s.Run(context.Background(), sim.RunConfigFrom(cfg))
				Expect(err).NotTo(HaveOccurred())
				Expect(res.MomentumDrift).To(BeNumerically("<", 1e-12))
			},
			Entry("rk4-classic", "rk4-classic"),
			Entry("leapfrog", "leapfrog"),
			Entry("euler", "euler"),
		)
	})

	Describe("a circular orbit", func() {
		It("drifts less in energy as dt shrinks", func() {
			drift := func(dt float64) float64 {
				s, cfg := fromPreset("circular", "rk4-classic", dt, 2*math.Pi)
				res, err := s.Run(context.Background(), sim.RunConfigFrom(cfg))
				Expect(err).NotTo(HaveOccurred())
				return res.EnergyDrift
			}

			coarse, fine := drift(0.02), drift(0.01)
			Expect(coarse).To(BeNumerically("<", 1e-6))
			Expect(fine).To(BeNumerically("<", coarse))
		})
	})

	Describe("determinism", func() {
		It("produces bit-identical states for identical inputs", func() {
			run := func() []sim.BodyState {
				s, cfg := fromPreset("figure-eight", "rk4-classic", 1e-3, 1)
				res, err := s.Run(context.Background(), sim.RunConfigFrom(cfg))
				Expect(err).NotTo(HaveOccurred())
				return res.Final()
			}
			Expect(run()).To(Equal(run()))
		})
	})

	Describe("coincident bodies", func() {
		It("corrupts the state and reports it when validation is on", func() {
			sys := physics.NewSystem()
			sys.Spawn(physics.NewBodyBuilder(1))
			sys.Spawn(physics.NewBodyBuilder(1))
			s := sim.Wrap(sys)

			_, err := s.Run(context.Background(), sim.RunConfig{Dt: 1, Duration: 3, ValidateState: true})
			Expect(err).To(MatchError(sim.ErrInvalidState))
			Expect(s.System().Valid()).To(BeFalse())

			s.Step(1)
			Expect(s.System().Valid()).To(BeFalse())
		})
	})
})
