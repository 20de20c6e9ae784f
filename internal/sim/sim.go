package sim

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sim owns one gravitational system and the simulated time it has reached.
// A Sim is not safe for concurrent use.
type Sim struct {
	system    *physics.System
	time      float64
	steps     int
	metrics   []Metric
	observers []Observer
}

// New returns the sun-earth scene: a unit-mass sun at rest at the origin and
// a 3e-6 mass earth at (0, -0.98329, 0) moving at (6.38966, 0, 0).
func New() *Sim {
	sys := physics.NewSystem()
	sys.Spawn(physics.NewBodyBuilder(1.0))
	sys.Spawn(physics.NewBodyBuilder(3e-6).
		WithPosition(r3.Vec{X: 0, Y: -0.98329, Z: 0}).
		WithVelocity(r3.Vec{X: 6.38966, Y: 0, Z: 0}))
	return Wrap(sys)
}

// Wrap returns a Sim around an existing system at time zero.
func Wrap(sys *physics.System) *Sim {
	return &Sim{
		system:    sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

// FromScenario seeds a system with the scenario's bodies in order.
func FromScenario(sc config.Scenario, opts ...physics.Option) (*Sim, error) {
	if len(sc.Bodies) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyScenario, sc.Name)
	}
	sys := physics.NewSystem(opts...)
	for i, bc := range sc.Bodies {
		if bc.Mass < 0 {
			return nil, fmt.Errorf("sim: body %d (%s): negative mass %g", i, bc.Name, bc.Mass)
		}
		sys.Spawn(physics.NewBodyBuilder(bc.Mass).
			WithPosition(vec(bc.Position)).
			WithVelocity(vec(bc.Velocity)))
	}
	return Wrap(sys), nil
}

// FromConfig builds a Sim from a full configuration: scenario, stepper,
// gravitational constant, softening and staging workers.
func FromConfig(cfg *config.Config) (*Sim, error) {
	stepper, err := integrators.Lookup(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return FromScenario(cfg.Scenario,
		physics.WithStepper(stepper),
		physics.WithGravitationalConstant(cfg.G),
		physics.WithSoftening(cfg.Softening),
		physics.WithWorkers(cfg.Workers),
	)
}

// RunConfigFrom extracts the headless run settings from a configuration.
func RunConfigFrom(cfg *config.Config) RunConfig {
	return RunConfig{Dt: cfg.Dt, Duration: cfg.Duration, SampleEvery: cfg.SampleEvery, ValidateState: true}
}

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

func (s *Sim) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sim) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances the system by dt. Non-positive or non-finite dt is passed
// through unchecked.
func (s *Sim) Step(dt float64) {
	s.system.Step(dt)
	s.time += dt
	s.steps++
}

func (s *Sim) System() *physics.System { return s.system }
func (s *Sim) Time() float64           { return s.time }
func (s *Sim) Steps() int              { return s.steps }

// Snapshot copies the current state of every body.
func (s *Sim) Snapshot() []BodyState { return snapshot(s.system) }
