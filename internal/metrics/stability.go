package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

const DefaultEscapeRadius = 100.0

// Stability is the fraction of observations in which every body was finite
// and within radius of the centre of mass.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sys *physics.System, t float64) {
	s.samples++
	if !sys.Valid() {
		s.violations++
		return
	}
	com := sys.CenterOfMass()
	for i := 0; i < sys.Len(); i++ {
		d := r3.Norm(r3.Sub(sys.Body(i).Position(), com))
		if math.IsNaN(d) || d > s.radius {
			s.violations++
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Defaults returns a fresh set of the standard run metrics.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewAngularMomentumDrift(),
		NewStability(DefaultEscapeRadius),
	}
}
