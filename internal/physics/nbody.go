package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

// G is the Newtonian gravitational constant.
const G = 6.67430e-11

// System is a set of bodies under mutual gravitation. Iteration order has no
// physical meaning but stays fixed so bodies can be addressed by index.
type System struct {
	bodies    []Body
	g         float64
	softening float64
	stepper   integrators.Stepper
	ids       *IDAllocator
	workers   int
}

type Option func(*System)

func WithGravitationalConstant(g float64) Option {
	return func(s *System) { s.g = g }
}

// WithSoftening sets the Plummer softening length. Zero keeps the exact
// inverse-square law.
func WithSoftening(eps float64) Option {
	return func(s *System) { s.softening = eps }
}

func WithStepper(st integrators.Stepper) Option {
	return func(s *System) { s.stepper = st }
}

func WithIDAllocator(ids *IDAllocator) Option {
	return func(s *System) { s.ids = ids }
}

// NewSystem returns an empty system using G and the rk4 stepper unless
// overridden.
func NewSystem(opts ...Option) *System {
	s := &System{
		bodies:  make([]Body, 0),
		g:       G,
		stepper: integrators.NewRK4(),
		ids:     NewIDAllocator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *System) Insert(b Body) {
	s.bodies = append(s.bodies, b)
}

// Spawn builds a body with the system's id allocator and inserts it.
func (s *System) Spawn(bb *BodyBuilder) Body {
	b := bb.Build(s.ids)
	s.Insert(b)
	return b
}

// Bodies returns a copy of the bodies in insertion order.
func (s *System) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func (s *System) Len() int                       { return len(s.bodies) }
func (s *System) Body(i int) Body                { return s.bodies[i] }
func (s *System) GravitationalConstant() float64 { return s.g }
func (s *System) Softening() float64             { return s.softening }
func (s *System) Stepper() integrators.Stepper   { return s.stepper }
func (s *System) IDs() *IDAllocator              { return s.ids }

// Step advances every body by h. All new states are computed from the
// start-of-step snapshot and staged first; only then is any body committed.
func (s *System) Step(h float64) {
	s.stage(h)

	for i := range s.bodies {
		s.bodies[i].Advance()
	}
}

// SetState overwrites body i's committed position and velocity.
func (s *System) SetState(i int, position, velocity r3.Vec) {
	s.bodies[i].Apply(position, velocity)
	s.bodies[i].Advance()
}

// Acceleration is the gravitational pull on b at its position plus offset,
// summed over every other body. Self-interaction is excluded by id.
func (s *System) Acceleration(b Body, offset r3.Vec) r3.Vec {
	var acc r3.Vec
	position := r3.Add(b.position, offset)
	eps2 := s.softening * s.softening

	for j := range s.bodies {
		other := &s.bodies[j]
		if other.id == b.id {
			continue
		}

		x := r3.Sub(other.position, position)
		var cube float64
		if eps2 == 0 {
			r := r3.Norm(x)
			cube = r * r * r
		} else {
			r2 := r3.Norm2(x) + eps2
			cube = r2 * math.Sqrt(r2)
		}
		acc = r3.Add(acc, r3.Scale(s.g*other.mass/cube, x))
	}

	return acc
}

// Valid reports whether every body has finite position and velocity.
func (s *System) Valid() bool {
	for i := range s.bodies {
		b := &s.bodies[i]
		if !finite(b.position) || !finite(b.velocity) {
			return false
		}
	}
	return true
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for i := range s.bodies {
		ke += 0.5 * s.bodies[i].mass * r3.Norm2(s.bodies[i].velocity)
	}
	return ke
}

func (s *System) PotentialEnergy() float64 {
	pe := 0.0
	eps2 := s.softening * s.softening
	for i := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			r2 := r3.Norm2(r3.Sub(s.bodies[j].position, s.bodies[i].position))
			pe -= s.g * s.bodies[i].mass * s.bodies[j].mass / math.Sqrt(r2+eps2)
		}
	}
	return pe
}

// Energy is kinetic plus gravitational potential energy.
func (s *System) Energy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

func (s *System) Momentum() r3.Vec {
	var p r3.Vec
	for i := range s.bodies {
		p = r3.Add(p, r3.Scale(s.bodies[i].mass, s.bodies[i].velocity))
	}
	return p
}

func (s *System) AngularMomentum() r3.Vec {
	var l r3.Vec
	for i := range s.bodies {
		b := &s.bodies[i]
		l = r3.Add(l, r3.Scale(b.mass, r3.Cross(b.position, b.velocity)))
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position, or the zero vector
// for a massless system.
func (s *System) CenterOfMass() r3.Vec {
	var c r3.Vec
	total := 0.0
	for i := range s.bodies {
		c = r3.Add(c, r3.Scale(s.bodies[i].mass, s.bodies[i].position))
		total += s.bodies[i].mass
	}
	if total == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/total, c)
}
