package physics

import (
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"
)

// IDAllocator hands out body ids for one simulation. Ids start at zero,
// increase monotonically and are never reused.
type IDAllocator struct {
	next atomic.Uint64
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() uint64 {
	return a.next.Add(1) - 1
}

// Peek returns the id the next call to Next will hand out.
func (a *IDAllocator) Peek() uint64 {
	return a.next.Load()
}

// Body is a point mass. Position and velocity describe the state after the
// last completed step; the pending pair is scratch space written by Apply and
// only read by Advance.
type Body struct {
	id       uint64
	mass     float64
	position r3.Vec
	velocity r3.Vec

	nextPosition r3.Vec
	nextVelocity r3.Vec
}

// Apply stages a new state without touching the committed one.
func (b *Body) Apply(position, velocity r3.Vec) {
	b.nextPosition = position
	b.nextVelocity = velocity
}

// Advance commits the staged state.
func (b *Body) Advance() {
	b.position = b.nextPosition
	b.velocity = b.nextVelocity
}

func (b Body) ID() uint64            { return b.id }
func (b Body) Mass() float64         { return b.mass }
func (b Body) Position() r3.Vec      { return b.position }
func (b Body) Velocity() r3.Vec      { return b.velocity }
func (b Body) SpeedSquared() float64 { return r3.Norm2(b.velocity) }

// BodyBuilder collects the initial conditions of a body.
type BodyBuilder struct {
	mass     float64
	position *r3.Vec
	velocity *r3.Vec
}

func NewBodyBuilder(mass float64) *BodyBuilder {
	return &BodyBuilder{mass: mass}
}

func (bb *BodyBuilder) WithPosition(p r3.Vec) *BodyBuilder {
	bb.position = &p
	return bb
}

func (bb *BodyBuilder) WithVelocity(v r3.Vec) *BodyBuilder {
	bb.velocity = &v
	return bb
}

// Build assigns the next id from ids. Unset position and velocity default to
// the zero vector.
func (bb *BodyBuilder) Build(ids *IDAllocator) Body {
	var position, velocity r3.Vec
	if bb.position != nil {
		position = *bb.position
	}
	if bb.velocity != nil {
		velocity = *bb.velocity
	}

	return Body{
		id:           ids.Next(),
		mass:         bb.mass,
		position:     position,
		velocity:     velocity,
		nextPosition: position,
		nextVelocity: velocity,
	}
}
