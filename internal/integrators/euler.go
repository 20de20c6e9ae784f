package integrators

import "gonum.org/v1/gonum/spatial/r3"

// SymplecticEuler updates velocity first, then moves with the new velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (*SymplecticEuler) Name() string { return "euler" }

func (*SymplecticEuler) Step(r, v r3.Vec, h float64, accel Accel) (r3.Vec, r3.Vec) {
	vel := r3.Add(v, r3.Scale(h, accel(r3.Vec{})))
	pos := r3.Add(r, r3.Scale(h, vel))
	return pos, vel
}
