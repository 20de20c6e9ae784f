package integrators

import "gonum.org/v1/gonum/spatial/r3"

// Leapfrog is kick-drift-kick velocity Verlet. Only the moving body is
// displaced for the second acceleration sample; the other bodies stay at
// their start-of-step positions.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (*Leapfrog) Name() string { return "leapfrog" }

func (*Leapfrog) Step(r, v r3.Vec, h float64, accel Accel) (r3.Vec, r3.Vec) {
	halfDt := h * 0.5

	vHalf := r3.Add(v, r3.Scale(halfDt, accel(r3.Vec{})))
	drift := r3.Scale(h, vHalf)
	pos := r3.Add(r, drift)
	vel := r3.Add(vHalf, r3.Scale(halfDt, accel(drift)))
	return pos, vel
}
