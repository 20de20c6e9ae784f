package integrators

import "gonum.org/v1/gonum/spatial/r3"

// RK4 is the four-stage stencil the simulator has always used. The position
// samples after the first are (c*v) multiplied element-wise by the previous
// velocity sample, not the textbook v + c*k. Trajectories differ from
// ClassicRK4 accordingly; with negligible acceleration a body covers h/6 of
// v*h per step.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (*RK4) Name() string { return "rk4" }

func (*RK4) Step(r, v r3.Vec, h float64, accel Accel) (r3.Vec, r3.Vec) {
	half := h / 2
	sixth := h / 6

	k1v := accel(r3.Vec{})
	k1r := v
	k2v := accel(r3.Scale(half, k1r))
	k2r := mulElem(r3.Scale(half, v), k1v)
	k3v := accel(r3.Scale(half, k2r))
	k3r := mulElem(r3.Scale(half, v), k2v)
	k4v := accel(r3.Scale(h, k3r))
	k4r := mulElem(r3.Scale(h, v), k3v)

	pos := r3.Add(r, r3.Scale(sixth, weighted(k1r, k2r, k3r, k4r)))
	vel := r3.Add(v, r3.Scale(sixth, weighted(k1v, k2v, k3v, k4v)))
	return pos, vel
}

// ClassicRK4 is textbook fourth-order Runge-Kutta on r' = v, v' = a(r).
type ClassicRK4 struct{}

func NewClassicRK4() *ClassicRK4 {
	return &ClassicRK4{}
}

func (*ClassicRK4) Name() string { return "rk4-classic" }

func (*ClassicRK4) Step(r, v r3.Vec, h float64, accel Accel) (r3.Vec, r3.Vec) {
	half := h / 2
	sixth := h / 6

	k1v := accel(r3.Vec{})
	k1r := v
	k2v := accel(r3.Scale(half, k1r))
	k2r := r3.Add(v, r3.Scale(half, k1v))
	k3v := accel(r3.Scale(half, k2r))
	k3r := r3.Add(v, r3.Scale(half, k2v))
	k4v := accel(r3.Scale(h, k3r))
	k4r := r3.Add(v, r3.Scale(h, k3v))

	pos := r3.Add(r, r3.Scale(sixth, weighted(k1r, k2r, k3r, k4r)))
	vel := r3.Add(v, r3.Scale(sixth, weighted(k1v, k2v, k3v, k4v)))
	return pos, vel
}
