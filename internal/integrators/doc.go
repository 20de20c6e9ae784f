// Package integrators provides per-body time steppers for gravitational systems.
//
// A [Stepper] advances one body's position and velocity by a timestep given an
// acceleration function evaluated at an offset from the body's current
// position. The system that owns the bodies supplies that function, so every
// stage of a step sees the same start-of-step snapshot of the other bodies.
//
//   - [RK4]: the four-stage stencil used by the simulator by default
//   - [ClassicRK4]: textbook fourth-order Runge-Kutta
//   - [Leapfrog]: kick-drift-kick velocity Verlet
//   - [SymplecticEuler]: semi-implicit Euler
//
// Steppers are stateless and safe to share between systems.
package integrators
