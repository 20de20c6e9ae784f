// Package physics implements point-mass gravitational dynamics.
//
// A [System] owns a fixed set of [Body] values and advances them together:
//
//	sys := physics.NewSystem()
//	sys.Spawn(physics.NewBodyBuilder(1.0))
//	sys.Spawn(physics.NewBodyBuilder(3e-6).
//	    WithPosition(r3.Vec{Y: -0.98329}).
//	    WithVelocity(r3.Vec{X: 6.38966}))
//	sys.Step(1e-3)
//
// # Stage and commit
//
// Each step runs in two passes. The first computes every body's next state
// from the start-of-step snapshot and stages it with [Body.Apply]; the second
// commits all of them with [Body.Advance]. Readers never observe a
// half-updated system.
//
// # Singular separations
//
// The force law is not softened by default. Two bodies at the same position
// produce infinite or NaN accelerations and the affected state stays
// corrupted; use [System.Valid] to detect it or [WithSoftening] to avoid it.
package physics
