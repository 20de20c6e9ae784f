// Package analysis provides orbit analysis tools over simulation results.
//
//   - [PowerSpectrum] and [DominantPeriod]: orbital period from a sampled coordinate
//   - [Lyapunov]: largest Lyapunov exponent via renormalised trajectory separation
//   - [OrbitsToASCII]: xy trace of every body
//
// # Chaos Detection
//
// A clearly positive exponent indicates chaotic motion:
//
//	lambda, err := analysis.Lyapunov(cfg, 1e-8, 10)
//	if err == nil && lambda > 0.1 {
//	    // orbits diverge exponentially
//	}
package analysis
