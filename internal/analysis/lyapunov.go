package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrBadPerturbation = errors.New("analysis: perturbation must be positive and finite")

// Lyapunov estimates the largest Lyapunov exponent of the configured
// scenario by the separation method.
//
// Algorithm:
//  1. Run the scenario and a copy with body 0 displaced by perturbation in x
//  2. Every renormEvery steps measure the phase-space distance d
//  3. Accumulate ln(d/d0) and pull the copy back to distance d0
//  4. λ ≈ Σ ln(d/d0) / elapsed time
func Lyapunov(cfg *config.Config, perturbation float64, renormEvery int) (float64, error) {
	if !(perturbation > 0) || math.IsInf(perturbation, 0) {
		return 0, ErrBadPerturbation
	}
	if renormEvery <= 0 {
		renormEvery = 1
	}

	ref, err := sim.FromConfig(cfg)
	if err != nil {
		return 0, err
	}
	pert, err := sim.FromConfig(cfg)
	if err != nil {
		return 0, err
	}
	b0 := pert.System().Body(0)
	pert.System().SetState(0, r3.Add(b0.Position(), r3.Vec{X: perturbation}), b0.Velocity())

	steps := int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
	if steps < renormEvery {
		return 0, fmt.Errorf("%w: %d steps, renormalising every %d", ErrTooShort, steps, renormEvery)
	}

	sumLog := 0.0
	elapsed := 0.0
	for i := 1; i <= steps; i++ {
		ref.Step(cfg.Dt)
		pert.Step(cfg.Dt)
		if i%renormEvery != 0 {
			continue
		}

		d := separation(ref.System(), pert.System())
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, fmt.Errorf("%w at step %d", sim.ErrInvalidState, i)
		}
		if d == 0 {
			// identical to round-off; restart the perturbation
			b := pert.System().Body(0)
			pert.System().SetState(0, r3.Add(b.Position(), r3.Vec{X: perturbation}), b.Velocity())
			continue
		}
		sumLog += math.Log(d / perturbation)
		elapsed = ref.Time()
		rescale(ref.System(), pert.System(), perturbation/d)
	}

	if elapsed == 0 {
		return 0, nil
	}
	return sumLog / elapsed, nil
}

func separation(a, b *physics.System) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		sum += r3.Norm2(r3.Sub(b.Body(i).Position(), a.Body(i).Position()))
		sum += r3.Norm2(r3.Sub(b.Body(i).Velocity(), a.Body(i).Velocity()))
	}
	return math.Sqrt(sum)
}

// rescale moves every body of pert towards its counterpart in ref so the
// separation shrinks by factor.
func rescale(ref, pert *physics.System, factor float64) {
	for i := 0; i < ref.Len(); i++ {
		r, p := ref.Body(i), pert.Body(i)
		pos := r3.Add(r.Position(), r3.Scale(factor, r3.Sub(p.Position(), r.Position())))
		vel := r3.Add(r.Velocity(), r3.Scale(factor, r3.Sub(p.Velocity(), r.Velocity())))
		pert.SetState(i, pos, vel)
	}
}
