package sim

import (
	"github.com/san-kum/orbitsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Metric accumulates a scalar over the observed states of a run.
type Metric interface {
	Name() string
	Observe(sys *physics.System, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(sys *physics.System, t float64)
}

type RunConfig struct {
	Dt       float64
	Duration float64
	// SampleEvery keeps one snapshot per this many steps. Values below one
	// keep every step. The initial and final states are always kept.
	SampleEvery   int
	ValidateState bool
}

// BodyState is a copy of one body's public state at a sample time.
type BodyState struct {
	ID       uint64
	Mass     float64
	Position r3.Vec
	Velocity r3.Vec
}

type Result struct {
	Times         []float64
	Snapshots     [][]BodyState
	Metrics       map[string]float64
	EnergyDrift   float64
	MomentumDrift float64
	StepsTaken    int
}

// Final returns the last recorded snapshot, or nil for an empty result.
func (r *Result) Final() []BodyState {
	if len(r.Snapshots) == 0 {
		return nil
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

func snapshot(sys *physics.System) []BodyState {
	out := make([]BodyState, sys.Len())
	for i := range out {
		b := sys.Body(i)
		out[i] = BodyState{ID: b.ID(), Mass: b.Mass(), Position: b.Position(), Velocity: b.Velocity()}
	}
	return out
}
