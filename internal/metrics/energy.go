package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// EnergyDrift tracks the largest relative deviation of total energy from
// its first observed value. A zero initial energy falls back to absolute
// deviation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys *physics.System, t float64) {
	energy := sys.Energy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

// Current is the energy at the most recent observation.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// vectorDrift is the largest distance of a conserved vector from its first
// observed value.
type vectorDrift struct {
	name     string
	quantity func(*physics.System) r3.Vec
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func (d *vectorDrift) Name() string { return d.name }

func (d *vectorDrift) Observe(sys *physics.System, t float64) {
	q := d.quantity(sys)
	if d.samples == 0 {
		d.initial = q
	}
	d.samples++
	d.maxDrift = math.Max(d.maxDrift, r3.Norm(r3.Sub(q, d.initial)))
}

func (d *vectorDrift) Value() float64 { return d.maxDrift }

func (d *vectorDrift) Reset() {
	d.initial = r3.Vec{}
	d.maxDrift = 0
	d.samples = 0
}

type MomentumDrift struct{ vectorDrift }

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{vectorDrift{
		name:     "momentum_drift",
		quantity: (*physics.System).Momentum,
	}}
}

type AngularMomentumDrift struct{ vectorDrift }

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{vectorDrift{
		name:     "angular_momentum_drift",
		quantity: (*physics.System).AngularMomentum,
	}}
}
