package config

import (
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/physics"
)

var Presets = map[string]*Config{
	"sun-earth": {
		Scenario: SunEarth(), Integrator: "rk4", G: physics.G, Dt: 1e-3, Duration: 10.0,
	},
	"circular": {
		Scenario: Scenario{
			Name: "circular",
			Bodies: []BodyConfig{
				{Name: "star", Mass: 1},
				{Name: "planet", Mass: 1e-6, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{0, 1, 0}},
			},
		},
		Integrator: "rk4-classic", G: 1, Dt: 1e-3, Duration: 2 * math.Pi,
	},
	"binary": {
		Scenario: Scenario{
			Name: "binary",
			Bodies: []BodyConfig{
				{Name: "a", Mass: 1, Position: [3]float64{0.5, 0, 0}, Velocity: [3]float64{0, math.Sqrt2 / 2, 0}},
				{Name: "b", Mass: 1, Position: [3]float64{-0.5, 0, 0}, Velocity: [3]float64{0, -math.Sqrt2 / 2, 0}},
			},
		},
		Integrator: "leapfrog", G: 1, Dt: 1e-3, Duration: 10.0,
	},
	"figure-eight": {
		Scenario: Scenario{
			Name: "figure-eight",
			Bodies: []BodyConfig{
				{Name: "a", Mass: 1, Position: [3]float64{0.97000436, -0.24308753, 0}, Velocity: [3]float64{0.466203685, 0.43236573, 0}},
				{Name: "b", Mass: 1, Position: [3]float64{-0.97000436, 0.24308753, 0}, Velocity: [3]float64{0.466203685, 0.43236573, 0}},
				{Name: "c", Mass: 1, Velocity: [3]float64{-0.93240737, -0.86473146, 0}},
			},
		},
		Integrator: "rk4-classic", G: 1, Dt: 1e-3, Duration: 6.32591398,
	},
}

// GetPreset returns a full configuration for the named preset with every
// field the preset leaves unset taken from DefaultConfig. The result is a
// fresh copy; nil when the preset does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario.Clone()
	cfg.Integrator = p.Integrator
	cfg.G = p.G
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Scenario) Clone() Scenario {
	out := Scenario{Name: s.Name, Bodies: make([]BodyConfig, len(s.Bodies))}
	copy(out.Bodies, s.Bodies)
	return out
}
