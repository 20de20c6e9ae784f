package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1e-3
	DefaultDuration    = 10.0
	DefaultSlowdown    = 12.0
	DefaultSpeedScale  = 100.0
	DefaultSampleEvery = 10
	DefaultGradient    = "viridis"
	DefaultTheme       = "cyberpunk"
	DefaultPreset      = "sun-earth"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Gradients lists the colour ramps the scene knows by name.
var Gradients = []string{"magma", "viridis"}

type Config struct {
	Scenario    Scenario `yaml:"scenario"`
	Integrator  string   `yaml:"integrator"`
	G           float64  `yaml:"g"`
	Softening   float64  `yaml:"softening"`
	Dt          float64  `yaml:"dt"`
	Duration    float64  `yaml:"duration"`
	Slowdown    float64  `yaml:"slowdown"`
	FixedStep   float64  `yaml:"fixed_step"`
	MaxSubsteps int      `yaml:"max_substeps"`
	SpeedScale  float64  `yaml:"speed_scale"`
	Gradient    string   `yaml:"gradient"`
	SampleEvery int      `yaml:"sample_every"`
	Theme       string   `yaml:"theme"`
	Workers     int      `yaml:"workers"`
}

type Scenario struct {
	Name   string       `yaml:"name"`
	Bodies []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Name     string     `yaml:"name,omitempty"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
}

// DefaultConfig returns the sun-earth scene with the documented constants.
func DefaultConfig() *Config {
	return &Config{
		Scenario:    SunEarth(),
		Integrator:  "rk4",
		G:           physics.G,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Slowdown:    DefaultSlowdown,
		MaxSubsteps: 64,
		SpeedScale:  DefaultSpeedScale,
		Gradient:    DefaultGradient,
		SampleEvery: DefaultSampleEvery,
		Theme:       DefaultTheme,
	}
}

// SunEarth is the fixed two-body scene: a unit-mass sun at the origin and an
// earth-like body at perihelion distance.
func SunEarth() Scenario {
	return Scenario{
		Name: "sun-earth",
		Bodies: []BodyConfig{
			{Name: "sun", Mass: 1.0},
			{Name: "earth", Mass: 3e-6, Position: [3]float64{0, -0.98329, 0}, Velocity: [3]float64{6.38966, 0, 0}},
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes a YAML file over cfg, so keys the file omits keep
// their current values. A scenario in the file replaces cfg's scenario.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.Scenario.Bodies) == 0 {
		return fmt.Errorf("%w: scenario %q has no bodies", ErrInvalidConfig, c.Scenario.Name)
	}
	for i, b := range c.Scenario.Bodies {
		if b.Mass < 0 {
			return fmt.Errorf("%w: body %d has negative mass %g", ErrInvalidConfig, i, b.Mass)
		}
	}
	if _, err := integrators.Lookup(c.Integrator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if !(c.Softening >= 0) || math.IsInf(c.Softening, 0) {
		return fmt.Errorf("%w: softening must not be negative", ErrInvalidConfig)
	}
	if c.Slowdown <= 0 {
		return fmt.Errorf("%w: slowdown must be positive, got %g", ErrInvalidConfig, c.Slowdown)
	}
	if c.FixedStep < 0 {
		return fmt.Errorf("%w: fixed_step must not be negative", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if c.SpeedScale <= 0 {
		return fmt.Errorf("%w: speed_scale must be positive", ErrInvalidConfig)
	}
	if !knownGradient(c.Gradient) {
		return fmt.Errorf("%w: unknown gradient %q (available: %v)", ErrInvalidConfig, c.Gradient, Gradients)
	}
	return nil
}

func knownGradient(name string) bool {
	for _, g := range Gradients {
		if g == name {
			return true
		}
	}
	return false
}
