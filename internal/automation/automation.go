package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParam = errors.New("automation: unknown sweep parameter")

// Plan defines a scripted sequence of runs.
type Plan struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Steps       []PlanStep `yaml:"steps"`
}

// PlanStep is a single run in a plan. Zero fields keep the preset's value.
type PlanStep struct {
	Preset     string  `yaml:"preset"`
	Integrator string  `yaml:"integrator"`
	Duration   float64 `yaml:"duration"`
	Dt         float64 `yaml:"dt"`
	Softening  float64 `yaml:"softening"`
	SaveAs     string  `yaml:"save_as"`
}

// LoadPlan loads a plan from a YAML file
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	return &plan, nil
}

// Config resolves the step against its preset.
func (s PlanStep) Config() (*config.Config, error) {
	cfg := config.GetPreset(s.Preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", s.Preset, config.ListPresets())
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Softening > 0 {
		cfg.Softening = s.Softening
	}
	return cfg, cfg.Validate()
}

// RunPlan executes all steps of a plan, at most workers at a time. Results
// keep step order and are named by SaveAs, or preset and index.
func RunPlan(ctx context.Context, plan *Plan, workers int) ([]sim.BatchResult, error) {
	specs := make([]sim.RunSpec, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		cfg, err := step.Config()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-%d", step.Preset, i+1)
		}
		specs = append(specs, sim.RunSpec{Name: name, Config: cfg, Metrics: metrics.Defaults})
	}
	return sim.Batch(ctx, specs, workers)
}

// ParameterSweep runs a preset across a range of one parameter. Param is
// one of dt, softening, g or speed; speed scales every initial velocity.
type ParameterSweep struct {
	Preset     string
	Integrator string
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Duration   float64
	Workers    int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue    float64
	EnergyDrift   float64
	MomentumDrift float64
	Stability     float64
	Final         []sim.BodyState
}

func applyParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "dt":
		cfg.Dt = v
	case "softening":
		cfg.Softening = v
	case "g":
		cfg.G = v
	case "speed":
		for i := range cfg.Scenario.Bodies {
			for k := range cfg.Scenario.Bodies[i].Velocity {
				cfg.Scenario.Bodies[i].Velocity[k] *= v
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step")
	}
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	specs := make([]sim.RunSpec, sweep.NumSteps)
	values := make([]float64, sweep.NumSteps)
	for i := range specs {
		cfg := config.GetPreset(sweep.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", sweep.Preset)
		}
		if sweep.Integrator != "" {
			cfg.Integrator = sweep.Integrator
		}
		if sweep.Duration > 0 {
			cfg.Duration = sweep.Duration
		}
		values[i] = sweep.ParamMin + float64(i)*paramStep
		if err := applyParam(cfg, sweep.ParamName, values[i]); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, values[i], err)
		}
		specs[i] = sim.RunSpec{
			Name:    fmt.Sprintf("%s=%g", sweep.ParamName, values[i]),
			Config:  cfg,
			Metrics: metrics.Defaults,
		}
	}

	batch, err := sim.Batch(ctx, specs, sweep.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(batch))
	for i, b := range batch {
		results[i] = SweepResult{
			ParamValue:    values[i],
			EnergyDrift:   b.Result.EnergyDrift,
			MomentumDrift: b.Result.MomentumDrift,
			Stability:     b.Result.Metrics["stability"],
			Final:         b.Result.Final(),
		}
	}
	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Preset       string
	Perturbation float64
	NumTrials    int
	Duration     float64
	EscapeRadius float64
	Seed         int64
	Workers      int
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID  int
	Scenario config.Scenario
	Final    []sim.BodyState
	Stable   bool // every sample finite and within the escape radius
}

// RunMonteCarlo executes trials of a preset with every initial position and
// velocity component shifted uniformly within ±Perturbation. A trial whose
// state becomes non-finite counts as unstable rather than failing the run.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	base := config.GetPreset(cfg.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset %q", cfg.Preset)
	}
	if cfg.Duration > 0 {
		base.Duration = cfg.Duration
	}
	radius := cfg.EscapeRadius
	if radius <= 0 {
		radius = metrics.DefaultEscapeRadius
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// perturbations are drawn up front so results depend only on the seed
	trials := make([]*config.Config, cfg.NumTrials)
	for t := range trials {
		c := *base
		c.Scenario = base.Scenario.Clone()
		for i := range c.Scenario.Bodies {
			b := &c.Scenario.Bodies[i]
			for k := 0; k < 3; k++ {
				b.Position[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
				b.Velocity[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
		}
		trials[t] = &c
	}

	results := make([]MonteCarloResult, len(trials))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for t, c := range trials {
		t, c := t, c
		g.Go(func() error {
			s, err := sim.FromConfig(c)
			if err != nil {
				return fmt.Errorf("trial %d: %w", t, err)
			}
			stability := metrics.NewStability(radius)
			s.AddMetric(stability)

			res, err := s.Run(ctx, sim.RunConfigFrom(c))
			stable := err == nil && stability.Value() == 1
			if err != nil && !errors.Is(err, sim.ErrInvalidState) {
				return fmt.Errorf("trial %d: %w", t, err)
			}
			results[t] = MonteCarloResult{
				TrialID:  t,
				Scenario: c.Scenario,
				Final:    res.Final(),
				Stable:   stable && finite(res.Final()),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func finite(states []sim.BodyState) bool {
	for _, b := range states {
		for _, v := range [6]float64{b.Position.X, b.Position.Y, b.Position.Z, b.Velocity.X, b.Velocity.Y, b.Velocity.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
