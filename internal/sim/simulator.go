package sim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxSteps bounds Duration/Dt for a single run.
const MaxSteps = math.MaxInt32

// snapshots beyond this are left to append
const maxPrealloc = 1 << 16

// Run steps the sim with a fixed dt until cfg.Duration has elapsed,
// recording sampled snapshots and metric values. The run starts from the
// sim's current state and leaves the sim at the final state. On
// cancellation the partial result is returned with the context's error.
func (s *Sim) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	capacity := min(steps/every+2, maxPrealloc)
	result := &Result{
		Times:     make([]float64, 0, capacity),
		Snapshots: make([][]BodyState, 0, capacity),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t0 := s.time
	e0 := s.system.Energy()
	p0 := s.system.Momentum()

	s.observe()
	result.Times = append(result.Times, 0)
	result.Snapshots = append(result.Snapshots, s.Snapshot())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, e0, p0)
			return result, ctx.Err()
		default:
		}

		s.Step(cfg.Dt)
		result.StepsTaken++

		if cfg.ValidateState && !s.system.Valid() {
			s.finish(result, e0, p0)
			return result, &SimulationError{Step: i, Time: s.time - t0, Wrapped: ErrInvalidState}
		}

		s.observe()
		if result.StepsTaken%every == 0 || i == steps-1 {
			result.Times = append(result.Times, s.time-t0)
			result.Snapshots = append(result.Snapshots, s.Snapshot())
		}
	}

	s.finish(result, e0, p0)
	return result, nil
}

func (s *Sim) observe() {
	for _, m := range s.metrics {
		m.Observe(s.system, s.time)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.system, s.time)
	}
}

func (s *Sim) finish(result *Result, e0 float64, p0 r3.Vec) {
	if e0 != 0 {
		result.EnergyDrift = math.Abs(s.system.Energy()-e0) / math.Abs(e0)
	}
	result.MomentumDrift = r3.Norm(r3.Sub(s.system.Momentum(), p0))
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRunConfig(cfg RunConfig) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if n := cfg.Duration / cfg.Dt; n > MaxSteps {
		return fmt.Errorf("%w: %g steps exceeds the limit of %d", ErrInvalidConfig, n, MaxSteps)
	}
	return nil
}
