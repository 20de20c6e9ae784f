package scene

import (
	"math"
	"time"
)

const (
	DefaultSlowdown    = 12.0
	DefaultMaxSubsteps = 64
)

// Clock converts wall-clock frame time into simulation steps. Elapsed
// seconds are divided by Slowdown. With FixedStep zero each frame runs one
// step of the scaled elapsed time; otherwise scaled time accumulates and
// whole FixedStep steps are run, at most MaxSubsteps per frame, with the
// remainder carried to the next frame.
type Clock struct {
	Slowdown    float64
	FixedStep   float64
	MaxSubsteps int

	acc     float64
	dropped float64
}

func NewClock(slowdown, fixedStep float64, maxSubsteps int) *Clock {
	if slowdown <= 0 {
		slowdown = DefaultSlowdown
	}
	if maxSubsteps <= 0 {
		maxSubsteps = DefaultMaxSubsteps
	}
	return &Clock{Slowdown: slowdown, FixedStep: fixedStep, MaxSubsteps: maxSubsteps}
}

// Advance returns the step size and number of steps to run for a frame
// that took elapsed wall time.
func (c *Clock) Advance(elapsed time.Duration) (dt float64, steps int) {
	if elapsed <= 0 {
		return 0, 0
	}
	simDt := elapsed.Seconds() / c.Slowdown
	if c.FixedStep <= 0 {
		return simDt, 1
	}

	c.acc += simDt
	// clamp as a float; the ratio can exceed the int range
	n := math.Floor(c.acc / c.FixedStep)
	c.acc = max(c.acc-n*c.FixedStep, 0)
	if n > float64(c.MaxSubsteps) {
		c.dropped += (n - float64(c.MaxSubsteps)) * c.FixedStep
		n = float64(c.MaxSubsteps)
	}
	return c.FixedStep, int(n)
}

// Pending is accumulated simulation time not yet stepped.
func (c *Clock) Pending() float64 { return c.acc }

// Dropped is simulation time discarded by the substep cap.
func (c *Clock) Dropped() float64 { return c.dropped }

func (c *Clock) Reset() {
	c.acc = 0
	c.dropped = 0
}

// Tick advances the scene by one frame of elapsed wall time and returns the
// simulation object. A frame too short for a whole fixed step leaves the
// simulation untouched.
func (s *Scene) Tick(c *Clock, elapsed time.Duration) (Key, *Object, int) {
	dt, steps := c.Advance(elapsed)
	for i := 0; i < steps; i++ {
		s.StepSim(dt)
	}
	return s.simKey, s.objects[s.simKey], steps
}
