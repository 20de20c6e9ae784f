package physics

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParallelThreshold is the smallest system staged on more than one
// goroutine.
const ParallelThreshold = 16

// WithWorkers stages bodies on up to n goroutines for systems of at least
// ParallelThreshold bodies. Values below 2 keep stepping serial.
func WithWorkers(n int) Option {
	return func(s *System) { s.workers = n }
}

func (s *System) Workers() int { return s.workers }

// stage computes and stages every body's next state from the committed
// snapshot. Each body only writes its own pending fields, so chunks of
// bodies can be staged concurrently.
func (s *System) stage(h float64) {
	n := len(s.bodies)
	if s.workers < 2 || n < ParallelThreshold {
		s.stageRange(0, n, h)
		return
	}

	workers := min(s.workers, n)
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.stageRange(start, end, h)
		}()
	}
	wg.Wait()
}

func (s *System) stageRange(start, end int, h float64) {
	for i := start; i < end; i++ {
		b := s.bodies[i]
		pos, vel := s.stepper.Step(b.position, b.velocity, h, func(offset r3.Vec) r3.Vec {
			return s.Acceleration(b, offset)
		})
		s.bodies[i].Apply(pos, vel)
	}
}
