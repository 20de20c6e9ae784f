package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/orbitsim/internal/config"
	"golang.org/x/sync/errgroup"
)

// RunSpec describes one independent headless run. Metrics, when set, is
// called once per run so metric state is never shared between goroutines.
type RunSpec struct {
	Name    string
	Config  *config.Config
	Metrics func() []Metric
}

type BatchResult struct {
	Name   string
	Result *Result
}

// Batch runs every spec on its own Sim, at most workers at a time (no limit
// when workers < 1). Results keep the order of specs. The first failure
// cancels the remaining runs.
func Batch(ctx context.Context, specs []RunSpec, workers int) ([]BatchResult, error) {
	results := make([]BatchResult, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			s, err := FromConfig(spec.Config)
			if err != nil {
				return fmt.Errorf("%s: %w", spec.Name, err)
			}
			if spec.Metrics != nil {
				for _, m := range spec.Metrics() {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, RunConfigFrom(spec.Config))
			if err != nil {
				return fmt.Errorf("%s: %w", spec.Name, err)
			}
			results[i] = BatchResult{Name: spec.Name, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
