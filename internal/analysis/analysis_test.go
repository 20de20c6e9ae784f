package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/sim"
)

func TestPowerSpectrum_Peak(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * 8 * float64(i) / 64)
	}
	ps := PowerSpectrum(data)
	if len(ps) != 32 {
		t.Fatalf("expected 32 bins, got %d", len(ps))
	}
	peak := 0
	for k := range ps {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak != 8 {
		t.Errorf("expected peak at bin 8, got %d", peak)
	}
}

func TestDominantPeriod(t *testing.T) {
	times := make([]float64, 200)
	data := make([]float64, 200)
	for i := range times {
		times[i] = 0.1 * float64(i)
		data[i] = 3 + math.Sin(2*math.Pi*times[i]/2.5)
	}
	// 200 samples at 0.1 span 20s, eight cycles of 2.5s
	got, err := DominantPeriod(times, data)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-2.5) > 0.05 {
		t.Errorf("expected period 2.5, got %g", got)
	}
}

func TestDominantPeriod_Errors(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		data  []float64
		want  error
	}{
		{"too short", []float64{0, 1}, []float64{1, 2}, ErrTooShort},
		{"length mismatch", []float64{0, 1, 2, 3}, []float64{1, 2, 3}, ErrTooShort},
		{"flat times", []float64{1, 1, 1, 1}, []float64{1, 2, 3, 4}, ErrTooShort},
		{"constant", []float64{0, 1, 2, 3, 4, 5}, []float64{2, 2, 2, 2, 2, 2}, ErrNoPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DominantPeriod(tt.times, tt.data); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func runPreset(t *testing.T, name string, duration float64) (*config.Config, *sim.Result) {
	t.Helper()
	cfg := config.GetPreset(name)
	cfg.Duration = duration
	s, err := sim.FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Run(context.Background(), sim.RunConfigFrom(cfg))
	if err != nil {
		t.Fatal(err)
	}
	return cfg, res
}

func TestDominantPeriod_CircularOrbit(t *testing.T) {
	_, res := runPreset(t, "circular", 8*math.Pi)
	x, err := Coordinate(res, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DominantPeriod(res.Times, x)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-2*math.Pi)/(2*math.Pi) > 0.01 {
		t.Errorf("expected period 2π, got %g", got)
	}
}

func TestCoordinate_Errors(t *testing.T) {
	_, res := runPreset(t, "sun-earth", 0.01)
	if _, err := Coordinate(res, 2, 0); !errors.Is(err, ErrBadSelector) {
		t.Errorf("expected ErrBadSelector for body, got %v", err)
	}
	if _, err := Coordinate(res, 0, 3); !errors.Is(err, ErrBadSelector) {
		t.Errorf("expected ErrBadSelector for axis, got %v", err)
	}
	y, err := Coordinate(res, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if y[0] != -0.98329 {
		t.Errorf("expected earth y -0.98329, got %g", y[0])
	}
}

func TestLyapunov_CircularIsRegular(t *testing.T) {
	cfg := config.GetPreset("circular")
	lambda, err := Lyapunov(cfg, 1e-8, 10)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(lambda) || lambda < -2 || lambda > 2 {
		t.Errorf("expected a small exponent for a circular orbit, got %g", lambda)
	}

	again, err := Lyapunov(cfg, 1e-8, 10)
	if err != nil {
		t.Fatal(err)
	}
	if again != lambda {
		t.Errorf("estimate not deterministic: %g vs %g", lambda, again)
	}
}

func TestLyapunov_Errors(t *testing.T) {
	cfg := config.GetPreset("circular")
	for _, p := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Lyapunov(cfg, p, 10); !errors.Is(err, ErrBadPerturbation) {
			t.Errorf("perturbation %g: expected ErrBadPerturbation, got %v", p, err)
		}
	}

	cfg.Duration = 5 * cfg.Dt
	if _, err := Lyapunov(cfg, 1e-8, 10); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestOrbitsToASCII(t *testing.T) {
	_, res := runPreset(t, "binary", 3)
	out := OrbitsToASCII(res, 40, 20)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	if !strings.ContainsRune(out, '•') || !strings.ContainsRune(out, '○') {
		t.Error("expected a mark for each body")
	}
	if OrbitsToASCII(nil, 40, 20) != "" {
		t.Error("expected empty plot for nil result")
	}
}
