package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/orbitsim/internal/sim"
)

var (
	ErrTooShort    = errors.New("analysis: series too short")
	ErrNoPeriod    = errors.New("analysis: no periodic component")
	ErrBadSelector = errors.New("analysis: body or axis out of range")
)

// PowerSpectrum returns the magnitudes of the first half of the discrete
// Fourier transform of data. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in data,
// sampled at the uniform interval spanned by times. The mean is removed
// first so a constant offset does not win.
func DominantPeriod(times, data []float64) (float64, error) {
	n := len(data)
	if n < 4 || len(times) != n {
		return 0, fmt.Errorf("%w: %d samples", ErrTooShort, n)
	}
	interval := (times[n-1] - times[0]) / float64(n-1)
	if !(interval > 0) {
		return 0, fmt.Errorf("%w: non-increasing times", ErrTooShort)
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)
	centred := make([]float64, n)
	for i, v := range data {
		centred[i] = v - mean
	}

	ps := PowerSpectrum(centred)
	peak, peakIdx := 0.0, 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			peak, peakIdx = ps[k], k
		}
	}
	if peakIdx == 0 || peak < 1e-12*math.Sqrt(float64(n)) {
		return 0, ErrNoPeriod
	}
	return float64(n) * interval / float64(peakIdx), nil
}

// Coordinate extracts one axis (0 x, 1 y, 2 z) of body index i from every
// snapshot of a result.
func Coordinate(result *sim.Result, i, axis int) ([]float64, error) {
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("%w: axis %d", ErrBadSelector, axis)
	}
	out := make([]float64, len(result.Snapshots))
	for k, snap := range result.Snapshots {
		if i < 0 || i >= len(snap) {
			return nil, fmt.Errorf("%w: body %d of %d", ErrBadSelector, i, len(snap))
		}
		p := snap[i].Position
		out[k] = [3]float64{p.X, p.Y, p.Z}[axis]
	}
	return out, nil
}
