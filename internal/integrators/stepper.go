package integrators

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknownStepper is returned by Lookup for names with no registered stepper.
var ErrUnknownStepper = errors.New("integrators: unknown stepper")

// Accel returns the acceleration felt at the body's position plus offset.
type Accel func(offset r3.Vec) r3.Vec

type Stepper interface {
	Name() string
	Step(r, v r3.Vec, h float64, accel Accel) (r3.Vec, r3.Vec)
}

var registry = map[string]func() Stepper{
	"rk4":         func() Stepper { return NewRK4() },
	"rk4-classic": func() Stepper { return NewClassicRK4() },
	"leapfrog":    func() Stepper { return NewLeapfrog() },
	"euler":       func() Stepper { return NewSymplecticEuler() },
}

// Lookup returns the stepper registered under name.
func Lookup(name string) (Stepper, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownStepper, name, Names())
	}
	return fn(), nil
}

// Names returns the registered stepper names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mulElem is the element-wise (Hadamard) product of two vectors.
func mulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// weighted returns k1 + 2*k2 + 2*k3 + k4, summed left to right.
func weighted(k1, k2, k3, k4 r3.Vec) r3.Vec {
	sum := r3.Add(k1, r3.Scale(2, k2))
	sum = r3.Add(sum, r3.Scale(2, k3))
	return r3.Add(sum, k4)
}
