package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownGradient = errors.New("scene: unknown gradient")

type stop struct {
	col colorful.Color
	pos float64
}

// Gradient is a continuous colour ramp through evenly spaced stops,
// interpolated in CIE L*a*b*.
type Gradient struct {
	name  string
	stops []stop
}

func NewGradient(name string, hexStops ...string) (*Gradient, error) {
	if len(hexStops) < 2 {
		return nil, fmt.Errorf("scene: gradient %q needs at least two stops", name)
	}
	g := &Gradient{name: name, stops: make([]stop, len(hexStops))}
	for i, h := range hexStops {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("scene: gradient %q stop %d: %w", name, i, err)
		}
		g.stops[i] = stop{col: c, pos: float64(i) / float64(len(hexStops)-1)}
	}
	return g, nil
}

func mustGradient(name string, hexStops ...string) *Gradient {
	g, err := NewGradient(name, hexStops...)
	if err != nil {
		panic(err)
	}
	return g
}

var (
	Viridis = mustGradient("viridis",
		"#440154", "#472d7b", "#3b528b", "#2c728e", "#21908c",
		"#27ad81", "#5dc863", "#aadc32", "#fde725")
	Magma = mustGradient("magma",
		"#000004", "#1d1147", "#51127c", "#822681", "#b63679",
		"#e65164", "#fb8861", "#fec287", "#fcfdbf")
)

var gradients = map[string]*Gradient{
	"viridis": Viridis,
	"magma":   Magma,
}

// GradientByName looks up one of the built-in gradients.
func GradientByName(name string) (*Gradient, error) {
	g, ok := gradients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownGradient, name, GradientNames())
	}
	return g, nil
}

func GradientNames() []string {
	names := make([]string, 0, len(gradients))
	for name := range gradients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *Gradient) Name() string { return g.name }

// Eval returns the colour at t. t is clamped to [0, 1] and NaN maps to 0.
// Positions that land exactly on a stop return that stop unchanged.
func (g *Gradient) Eval(t float64) colorful.Color {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	for i := 0; i < len(g.stops)-1; i++ {
		c1, c2 := g.stops[i], g.stops[i+1]
		if c1.pos <= t && t <= c2.pos {
			local := (t - c1.pos) / (c2.pos - c1.pos)
			switch local {
			case 0:
				return c1.col
			case 1:
				return c2.col
			}
			return c1.col.BlendLab(c2.col, local).Clamped()
		}
	}
	return g.stops[len(g.stops)-1].col
}

// RGB is Eval as float32 components in [0, 1].
func (g *Gradient) RGB(t float64) [3]float32 {
	c := g.Eval(t)
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}
