package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/sim"
)

var ErrUnknownKey = errors.New("scene: unknown object key")

const (
	DefaultSpeedScale = 100.0
	DefaultQuadSize   = 0.25
)

// Red is the colour instances carry until their first StepSim.
var Red = [3]float32{1, 0, 0}

type Option func(*Scene)

func WithGradient(g *Gradient) Option {
	return func(s *Scene) { s.gradient = g }
}

// WithSpeedScale sets the divisor applied to squared speed before the
// gradient lookup. Non-positive values are ignored.
func WithSpeedScale(scale float64) Option {
	return func(s *Scene) {
		if scale > 0 {
			s.speedScale = scale
		}
	}
}

// WithOrientToVelocity rotates each instance about z to face its body's
// direction of travel in the xy plane.
func WithOrientToVelocity(on bool) Option {
	return func(s *Scene) { s.orient = on }
}

func WithQuadSize(size float32) Option {
	return func(s *Scene) { s.quadSize = size }
}

// Scene owns a Sim and the objects drawn for it.
type Scene struct {
	objects    map[Key]*Object
	lastKey    Key
	sim        *sim.Sim
	simKey     Key
	gradient   *Gradient
	speedScale float64
	orient     bool
	quadSize   float32
}

// New builds a scene with one quad instance per body of s, each at its
// body's position with identity rotation and red colour.
func New(s *sim.Sim, opts ...Option) *Scene {
	sc := &Scene{
		objects:    make(map[Key]*Object),
		sim:        s,
		gradient:   Viridis,
		speedScale: DefaultSpeedScale,
		quadSize:   DefaultQuadSize,
	}
	for _, opt := range opts {
		opt(sc)
	}

	bodies := s.System().Bodies()
	instances := make([]Instance, len(bodies))
	for i, b := range bodies {
		instances[i] = NewInstance(position32(b.Position().X, b.Position().Y, b.Position().Z), Identity, Red)
	}
	sc.simKey = sc.IssueKey(NewObject(Quad(sc.quadSize, sc.quadSize), instances))
	return sc
}

func position32(x, y, z float64) [3]float32 {
	return [3]float32{float32(x), float32(y), float32(z)}
}

// StepSim advances the Sim by dt and rewrites the simulation object's
// instances from the new body states.
func (s *Scene) StepSim(dt float64) (Key, *Object) {
	s.sim.Step(dt)
	return s.simKey, s.sync()
}

func (s *Scene) sync() *Object {
	obj := s.objects[s.simKey]
	bodies := s.sim.System().Bodies()
	n := min(len(obj.Instances), len(bodies))
	for i := 0; i < n; i++ {
		b := bodies[i]
		inst := &obj.Instances[i]
		p := b.Position()
		inst.Position = position32(p.X, p.Y, p.Z)
		inst.Color = s.gradient.RGB(b.SpeedSquared() / s.speedScale)
		if s.orient {
			if v := b.Velocity(); v.X != 0 || v.Y != 0 {
				inst.Rotation = RotationZ(math.Atan2(v.Y, v.X))
			}
		}
	}
	return obj
}

// IssueKey registers obj and returns its new key.
func (s *Scene) IssueKey(obj *Object) Key {
	s.lastKey++
	s.objects[s.lastKey] = obj
	return s.lastKey
}

func (s *Scene) Object(key Key) (*Object, bool) {
	obj, ok := s.objects[key]
	return obj, ok
}

// Objects returns every key in issue order.
func (s *Scene) Objects() []Key {
	keys := make([]Key, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *Scene) InstanceBytes(key Key) ([]byte, error) {
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKey, key)
	}
	return obj.InstanceBytes(), nil
}

func (s *Scene) Sim() *sim.Sim       { return s.sim }
func (s *Scene) SimKey() Key         { return s.simKey }
func (s *Scene) Gradient() *Gradient { return s.gradient }
