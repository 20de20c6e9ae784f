package viz

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/orbitsim/internal/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNoUpload    = errors.New("viz: draw without upload")
	ErrBadUpload   = errors.New("viz: instance buffer is not a whole number of records")
	ErrUnknownKind = errors.New("viz: unknown draw kind")
)

const DefaultTrailSize = 120

// Screen is a terminal scene.Renderer. Each instance is drawn as a dot or
// small disc on a braille Canvas through a Camera, with an optional fading
// trail of its recent positions.
type Screen struct {
	Canvas *Canvas
	Camera *Camera

	Trails     bool
	TrailSize  int
	TrailColor string

	uploads map[scene.Key][]byte
	trails  map[scene.Key][][]r3.Vec
}

func NewScreen(w, h int, cam *Camera) *Screen {
	return &Screen{
		Canvas:     NewCanvas(w, h),
		Camera:     cam,
		Trails:     true,
		TrailSize:  DefaultTrailSize,
		TrailColor: ThemeCyberpunk.Trail,
		uploads:    make(map[scene.Key][]byte),
		trails:     make(map[scene.Key][][]r3.Vec),
	}
}

// Resize replaces the canvas, keeping uploads and trails.
func (s *Screen) Resize(w, h int) {
	s.Canvas = NewCanvas(w, h)
}

// Begin clears the canvas and redraws trails underneath the next frame.
func (s *Screen) Begin() {
	s.Canvas.Clear()
	if !s.Trails {
		return
	}
	sw, sh := s.Canvas.SubWidth(), s.Canvas.SubHeight()
	for _, perInstance := range s.trails {
		for _, trail := range perInstance {
			px, py, prev := 0, 0, false
			for _, p := range trail {
				x, y, ok := s.Camera.Project(p, sw, sh)
				if ok && prev {
					s.Canvas.DrawLine(px, py, x, y, s.TrailColor)
				} else if ok {
					s.Canvas.SetColor(x, y, s.TrailColor)
				}
				px, py, prev = x, y, ok
			}
		}
	}
}

// ClearTrails forgets every recorded position.
func (s *Screen) ClearTrails() {
	s.trails = make(map[scene.Key][][]r3.Vec)
}

func (s *Screen) UploadInstances(key scene.Key, data []byte) error {
	if len(data)%scene.InstanceRawSize != 0 {
		return fmt.Errorf("%w: %d bytes", ErrBadUpload, len(data))
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.uploads[key] = buf
	return nil
}

func (s *Screen) Draw(call scene.DrawCall) error {
	data, ok := s.uploads[call.Key]
	if !ok {
		return fmt.Errorf("%w: object %d", ErrNoUpload, call.Key)
	}

	var radius int
	switch call.Kind.(type) {
	case scene.Indexed:
		radius = 1
	case scene.NonIndexed:
		radius = 0
	default:
		return fmt.Errorf("%w: %T", ErrUnknownKind, call.Kind)
	}

	raws := scene.UnmarshalInstances(data)
	if n := int(call.Instances); n < len(raws) {
		raws = raws[:n]
	}
	sw, sh := s.Canvas.SubWidth(), s.Canvas.SubHeight()
	for i, raw := range raws {
		t := raw.Translation()
		p := r3.Vec{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])}
		s.record(call.Key, i, p)

		x, y, ok := s.Camera.Project(p, sw, sh)
		if !ok {
			continue
		}
		s.Canvas.Fill(x, y, radius, hexColor(raw.Color))
	}
	return nil
}

func (s *Screen) record(key scene.Key, i int, p r3.Vec) {
	if s.TrailSize <= 0 {
		return
	}
	trails := s.trails[key]
	for len(trails) <= i {
		trails = append(trails, nil)
	}
	trail := append(trails[i], p)
	if len(trail) > s.TrailSize {
		trail = trail[len(trail)-s.TrailSize:]
	}
	trails[i] = trail
	s.trails[key] = trails
}

// TrailLen is the number of recorded positions for instance i of key.
func (s *Screen) TrailLen(key scene.Key, i int) int {
	trails := s.trails[key]
	if i >= len(trails) {
		return 0
	}
	return len(trails[i])
}

func hexColor(c [3]float32) string {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()
}
