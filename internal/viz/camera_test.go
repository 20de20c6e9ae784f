package viz

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCameraProject(t *testing.T) {
	cam := NewCamera(1)
	tests := []struct {
		name   string
		p      r3.Vec
		x, y   int
		inside bool
	}{
		{"origin", r3.Vec{}, 50, 50, true},
		{"+x", r3.Vec{X: 1}, 95, 50, true},
		{"+y is up", r3.Vec{Y: 1}, 50, 5, true},
		{"z ignored untilted", r3.Vec{Z: 7}, 50, 50, true},
		{"outside", r3.Vec{X: 3}, 0, 0, false},
		{"nan", r3.Vec{X: math.NaN()}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.Project(tt.p, 100, 100)
			if ok != tt.inside {
				t.Fatalf("expected inside=%v, got %v", tt.inside, ok)
			}
			if ok && (x != tt.x || y != tt.y) {
				t.Errorf("expected (%d,%d), got (%d,%d)", tt.x, tt.y, x, y)
			}
		})
	}
}

func TestCameraCenter(t *testing.T) {
	cam := NewCamera(1)
	cam.Center = r3.Vec{X: 10, Y: 10}
	if x, y, ok := cam.Project(r3.Vec{X: 10, Y: 10}, 40, 40); !ok || x != 20 || y != 20 {
		t.Errorf("centre should land mid-canvas, got (%d,%d,%v)", x, y, ok)
	}
}

func TestCameraTilt(t *testing.T) {
	cam := NewCamera(1)
	cam.RotateX(math.Pi / 2)
	p := cam.RotatePoint(r3.Vec{Y: 1})
	if math.Abs(p.Y) > 1e-12 || math.Abs(p.Z-1) > 1e-12 {
		t.Errorf("expected y rotated onto z, got %+v", p)
	}
}

func TestCameraZoomClamp(t *testing.T) {
	cam := NewCamera(1)
	for i := 0; i < 100; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom != 100 {
		t.Errorf("expected zoom clamped to 100, got %g", cam.Zoom)
	}
	for i := 0; i < 200; i++ {
		cam.ZoomOut()
	}
	if cam.Zoom != 0.01 {
		t.Errorf("expected zoom clamped to 0.01, got %g", cam.Zoom)
	}
}

func TestNewCameraBadExtent(t *testing.T) {
	for _, ext := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if cam := NewCamera(ext); cam.Extent != 1 {
			t.Errorf("extent %g: expected fallback 1, got %g", ext, cam.Extent)
		}
	}
}
