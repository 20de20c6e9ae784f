package viz

import (
	"errors"
	"testing"

	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestScreenRenderScene(t *testing.T) {
	sc := scene.New(sim.New())
	screen := NewScreen(80, 24, NewCamera(1.2))
	screen.Begin()
	if err := sc.Render(screen); err != nil {
		t.Fatal(err)
	}

	// sun at the origin is the canvas centre
	if !screen.Canvas.IsSet(80, 48) {
		t.Error("sun not drawn at canvas centre")
	}
	if got := screen.Canvas.Colors[12][40]; got != "#ff0000" {
		t.Errorf("expected unstepped instances red, got %q", got)
	}

	x, y, ok := screen.Camera.Project(r3.Vec{Y: -0.98329}, 160, 96)
	if !ok {
		t.Fatal("earth off screen")
	}
	if !screen.Canvas.IsSet(x, y) {
		t.Errorf("earth not drawn at (%d,%d)", x, y)
	}
	if screen.TrailLen(sc.SimKey(), 0) != 1 || screen.TrailLen(sc.SimKey(), 1) != 1 {
		t.Error("expected one trail point per body")
	}
}

func TestScreenTrails(t *testing.T) {
	sc := scene.New(sim.New())
	screen := NewScreen(40, 12, NewCamera(1.2))
	screen.TrailSize = 5
	for i := 0; i < 10; i++ {
		sc.StepSim(1e-3)
		screen.Begin()
		if err := sc.Render(screen); err != nil {
			t.Fatal(err)
		}
	}
	if n := screen.TrailLen(sc.SimKey(), 1); n != 5 {
		t.Errorf("expected trail capped at 5, got %d", n)
	}
	if n := screen.TrailLen(sc.SimKey(), 7); n != 0 {
		t.Errorf("expected no trail for missing instance, got %d", n)
	}

	screen.ClearTrails()
	if n := screen.TrailLen(sc.SimKey(), 1); n != 0 {
		t.Errorf("expected trails cleared, got %d", n)
	}
}

func TestScreenErrors(t *testing.T) {
	screen := NewScreen(10, 10, NewCamera(1))

	if err := screen.UploadInstances(1, make([]byte, scene.InstanceRawSize+1)); !errors.Is(err, ErrBadUpload) {
		t.Errorf("expected ErrBadUpload, got %v", err)
	}
	if err := screen.Draw(scene.DrawCall{Key: 2, Kind: scene.NonIndexed{VertexCount: 3}}); !errors.Is(err, ErrNoUpload) {
		t.Errorf("expected ErrNoUpload, got %v", err)
	}
	if err := screen.UploadInstances(3, nil); err != nil {
		t.Fatal(err)
	}
	if err := screen.Draw(scene.DrawCall{Key: 3}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestScreenDrawKinds(t *testing.T) {
	inst := scene.NewInstance([3]float32{0, 0, 0}, scene.Identity, [3]float32{0, 1, 0})
	data := scene.MarshalInstances([]scene.Instance{inst})

	tests := []struct {
		name string
		kind scene.DrawKind
		lit  int
	}{
		{"non-indexed dot", scene.NonIndexed{VertexCount: 3}, 1},
		{"indexed disc", scene.Indexed{IndexCount: 6, VertexCount: 4}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := NewScreen(10, 5, NewCamera(1))
			if err := screen.UploadInstances(1, data); err != nil {
				t.Fatal(err)
			}
			if err := screen.Draw(scene.DrawCall{Key: 1, Kind: tt.kind, Instances: 1}); err != nil {
				t.Fatal(err)
			}
			lit := 0
			for y := 0; y < screen.Canvas.SubHeight(); y++ {
				for x := 0; x < screen.Canvas.SubWidth(); x++ {
					if screen.Canvas.IsSet(x, y) {
						lit++
					}
				}
			}
			if lit != tt.lit {
				t.Errorf("expected %d dots, got %d", tt.lit, lit)
			}
			if got := screen.Canvas.Colors[2][5]; got != "#00ff00" {
				t.Errorf("expected green cell, got %q", got)
			}
		})
	}
}

func TestScreenInstanceCountLimit(t *testing.T) {
	a := scene.NewInstance([3]float32{0, 0, 0}, scene.Identity, scene.Red)
	b := scene.NewInstance([3]float32{0.5, 0, 0}, scene.Identity, scene.Red)
	screen := NewScreen(10, 5, NewCamera(1))
	if err := screen.UploadInstances(1, scene.MarshalInstances([]scene.Instance{a, b})); err != nil {
		t.Fatal(err)
	}
	if err := screen.Draw(scene.DrawCall{Key: 1, Kind: scene.NonIndexed{VertexCount: 3}, Instances: 1}); err != nil {
		t.Fatal(err)
	}
	if screen.TrailLen(1, 1) != 0 {
		t.Error("instance beyond the draw count was drawn")
	}
}
