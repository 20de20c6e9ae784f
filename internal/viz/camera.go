package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is an orthographic view of the xy plane that can be tilted about
// the x and y axes. Extent is the world distance from the centre to the
// nearest screen edge at zoom 1.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	Extent     float64
	Center     r3.Vec
}

func NewCamera(extent float64) *Camera {
	if !(extent > 0) || math.IsInf(extent, 0) {
		extent = 1
	}
	return &Camera{Zoom: 1.0, Extent: extent}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(100, c.Zoom*1.25) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.25) }

// RotatePoint applies the tilt about x then y.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps a world point to dot coordinates on a sw x sh canvas and
// reports whether it lands on the canvas.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, bool) {
	rot := c.RotatePoint(r3.Sub(p, c.Center))
	k := float64(min(sw, sh)) / 2 * 0.9 / c.Extent * c.Zoom
	fx := rot.X*k + float64(sw)/2
	fy := -rot.Y*k + float64(sh)/2
	if math.IsNaN(fx) || math.IsNaN(fy) || fx < 0 || fy < 0 || fx >= float64(sw) || fy >= float64(sh) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}
