package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

const (
	background   = "#0a0a0a"
	defaultColor = "#00ff00"
)

// Braille dot-to-bit mapping
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in
// its cell's colour.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, defaultColor)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := ""
			if c := canvas.Colors[row][col]; c != "" {
				fill = fmt.Sprintf(` fill="%s"`, c)
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"%s/>\n", cx, cy, dotRadius, fill)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// OrbitsToSVG draws one path per body through its sampled xy positions.
// Body i is stroked with grad at i/(n-1), so the first and last bodies take
// the ends of the ramp.
func OrbitsToSVG(result *sim.Result, width, height int, grad *scene.Gradient) string {
	if result == nil || len(result.Snapshots) < 2 || len(result.Snapshots[0]) == 0 {
		return ""
	}

	// Find bounds
	first := result.Snapshots[0][0].Position
	minX, maxX := first.X, first.X
	minY, maxY := first.Y, first.Y
	for _, snap := range result.Snapshots {
		for _, b := range snap {
			minX = min(minX, b.Position.X)
			maxX = max(maxX, b.Position.X)
			minY = min(minY, b.Position.Y)
			maxY = max(maxY, b.Position.Y)
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	n := len(result.Snapshots[0])
	for i := 0; i < n; i++ {
		stroke := defaultColor
		if grad != nil {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			stroke = grad.Eval(t).Hex()
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
		for k, snap := range result.Snapshots {
			if i >= len(snap) {
				break
			}
			p := snap[i].Position
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if k == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
