package analysis

import (
	"strings"

	"github.com/san-kum/orbitsim/internal/sim"
)

// bodyMarks are the runes used per body, cycling for larger systems.
var bodyMarks = []rune{'•', '○', '◆', '◇', '▪', '▫'}

// OrbitsToASCII plots the xy trace of every body in result on a width x
// height grid, with axes where they cross the visible area. Later bodies
// overwrite earlier ones in shared cells.
func OrbitsToASCII(result *sim.Result, width, height int) string {
	if result == nil || len(result.Snapshots) == 0 || len(result.Snapshots[0]) == 0 || width < 2 || height < 2 {
		return ""
	}

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

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, snap := range result.Snapshots {
		for i, b := range snap {
			col := int((b.Position.X - minX) / rangeX * float64(width-1))
			row := height - 1 - int((b.Position.Y-minY)/rangeY*float64(height-1))
			if row >= 0 && row < height && col >= 0 && col < width {
				canvas[row][col] = bodyMarks[i%len(bodyMarks)]
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
