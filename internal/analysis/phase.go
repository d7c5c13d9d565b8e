package analysis

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// Point is one sample in a 2D scatter.
type Point struct{ X, Y float64 }

// RadialPhase maps every body to (r, v_r). A settled disk collapses onto
// the v_r = 0 axis; a breathing or escaping population spreads vertically.
func RadialPhase(bodies dynamo.Population) []Point {
	points := make([]Point, len(bodies))
	for i, b := range bodies {
		r := r2.Norm(b.Pos)
		vr := 0.0
		if r > 0 {
			vr = r2.Dot(b.Vel, b.Pos) / r
		}
		points[i] = Point{X: r, Y: vr}
	}
	return points
}

// PhaseToASCII renders points on a width×height character grid with axes
// drawn where they cross the visible area.
func PhaseToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

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

	canvas := blankCanvas(width, height)
	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}
	return canvasString(canvas)
}
