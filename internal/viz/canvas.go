package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells addressed in sub-pixels. A canvas of
// Width×Height cells has (2·Width)×(4·Height) sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid. Contents are cleared.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
}

// Set turns on the sub-pixel at (x, y). Out-of-range points are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r sub-pixels centered at (cx, cy).
func (c *Canvas) DrawCircle(cx, cy int, r float64) {
	if r <= 0 {
		return
	}
	steps := max(int(2*math.Pi*r), 16)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		sin, cos := math.Sincos(a)
		c.Set(cx+int(math.Round(r*cos)), cy+int(math.Round(r*sin)))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps simulation coordinates onto canvas sub-pixels. The domain
// center sits at the canvas center and +y points up. Resizing the terminal
// changes only the viewport, never the simulation.
type Viewport struct {
	Extent float64 // world radius that fits the shorter canvas side
	cols   int
	rows   int
	scale  float64
}

func NewViewport(extent float64, cols, rows int) Viewport {
	v := Viewport{Extent: extent}
	v.Resize(cols, rows)
	return v
}

func (v *Viewport) Resize(cols, rows int) {
	v.cols, v.rows = max(cols, 1), max(rows, 1)
	v.rescale()
}

func (v *Viewport) SetExtent(extent float64) {
	v.Extent = extent
	v.rescale()
}

func (v *Viewport) rescale() {
	side := math.Min(float64(2*v.cols), float64(4*v.rows))
	if v.Extent > 0 {
		v.scale = side / (2 * v.Extent)
	} else {
		v.scale = 1
	}
}

// Scale is the number of sub-pixels per world unit.
func (v Viewport) Scale() float64 { return v.scale }

// ToSub maps a world position to sub-pixel coordinates.
func (v Viewport) ToSub(p r2.Vec) (int, int) {
	cx, cy := float64(v.cols), float64(2*v.rows)
	return int(math.Floor(cx + p.X*v.scale)), int(math.Floor(cy - p.Y*v.scale))
}

// FromCell maps the center of a terminal cell to a world position.
func (v Viewport) FromCell(col, row int) r2.Vec {
	sx := float64(2*col) + 1
	sy := float64(4*row) + 2
	cx, cy := float64(v.cols), float64(2*v.rows)
	return r2.Vec{X: (sx - cx) / v.scale, Y: (cy - sy) / v.scale}
}
