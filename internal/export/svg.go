package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/physics"
)

// SnapshotSVG draws the bodies of snap as dots on a square image of size
// pixels covering [-extent, extent] in both axes. Guide circles follow the
// mode: the soft boundary for flocks, the core and escape radii for fields.
func SnapshotSVG(snap engine.Snapshot, cfg config.Simulation, size int, extent float64) string {
	if size <= 0 || extent <= 0 {
		return ""
	}
	scale := float64(size) / (2 * extent)
	center := float64(size) / 2
	toPx := func(x, y float64) (float64, float64) {
		return center + x*scale, center - y*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="none" stroke="#3a3f66" stroke-width="1">
`, size, size, size, size)

	guide := func(r float64) {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", center, center, r*scale)
	}
	switch snap.Mode {
	case physics.ModeFlock:
		guide(cfg.Flock.SoftBoundary)
	case physics.ModeField:
		guide(cfg.Stats.CoreRadius)
		guide(cfg.Stats.EscapeRadius)
	}
	if p := snap.Predator; p != nil {
		x, y := toPx(p.Pos.X, p.Pos.Y)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" stroke="#ff66cc"/>`+"\n", x, y, p.Radius*scale)
	}
	sb.WriteString("</g>\n<g fill=\"#9ad1ff\">\n")

	dot := math.Max(0.5, math.Min(2, float64(size)/math.Sqrt(float64(len(snap.Bodies))+1)/8))
	for _, b := range snap.Bodies {
		x, y := toPx(b.Pos.X, b.Pos.Y)
		if x < 0 || y < 0 || x > float64(size) || y > float64(size) {
			continue
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.2f"/>`+"\n", x, y, dot)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CurveSVG plots one or more series against xs as polylines. Each series is
// drawn with the matching color, cycling when there are more series than
// colors.
func CurveSVG(xs []float64, series [][]float64, colors []string, width, height int) string {
	if len(xs) < 2 || len(series) == 0 {
		return ""
	}
	if len(colors) == 0 {
		colors = []string{"#00ccff"}
	}

	minX, maxX := xs[0], xs[len(xs)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ys := range series {
		for _, y := range ys {
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, ys := range series {
		n := min(len(xs), len(ys))
		if n < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, colors[i%len(colors)])
		for j := 0; j < n; j++ {
			x := (xs[j] - minX) / rangeX * float64(width)
			y := float64(height) - (ys[j]-minY)/rangeY*float64(height)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
