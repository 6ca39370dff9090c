package dxf

import (
	"io"
	"math"

	"github.com/vkshell/vkshell/pkg/geom"
)

// Wedge tessellation limits
const (
	wedgeStep   = math.Pi / 32
	wedgeMinSeg = 6
	wedgeMaxSeg = 64
	shareEps    = 1e-9

	markerInner    = 0.4
	markerCross    = 0.9
	markerDiagonal = 0.7
)

// Marker is one exported point
type Marker struct {
	geom.Point
	Layer string

	// Radius of the power circle; zero or negative means none
	Radius float64
	// ReactiveShare is Q/S, drawn as a wedge when in (0, 1]
	ReactiveShare float64

	// LoadCenter draws the load center symbol of size LogoSize instead
	LoadCenter bool
	LogoSize   float64
}

// Write serializes markers as a complete DXF document
func Write(out io.Writer, markers []Marker) error {
	w := NewWriter(out)
	w.BeginSection("HEADER")
	w.EndSection()

	w.BeginSection("ENTITIES")
	for _, m := range markers {
		writeMarker(w, m)
	}
	w.EndSection()
	w.EOF()
	return w.Flush()
}

func writeMarker(w *Writer, m Marker) {
	layer := m.Layer
	if layer == "" {
		layer = "0"
	}
	if m.LoadCenter {
		writeLoadCenter(w, layer, m.Point, m.LogoSize)
		return
	}

	hasRadius := m.Radius > 0 && !math.IsInf(m.Radius, 0)
	if !hasRadius {
		w.Point(layer, m.Point)
		return
	}
	w.Circle(layer, m.Point, m.Radius)
	if m.ReactiveShare > shareEps && m.ReactiveShare <= 1 {
		w.Polyline(layer, Wedge(m.Point, m.Radius, m.ReactiveShare))
	}
}

// writeLoadCenter draws two concentric circles with a crosshair and two
// diagonals.
func writeLoadCenter(w *Writer, layer string, c geom.Point, size float64) {
	r := size
	if !(r > 0) || math.IsInf(r, 0) {
		r = 1
	}
	w.Circle(layer, c, r)
	w.Circle(layer, c, r*markerInner)

	h := r * markerCross
	w.Line(layer, geom.Point{X: c.X - h, Y: c.Y}, geom.Point{X: c.X + h, Y: c.Y})
	w.Line(layer, geom.Point{X: c.X, Y: c.Y - h}, geom.Point{X: c.X, Y: c.Y + h})

	d := r * markerDiagonal
	w.Line(layer, geom.Point{X: c.X - d, Y: c.Y - d}, geom.Point{X: c.X + d, Y: c.Y + d})
	w.Line(layer, geom.Point{X: c.X - d, Y: c.Y + d}, geom.Point{X: c.X + d, Y: c.Y - d})
}

// WedgeSegments returns the number of arc segments for a wedge of the given
// angle: one per π/32, at least 6 and at most 64.
func WedgeSegments(angle float64) int {
	seg := int(math.Ceil(angle / wedgeStep))
	if seg < wedgeMinSeg {
		return wedgeMinSeg
	}
	if seg > wedgeMaxSeg {
		return wedgeMaxSeg
	}
	return seg
}

// Wedge returns the closed outline of a pie slice of radius r covering
// share·2π, starting at angle -π/2. The outline starts and ends at the
// center.
func Wedge(c geom.Point, r, share float64) []geom.Point {
	share = math.Max(0, math.Min(1, share))
	const start = -math.Pi / 2
	angle := share * 2 * math.Pi
	seg := WedgeSegments(angle)

	pts := make([]geom.Point, 0, seg+3)
	pts = append(pts, c)
	for i := 0; i <= seg; i++ {
		a := start + angle*float64(i)/float64(seg)
		pts = append(pts, geom.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return append(pts, c)
}
