// Package geom provides the planar types shared by the parser, the load
// center computation, the viewport and the exporters.
//
// Coordinates are plain world units (survey meters for cadastral data). The
// package never converts units; callers decide what a unit means.
package geom

import "math"

// ClosureTolerance is the absolute per-axis tolerance used to decide whether
// the first and last point of a contour coincide.
const ClosureTolerance = 1e-9

// Point represents a 2D coordinate in world units
type Point struct {
	X float64
	Y float64
}

// Swap returns the point with X and Y exchanged
func (p Point) Swap() Point {
	return Point{X: p.Y, Y: p.X}
}

// IsFinite reports whether both coordinates are finite numbers
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Near reports whether q lies within tol of p on both axes
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) < tol && math.Abs(p.Y-q.Y) < tol
}

// Dist returns the Euclidean distance between p and q
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Contour is an ordered sequence of points. Order defines the traversal of
// the polygon boundary.
type Contour []Point

// Swapped returns a copy of the contour with every point's axes exchanged
func (c Contour) Swapped() Contour {
	if c == nil {
		return nil
	}
	out := make(Contour, len(c))
	for i, p := range c {
		out[i] = p.Swap()
	}
	return out
}

// Clone returns an independent copy of the contour
func (c Contour) Clone() Contour {
	if c == nil {
		return nil
	}
	out := make(Contour, len(c))
	copy(out, c)
	return out
}

// Bounds returns the bounding box of the contour
func (c Contour) Bounds() BoundingBox {
	bb := NewBoundingBox()
	for _, p := range c {
		bb.Expand(p)
	}
	return bb
}
