package geom

import "math"

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Point // Minimum corner
	Max Point // Maximum corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Bounds returns the union bounding box of all contours
func Bounds(contours ...Contour) BoundingBox {
	bb := NewBoundingBox()
	for _, c := range contours {
		for _, p := range c {
			bb.Expand(p)
		}
	}
	return bb
}

// IsEmpty checks if the bounding box contains no point
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a point
func (bb *BoundingBox) Expand(p Point) {
	if p.X < bb.Min.X {
		bb.Min.X = p.X
	}
	if p.Y < bb.Min.Y {
		bb.Min.Y = p.Y
	}
	if p.X > bb.Max.X {
		bb.Max.X = p.X
	}
	if p.Y > bb.Max.Y {
		bb.Max.Y = p.Y
	}
}

// ExpandBox expands to include another bounding box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	if bb.IsEmpty() {
		return 0
	}
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	if bb.IsEmpty() {
		return 0
	}
	return bb.Max.Y - bb.Min.Y
}

// MaxSpan returns the larger of width and height
func (bb BoundingBox) MaxSpan() float64 {
	return math.Max(bb.Width(), bb.Height())
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Point {
	return Point{
		X: (bb.Min.X + bb.Max.X) / 2,
		Y: (bb.Min.Y + bb.Max.Y) / 2,
	}
}

// Contains checks if a point is within the bounding box
func (bb BoundingBox) Contains(p Point) bool {
	return p.X >= bb.Min.X && p.X <= bb.Max.X &&
		p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// Pad grows each axis by frac of its span on both sides. Spans below
// minSpan are widened to minSpan around the center first so that a single
// point or a degenerate line still yields a usable area.
func (bb BoundingBox) Pad(frac, minSpan float64) BoundingBox {
	if bb.IsEmpty() {
		return bb
	}
	c := bb.Center()
	w := math.Max(bb.Width(), minSpan)
	h := math.Max(bb.Height(), minSpan)
	w += 2 * w * frac
	h += 2 * h * frac
	return BoundingBox{
		Min: Point{X: c.X - w/2, Y: c.Y - h/2},
		Max: Point{X: c.X + w/2, Y: c.Y + h/2},
	}
}
