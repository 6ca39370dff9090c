package viewport

import (
	"math"

	"github.com/vkshell/vkshell/pkg/geom"
)

// Defaults for a new viewport
const (
	DefaultPadding = 0.06 // fraction of each axis span added on both sides
	DefaultMinSpan = 1.0  // world units; degenerate spans are widened to this

	MinZoom = 0.1 // relative to the fit scale
	MaxZoom = 8.0

	MinViewZoom  = 0.1
	MaxViewZoom  = 10.0
	ViewZoomStep = 0.1

	FocusFraction = 0.6 // share of the surface a focused contour occupies
	HitTolerance  = 8.0 // pixels
)

// Viewport maps world coordinates onto a render surface with one uniform
// scale and a translation:
//
//	sx = x·Scale + TX
//	sy = y·Scale + TY     (InvertY false)
//	sy = -y·Scale + TY    (InvertY true)
//
// Pan and zoom only change Scale, TX and TY.
type Viewport struct {
	Scale float64 // pixels per world unit
	TX    float64
	TY    float64

	// Surface dimensions (pixels)
	Width  int
	Height int

	// InvertY makes world Y grow upward on screen
	InvertY bool

	Padding float64
	MinSpan float64

	// ViewZoom is the operator controlled multiplier for power circle radii
	ViewZoom float64

	fitScale float64
}

// New creates a viewport with scale 1 and no translation
func New(width, height int) *Viewport {
	return &Viewport{
		Scale:    1,
		Width:    width,
		Height:   height,
		InvertY:  true,
		Padding:  DefaultPadding,
		MinSpan:  DefaultMinSpan,
		ViewZoom: 1,
		fitScale: 1,
	}
}

// WorldToScreen converts world coordinates to screen coordinates (pixels)
func (v *Viewport) WorldToScreen(p geom.Point) (float64, float64) {
	sx := p.X*v.Scale + v.TX
	if v.InvertY {
		return sx, -p.Y*v.Scale + v.TY
	}
	return sx, p.Y*v.Scale + v.TY
}

// ScreenToWorld converts screen coordinates (pixels) to world coordinates
func (v *Viewport) ScreenToWorld(sx, sy float64) geom.Point {
	x := (sx - v.TX) / v.Scale
	if v.InvertY {
		return geom.Point{X: x, Y: (v.TY - sy) / v.Scale}
	}
	return geom.Point{X: x, Y: (sy - v.TY) / v.Scale}
}

// Reset restores scale 1 and zero translation
func (v *Viewport) Reset() {
	v.Scale = 1
	v.TX = 0
	v.TY = 0
	v.fitScale = 1
}

// Fit recomputes scale and translation so that the padded bounding box fills
// the surface, centered. An empty box resets the transform. A padding that is
// not positive falls back to DefaultPadding.
func (v *Viewport) Fit(bbox geom.BoundingBox) {
	if bbox.IsEmpty() || v.Width <= 0 || v.Height <= 0 {
		v.Reset()
		return
	}
	pad := v.Padding
	if !(pad > 0) || math.IsInf(pad, 0) {
		pad = DefaultPadding
	}
	world := bbox.Pad(pad, v.minSpan())
	v.Scale = math.Min(float64(v.Width)/world.Width(), float64(v.Height)/world.Height())
	v.fitScale = v.Scale
	v.centerOn(world.Center())
}

// Focus frames a single contour so that it takes FocusFraction of the
// surface. The zoom limits of the last Fit still apply.
func (v *Viewport) Focus(bbox geom.BoundingBox) {
	if bbox.IsEmpty() || v.Width <= 0 || v.Height <= 0 {
		return
	}
	span := bbox.Pad(0, v.minSpan())
	s := FocusFraction * math.Min(float64(v.Width)/span.Width(), float64(v.Height)/span.Height())
	v.Scale = v.clampScale(s)
	v.centerOn(bbox.Center())
}

// centerOn sets the translation so that world point c lands on the surface
// center at the current scale.
func (v *Viewport) centerOn(c geom.Point) {
	v.TX = float64(v.Width)/2 - c.X*v.Scale
	if v.InvertY {
		v.TY = float64(v.Height)/2 + c.Y*v.Scale
	} else {
		v.TY = float64(v.Height)/2 - c.Y*v.Scale
	}
}

// Pan moves the view by screen pixel offsets
func (v *Viewport) Pan(dx, dy float64) {
	v.TX += dx
	v.TY += dy
}

// ZoomAt zooms in/out at a specific screen position. factor > 1 zooms in.
// The world point under (sx, sy) stays under (sx, sy).
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	// Get world position before zoom
	w := v.ScreenToWorld(sx, sy)

	v.Scale = v.clampScale(v.Scale * factor)

	// Recompute translation so w projects back to (sx, sy)
	v.TX = sx - w.X*v.Scale
	if v.InvertY {
		v.TY = sy + w.Y*v.Scale
	} else {
		v.TY = sy - w.Y*v.Scale
	}
}

// ZoomBy zooms about the surface center
func (v *Viewport) ZoomBy(factor float64) {
	v.ZoomAt(float64(v.Width)/2, float64(v.Height)/2, factor)
}

// Zoom returns the current scale relative to the fit scale
func (v *Viewport) Zoom() float64 {
	if v.fitScale <= 0 {
		return v.Scale
	}
	return v.Scale / v.fitScale
}

func (v *Viewport) clampScale(s float64) float64 {
	base := v.fitScale
	if base <= 0 {
		base = 1
	}
	return math.Max(MinZoom*base, math.Min(MaxZoom*base, s))
}

func (v *Viewport) minSpan() float64 {
	if v.MinSpan > 0 {
		return v.MinSpan
	}
	return DefaultMinSpan
}

// Resize updates the surface when the window is resized
func (v *Viewport) Resize(width, height int) {
	v.Width = width
	v.Height = height
}

// SetViewZoom sets the power circle multiplier, clamped to its range
func (v *Viewport) SetViewZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	z = math.Round(z*100) / 100
	v.ViewZoom = math.Max(MinViewZoom, math.Min(MaxViewZoom, z))
}

// StepViewZoom changes the multiplier by n steps of ViewZoomStep
func (v *Viewport) StepViewZoom(n int) {
	v.SetViewZoom(v.ViewZoom + float64(n)*ViewZoomStep)
}

// LengthToPixels converts a world length to pixels including the view zoom
// multiplier.
func (v *Viewport) LengthToPixels(l float64) float64 {
	return l * v.Scale * v.ViewZoom
}

// VisibleBounds returns the world area currently on screen
func (v *Viewport) VisibleBounds() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	bb.Expand(v.ScreenToWorld(0, 0))
	bb.Expand(v.ScreenToWorld(float64(v.Width), float64(v.Height)))
	return bb
}

// NearestPoint returns the index of the point closest to (sx, sy) on screen
// if it lies within tol pixels.
func (v *Viewport) NearestPoint(sx, sy float64, pts []geom.Point, tol float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range pts {
		px, py := v.WorldToScreen(p)
		d := math.Hypot(px-sx, py-sy)
		if d <= tol && d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, best >= 0
}
