// Package render turns contours and load objects into a screen-space scene
// and draws it as SVG or with Gio.
package render

import (
	"math"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/viewport"
)

// Radius limits for power circles, in pixels
const (
	MinRadiusPx = 2.0
	MaxRadiusPx = 2000.0

	// The center dot is hidden once the power circle is bigger than this
	dotHideThresholdPx = 4.0
	dotRadiusPx        = 6.0
	centerRadiusPx     = 12.0
	wedgeMinAngle      = 1e-6
)

// Pt is a screen-space point in pixels
type Pt struct {
	X, Y float64
}

// Polygon is a projected contour
type Polygon struct {
	Index    int // position in the source slice
	Points   []Pt
	Closed   bool
	Selected bool
}

// PowerMark is the circle and reactive wedge drawn for a load object
type PowerMark struct {
	Index    int
	Center   Pt
	RadiusPx float64
	Share    float64 // Q/S in [0, 1]
	ShowDot  bool
	Label    string
	Selected bool
}

// CenterMark is the load center symbol
type CenterMark struct {
	Center Pt
	Label  string
}

// Scene is everything needed to draw one frame
type Scene struct {
	Width, Height int
	Polygons      []Polygon
	Marks         []PowerMark
	Center        *CenterMark
	Vertices      []Pt // drawn for the active contour only
	ShowLabels    bool
}

func project(vp *viewport.Viewport, c geom.Contour) []Pt {
	out := make([]Pt, len(c))
	for i, p := range c {
		x, y := vp.WorldToScreen(p)
		out[i] = Pt{X: x, Y: y}
	}
	return out
}

// AreaScene projects parsed contours. active marks the highlighted contour,
// -1 for none.
func AreaScene(vp *viewport.Viewport, contours []geom.Contour, active int) Scene {
	s := Scene{Width: vp.Width, Height: vp.Height}
	for i, c := range contours {
		if len(c) < 2 {
			continue
		}
		s.Polygons = append(s.Polygons, Polygon{
			Index:    i,
			Points:   project(vp, c),
			Closed:   geom.IsClosed(c),
			Selected: i == active,
		})
		if i == active {
			s.Vertices = project(vp, c)
		}
	}
	return s
}

// RadiusPx converts apparent power to a circle radius on screen: S/2 world
// units scaled by the viewport, clamped to [MinRadiusPx, MaxRadiusPx].
// Unknown or non-positive S gives the minimum radius.
func RadiusPx(vp *viewport.Viewport, s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return MinRadiusPx
	}
	return math.Max(MinRadiusPx, math.Min(vp.LengthToPixels(s/2), MaxRadiusPx))
}

// LoadScene projects a session snapshot. Plot coordinates are used for
// geometry; object centers follow the session axis convention.
func LoadScene(vp *viewport.Viewport, snap load.Snapshot, labels bool) Scene {
	s := Scene{Width: vp.Width, Height: vp.Height, ShowLabels: labels}
	for i, o := range snap.Objects {
		if len(o.Plot) < 2 {
			continue
		}
		selected := i == snap.Selected
		s.Polygons = append(s.Polygons, Polygon{
			Index:    i,
			Points:   project(vp, o.Plot),
			Closed:   true,
			Selected: selected,
		})

		c, ok := o.CenterPoint()
		if !ok {
			continue
		}
		if snap.Swap {
			c = c.Swap()
		}
		x, y := vp.WorldToScreen(c)
		v := o.Resolved()
		r := RadiusPx(vp, v.S)
		share, _ := v.ReactiveShare()
		s.Marks = append(s.Marks, PowerMark{
			Index:    i,
			Center:   Pt{X: x, Y: y},
			RadiusPx: r,
			Share:    share,
			ShowDot:  r <= dotHideThresholdPx,
			Label:    o.Cadastral,
			Selected: selected,
		})
	}
	if pc, ok := snap.PlotCenter(); ok {
		x, y := vp.WorldToScreen(pc)
		s.Center = &CenterMark{Center: Pt{X: x, Y: y}, Label: "ЦН"}
	}
	return s
}

// Hit returns the source index of the object whose mark or polygon contains
// the screen point, preferring marks. It returns -1 on a miss.
func Hit(s Scene, x, y float64) int {
	for i := len(s.Marks) - 1; i >= 0; i-- {
		m := s.Marks[i]
		if math.Hypot(m.Center.X-x, m.Center.Y-y) <= math.Max(m.RadiusPx, dotRadiusPx) {
			return m.Index
		}
	}
	for i := len(s.Polygons) - 1; i >= 0; i-- {
		if pointInPolygon(s.Polygons[i].Points, x, y) {
			return s.Polygons[i].Index
		}
	}
	return -1
}

// pointInPolygon is the even-odd ray casting test
func pointInPolygon(pts []Pt, x, y float64) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// WedgePath returns the outline of a pie slice covering share of a full
// turn, starting at 12 o'clock and running clockwise on screen.
func WedgePath(c Pt, r, share float64) []Pt {
	share = math.Max(0, math.Min(1, share))
	angle := share * 2 * math.Pi
	seg := int(math.Ceil(angle / (math.Pi / 32)))
	if seg < 6 {
		seg = 6
	}
	const start = -math.Pi / 2
	pts := []Pt{c}
	for i := 0; i <= seg; i++ {
		a := start + angle*float64(i)/float64(seg)
		pts = append(pts, Pt{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return append(pts, c)
}
