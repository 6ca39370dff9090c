package viewport

import (
	"math"
	"testing"

	"github.com/vkshell/vkshell/pkg/geom"
)

const tol = 1e-6

func plots() geom.BoundingBox {
	return geom.Bounds(
		geom.Contour{{X: 408840, Y: 3304150}, {X: 408900, Y: 3304150}, {X: 408900, Y: 3304200}},
		geom.Contour{{X: 408950, Y: 3304180}, {X: 408960, Y: 3304230}},
	)
}

func TestFitKeepsGeometryInside(t *testing.T) {
	for _, invert := range []bool{true, false} {
		vp := New(1000, 700)
		vp.InvertY = invert
		bb := plots()
		vp.Fit(bb)

		for _, p := range []geom.Point{bb.Min, bb.Max, {X: bb.Min.X, Y: bb.Max.Y}, {X: bb.Max.X, Y: bb.Min.Y}} {
			sx, sy := vp.WorldToScreen(p)
			if sx < 0 || sx > 1000 || sy < 0 || sy > 700 {
				t.Fatalf("invert=%v: %+v projected outside the surface: (%v, %v)", invert, p, sx, sy)
			}
		}
		cx, cy := vp.WorldToScreen(bb.Center())
		if math.Abs(cx-500) > tol || math.Abs(cy-350) > tol {
			t.Fatalf("invert=%v: center projected to (%v, %v)", invert, cx, cy)
		}
		// 120 x 80 world units padded by 6% on both sides
		want := math.Min(1000/(120*1.12), 700/(80*1.12))
		if math.Abs(vp.Scale-want) > 1e-9 {
			t.Fatalf("invert=%v: scale %v, want %v", invert, vp.Scale, want)
		}
	}
}

func TestFitNonPositivePaddingKeepsMargin(t *testing.T) {
	bb := geom.Bounds(geom.Contour{{X: 0, Y: 0}, {X: 100, Y: 100}})
	want := New(500, 500)
	want.Fit(bb)
	for _, pad := range []float64{0, -0.2, math.NaN()} {
		vp := New(500, 500)
		vp.Padding = pad
		vp.Fit(bb)
		if math.Abs(vp.Scale-want.Scale) > 1e-12 {
			t.Fatalf("padding %v: scale %v, want %v", pad, vp.Scale, want.Scale)
		}
		sx, _ := vp.WorldToScreen(bb.Min)
		if sx <= 0 {
			t.Fatalf("padding %v: geometry touches the edge at x=%v", pad, sx)
		}
	}
}

func TestInvertYOrientation(t *testing.T) {
	vp := New(100, 100)
	vp.Fit(geom.Bounds(geom.Contour{{X: 0, Y: 0}, {X: 10, Y: 10}}))
	_, yLow := vp.WorldToScreen(geom.Point{X: 0, Y: 0})
	_, yHigh := vp.WorldToScreen(geom.Point{X: 0, Y: 10})
	if yHigh >= yLow {
		t.Fatalf("with InvertY larger world Y must be higher on screen: %v vs %v", yHigh, yLow)
	}
}

func TestFitEmptyResets(t *testing.T) {
	vp := New(800, 600)
	vp.Fit(plots())
	vp.Pan(30, 40)
	vp.Fit(geom.NewBoundingBox())
	if vp.Scale != 1 || vp.TX != 0 || vp.TY != 0 {
		t.Fatalf("empty fit = scale %v, t (%v, %v)", vp.Scale, vp.TX, vp.TY)
	}
}

func TestFitSinglePoint(t *testing.T) {
	vp := New(200, 100)
	vp.Fit(geom.Bounds(geom.Contour{{X: 5, Y: 5}}))
	if math.IsInf(vp.Scale, 0) || vp.Scale <= 0 {
		t.Fatalf("scale must stay finite, got %v", vp.Scale)
	}
	sx, sy := vp.WorldToScreen(geom.Point{X: 5, Y: 5})
	if math.Abs(sx-100) > tol || math.Abs(sy-50) > tol {
		t.Fatalf("single point projected to (%v, %v)", sx, sy)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, invert := range []bool{true, false} {
		vp := New(640, 480)
		vp.InvertY = invert
		vp.Fit(plots())
		vp.Pan(-13, 27)
		p := geom.Point{X: 408871.25, Y: 3304190.5}
		sx, sy := vp.WorldToScreen(p)
		back := vp.ScreenToWorld(sx, sy)
		if math.Abs(back.X-p.X) > tol || math.Abs(back.Y-p.Y) > tol {
			t.Fatalf("invert=%v: round trip %+v -> %+v", invert, p, back)
		}
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cursors := [][2]float64{{0, 0}, {123, 456}, {999, 1}, {500, 350}}
	for _, invert := range []bool{true, false} {
		for _, factor := range []float64{1.12, 0.88, 3, 0.5} {
			for _, c := range cursors {
				vp := New(1000, 700)
				vp.InvertY = invert
				vp.Fit(plots())
				before := vp.ScreenToWorld(c[0], c[1])
				vp.ZoomAt(c[0], c[1], factor)
				sx, sy := vp.WorldToScreen(before)
				if math.Abs(sx-c[0]) > tol || math.Abs(sy-c[1]) > tol {
					t.Fatalf("invert=%v factor=%v cursor=%v: moved to (%v, %v)", invert, factor, c, sx, sy)
				}
			}
		}
	}
}

func TestZoomClamp(t *testing.T) {
	vp := New(1000, 700)
	vp.Fit(plots())
	fit := vp.Scale
	for i := 0; i < 50; i++ {
		vp.ZoomAt(10, 10, 1.5)
	}
	if math.Abs(vp.Zoom()-MaxZoom) > 1e-9 || math.Abs(vp.Scale-MaxZoom*fit) > 1e-9 {
		t.Fatalf("zoom in clamp: %v", vp.Zoom())
	}
	for i := 0; i < 100; i++ {
		vp.ZoomBy(0.5)
	}
	if math.Abs(vp.Zoom()-MinZoom) > 1e-9 {
		t.Fatalf("zoom out clamp: %v", vp.Zoom())
	}

	before := vp.Scale
	vp.ZoomAt(1, 1, 0)
	vp.ZoomAt(1, 1, math.NaN())
	if vp.Scale != before {
		t.Fatalf("invalid factors must be ignored")
	}
}

func TestPanOnlyMovesTranslation(t *testing.T) {
	vp := New(1000, 700)
	vp.Fit(plots())
	scale := vp.Scale
	p := geom.Point{X: 408900, Y: 3304200}
	x0, y0 := vp.WorldToScreen(p)
	vp.Pan(15, -7)
	x1, y1 := vp.WorldToScreen(p)
	if vp.Scale != scale || math.Abs(x1-x0-15) > tol || math.Abs(y1-y0+7) > tol {
		t.Fatalf("pan moved point by (%v, %v)", x1-x0, y1-y0)
	}
}

func TestFocus(t *testing.T) {
	vp := New(1000, 700)
	vp.Fit(plots())
	c := geom.Contour{{X: 408950, Y: 3304180}, {X: 408960, Y: 3304190}}
	vp.Focus(c.Bounds())
	cx, cy := vp.WorldToScreen(c.Bounds().Center())
	if math.Abs(cx-500) > tol || math.Abs(cy-350) > tol {
		t.Fatalf("focused contour not centered: (%v, %v)", cx, cy)
	}
	if vp.Zoom() > MaxZoom+1e-9 {
		t.Fatalf("focus exceeded zoom limit: %v", vp.Zoom())
	}
}

func TestViewZoom(t *testing.T) {
	vp := New(100, 100)
	vp.StepViewZoom(3)
	if vp.ViewZoom != 1.3 {
		t.Fatalf("ViewZoom = %v, want 1.3", vp.ViewZoom)
	}
	vp.SetViewZoom(50)
	if vp.ViewZoom != MaxViewZoom {
		t.Fatalf("ViewZoom = %v, want max", vp.ViewZoom)
	}
	vp.SetViewZoom(0)
	if vp.ViewZoom != MinViewZoom {
		t.Fatalf("ViewZoom = %v, want min", vp.ViewZoom)
	}
	vp.Scale = 2
	vp.SetViewZoom(1.5)
	if vp.LengthToPixels(10) != 30 {
		t.Fatalf("LengthToPixels = %v", vp.LengthToPixels(10))
	}
}

func TestNearestPoint(t *testing.T) {
	vp := New(100, 100)
	vp.InvertY = false
	pts := []geom.Point{{X: 10, Y: 10}, {X: 14, Y: 10}, {X: 50, Y: 50}}
	idx, ok := vp.NearestPoint(13, 10, pts, HitTolerance)
	if !ok || idx != 1 {
		t.Fatalf("NearestPoint = %d, %v", idx, ok)
	}
	if _, ok := vp.NearestPoint(80, 80, pts, HitTolerance); ok {
		t.Fatalf("expected no hit")
	}
}
