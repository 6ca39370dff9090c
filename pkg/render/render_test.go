package render

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/viewport"
)

// testViewport maps world (x, y) to screen (x, 200-y)
func testViewport() *viewport.Viewport {
	vp := viewport.New(200, 200)
	vp.TY = 200
	return vp
}

func square(x, y, side float64) geom.Contour {
	return geom.Contour{{X: x, Y: y}, {X: x + side, Y: y}, {X: x + side, Y: y + side}, {X: x, Y: y + side}}
}

func TestRadiusPx(t *testing.T) {
	vp := testViewport()
	tests := []struct {
		name string
		s    float64
		want float64
	}{
		{"unknown", math.NaN(), MinRadiusPx},
		{"zero", 0, MinRadiusPx},
		{"negative", -5, MinRadiusPx},
		{"tiny", 1, MinRadiusPx},
		{"half of S", 100, 50},
		{"huge", 1e7, MaxRadiusPx},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RadiusPx(vp, tt.s); got != tt.want {
				t.Errorf("RadiusPx(%v) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}

	vp.SetViewZoom(2)
	if got := RadiusPx(vp, 100); got != 100 {
		t.Errorf("view zoom not applied: %v", got)
	}
}

func TestAreaScene(t *testing.T) {
	open := geom.Contour{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}
	closed := append(square(10, 10, 10), geom.Point{X: 10, Y: 10})
	s := AreaScene(testViewport(), []geom.Contour{open, {{X: 1, Y: 1}}, closed}, 2)

	if len(s.Polygons) != 2 {
		t.Fatalf("polygons = %d, single point contour must be skipped", len(s.Polygons))
	}
	if s.Polygons[0].Closed || !s.Polygons[1].Closed {
		t.Fatalf("closed flags wrong: %+v", s.Polygons)
	}
	if !s.Polygons[1].Selected || s.Polygons[1].Index != 2 {
		t.Fatalf("active contour not marked: %+v", s.Polygons[1])
	}
	want := []Pt{{10, 190}, {20, 190}, {20, 180}, {10, 180}, {10, 190}}
	if diff := cmp.Diff(want, s.Vertices, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadScene(t *testing.T) {
	a := load.NewObject("A", square(0, 0, 20), false)
	a.SetField(load.FieldActive, "100")
	a.SetField(load.FieldPowerFactor, "0.8")
	b := load.NewObject("B", square(100, 0, 20), false)

	snap := load.Snapshot{Objects: []*load.Object{a, b}, Selected: 1}
	snap.Center, snap.HasCenter = load.LoadCenter(snap.Objects, false)

	s := LoadScene(testViewport(), snap, true)
	if len(s.Polygons) != 2 || len(s.Marks) != 2 {
		t.Fatalf("polygons %d marks %d", len(s.Polygons), len(s.Marks))
	}

	m := s.Marks[0]
	if m.Center != (Pt{X: 10, Y: 190}) {
		t.Errorf("mark center = %+v", m.Center)
	}
	if m.RadiusPx != 62.5 || m.ShowDot {
		t.Errorf("radius %v showDot %v", m.RadiusPx, m.ShowDot)
	}
	if math.Abs(m.Share-0.6) > 1e-9 {
		t.Errorf("share = %v, want 0.6", m.Share)
	}

	unknown := s.Marks[1]
	if unknown.RadiusPx != MinRadiusPx || !unknown.ShowDot || !unknown.Selected {
		t.Errorf("object without power: %+v", unknown)
	}

	if s.Center == nil || s.Center.Center != (Pt{X: 10, Y: 190}) {
		t.Fatalf("load center = %+v", s.Center)
	}
}

func TestLoadSceneSwap(t *testing.T) {
	o := load.NewObject("A", square(0, 50, 20), true)
	s := LoadScene(testViewport(), load.Snapshot{Objects: []*load.Object{o}, Swap: true, Selected: -1}, false)
	// centroid (10, 60) swapped to (60, 10)
	if got := s.Marks[0].Center; got != (Pt{X: 60, Y: 190}) {
		t.Fatalf("swapped center = %+v", got)
	}
}

func TestHit(t *testing.T) {
	a := load.NewObject("A", square(0, 0, 20), false)
	b := load.NewObject("B", square(100, 100, 40), false)
	b.SetField(load.FieldApparent, "20")
	s := LoadScene(testViewport(), load.Snapshot{Objects: []*load.Object{a, b}, Selected: -1}, false)

	tests := []struct {
		x, y float64
		want int
	}{
		{10, 190, 0},  // dot of A
		{118, 78, 1},  // inside circle of B
		{105, 65, 1},  // polygon of B outside circle
		{180, 150, -1}, // empty space
	}
	for _, tt := range tests {
		if got := Hit(s, tt.x, tt.y); got != tt.want {
			t.Errorf("Hit(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWedgePath(t *testing.T) {
	c := Pt{X: 50, Y: 50}
	pts := WedgePath(c, 10, 0.25)
	if pts[0] != c || pts[len(pts)-1] != c {
		t.Fatalf("wedge must start and end at the center")
	}
	first, last := pts[1], pts[len(pts)-2]
	if math.Abs(first.X-50) > 1e-9 || math.Abs(first.Y-40) > 1e-9 {
		t.Errorf("wedge must start at 12 o'clock, got %+v", first)
	}
	if math.Abs(last.X-60) > 1e-9 || math.Abs(last.Y-50) > 1e-9 {
		t.Errorf("quarter wedge must end at 3 o'clock, got %+v", last)
	}
}

func TestWriteSVG(t *testing.T) {
	a := load.NewObject("77:01:0001", square(0, 0, 20), false)
	a.SetField(load.FieldActive, "100")
	a.SetField(load.FieldPowerFactor, "0.8")
	snap := load.Snapshot{Objects: []*load.Object{a}, Selected: -1}
	snap.Center, snap.HasCenter = load.LoadCenter(snap.Objects, true)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, LoadScene(testViewport(), snap, true), PaletteFor(ThemeLight)); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<svg`,
		`width="200"`,
		`<path d="M0.00 200.00 L20.00 200.00`,
		`r="63"`,
		`77:01:0001`,
		`ЦН`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteSVGReportsWriteError(t *testing.T) {
	a := load.NewObject("a", square(0, 0, 20), false)
	snap := load.Snapshot{Objects: []*load.Object{a}, Selected: -1}
	diskFull := errors.New("disk full")

	err := WriteSVG(failingWriter{diskFull}, LoadScene(testViewport(), snap, false), PaletteFor(ThemeLight))
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestParseTheme(t *testing.T) {
	if ParseTheme("dark") != ThemeDark || ParseTheme("Dark") != ThemeDark {
		t.Fatalf("dark theme not recognised")
	}
	if ParseTheme("neon") != ThemeLight {
		t.Fatalf("unknown theme must fall back to light")
	}
	if PaletteFor(ThemeDark).Background == PaletteFor(ThemeLight).Background {
		t.Fatalf("palettes must differ")
	}
}
