package load

import (
	"errors"
	"math"
	"testing"

	"github.com/vkshell/vkshell/pkg/geom"
)

func objectAt(x, y float64, p string) *Object {
	o := NewObject("obj", geom.Contour{{X: x, Y: y}}, false)
	o.Active = p
	return o
}

func TestLoadCenterWeighted(t *testing.T) {
	objs := []*Object{objectAt(0, 0, "100"), objectAt(4, 0, "300")}
	c, ok := LoadCenter(objs, true)
	if !ok {
		t.Fatalf("expected a load center")
	}
	if math.Abs(c.X-3) > 1e-12 || c.Y != 0 {
		t.Fatalf("center = %+v, want (3, 0)", c.Point)
	}
	if c.TotalPower != 400 {
		t.Fatalf("total power = %v, want 400", c.TotalPower)
	}
}

func TestLoadCenterRequireAllFilled(t *testing.T) {
	objs := []*Object{objectAt(0, 0, "100"), objectAt(4, 0, "300"), objectAt(9, 9, "  ")}
	if _, ok := LoadCenter(objs, true); ok {
		t.Fatalf("blank P must leave the center undefined")
	}
	c, ok := LoadCenter(objs, false)
	if !ok || math.Abs(c.X-3) > 1e-12 {
		t.Fatalf("lenient center = %+v, %v", c, ok)
	}
}

func TestLoadCenterSkipsUnparseable(t *testing.T) {
	tests := []struct {
		name  string
		p     string
		wantX float64
		total float64
	}{
		{"text", "n/a", 0, 100},
		{"junk before number", "abc12", 0, 100},
		{"junk before spaced number", "n/a 300", 0, 100},
		{"exponent", "1e3", 1000.0 / 1100 * 10, 1100},
		{"unit suffix", "12 kW", 120.0 / 112, 112},
		{"comma decimal", "12,5", 125.0 / 112.5, 112.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := []*Object{objectAt(0, 0, "100"), objectAt(10, 0, tt.p)}
			c, ok := LoadCenter(objs, true)
			if !ok {
				t.Fatalf("non-blank P must not block the center")
			}
			if math.Abs(c.X-tt.wantX) > 1e-9 || c.Y != 0 || math.Abs(c.TotalPower-tt.total) > 1e-9 {
				t.Fatalf("center = %+v, want x=%v total=%v", c, tt.wantX, tt.total)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1e3", 1000, true},
		{" 2,5E-1 ", 0.25, true},
		{"12 kW", 12, true},
		{"-7.5", -7.5, true},
		{".5", 0.5, true},
		{"abc12", 0, false},
		{"n/a 300", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1e999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseValue(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseValue(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ParseValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadCenterExponentWeighting(t *testing.T) {
	objs := []*Object{objectAt(0, 0, "1e3"), objectAt(4, 0, "1000")}
	c, ok := LoadCenter(objs, true)
	if !ok || math.Abs(c.X-2) > 1e-12 {
		t.Fatalf("center = %+v, %v, want x=2", c, ok)
	}
}

func TestLoadCenterUndefined(t *testing.T) {
	tests := []struct {
		name string
		objs []*Object
	}{
		{"no objects", nil},
		{"zero power", []*Object{objectAt(1, 1, "0")}},
		{"negative sum", []*Object{objectAt(1, 1, "-5")}},
		{"no center", []*Object{NewObject("empty", nil, false)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "no center" {
				tt.objs[0].Active = "10"
			}
			if _, ok := LoadCenter(tt.objs, true); ok {
				t.Fatalf("expected undefined center")
			}
		})
	}
}

func TestLoadCenterUsesOverrideAndCommaDecimals(t *testing.T) {
	o := NewObject("a", geom.Contour{{X: 0, Y: 0}, {X: 2, Y: 2}}, true)
	o.Center = &geom.Point{X: 10, Y: 20}
	o.Active = "12,5"
	c, ok := LoadCenter([]*Object{o}, true)
	if !ok || c.Point != (geom.Point{X: 10, Y: 20}) || c.TotalPower != 12.5 {
		t.Fatalf("center = %+v, %v", c, ok)
	}
}

func TestCenterPoint(t *testing.T) {
	o := NewObject("a", geom.Contour{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}, false)
	if c, ok := o.CenterPoint(); !ok || c != (geom.Point{X: 2, Y: 1}) {
		t.Fatalf("mean center = %+v, %v", c, ok)
	}
	o.Center = &geom.Point{X: -5, Y: 7}
	if c, ok := o.CenterPoint(); !ok || c != (geom.Point{X: -5, Y: 7}) {
		t.Fatalf("override = %+v, %v", c, ok)
	}
	if _, ok := NewObject("empty", nil, false).CenterPoint(); ok {
		t.Fatalf("no points and no override must have no center")
	}
}

func TestSetFieldRecomputes(t *testing.T) {
	o := NewObject("a", nil, false)
	o.SetField(FieldActive, "100")
	if o.Apparent != "" || o.Reactive != "" {
		t.Fatalf("nothing to derive without pf, got S=%q Q=%q", o.Apparent, o.Reactive)
	}
	o.SetField(FieldPowerFactor, "0,8")
	if o.Apparent != "125.00" || o.Reactive != "75.00" {
		t.Fatalf("derived S=%q Q=%q", o.Apparent, o.Reactive)
	}

	o.SetField(FieldReactive, "10")
	if o.Reactive != "10" || o.Apparent != "125.00" {
		t.Fatalf("editing Q must not recompute, S=%q Q=%q", o.Apparent, o.Reactive)
	}

	o.SetField(FieldPowerFactor, "0.8")
	o.SetField(FieldPowerFactor, "0.8")
	if o.Apparent != "125.00" || o.Reactive != "75.00" {
		t.Fatalf("recompute must be idempotent, S=%q Q=%q", o.Apparent, o.Reactive)
	}

	o.SetField(FieldPowerFactor, "1.5")
	if o.PowerFactor != "1.5" || o.Apparent != "125.00" {
		t.Fatalf("invalid pf must be stored without recompute, pf=%q S=%q", o.PowerFactor, o.Apparent)
	}
}

func TestResolved(t *testing.T) {
	o := NewObject("a", nil, false)
	o.Active = "30"
	o.Reactive = "40"
	v := o.Resolved()
	if v.S != 50 {
		t.Fatalf("S = %v, want 50", v.S)
	}
	share, ok := v.ReactiveShare()
	if !ok || math.Abs(share-0.8) > 1e-12 {
		t.Fatalf("share = %v, %v", share, ok)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range []Field{FieldActive, FieldReactive, FieldApparent, FieldPowerFactor} {
		got, err := ParseField(f.String())
		if err != nil || got != f {
			t.Fatalf("ParseField(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseField("x"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestSessionImportAndEdit(t *testing.T) {
	s := NewSession(true)
	if _, err := s.Import("\n\n"); !errors.Is(err, ErrNoObjects) {
		t.Fatalf("expected ErrNoObjects, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("failed import must not add objects")
	}

	n, err := s.Import("A-1\n1 2\n3 4\n\nB-2\n10 20")
	if err != nil || n != 2 {
		t.Fatalf("Import = %d, %v", n, err)
	}
	objs := s.Objects()
	if objs[0].Plot[0] != (geom.Point{X: 2, Y: 1}) {
		t.Fatalf("plot coordinates must be swapped, got %+v", objs[0].Plot)
	}
	if objs[0].Original[0] != (geom.Point{X: 1, Y: 2}) {
		t.Fatalf("original coordinates must be kept, got %+v", objs[0].Original)
	}

	if err := s.SetField(objs[0].ID, FieldActive, "100"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if _, ok := s.LoadCenter(); ok {
		t.Fatalf("B-2 has no P yet, center must be undefined")
	}
	if err := s.SetField(objs[1].ID, FieldActive, "100"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	snap := s.Snapshot()
	if !snap.HasCenter {
		t.Fatalf("expected center once every P is filled")
	}
	if snap.Center.X != 6 || snap.Center.Y != 11.5 {
		t.Fatalf("center = %+v", snap.Center.Point)
	}
	pc, _ := snap.PlotCenter()
	if pc != (geom.Point{X: 11.5, Y: 6}) {
		t.Fatalf("plot center = %+v", pc)
	}

	// snapshots are copies
	snap.Objects[0].Active = "999"
	if got, _ := s.Object(objs[0].ID); got.Active != "100" {
		t.Fatalf("snapshot leaked into session state")
	}
}

func TestSessionRemoveAndSelect(t *testing.T) {
	s := NewSession(false)
	if _, err := s.Import("A\n1 1\n\nB\n2 2\n\nC\n3 3"); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	objs := s.Objects()

	s.Select(2)
	if s.Snapshot().Selected != 2 {
		t.Fatalf("expected selection 2")
	}
	if err := s.Remove(objs[0].ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	snap := s.Snapshot()
	if snap.Selected != 1 || snap.SelectedObject().Cadastral != "C" {
		t.Fatalf("selection must follow the object, got %d", snap.Selected)
	}
	s.Select(1)
	if s.Snapshot().Selected != -1 {
		t.Fatalf("selecting the selected object clears the selection")
	}
	if err := s.Remove(objs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := s.Clear(); n != 2 || s.Len() != 0 {
		t.Fatalf("Clear = %d, len %d", n, s.Len())
	}
}
