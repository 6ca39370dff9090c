package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/shopspring/decimal"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
)

func fixture() []geom.Contour {
	return []geom.Contour{
		{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0}}, // 1 ha
		{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}},                                 // open
		{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}},     // 100 m²
	}
}

func TestSummarizeDefaultsToClosed(t *testing.T) {
	a := Summarize(fixture(), nil)
	if a.Closed != 2 || a.Included != 2 {
		t.Fatalf("closed %d included %d", a.Closed, a.Included)
	}
	if a.TotalM2 != 10100 || math.Abs(a.TotalHa-1.01) > 1e-12 {
		t.Fatalf("totals %v m2 %v ha", a.TotalM2, a.TotalHa)
	}
	if a.Contours[1].Err == nil || a.Contours[1].Included {
		t.Fatalf("open contour must not have an area: %+v", a.Contours[1])
	}
}

func TestSummarizeSelection(t *testing.T) {
	a := Summarize(fixture(), map[int]bool{3: true, 2: true})
	if a.Included != 1 || a.TotalM2 != 100 {
		t.Fatalf("included %d total %v", a.Included, a.TotalM2)
	}
	if a.Contours[0].Included {
		t.Fatalf("contour 1 was not selected")
	}
}

func TestCostAndVAT(t *testing.T) {
	a := Summarize(fixture(), nil)
	price, err := ParseMoney("3 136,50")
	if err != nil {
		t.Fatalf("ParseMoney failed: %v", err)
	}
	if got := a.Cost(price); !got.Equal(decimal.RequireFromString("3167.87")) {
		t.Fatalf("Cost = %s", got)
	}

	net, vat := SplitVAT(decimal.RequireFromString("120"), 20)
	if !vat.Equal(decimal.NewFromInt(20)) || !net.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("SplitVAT = %s + %s", net, vat)
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatGrouped(t *testing.T) {
	tests := []struct {
		v    float64
		d    int32
		want string
	}{
		{1234567.891, 2, "1 234 567.89"},
		{999, 2, "999.00"},
		{1000, 0, "1 000"},
		{-25000.5, 1, "-25 000.5"},
	}
	for _, tt := range tests {
		if got := FormatGrouped(tt.v, tt.d); got != tt.want {
			t.Errorf("FormatGrouped(%v, %d) = %q, want %q", tt.v, tt.d, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Summarize(fixture(), nil)); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, 3 rows and totals, got %d lines", len(lines))
	}
	if lines[1] != "1;5;true;true;10000.00;1.0000" {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != "2;3;false;false;;" {
		t.Fatalf("row 2 = %q", lines[2])
	}
	if lines[4] != "total;;2;2;10100.00;1.0100" {
		t.Fatalf("totals = %q", lines[4])
	}
}

func TestContoursGeoJSON(t *testing.T) {
	cs := fixture()
	data, err := ContoursGeoJSON(cs, Summarize(cs, nil))
	if err != nil {
		t.Fatalf("ContoursGeoJSON failed: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("invalid GeoJSON: %v", err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("features = %d", len(fc.Features))
	}
	if !fc.Features[0].Geometry.IsPolygon() || !fc.Features[1].Geometry.IsLineString() {
		t.Fatalf("unexpected geometry types")
	}
	if area, _ := fc.Features[0].PropertyFloat64("area_m2"); area != 10000 {
		t.Fatalf("area_m2 = %v", area)
	}
}

func TestObjectsGeoJSON(t *testing.T) {
	o := load.NewObject("A", geom.Contour{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 0}}, false)
	o.SetField(load.FieldActive, "100")
	o.SetField(load.FieldPowerFactor, "0.8")
	c, ok := load.LoadCenter([]*load.Object{o}, true)
	if !ok {
		t.Fatalf("expected load center")
	}
	data, err := ObjectsGeoJSON([]*load.Object{o}, &c)
	if err != nil {
		t.Fatalf("ObjectsGeoJSON failed: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("invalid GeoJSON: %v", err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("features = %d, want polygon, object center and load center", len(fc.Features))
	}
	if s, _ := fc.Features[0].PropertyFloat64("s"); s != 125 {
		t.Fatalf("s = %v", s)
	}
	last := fc.Features[2]
	if kind, _ := last.PropertyString("kind"); kind != "load_center" {
		t.Fatalf("last feature kind = %q", kind)
	}
}
