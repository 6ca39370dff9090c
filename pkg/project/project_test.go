package project

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
)

func sampleDocument() Document {
	a := load.NewObject("26:01:000001:10", geom.Contour{{X: 408840.82, Y: 3304151.05}, {X: 408841, Y: 3304152}}, true)
	a.Address = `ул. "Лесная", 5`
	a.SetField(load.FieldActive, "100")
	a.SetField(load.FieldPowerFactor, "0,8")

	b := load.NewObject("26:01:000001:11", geom.Contour{{X: -1.5, Y: 2e-7}}, true)
	b.Center = &geom.Point{X: 10.25, Y: -3}

	return Document{Swap: true, ViewZoom: 1.5, Objects: []*load.Object{a, b}}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := sampleDocument()
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !IsProjectFile(buf.Bytes()) {
		t.Fatalf("encoded document not recognized:\n%s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.vks")
	doc := sampleDocument()
	if err := Save(path, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Objects) != 2 || got.Objects[0].Apparent != "125.00" {
		t.Fatalf("loaded document = %+v", got)
	}
	if got.Objects[0].Plot[0] != (geom.Point{X: 3304151.05, Y: 408840.82}) {
		t.Fatalf("plot coordinates not rebuilt: %+v", got.Objects[0].Plot)
	}
}

func TestDecodeHandWritten(t *testing.T) {
	src := `# exported by hand
(vks_project (version 1) (swap_axes no)
  (object (cadastral "A") (power (p "5"))
    (pts (xy 1 2) (xy 3 4))))`
	doc, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.Swap || doc.ViewZoom != 1 || len(doc.Objects) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	o := doc.Objects[0]
	if o.Cadastral != "A" || o.Active != "5" || len(o.Original) != 2 || o.Plot[1] != (geom.Point{X: 3, Y: 4}) {
		t.Fatalf("object = %+v", o)
	}
	if o.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("missing id must be generated")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"wrong root", "(kicad_pcb)"},
		{"two roots", "(vks_project) (vks_project)"},
		{"unbalanced", "(vks_project (version 1)"},
		{"stray close", ")"},
		{"future version", "(vks_project (version 2))"},
		{"bad point", `(vks_project (object (pts (xy 1 north))))`},
		{"nan point", `(vks_project (object (pts (xy NaN 1))))`},
		{"infinite point", `(vks_project (object (pts (xy 2 -Inf))))`},
		{"infinite center", `(vks_project (object (center +Inf 0)))`},
		{"bad id", `(vks_project (object (id "nope")))`},
		{"unterminated string", `(vks_project (object (cadastral "A)))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestDecodeNonFiniteNamesLine(t *testing.T) {
	src := "(vks_project\n  (object\n    (pts\n      (xy 0 0)\n      (xy NaN 5))))"
	_, err := Decode(strings.NewReader(src))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 5") {
		t.Fatalf("error should name line 5: %v", err)
	}
}

func TestListString(t *testing.T) {
	nodes, err := Parse(strings.NewReader(`(a "b c" (d 1))`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := nodes[0].String(); got != `(a "b c" (d 1))` {
		t.Fatalf("String = %s", got)
	}
}
