package dxf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
)

// Stats summarizes the entities found in a DXF document
type Stats struct {
	Entities int
	ByType   map[string]int
	Vertices int // vertices over all polylines
}

// Types returns the entity type names in sorted order
func (s Stats) Types() []string {
	names := make([]string, 0, len(s.ByType))
	for n := range s.ByType {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Inspect reads a DXF document and counts its entities
func Inspect(r io.Reader) (Stats, error) {
	doc, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return Stats{}, fmt.Errorf("read dxf: %w", err)
	}
	st := Stats{ByType: make(map[string]int)}
	for _, e := range doc.Entities.Entities {
		st.Entities++
		switch ent := e.(type) {
		case *entities.Polyline:
			st.ByType["POLYLINE"]++
			st.Vertices += len(ent.Vertices)
		default:
			st.ByType[typeName(e)]++
		}
	}
	return st, nil
}

// typeName turns *entities.Circle into CIRCLE
func typeName(e any) string {
	name := fmt.Sprintf("%T", e)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(strings.TrimPrefix(name, "*"))
}
