package dxf

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/vkshell/vkshell/pkg/geom"
)

// Group codes used by the writer
const (
	CodeEntity    = 0
	CodeName      = 2
	CodeLayer     = 8
	CodeX         = 10
	CodeY         = 20
	CodeZ         = 30
	CodeX2        = 11
	CodeY2        = 21
	CodeZ2        = 31
	CodeRadius    = 40
	CodeFollows   = 66
	CodeFlags     = 70
	polylineClose = 1
)

const lineEnd = "\r\n"

// Writer emits DXF group code / value pairs. The first write error is kept
// and returned by Flush; later writes are dropped.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter creates a writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Group writes one code/value pair
func (w *Writer) Group(code int, value string) {
	if w.err != nil {
		return
	}
	if _, err := w.w.WriteString(strconv.Itoa(code) + lineEnd + value + lineEnd); err != nil {
		w.err = err
	}
}

// Float writes a real value with six decimals
func (w *Writer) Float(code int, v float64) {
	w.Group(code, FormatFloat(v))
}

// Int writes an integer value
func (w *Writer) Int(code, v int) {
	w.Group(code, strconv.Itoa(v))
}

// Flush writes buffered data and reports the first error
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// FormatFloat renders a coordinate the way every value in the file is
// written: fixed point, six decimals.
func FormatFloat(v float64) string {
	if v == 0 || math.Abs(v) < 5e-7 {
		v = 0 // no "-0.000000"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// BeginSection opens a named section
func (w *Writer) BeginSection(name string) {
	w.Group(CodeEntity, "SECTION")
	w.Group(CodeName, name)
}

// EndSection closes the current section
func (w *Writer) EndSection() {
	w.Group(CodeEntity, "ENDSEC")
}

// EOF terminates the file
func (w *Writer) EOF() {
	w.Group(CodeEntity, "EOF")
}

func (w *Writer) xyz(p geom.Point) {
	w.Float(CodeX, p.X)
	w.Float(CodeY, p.Y)
	w.Float(CodeZ, 0)
}

// Circle writes a CIRCLE entity
func (w *Writer) Circle(layer string, c geom.Point, r float64) {
	w.Group(CodeEntity, "CIRCLE")
	w.Group(CodeLayer, layer)
	w.xyz(c)
	w.Float(CodeRadius, r)
}

// Line writes a LINE entity
func (w *Writer) Line(layer string, a, b geom.Point) {
	w.Group(CodeEntity, "LINE")
	w.Group(CodeLayer, layer)
	w.xyz(a)
	w.Float(CodeX2, b.X)
	w.Float(CodeY2, b.Y)
	w.Float(CodeZ2, 0)
}

// Point writes a POINT entity
func (w *Writer) Point(layer string, p geom.Point) {
	w.Group(CodeEntity, "POINT")
	w.Group(CodeLayer, layer)
	w.xyz(p)
}

// Polyline writes a closed POLYLINE with its VERTEX entities and SEQEND
func (w *Writer) Polyline(layer string, pts []geom.Point) {
	w.Group(CodeEntity, "POLYLINE")
	w.Group(CodeLayer, layer)
	w.Int(CodeFollows, 1)
	w.Int(CodeFlags, polylineClose)
	for _, p := range pts {
		w.Group(CodeEntity, "VERTEX")
		w.Group(CodeLayer, layer)
		w.xyz(p)
	}
	w.Group(CodeEntity, "SEQEND")
}
