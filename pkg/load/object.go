package load

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/power"
)

// Field identifies one of the editable electrical attributes of an Object
type Field int

const (
	FieldActive      Field = iota // P, kW
	FieldReactive                 // Q, kvar
	FieldApparent                 // S, kVA
	FieldPowerFactor              // cos phi
)

var fieldNames = map[Field]string{
	FieldActive:      "p",
	FieldReactive:    "q",
	FieldApparent:    "s",
	FieldPowerFactor: "pf",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField maps a field name (p, q, s, pf) to a Field
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f, fn := range fieldNames {
		if fn == n {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown field %q (want p, q, s or pf)", name)
}

// Object is a load point: a land plot with its contour and the electrical
// attributes entered by the operator. The attributes are kept as the strings
// the operator typed so that a blank value can be told from a zero.
type Object struct {
	ID        uuid.UUID
	Cadastral string
	Address   string

	// Original holds the coordinates as imported. Plot is the display copy,
	// axis-swapped when the session swaps on import.
	Original geom.Contour
	Plot     geom.Contour

	// Center overrides the centroid of Original when set
	Center *geom.Point

	Active      string
	Reactive    string
	Apparent    string
	PowerFactor string
}

// NewObject builds an object from imported coordinates
func NewObject(cadastral string, pts geom.Contour, swap bool) *Object {
	o := &Object{
		ID:        uuid.New(),
		Cadastral: cadastral,
		Original:  pts.Clone(),
	}
	o.Plot = plotOf(o.Original, swap)
	return o
}

func plotOf(pts geom.Contour, swap bool) geom.Contour {
	if swap {
		return pts.Swapped()
	}
	return pts.Clone()
}

// Clone returns a deep copy of the object
func (o *Object) Clone() *Object {
	c := *o
	c.Original = o.Original.Clone()
	c.Plot = o.Plot.Clone()
	if o.Center != nil {
		p := *o.Center
		c.Center = &p
	}
	return &c
}

// CenterPoint returns the explicit center override or, failing that, the mean of
// the original points.
func (o *Object) CenterPoint() (geom.Point, bool) {
	if o.Center != nil {
		return *o.Center, true
	}
	return geom.Centroid(o.Original)
}

// Get returns the raw string of a field
func (o *Object) Get(f Field) string {
	switch f {
	case FieldActive:
		return o.Active
	case FieldReactive:
		return o.Reactive
	case FieldApparent:
		return o.Apparent
	case FieldPowerFactor:
		return o.PowerFactor
	}
	return ""
}

func (o *Object) set(f Field, v string) {
	switch f {
	case FieldActive:
		o.Active = v
	case FieldReactive:
		o.Reactive = v
	case FieldApparent:
		o.Apparent = v
	case FieldPowerFactor:
		o.PowerFactor = v
	}
}

// SetField stores the value as typed. Editing P or the power factor
// recomputes S and Q when both parse and the power factor is in (0, 1];
// editing Q or S never triggers a recomputation.
func (o *Object) SetField(f Field, v string) {
	o.set(f, v)
	if f != FieldActive && f != FieldPowerFactor {
		return
	}
	p, okP := ParseValue(o.Active)
	pf, okPF := ParseValue(o.PowerFactor)
	if !okP || !okPF {
		return
	}
	s, q, ok := power.FromPF(p, pf)
	if !ok {
		return
	}
	o.Apparent = FormatValue(s)
	o.Reactive = FormatValue(q)
}

// Values returns the parsed attributes; blank or unreadable fields are NaN
func (o *Object) Values() power.Values {
	v := power.Unknown()
	if x, ok := ParseValue(o.Active); ok {
		v.P = x
	}
	if x, ok := ParseValue(o.Reactive); ok {
		v.Q = x
	}
	if x, ok := ParseValue(o.Apparent); ok {
		v.S = x
	}
	if x, ok := ParseValue(o.PowerFactor); ok {
		v.PF = x
	}
	return v
}

// Resolved returns the attributes with the missing ones derived
func (o *Object) Resolved() power.Values {
	return power.Complete(o.Values())
}

// valuePrefix is the leading number of an attribute, exponent included
var valuePrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseValue reads an attribute string. Blank input is not a value. The
// first comma is a decimal separator and the longest leading number is
// used, so "12 kW" reads as 12 while "abc12" does not parse.
func ParseValue(s string) (float64, bool) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	m := valuePrefix.FindString(s)
	if m == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || !power.Known(v) {
		return math.NaN(), false
	}
	return v, true
}

// FormatValue renders a derived attribute with two decimals
func FormatValue(v float64) string {
	if !power.Known(v) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
