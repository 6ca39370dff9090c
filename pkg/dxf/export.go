package dxf

import (
	"errors"
	"io"
	"math"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/power"
)

// Layer names written by Export
const (
	LayerPlots      = "Plots"
	LayerLoadCenter = "LoadCenter"
)

// Logo size bounds, in drawing units
const (
	logoFraction = 0.02
	logoMin      = 0.2
	logoMax      = 200
	minLogoSpan  = 1e-6
)

// ErrNothingToExport is returned when no object has a positive apparent power
// and no load center is given.
var ErrNothingToExport = errors.New("nothing to export")

// Options controls Export
type Options struct {
	// IncludeCircles draws a circle of radius S/2 for every object
	IncludeCircles bool
	// ScaleByView multiplies the radius by ViewScale
	ScaleByView bool
	ViewScale   float64

	// LoadCenter adds the load center symbol when set
	LoadCenter *geom.Point
	// LogoSize overrides the automatic load center symbol size when > 0
	LogoSize float64
}

// DefaultOptions matches the export button of the load tool
func DefaultOptions() Options {
	return Options{
		IncludeCircles: true,
		ScaleByView:    true,
		ViewScale:      1,
	}
}

// Markers builds the markers for a set of objects. Every object with a known
// center gets a marker: a circle of radius S/2 when its resolved apparent
// power is positive, a bare point otherwise. ErrNothingToExport is returned
// when no object has a positive S and no load center is given.
func Markers(objs []*load.Object, opts Options) ([]Marker, error) {
	viewScale := opts.ViewScale
	if !(viewScale > 0) || math.IsInf(viewScale, 0) {
		viewScale = 1
	}

	var markers []Marker
	positive := 0
	bbox := geom.NewBoundingBox()
	for _, o := range objs {
		c, ok := o.CenterPoint()
		if !ok || !c.IsFinite() {
			continue
		}
		m := Marker{Point: c, Layer: LayerPlots}
		v := o.Resolved()
		if power.Known(v.S) && v.S > 0 {
			positive++
			if opts.IncludeCircles {
				m.Radius = v.S / 2
				if opts.ScaleByView {
					m.Radius *= viewScale
				}
			}
		}
		if share, ok := v.ReactiveShare(); ok {
			m.ReactiveShare = share
		}
		markers = append(markers, m)
		bbox.Expand(c)
	}
	if positive == 0 && opts.LoadCenter == nil {
		return nil, ErrNothingToExport
	}

	if opts.LoadCenter != nil {
		bbox.Expand(*opts.LoadCenter)
		size := opts.LogoSize
		if !(size > 0) || math.IsInf(size, 0) {
			size = LogoSize(bbox)
		}
		markers = append(markers, Marker{
			Point:      *opts.LoadCenter,
			Layer:      LayerLoadCenter,
			LoadCenter: true,
			LogoSize:   size,
		})
	}

	return markers, nil
}

// LogoSize returns the default load center symbol size for the exported
// points: 2% of the larger bounding box span, clamped to [0.2, 200].
func LogoSize(bbox geom.BoundingBox) float64 {
	span := math.Max(minLogoSpan, bbox.MaxSpan())
	return math.Max(logoMin, math.Min(logoMax, span*logoFraction))
}

// Export writes the DXF for objs to w and returns the number of markers
func Export(w io.Writer, objs []*load.Object, opts Options) (int, error) {
	markers, err := Markers(objs, opts)
	if err != nil {
		return 0, err
	}
	if err := Write(w, markers); err != nil {
		return 0, err
	}
	return len(markers), nil
}
