package report

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/power"
)

func ring(c geom.Contour) [][]float64 {
	out := make([][]float64, len(c))
	for i, p := range c {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}

// ContoursGeoJSON returns the contours as a feature collection. Closed
// contours become polygons with their area, open ones line strings.
func ContoursGeoJSON(contours []geom.Contour, a Area) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for i, c := range contours {
		if len(c) == 0 {
			continue
		}
		var f *geojson.Feature
		if geom.IsClosed(c) {
			f = geojson.NewPolygonFeature([][][]float64{ring(c)})
		} else {
			f = geojson.NewLineStringFeature(ring(c))
		}
		f.SetProperty("contour", i+1)
		if i < len(a.Contours) {
			st := a.Contours[i]
			f.SetProperty("closed", st.Closed)
			f.SetProperty("included", st.Included)
			if st.Err == nil {
				f.SetProperty("area_m2", st.AreaM2)
				f.SetProperty("area_ha", st.AreaHa)
			}
		}
		fc.AddFeature(f)
	}
	return fc.MarshalJSON()
}

// ObjectsGeoJSON returns load objects as polygons with their power values and
// a point feature for each object center and for the load center.
func ObjectsGeoJSON(objs []*load.Object, center *load.Center) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, o := range objs {
		v := o.Resolved()
		props := map[string]any{
			"id":        o.ID.String(),
			"cadastral": o.Cadastral,
		}
		if o.Address != "" {
			props["address"] = o.Address
		}
		for name, val := range map[string]float64{"p": v.P, "q": v.Q, "s": v.S, "pf": v.PF} {
			if power.Known(val) {
				props[name] = val
			}
		}

		if len(o.Original) >= 3 {
			f := geojson.NewPolygonFeature([][][]float64{ring(o.Original)})
			for k, val := range props {
				f.SetProperty(k, val)
			}
			fc.AddFeature(f)
		}
		if c, ok := o.CenterPoint(); ok {
			f := geojson.NewPointFeature([]float64{c.X, c.Y})
			for k, val := range props {
				f.SetProperty(k, val)
			}
			f.SetProperty("kind", "object_center")
			fc.AddFeature(f)
		}
	}
	if center != nil {
		f := geojson.NewPointFeature([]float64{center.X, center.Y})
		f.SetProperty("kind", "load_center")
		f.SetProperty("total_p", center.TotalPower)
		fc.AddFeature(f)
	}
	return fc.MarshalJSON()
}
