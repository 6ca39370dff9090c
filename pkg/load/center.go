package load

import (
	"strings"

	"github.com/vkshell/vkshell/pkg/geom"
)

// Center is the power weighted center of a set of objects
type Center struct {
	geom.Point
	TotalPower float64
}

// LoadCenter returns the centroid of the object centers weighted by active
// power. Objects whose P does not parse or that have no center are left out
// of the sum. A blank P counts as missing: with requireAllFilled set, any
// missing P makes the center undefined. The center is also undefined when
// the summed power is not positive.
func LoadCenter(objs []*Object, requireAllFilled bool) (Center, bool) {
	var sumP, sumPX, sumPY float64
	anyEmpty := false

	for _, o := range objs {
		if strings.TrimSpace(o.Active) == "" {
			anyEmpty = true
			continue
		}
		p, ok := ParseValue(o.Active)
		if !ok {
			continue
		}
		c, ok := o.CenterPoint()
		if !ok || !c.IsFinite() {
			continue
		}
		sumP += p
		sumPX += p * c.X
		sumPY += p * c.Y
	}

	if requireAllFilled && anyEmpty {
		return Center{}, false
	}
	if sumP <= 0 {
		return Center{}, false
	}
	return Center{
		Point:      geom.Point{X: sumPX / sumP, Y: sumPY / sumP},
		TotalPower: sumP,
	}, true
}
