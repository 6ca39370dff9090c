package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrGeometry matches every *GeometryError via errors.Is
var ErrGeometry = errors.New("geometry error")

// GeometryError reports an operation requested on a contour that cannot
// support it, such as the area of an open polyline.
type GeometryError struct {
	Op     string
	Points int
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s (%d points)", e.Op, e.Reason, e.Points)
}

// Is lets errors.Is(err, ErrGeometry) match
func (e *GeometryError) Is(target error) bool {
	return target == ErrGeometry
}

// IsClosed reports whether the contour has at least two points and its first
// and last points coincide within ClosureTolerance on both axes.
func IsClosed(c Contour) bool {
	if len(c) < 2 {
		return false
	}
	return c[0].Near(c[len(c)-1], ClosureTolerance)
}

// Area returns the shoelace area of a closed contour. A closed polygon needs
// three distinct vertices plus the repeated closing point, so fewer than four
// entries is rejected as well as an open contour.
func Area(c Contour) (float64, error) {
	if len(c) < 4 {
		return 0, &GeometryError{Op: "area", Points: len(c), Reason: "not enough points for a closed contour"}
	}
	if !IsClosed(c) {
		return 0, &GeometryError{Op: "area", Points: len(c), Reason: "contour is not closed"}
	}
	return math.Abs(signedArea(c)), nil
}

// signedArea sums the cross products over every edge including the one from
// the last point back to the first.
func signedArea(c Contour) float64 {
	var s float64
	n := len(c)
	for i := 0; i < n; i++ {
		a := c[i]
		b := c[(i+1)%n]
		s += a.X*b.Y - b.X*a.Y
	}
	return 0.5 * s
}

// Centroid returns the arithmetic mean of the contour's points. It is the
// "center" used for load objects, not the area centroid.
func Centroid(c Contour) (Point, bool) {
	if len(c) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, p := range c {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(c))
	return Point{X: sx / n, Y: sy / n}, true
}
