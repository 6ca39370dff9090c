package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

func ipt(v float64) int {
	return int(math.Round(v))
}

// pathData renders points as an SVG path with sub-pixel precision
func pathData(pts []Pt, closed bool) string {
	var b strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%.2f %.2f ", cmd, p.X, p.Y)
	}
	if closed {
		b.WriteString("Z")
	}
	return strings.TrimSpace(b.String())
}

// WriteSVG draws the scene as a standalone SVG document and returns the
// first write error
func WriteSVG(w io.Writer, s Scene, pal Palette) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(s.Width, s.Height)
	canvas.Rect(0, 0, s.Width, s.Height, "fill:"+css(pal.Background))

	canvas.Gid("polygons")
	for _, p := range s.Polygons {
		writePolygon(canvas, p, pal)
	}
	canvas.Gend()

	if len(s.Vertices) > 0 {
		canvas.Gstyle("fill:" + css(pal.Vertex))
		for _, v := range s.Vertices {
			canvas.Circle(ipt(v.X), ipt(v.Y), 3)
		}
		canvas.Gend()
	}

	if len(s.Marks) > 0 {
		canvas.Gid("power")
		for _, m := range s.Marks {
			writeMark(canvas, m, pal, s.ShowLabels)
		}
		canvas.Gend()
	}

	if s.Center != nil {
		c := s.Center
		canvas.Circle(ipt(c.Center.X), ipt(c.Center.Y), ipt(centerRadiusPx),
			"fill:"+css(pal.Center)+";stroke:white;stroke-width:2")
		canvas.Text(ipt(c.Center.X), ipt(c.Center.Y)+4, c.Label,
			"text-anchor:middle;font-size:10px;font-weight:bold;fill:white")
	}
	canvas.End()
	return bw.Flush()
}

func writePolygon(canvas *svg.SVG, p Polygon, pal Palette) {
	stroke, width := pal.PolygonStroke, 1.2
	if p.Selected {
		stroke, width = pal.Selected, 2.4
	}
	if !p.Closed {
		canvas.Path(pathData(p.Points, false),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.1f;stroke-dasharray:4 3", css(pal.OpenStroke), width))
		return
	}
	canvas.Path(pathData(p.Points, true),
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", css(pal.PolygonFill), css(stroke), width))
}

func writeMark(canvas *svg.SVG, m PowerMark, pal Palette, labels bool) {
	cx, cy := ipt(m.Center.X), ipt(m.Center.Y)
	r := ipt(m.RadiusPx)
	canvas.Circle(cx, cy, r, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(pal.CircleFill), css(pal.CircleStroke)))

	switch {
	case m.Share >= 1-wedgeMinAngle:
		canvas.Circle(cx, cy, r, "fill:"+css(pal.Wedge))
	case m.Share > wedgeMinAngle:
		canvas.Path(pathData(WedgePath(m.Center, m.RadiusPx, m.Share), true), "fill:"+css(pal.Wedge))
	}

	if m.ShowDot || m.Selected {
		canvas.Circle(cx, cy, ipt(dotRadiusPx), fmt.Sprintf("fill:%s;stroke:white;stroke-width:2", css(pal.Dot)))
	}
	if labels && m.Label != "" {
		canvas.Text(cx, cy-max(r, ipt(dotRadiusPx))-4, m.Label,
			"text-anchor:middle;font-size:11px;fill:"+css(pal.Label))
	}
}
