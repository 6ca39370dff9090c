package render

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

// Painter draws scenes into a Gio frame
type Painter struct {
	Palette Palette
	shaper  *text.Shaper
}

// NewPainter returns a painter using the Go fonts
func NewPainter(pal Palette) *Painter {
	return &Painter{
		Palette: pal,
		shaper:  text.NewShaper(text.WithCollection(gofont.Collection())),
	}
}

// Draw paints the whole scene
func (p *Painter) Draw(gtx layout.Context, s Scene) {
	pal := p.Palette
	paint.FillShape(gtx.Ops, pal.Background, clip.Rect{Max: gtx.Constraints.Max}.Op())

	for _, poly := range s.Polygons {
		p.drawPolygon(gtx, poly)
	}
	for _, v := range s.Vertices {
		fillCircle(gtx, v.X, v.Y, 3, pal.Vertex)
	}
	for _, m := range s.Marks {
		p.drawMark(gtx, m, s.ShowLabels)
	}
	if c := s.Center; c != nil {
		fillCircle(gtx, c.Center.X, c.Center.Y, centerRadiusPx+2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		fillCircle(gtx, c.Center.X, c.Center.Y, centerRadiusPx, pal.Center)
		p.label(gtx, c.Center.X-8, c.Center.Y-7, c.Label, 10, pal.CenterLabel)
	}
}

func (p *Painter) drawPolygon(gtx layout.Context, poly Polygon) {
	if len(poly.Points) < 2 {
		return
	}
	pal := p.Palette
	if poly.Closed {
		paint.FillShape(gtx.Ops, pal.PolygonFill, clip.Outline{Path: buildPath(gtx, poly.Points, true)}.Op())
	}
	stroke, width := pal.PolygonStroke, float32(1.2)
	if !poly.Closed {
		stroke = pal.OpenStroke
	}
	if poly.Selected {
		stroke, width = pal.Selected, 2.4
	}
	paint.FillShape(gtx.Ops, stroke, clip.Stroke{
		Path:  buildPath(gtx, poly.Points, poly.Closed),
		Width: width,
	}.Op())
}

func (p *Painter) drawMark(gtx layout.Context, m PowerMark, labels bool) {
	pal := p.Palette
	fillCircle(gtx, m.Center.X, m.Center.Y, m.RadiusPx+1, pal.CircleStroke)
	fillCircle(gtx, m.Center.X, m.Center.Y, m.RadiusPx, pal.CircleFill)

	switch {
	case m.Share >= 1-wedgeMinAngle:
		fillCircle(gtx, m.Center.X, m.Center.Y, m.RadiusPx, pal.Wedge)
	case m.Share > wedgeMinAngle:
		wedge := WedgePath(m.Center, m.RadiusPx, m.Share)
		paint.FillShape(gtx.Ops, pal.Wedge, clip.Outline{Path: buildPath(gtx, wedge, true)}.Op())
	}

	if m.ShowDot || m.Selected {
		fillCircle(gtx, m.Center.X, m.Center.Y, dotRadiusPx+2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		fillCircle(gtx, m.Center.X, m.Center.Y, dotRadiusPx, pal.Dot)
	}
	if labels && m.Label != "" {
		r := max(m.RadiusPx, dotRadiusPx)
		p.label(gtx, m.Center.X+r+4, m.Center.Y-8, m.Label, 11, pal.Label)
	}
}

func buildPath(gtx layout.Context, pts []Pt, closed bool) clip.PathSpec {
	var path clip.Path
	path.Begin(gtx.Ops)
	for i, pt := range pts {
		if i == 0 {
			path.MoveTo(f32.Pt(float32(pt.X), float32(pt.Y)))
		} else {
			path.LineTo(f32.Pt(float32(pt.X), float32(pt.Y)))
		}
	}
	if closed {
		path.Close()
	}
	return path.End()
}

func fillCircle(gtx layout.Context, x, y, radius float64, c color.NRGBA) {
	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(gtx.Ops)
	defer stack.Pop()

	r := int(radius + 0.5)
	rect := image.Rectangle{Min: image.Pt(-r, -r), Max: image.Pt(r, r)}
	paint.FillShape(gtx.Ops, c, clip.Ellipse(rect).Op(gtx.Ops))
}

func (p *Painter) label(gtx layout.Context, x, y float64, txt string, size float32, c color.NRGBA) {
	stack := op.Offset(image.Pt(int(x), int(y))).Push(gtx.Ops)
	defer stack.Pop()

	m := op.Record(gtx.Ops)
	paint.ColorOp{Color: c}.Add(gtx.Ops)
	material := m.Stop()

	gtx.Constraints.Min = image.Point{}
	widget.Label{Alignment: text.Start, MaxLines: 1}.
		Layout(gtx, p.shaper, font.Font{}, unit.Sp(size), txt, material)
}
