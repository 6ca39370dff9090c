// Package viewer is the interactive Gio window used by `vks view`.
package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/theme"
	"go.uber.org/zap"

	"github.com/vkshell/vkshell/internal/workspace"
	"github.com/vkshell/vkshell/pkg/render"
	"github.com/vkshell/vkshell/pkg/viewport"
)

const (
	doubleClickWindow = 350 * time.Millisecond
	dragThresholdPx   = 3
	scrollZoomStep    = 0.1
)

// Options configure a viewer window
type Options struct {
	Width, Height int
	Padding       float64
	MinSpan       float64
	InvertY       bool
	Theme         render.Theme
	ShowLabels    bool
	ViewZoom      float64
	// Watch reloads the model when this file changes
	Watch string
	Icon  *widget.Icon
}

// Viewer shows a workspace model with pan, zoom and selection
type Viewer struct {
	model  workspace.Model
	opts   Options
	logger *zap.Logger

	vp      *viewport.Viewport
	painter *render.Painter
	gv      *theme.Theme
	fitted  bool
	labels  bool
	dark    bool

	pressed bool
	moved   bool
	last    f32.Point
	lastTap time.Duration
	tapPos  f32.Point
	hasTap  bool

	mu     sync.Mutex
	status string
}

// New creates a viewer for model
func New(model workspace.Model, opts Options, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1000, 800
	}
	vp := viewport.New(opts.Width, opts.Height)
	vp.InvertY = opts.InvertY
	if opts.Padding > 0 {
		vp.Padding = opts.Padding
	}
	if opts.MinSpan > 0 {
		vp.MinSpan = opts.MinSpan
	}
	if opts.ViewZoom > 0 {
		vp.SetViewZoom(opts.ViewZoom)
	}

	v := &Viewer{
		model:   model,
		opts:    opts,
		logger:  logger,
		vp:      vp,
		painter: render.NewPainter(render.PaletteFor(opts.Theme)),
		gv:      theme.NewTheme("", nil, true),
		labels:  opts.ShowLabels,
		dark:    opts.Theme == render.ThemeDark,
	}
	v.applyPalette()
	return v
}

// Run opens the window and blocks in the Gio main loop. The process exits
// when the window is closed.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	w := new(app.Window)
	w.Option(app.Title(v.model.Title()))
	w.Option(app.Size(unit.Dp(float32(v.opts.Width)), unit.Dp(float32(v.opts.Height))))

	if v.opts.Watch != "" {
		watcher := workspace.NewWatcher(v.opts.Watch, func() {
			if err := v.model.Reload(); err != nil {
				v.logger.Warn("Reload failed", zap.String("path", v.opts.Watch), zap.Error(err))
				v.setStatus("Reload failed: " + err.Error())
			} else {
				v.setStatus("Reloaded " + time.Now().Format("15:04:05"))
			}
			w.Invalidate()
		}, v.logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				v.logger.Warn("File watch stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		err := v.loop(w)
		cancel()
		if err != nil {
			v.logger.Error("Viewer failed", zap.Error(err))
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

func (v *Viewer) setStatus(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
}

func (v *Viewer) statusText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *Viewer) loop(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			v.vp.Resize(e.Size.X, e.Size.Y)
			if !v.fitted && e.Size.X > 0 && e.Size.Y > 0 {
				v.vp.Fit(v.model.Bounds())
				v.fitted = true
			}

			if v.handleKeys(gtx) {
				return nil
			}
			v.handlePointer(gtx)

			v.painter.Draw(gtx, v.model.Scene(v.vp, v.labels))

			area := clip.Rect{Max: e.Size}.Push(gtx.Ops)
			event.Op(gtx.Ops, v)
			area.Pop()

			v.layoutInfo(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// handleKeys returns true when the window should close
func (v *Viewer) handleKeys(gtx layout.Context) bool {
	for {
		ev, ok := gtx.Event(key.Filter{})
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		switch ke.Name {
		case key.NameEscape, "Q":
			return true
		case key.NameSpace:
			v.vp.Fit(v.model.Bounds())
		case "F":
			if bb, ok := v.model.SelectedBounds(); ok {
				v.vp.Focus(bb)
			}
		case "+", "=":
			v.vp.StepViewZoom(1)
		case "-":
			v.vp.StepViewZoom(-1)
		case "L":
			v.labels = !v.labels
		case "T":
			v.dark = !v.dark
			v.applyPalette()
		case key.NameLeftArrow:
			v.vp.Pan(40, 0)
		case key.NameRightArrow:
			v.vp.Pan(-40, 0)
		case key.NameUpArrow:
			v.vp.Pan(0, 40)
		case key.NameDownArrow:
			v.vp.Pan(0, -40)
		}
		gtx.Execute(op.InvalidateCmd{})
	}
	return false
}

func (v *Viewer) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -1000, Max: 1000},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons != pointer.ButtonPrimary {
				continue
			}
			v.pressed, v.moved = true, false
			v.last = pe.Position

		case pointer.Drag:
			if !v.pressed {
				continue
			}
			d := pe.Position.Sub(v.last)
			if !v.moved && math.Hypot(float64(d.X), float64(d.Y)) < dragThresholdPx {
				continue
			}
			v.moved = true
			v.vp.Pan(float64(d.X), float64(d.Y))
			v.last = pe.Position

		case pointer.Release:
			if v.pressed && !v.moved {
				v.tap(pe)
			}
			v.pressed = false

		case pointer.Scroll:
			factor := 1.0 - float64(pe.Scroll.Y)*scrollZoomStep
			v.vp.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)
		}
		gtx.Execute(op.InvalidateCmd{})
	}
}

// tap selects the item under the pointer; a second tap in quick succession
// fits the view instead
func (v *Viewer) tap(pe pointer.Event) {
	d := pe.Position.Sub(v.tapPos)
	if v.hasTap && pe.Time-v.lastTap < doubleClickWindow && math.Hypot(float64(d.X), float64(d.Y)) < 2*dragThresholdPx {
		v.hasTap = false
		v.vp.Fit(v.model.Bounds())
		return
	}
	v.hasTap, v.lastTap, v.tapPos = true, pe.Time, pe.Position

	scene := v.model.Scene(v.vp, v.labels)
	idx := render.Hit(scene, float64(pe.Position.X), float64(pe.Position.Y))
	v.model.Select(idx)
	v.logger.Debug("Selected", zap.Int("index", idx))
}

func (v *Viewer) applyPalette() {
	if v.dark {
		v.painter.Palette = render.PaletteFor(render.ThemeDark)
		v.gv.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 230},
			Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
			ContrastBg: color.NRGBA{R: 58, G: 160, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
			Bg2:        color.NRGBA{R: 34, G: 40, B: 50, A: 255},
		})
		return
	}
	v.painter.Palette = render.PaletteFor(render.ThemeLight)
	v.gv.WithPalette(theme.Palette{
		Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 230},
		Fg:         color.NRGBA{R: 11, G: 39, B: 64, A: 255},
		ContrastBg: color.NRGBA{R: 25, G: 140, B: 255, A: 255},
		ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
	})
}

func (v *Viewer) layoutInfo(gtx layout.Context) {
	lines := v.model.Info()
	if s := v.statusText(); s != "" {
		lines = append(lines, s)
	}
	lines = append(lines, fmt.Sprintf("zoom %.2f  view ×%.1f", v.vp.Zoom(), v.vp.ViewZoom))

	th := v.gv
	layout.Inset{Top: unit.Dp(8), Left: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		macro := op.Record(gtx.Ops)
		dims := layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			children := make([]layout.FlexChild, 0, len(lines)+1)
			if v.opts.Icon != nil {
				children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					gtx.Constraints.Max = image.Pt(gtx.Dp(unit.Dp(20)), gtx.Dp(unit.Dp(20)))
					return v.opts.Icon.Layout(gtx, th.Palette.ContrastBg)
				}))
			}
			for _, l := range lines {
				lbl := material.Body2(th.Theme, l)
				lbl.Color = th.Palette.Fg
				children = append(children, layout.Rigid(lbl.Layout))
			}
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
		})
		call := macro.Stop()

		rr := gtx.Dp(unit.Dp(6))
		paint.FillShape(gtx.Ops, th.Palette.Bg, clip.UniformRRect(image.Rectangle{Max: dims.Size}, rr).Op(gtx.Ops))
		call.Add(gtx.Ops)
		return dims
	})

	hint := "Drag pan · Scroll zoom · Space/double-click fit · F focus · +/- circles · L labels · T theme · Q quit"
	layout.S.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(th.Theme, hint)
			lbl.Color = th.Palette.Fg
			lbl.Color.A = 160
			return lbl.Layout(gtx)
		})
	})
}
