package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vkshell/vkshell/internal/workspace"
	"github.com/vkshell/vkshell/pkg/coords"
	"github.com/vkshell/vkshell/pkg/dxf"
	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/project"
	"github.com/vkshell/vkshell/pkg/render"
	"github.com/vkshell/vkshell/pkg/report"
)

var (
	centerSwap       bool
	centerSet        []string
	centerOverride   []string
	centerRequireAll bool
	centerViewZoom   float64

	centerDXF         string
	centerNoCircles   bool
	centerNoViewScale bool
	centerNoLogo      bool
	centerGeoJSON     string
	centerSVG         string
	centerSaveProject string
)

var centerCmd = &cobra.Command{
	Use:   "center <objects_file|project_file|->",
	Short: "Compute the load center of a set of plots",
	Long: `Import load objects and compute the center weighted by active power.

The input is either a project file or blocks of a cadastral number followed
by "x y" lines. Object values are set with --set, using 1-based object
numbers and the fields p (kW), q (kvar), s (kVA) and pf (cos φ):

  vks center objects.txt --set 1:p=120 --set 1:pf=0.9 --set 2:s=80

Missing values are completed from the power triangle.`,
	Args: cobra.ExactArgs(1),
	RunE: runCenter,
}

func init() {
	rootCmd.AddCommand(centerCmd)
	f := centerCmd.Flags()
	f.BoolVar(&centerSwap, "swap", false, "swap x and y on import")
	f.StringArrayVar(&centerSet, "set", nil, "set an object value, N:field=value")
	f.StringArrayVar(&centerOverride, "center", nil, "override an object center, N=x,y")
	f.BoolVar(&centerRequireAll, "require-all", false, "leave the center undefined while any P is missing")
	f.Float64Var(&centerViewZoom, "view-zoom", 0, "power circle zoom (default from config)")

	f.StringVar(&centerDXF, "dxf", "", "export power circles to a DXF file")
	f.BoolVar(&centerNoCircles, "no-circles", false, "DXF: omit the S/2 circles")
	f.BoolVar(&centerNoViewScale, "no-view-scale", false, "DXF: do not scale radii by the view zoom")
	f.BoolVar(&centerNoLogo, "no-center-symbol", false, "DXF: omit the load center symbol")
	f.StringVar(&centerGeoJSON, "geojson", "", "write objects and center as GeoJSON")
	f.StringVar(&centerSVG, "svg", "", "render the objects to an SVG file")
	f.StringVar(&centerSaveProject, "save", "", "save the session as a project file")
}

func runCenter(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	swap := centerSwap || cfg.Coordinates.SwapXY
	viewZoom := cfg.Viewer.ViewZoom
	if project.IsProjectFile(data) {
		doc, err := project.Decode(bytes.NewReader(data))
		if err != nil {
			return err
		}
		swap = doc.Swap || centerSwap
		if doc.ViewZoom > 0 {
			viewZoom = doc.ViewZoom
		}
	}
	if centerViewZoom > 0 {
		viewZoom = centerViewZoom
	}

	objs, err := workspace.ReadObjects(data, swap)
	if err != nil {
		return fmt.Errorf("error reading objects: %w", err)
	}

	session := load.NewSession(swap)
	requireAll := cfg.Export.RequireAllFilled
	if cmd.Flags().Changed("require-all") {
		requireAll = centerRequireAll
	}
	session.SetRequireAllFilled(requireAll)
	session.Replace(objs)

	if err := applyEdits(session); err != nil {
		return err
	}
	logger.Debug("Session ready", zap.Int("objects", session.Len()), zap.Bool("swap", swap), zap.Bool("require_all", requireAll))

	out := cmd.OutOrStdout()
	center, hasCenter := session.LoadCenter()
	writeObjectTable(out, session.Objects(), center, hasCenter)

	if centerDXF != "" {
		opts := dxf.DefaultOptions()
		opts.IncludeCircles = cfg.Export.IncludeCircles && !centerNoCircles
		opts.ScaleByView = cfg.Export.ScaleByView && !centerNoViewScale
		opts.ViewScale = viewZoom
		if hasCenter && !centerNoLogo {
			p := center.Point
			opts.LoadCenter = &p
		}
		n, err := exportDXF(centerDXF, session.Objects(), opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ %d objects exported to %s\n", n, centerDXF)
	}

	if centerGeoJSON != "" {
		var c *load.Center
		if hasCenter {
			c = &center
		}
		js, err := report.ObjectsGeoJSON(session.Objects(), c)
		if err != nil {
			return fmt.Errorf("error encoding geojson: %w", err)
		}
		if err := os.WriteFile(centerGeoJSON, js, 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", centerGeoJSON, err)
		}
		fmt.Fprintf(out, "✓ GeoJSON written to %s\n", centerGeoJSON)
	}

	if centerSVG != "" {
		m := workspace.NewLoadModel("", session)
		vp := newViewport()
		vp.SetViewZoom(viewZoom)
		vp.Fit(m.Bounds())
		if err := writeSVGFile(centerSVG, m.Scene(vp, cfg.Viewer.ShowLabels)); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ SVG written to %s\n", centerSVG)
	}

	if centerSaveProject != "" {
		doc := project.Document{Swap: swap, ViewZoom: viewZoom, Objects: session.Objects()}
		if err := project.Save(centerSaveProject, doc); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Project saved to %s\n", centerSaveProject)
	}
	return nil
}

// applyEdits applies --set and --center to the session
func applyEdits(s *load.Session) error {
	objs := s.Objects()
	object := func(n string) (*load.Object, error) {
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || i < 1 || i > len(objs) {
			return nil, fmt.Errorf("no object %q (have 1..%d)", n, len(objs))
		}
		return objs[i-1], nil
	}

	for _, e := range centerSet {
		n, rest, ok := strings.Cut(e, ":")
		name, value, ok2 := strings.Cut(rest, "=")
		if !ok || !ok2 {
			return fmt.Errorf("invalid --set %q, want N:field=value", e)
		}
		o, err := object(n)
		if err != nil {
			return err
		}
		f, err := load.ParseField(name)
		if err != nil {
			return err
		}
		if err := s.SetField(o.ID, f, value); err != nil {
			return err
		}
	}

	for _, e := range centerOverride {
		n, xy, ok := strings.Cut(e, "=")
		if !ok {
			return fmt.Errorf("invalid --center %q, want N=x,y", e)
		}
		o, err := object(n)
		if err != nil {
			return err
		}
		if strings.TrimSpace(xy) == "" {
			if err := s.SetCenter(o.ID, nil); err != nil {
				return err
			}
			continue
		}
		xs, ys, ok := strings.Cut(xy, ",")
		x, okx := coords.ParseNumber(xs)
		y, oky := coords.ParseNumber(ys)
		if !ok || !okx || !oky {
			return fmt.Errorf("invalid center %q", xy)
		}
		if err := s.SetCenter(o.ID, &geom.Point{X: x, Y: y}); err != nil {
			return err
		}
	}
	return nil
}

func writeObjectTable(w io.Writer, objs []*load.Object, c load.Center, ok bool) {
	fmt.Fprintf(w, "Objects: %d\n\n", len(objs))
	fmt.Fprintf(w, "  %3s  %-20s  %10s  %10s  %10s  %6s  %s\n", "#", "cadastral", "P, kW", "Q, kvar", "S, kVA", "cos φ", "center")
	for i, o := range objs {
		v := o.Resolved()
		centre := "-"
		if p, ok := o.CenterPoint(); ok {
			centre = fmt.Sprintf("%.2f, %.2f", p.X, p.Y)
		}
		fmt.Fprintf(w, "  %3d  %-20s  %10s  %10s  %10s  %6s  %s\n", i+1, o.Cadastral,
			dash(load.FormatValue(v.P)), dash(load.FormatValue(v.Q)),
			dash(load.FormatValue(v.S)), dash(load.FormatValue(v.PF)), centre)
	}
	fmt.Fprintln(w)
	if !ok {
		fmt.Fprintln(w, "Load center: undefined")
		return
	}
	fmt.Fprintf(w, "Load center: %.2f, %.2f (ΣP %s kW)\n", c.X, c.Y, load.FormatValue(c.TotalPower))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func exportDXF(path string, objs []*load.Object, opts dxf.Options) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("error creating %s: %w", path, err)
	}
	n, err := dxf.Export(f, objs, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("error exporting dxf: %w", err)
	}
	logger.Debug("DXF exported", zap.String("path", path), zap.Int("objects", n))
	return n, nil
}

func writeSVGFile(path string, scene render.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	err = render.WriteSVG(f, scene, render.PaletteFor(render.ParseTheme(cfg.Viewer.Theme)))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("error writing svg: %w", err)
	}
	return nil
}
