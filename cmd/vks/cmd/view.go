package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vkshell/vkshell/internal/registry"
	"github.com/vkshell/vkshell/internal/viewer"
	"github.com/vkshell/vkshell/internal/workspace"
	"github.com/vkshell/vkshell/pkg/coords"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/render"
	"github.com/vkshell/vkshell/pkg/viewport"
)

var (
	viewWatch  bool
	viewSwap   bool
	viewTheme  string
	viewNoText bool
)

const viewControls = `
Controls:
  Drag              - Pan
  Scroll Wheel      - Zoom at the pointer
  Click             - Select / deselect
  Double Click      - Fit to window
  Space             - Fit to window
  F                 - Focus the selection
  + / -             - Power circle zoom
  L                 - Toggle labels
  T                 - Toggle theme
  Q / Escape        - Quit`

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Interactive viewer",
	Long:  `Open contours or load objects in an interactive Gio window.` + viewControls,
}

var viewAreaCmd = &cobra.Command{
	Use:   "area <coords_file>",
	Short: "View contours and their areas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return openAreaViewer(cmd, args[0])
	},
}

var viewCenterCmd = &cobra.Command{
	Use:   "center <objects_file|project_file>",
	Short: "View load objects, power circles and the load center",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return openCenterViewer(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.AddCommand(viewAreaCmd)
	viewCmd.AddCommand(viewCenterCmd)
	viewCmd.PersistentFlags().BoolVarP(&viewWatch, "watch", "w", false, "reload when the file changes")
	viewCmd.PersistentFlags().BoolVar(&viewSwap, "swap", false, "swap x and y on import")
	viewCmd.PersistentFlags().StringVar(&viewTheme, "theme", "", "light or dark (default from config)")
	viewCmd.PersistentFlags().BoolVar(&viewNoText, "no-labels", false, "start with labels hidden")
}

// newViewport returns a viewport configured from the viewer settings
func newViewport() *viewport.Viewport {
	vp := viewport.New(cfg.Viewer.Width, cfg.Viewer.Height)
	vp.InvertY = cfg.Viewer.InvertY
	vp.Padding = cfg.Viewer.Padding
	vp.MinSpan = cfg.Viewer.MinSpan
	vp.SetViewZoom(cfg.Viewer.ViewZoom)
	return vp
}

func viewerOptions(path string, meta registry.Meta) viewer.Options {
	theme := cfg.Viewer.Theme
	if viewTheme != "" {
		theme = viewTheme
	}
	w, h := cfg.Viewer.Width, cfg.Viewer.Height
	if meta.Size != registry.DefaultSize {
		w, h = meta.Size.Dimensions()
	}
	opts := viewer.Options{
		Width:      w,
		Height:     h,
		Padding:    cfg.Viewer.Padding,
		MinSpan:    cfg.Viewer.MinSpan,
		InvertY:    cfg.Viewer.InvertY,
		Theme:      render.ParseTheme(theme),
		ShowLabels: cfg.Viewer.ShowLabels && !viewNoText,
		ViewZoom:   cfg.Viewer.ViewZoom,
	}
	if viewWatch {
		opts.Watch = path
	}
	if ic, err := meta.Icon.Widget(); err == nil {
		opts.Icon = ic
	} else {
		logger.Warn("Icon unavailable", zap.String("app", meta.ID), zap.Error(err))
	}
	return opts
}

func openAreaViewer(cmd *cobra.Command, path string) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	opts := coords.Options{SwapXY: viewSwap || cfg.Coordinates.SwapXY}
	model, err := workspace.NewAreaModel(path, string(data), opts)
	if err != nil {
		return fmt.Errorf("error parsing coordinates: %w", err)
	}

	a := model.Summary()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d contours (closed %d)\n", len(a.Contours), a.Closed)
	return viewer.New(model, viewerOptions(path, areaToolMeta), logger).Run(cmd.Context())
}

func openCenterViewer(cmd *cobra.Command, path string) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	swap := viewSwap || cfg.Coordinates.SwapXY
	objs, err := workspace.ReadObjects(data, swap)
	if err != nil {
		return fmt.Errorf("error reading objects: %w", err)
	}

	session := load.NewSession(swap)
	session.SetRequireAllFilled(cfg.Export.RequireAllFilled)
	session.Replace(objs)
	session.SetStatus(fmt.Sprintf("Imported %d objects", len(objs)))

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d objects\n", len(objs))
	model := workspace.NewLoadModel(path, session)
	return viewer.New(model, viewerOptions(path, centerToolMeta), logger).Run(cmd.Context())
}
