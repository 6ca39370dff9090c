package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vkshell/vkshell/pkg/coords"
	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/render"
	"github.com/vkshell/vkshell/pkg/report"
)

var (
	areaFormat  string
	areaOutput  string
	areaSwap    bool
	areaInclude []int
	areaPrice   string
	areaVAT     int64
)

var areaCmd = &cobra.Command{
	Use:   "area <coords_file|->",
	Short: "Compute contour areas",
	Long: `Parse contours (one "x y" pair per line, blank lines between contours)
and report the area of each closed contour in m² and hectares.

Formats:
  table    - human readable summary (default)
  csv      - one row per contour, ';' separated
  geojson  - feature collection of the contours
  svg      - rendered contours`,
	Args: cobra.ExactArgs(1),
	RunE: runArea,
}

func init() {
	rootCmd.AddCommand(areaCmd)
	areaCmd.Flags().StringVarP(&areaFormat, "format", "f", "table", "output format: table, csv, geojson, svg")
	areaCmd.Flags().StringVarP(&areaOutput, "output", "o", "", "output file (default stdout)")
	areaCmd.Flags().BoolVar(&areaSwap, "swap", false, "swap x and y of every point")
	areaCmd.Flags().IntSliceVar(&areaInclude, "include", nil, "1-based contours counted in the total (default all closed)")
	areaCmd.Flags().StringVar(&areaPrice, "price", "", "price per hectare, adds the cost to the summary")
	areaCmd.Flags().Int64Var(&areaVAT, "vat", 20, "VAT rate included in the price, percent")
}

func runArea(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	opts := coords.Options{SwapXY: areaSwap || cfg.Coordinates.SwapXY}
	contours, err := coords.ParseContours(string(data), opts)
	if err != nil {
		return fmt.Errorf("error parsing coordinates: %w", err)
	}
	logger.Debug("Parsed contours", zap.Int("count", len(contours)), zap.Bool("swap", opts.SwapXY))

	var include map[int]bool
	if len(areaInclude) > 0 {
		include = make(map[int]bool, len(areaInclude))
		for _, i := range areaInclude {
			include[i] = true
		}
	}
	summary := report.Summarize(contours, include)

	w, closeOut, err := createOutput(cmd, areaOutput)
	if err != nil {
		return err
	}

	switch areaFormat {
	case "table":
		err = writeAreaTable(w, summary)
	case "csv":
		err = report.WriteCSV(w, summary)
	case "geojson":
		var out []byte
		if out, err = report.ContoursGeoJSON(contours, summary); err == nil {
			_, err = fmt.Fprintln(w, string(out))
		}
	case "svg":
		vp := newViewport()
		vp.Fit(geom.Bounds(contours...))
		scene := render.AreaScene(vp, contours, -1)
		scene.ShowLabels = cfg.Viewer.ShowLabels
		err = render.WriteSVG(w, scene, render.PaletteFor(render.ParseTheme(cfg.Viewer.Theme)))
	default:
		err = fmt.Errorf("unknown format %q", areaFormat)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

func writeAreaTable(w io.Writer, a report.Area) error {
	fmt.Fprintf(w, "Contours: %d (closed %d, counted %d)\n\n", len(a.Contours), a.Closed, a.Included)
	fmt.Fprintf(w, "  %4s  %6s  %-6s  %16s  %12s\n", "#", "points", "closed", "area, m²", "area, ha")
	for _, c := range a.Contours {
		mark := " "
		if c.Included {
			mark = "*"
		}
		if c.Err != nil {
			fmt.Fprintf(w, "%s %4d  %6d  %-6t  %v\n", mark, c.Index, c.Points, c.Closed, c.Err)
			continue
		}
		fmt.Fprintf(w, "%s %4d  %6d  %-6t  %16s  %12s\n", mark, c.Index, c.Points, c.Closed,
			report.FormatGrouped(c.AreaM2, 2), report.FormatGrouped(c.AreaHa, 4))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %s m² / %s ha\n", report.FormatGrouped(a.TotalM2, 2), report.FormatGrouped(a.TotalHa, 4))

	if areaPrice != "" {
		price, err := report.ParseMoney(areaPrice)
		if err != nil {
			return err
		}
		cost := a.Cost(price)
		_, vat := report.SplitVAT(cost, areaVAT)
		fmt.Fprintf(w, "Cost:  %s (VAT %d%%: %s)\n", cost.StringFixed(2), areaVAT, vat.StringFixed(2))
	}

	var skipped []int
	for _, c := range a.Contours {
		if !c.Closed {
			skipped = append(skipped, c.Index)
		}
	}
	if len(skipped) > 0 {
		sort.Ints(skipped)
		fmt.Fprintf(w, "Open contours not counted: %v\n", skipped)
	}
	return nil
}
