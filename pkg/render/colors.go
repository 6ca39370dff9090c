package render

import (
	"fmt"
	"image/color"
)

// Theme selects a color palette
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

// ThemeNames maps theme enum to display name
var ThemeNames = map[Theme]string{
	ThemeLight: "Light",
	ThemeDark:  "Dark",
}

// ParseTheme maps a name to a Theme, defaulting to ThemeLight
func ParseTheme(name string) Theme {
	for t, n := range ThemeNames {
		if n == name || (name == "dark" && t == ThemeDark) {
			return t
		}
	}
	return ThemeLight
}

// Palette holds every color used to draw a scene
type Palette struct {
	Background color.NRGBA

	PolygonFill   color.NRGBA
	PolygonStroke color.NRGBA
	OpenStroke    color.NRGBA // open contours
	Selected      color.NRGBA
	Vertex        color.NRGBA

	CircleFill   color.NRGBA
	CircleStroke color.NRGBA
	Wedge        color.NRGBA

	Dot   color.NRGBA
	Label color.NRGBA

	Center      color.NRGBA
	CenterLabel color.NRGBA
}

var lightPalette = Palette{
	Background:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	PolygonFill:   color.NRGBA{R: 38, G: 115, B: 240, A: 15},
	PolygonStroke: color.NRGBA{R: 21, G: 78, B: 216, A: 82},
	OpenStroke:    color.NRGBA{R: 224, G: 63, B: 63, A: 200},
	Selected:      color.NRGBA{R: 21, G: 78, B: 216, A: 217},
	Vertex:        color.NRGBA{R: 21, G: 78, B: 216, A: 255},
	CircleFill:    color.NRGBA{R: 255, G: 255, B: 255, A: 217},
	CircleStroke:  color.NRGBA{R: 6, G: 40, B: 33, A: 40},
	Wedge:         color.NRGBA{R: 255, G: 92, B: 92, A: 242},
	Dot:           color.NRGBA{R: 21, G: 78, B: 216, A: 255},
	Label:         color.NRGBA{R: 21, G: 78, B: 216, A: 255},
	Center:        color.NRGBA{R: 21, G: 78, B: 216, A: 255},
	CenterLabel:   color.NRGBA{R: 11, G: 39, B: 64, A: 255},
}

var darkPalette = Palette{
	Background:    color.NRGBA{R: 24, G: 26, B: 31, A: 255},
	PolygonFill:   color.NRGBA{R: 25, G: 140, B: 255, A: 30},
	PolygonStroke: color.NRGBA{R: 58, G: 160, B: 255, A: 140},
	OpenStroke:    color.NRGBA{R: 255, G: 110, B: 110, A: 220},
	Selected:      color.NRGBA{R: 58, G: 160, B: 255, A: 255},
	Vertex:        color.NRGBA{R: 58, G: 160, B: 255, A: 255},
	CircleFill:    color.NRGBA{R: 40, G: 44, B: 52, A: 217},
	CircleStroke:  color.NRGBA{R: 200, G: 210, B: 220, A: 60},
	Wedge:         color.NRGBA{R: 255, G: 92, B: 92, A: 242},
	Dot:           color.NRGBA{R: 25, G: 140, B: 255, A: 255},
	Label:         color.NRGBA{R: 170, G: 205, B: 255, A: 255},
	Center:        color.NRGBA{R: 0, G: 102, B: 255, A: 255},
	CenterLabel:   color.NRGBA{R: 230, G: 235, B: 240, A: 255},
}

// PaletteFor returns the palette of a theme
func PaletteFor(t Theme) Palette {
	if t == ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// css renders a color for SVG attributes
func css(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, float64(c.A)/255)
}
