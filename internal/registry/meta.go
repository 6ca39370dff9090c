package registry

import (
	"fmt"

	"gioui.org/widget"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

// Default department for apps that do not name one
const (
	DefaultDepartmentID    = "general"
	DefaultDepartmentTitle = "Общее"
)

// Size is the preferred window size of an app
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

// DefaultSize is used when an app does not state a size
const DefaultSize = SizeMedium

var sizeNames = map[Size]string{
	SizeSmall:  "small",
	SizeMedium: "medium",
	SizeLarge:  "large",
}

// Window dimensions in dp per size
var sizeDims = map[Size][2]int{
	SizeSmall:  {420, 420},
	SizeMedium: {900, 600},
	SizeLarge:  {1280, 820},
}

func (s Size) String() string {
	if n, ok := sizeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Size(%d)", int(s))
}

// Dimensions returns the window width and height for the size
func (s Size) Dimensions() (int, int) {
	d, ok := sizeDims[s]
	if !ok {
		d = sizeDims[DefaultSize]
	}
	return d[0], d[1]
}

// ParseSize maps a size name, falling back to DefaultSize
func ParseSize(name string) Size {
	for s, n := range sizeNames {
		if n == name {
			return s
		}
	}
	return DefaultSize
}

// Icon is the closed set of launcher icons
type Icon int

const (
	IconUnknown Icon = iota
	IconZap
	IconMap
	IconTarget
	IconCalculator
	IconLayers
)

var iconNames = map[Icon]string{
	IconZap:        "Zap",
	IconMap:        "Map",
	IconTarget:     "Target",
	IconCalculator: "Calculator",
	IconLayers:     "Layers",
}

var iconData = map[Icon][]byte{
	IconZap:        icons.ImageFlashOn,
	IconMap:        icons.MapsMap,
	IconTarget:     icons.DeviceGPSFixed,
	IconCalculator: icons.ActionAssessment,
	IconLayers:     icons.MapsLayers,
}

func (i Icon) String() string {
	if n, ok := iconNames[i]; ok {
		return n
	}
	return "Unknown"
}

// ParseIcon maps an icon name; unknown names give IconUnknown
func ParseIcon(name string) Icon {
	for i, n := range iconNames {
		if n == name {
			return i
		}
	}
	return IconUnknown
}

// Data returns the IconVG data of the icon. Unknown icons draw as Zap.
func (i Icon) Data() []byte {
	if d, ok := iconData[i]; ok {
		return d
	}
	return iconData[IconZap]
}

// Widget decodes the icon for Gio
func (i Icon) Widget() (*widget.Icon, error) {
	ic, err := widget.NewIcon(i.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to load %s icon: %w", i, err)
	}
	return ic, nil
}

// Department groups apps in the launcher
type Department struct {
	ID    string
	Title string
}

// Meta describes an app
type Meta struct {
	ID              string
	Title           string
	Icon            Icon
	Size            Size
	Description     string
	DepartmentID    string
	DepartmentTitle string
}

// Department returns the app's department with defaults applied
func (m Meta) Department() Department {
	d := Department{ID: m.DepartmentID, Title: m.DepartmentTitle}
	if d.ID == "" {
		d.ID = DefaultDepartmentID
	}
	if d.Title == "" {
		d.Title = DefaultDepartmentTitle
	}
	return d
}
