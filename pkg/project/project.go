// Package project saves and loads a load-center session as an
// s-expression document.
//
//	(vks_project
//	  (version 1)
//	  (swap_axes yes)
//	  (view_zoom 1)
//	  (object
//	    (id "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
//	    (cadastral "26:01:000001:10")
//	    (address "")
//	    (center 408841.5 3304151.9)
//	    (power (p "100") (q "75.00") (s "125.00") (pf "0.8"))
//	    (pts (xy 408840.82 3304151.05) (xy 408841 3304152))))
//
// Power values are stored as the strings the operator typed. Plot
// coordinates are not stored; they follow from swap_axes.
package project

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
)

// Version is the file format version written by Encode
const Version = 1

const rootHead = "vks_project"

// ErrFormat is wrapped by every structural decoding error
var ErrFormat = errors.New("invalid project file")

// Document is the saved state of a load-center session
type Document struct {
	Swap     bool
	ViewZoom float64
	Objects  []*load.Object
}

// Encode writes doc to w
func Encode(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
	}

	p("(%s\n", rootHead)
	p("  (version %d)\n", Version)
	p("  (swap_axes %s)\n", yesNo(doc.Swap))
	if doc.ViewZoom > 0 {
		p("  (view_zoom %s)\n", num(doc.ViewZoom))
	}
	for _, o := range doc.Objects {
		p("  (object\n")
		p("    (id %s)\n", quote(o.ID.String()))
		p("    (cadastral %s)\n", quote(o.Cadastral))
		p("    (address %s)\n", quote(o.Address))
		if o.Center != nil {
			p("    (center %s %s)\n", num(o.Center.X), num(o.Center.Y))
		}
		p("    (power (p %s) (q %s) (s %s) (pf %s))\n",
			quote(o.Active), quote(o.Reactive), quote(o.Apparent), quote(o.PowerFactor))
		p("    (pts")
		for _, pt := range o.Original {
			p(" (xy %s %s)", num(pt.X), num(pt.Y))
		}
		p("))\n")
	}
	p(")\n")
	return bw.Flush()
}

// Decode reads a document from r
func Decode(r io.Reader) (Document, error) {
	nodes, err := Parse(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(nodes) != 1 {
		return Document{}, fmt.Errorf("%w: expected one top-level list, got %d", ErrFormat, len(nodes))
	}
	root, ok := nodes[0].(*List)
	if !ok || root.Head() != rootHead {
		return Document{}, fmt.Errorf("%w: missing (%s ...)", ErrFormat, rootHead)
	}

	if v := root.Find("version"); v != nil {
		n, ok := v.FloatArg(0)
		if !ok || int(n) != Version {
			return Document{}, fmt.Errorf("%w: unsupported version on line %d", ErrFormat, v.Line)
		}
	}

	doc := Document{ViewZoom: 1}
	if s := root.Find("swap_axes"); s != nil {
		val, _ := s.Arg(0)
		doc.Swap = val == "yes"
	}
	if z := root.Find("view_zoom"); z != nil {
		if v, ok := z.FloatArg(0); ok && v > 0 {
			doc.ViewZoom = v
		}
	}

	for _, ol := range root.FindAll("object") {
		o, err := decodeObject(ol, doc.Swap)
		if err != nil {
			return Document{}, err
		}
		doc.Objects = append(doc.Objects, o)
	}
	return doc, nil
}

func decodeObject(l *List, swap bool) (*load.Object, error) {
	o := &load.Object{}
	if id := l.Find("id"); id != nil {
		s, _ := id.Arg(0)
		parsed, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad id: %v", ErrFormat, id.Line, err)
		}
		o.ID = parsed
	} else {
		o.ID = uuid.New()
	}
	o.Cadastral = stringArg(l.Find("cadastral"))
	o.Address = stringArg(l.Find("address"))

	if c := l.Find("center"); c != nil {
		x, okX := c.FloatArg(0)
		y, okY := c.FloatArg(1)
		if !okX || !okY {
			return nil, fmt.Errorf("%w: line %d: bad center", ErrFormat, c.Line)
		}
		o.Center = &geom.Point{X: x, Y: y}
	}

	if pw := l.Find("power"); pw != nil {
		o.Active = stringArg(pw.Find("p"))
		o.Reactive = stringArg(pw.Find("q"))
		o.Apparent = stringArg(pw.Find("s"))
		o.PowerFactor = stringArg(pw.Find("pf"))
	}

	if pts := l.Find("pts"); pts != nil {
		for _, xy := range pts.FindAll("xy") {
			x, okX := xy.FloatArg(0)
			y, okY := xy.FloatArg(1)
			if !okX || !okY {
				return nil, fmt.Errorf("%w: line %d: bad point", ErrFormat, xy.Line)
			}
			o.Original = append(o.Original, geom.Point{X: x, Y: y})
		}
	}
	if swap {
		o.Plot = o.Original.Swapped()
	} else {
		o.Plot = o.Original.Clone()
	}
	return o, nil
}

func stringArg(l *List) string {
	if l == nil {
		return ""
	}
	s, _ := l.Arg(0)
	return s
}

// Save writes doc to path, replacing the file only once the new content is
// complete.
func Save(path string, doc Document) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create project file: %w", err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write project file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write project file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace project file: %w", err)
	}
	return nil
}

// Load reads a project file
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open project file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// IsProjectFile reports whether the file content starts like a project file
func IsProjectFile(data []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(data)), "("+rootHead)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
