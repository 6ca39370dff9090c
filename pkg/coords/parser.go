package coords

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vkshell/vkshell/pkg/geom"
)

var (
	decimalComma = regexp.MustCompile(`(\d),(\d)`)
	lineBreak    = regexp.MustCompile(`\r?\n`)
	blockBreak   = regexp.MustCompile(`\n{2,}`)
	lenientJunk  = regexp.MustCompile(`[^0-9.\-]`)
	leadingFloat = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)
)

// ErrParse matches every *ParseError via errors.Is
var ErrParse = errors.New("parse error")

// ParseError reports a line that has at least two fields whose first two
// are not both finite numbers.
type ParseError struct {
	Line int    // 1-based line number
	Text string // raw line content
	Err  error  // underlying lexer or number error, may be nil
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid number format: %q", e.Line, e.Text)
}

// Is lets errors.Is(err, ErrParse) match
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options control contour parsing
type Options struct {
	// SwapXY exchanges x and y of every point after parsing
	SwapXY bool
}

// ParseContours splits text into contours. Consecutive non-blank lines form
// one contour and one or more blank lines separate contours. Each line needs
// two numeric fields; lines with fewer than two fields are skipped.
func ParseContours(text string, opts Options) ([]geom.Contour, error) {
	var (
		contours []geom.Contour
		current  geom.Contour
	)
	flush := func() {
		if len(current) > 0 {
			contours = append(contours, current)
			current = nil
		}
	}

	for idx, raw := range lineBreak.Split(text, -1) {
		line := normalizeLine(raw)
		if line == "" {
			flush()
			continue
		}
		f, err := fields(line)
		if err != nil {
			return nil, &ParseError{Line: idx + 1, Text: raw, Err: err}
		}
		if len(f) < 2 {
			continue
		}
		x, errX := parseFinite(f[0])
		y, errY := parseFinite(f[1])
		if err := errors.Join(errX, errY); err != nil {
			return nil, &ParseError{Line: idx + 1, Text: raw, Err: err}
		}
		p := geom.Point{X: x, Y: y}
		if opts.SwapXY {
			p = p.Swap()
		}
		current = append(current, p)
	}
	flush()
	return contours, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// ObjectBlock is one imported load object: an identifier line followed by
// its coordinates.
type ObjectBlock struct {
	Cadastral string
	Points    geom.Contour
}

// ParseObjects reads the load-object import format. Blocks are separated by
// two or more consecutive newlines. The first line of a block is the
// identifier and the rest are coordinate lines; unreadable coordinate lines
// are dropped rather than failing the import.
func ParseObjects(text string) []ObjectBlock {
	lines := lineBreak.Split(text, -1)
	for i, l := range lines {
		lines[i] = strings.TrimSpace(strings.ReplaceAll(l, nbsp, " "))
	}

	var blocks []ObjectBlock
	for _, b := range blockBreak.Split(strings.Join(lines, "\n"), -1) {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		var body []string
		for _, l := range strings.Split(b, "\n") {
			if l != "" {
				body = append(body, l)
			}
		}
		block := ObjectBlock{Cadastral: body[0]}
		for _, l := range body[1:] {
			if p, ok := parseLenientPoint(l); ok {
				block.Points = append(block.Points, p)
			}
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func parseLenientPoint(line string) (geom.Point, bool) {
	f, err := fields(line)
	if err != nil || len(f) < 2 {
		return geom.Point{}, false
	}
	x, okX := ParseNumber(f[0])
	y, okY := ParseNumber(f[1])
	if !okX || !okY {
		return geom.Point{}, false
	}
	return geom.Point{X: x, Y: y}, true
}

// ParseNumber reads a decimal leniently: the first comma becomes a period,
// characters other than digits, periods and minus signs are dropped and the
// longest leading number is used.
func ParseNumber(s string) (float64, bool) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	s = lenientJunk.ReplaceAllString(s, "")
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
