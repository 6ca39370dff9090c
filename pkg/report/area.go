// Package report builds the area summary of parsed contours and renders it
// as text tables, CSV and GeoJSON.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vkshell/vkshell/pkg/geom"
)

// SquareMetersPerHectare converts m² to hectares
const SquareMetersPerHectare = 10000

// ContourStat describes one contour of the input
type ContourStat struct {
	Index    int // 1-based
	Points   int
	Closed   bool
	Included bool
	AreaM2   float64
	AreaHa   float64
	Err      error // area error for open or degenerate contours
}

// Area is the summary over all contours
type Area struct {
	Contours []ContourStat
	TotalM2  float64
	TotalHa  float64
	Closed   int
	Included int
}

// Summarize computes per-contour areas and totals. include selects contours
// by 1-based index; a nil include selects every closed contour. Only closed
// contours with a valid area count toward the totals.
func Summarize(contours []geom.Contour, include map[int]bool) Area {
	var a Area
	for i, c := range contours {
		st := ContourStat{Index: i + 1, Points: len(c), Closed: geom.IsClosed(c)}
		area, err := geom.Area(c)
		if err != nil {
			st.Err = err
		} else {
			st.AreaM2 = area
			st.AreaHa = area / SquareMetersPerHectare
		}

		if st.Closed {
			a.Closed++
			selected := include == nil || include[st.Index]
			if selected && err == nil {
				st.Included = true
				a.Included++
				a.TotalM2 += area
			}
		}
		a.Contours = append(a.Contours, st)
	}
	a.TotalHa = a.TotalM2 / SquareMetersPerHectare
	return a
}

// Cost returns the price of the included area at pricePerHa, rounded to
// kopecks.
func (a Area) Cost(pricePerHa decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(a.TotalHa).Mul(pricePerHa).Round(2)
}

// SplitVAT returns the VAT contained in a gross amount at rate percent
func SplitVAT(gross decimal.Decimal, rate int64) (net, vat decimal.Decimal) {
	r := decimal.NewFromInt(rate)
	vat = gross.Mul(r).Div(r.Add(decimal.NewFromInt(100))).Round(2)
	return gross.Sub(vat), vat
}

// ParseMoney reads an amount typed by the operator: spaces are ignored and a
// comma is a decimal separator.
func ParseMoney(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.Join(strings.Fields(s), ""), ",", ".")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// FormatGrouped renders v with the given decimals and spaces between groups
// of three integer digits: 1234567.891 -> "1 234 567.89".
func FormatGrouped(v float64, decimals int32) string {
	s := decimal.NewFromFloat(v).StringFixed(decimals)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		return sign + b.String() + "." + frac
	}
	return sign + b.String()
}

// WriteCSV writes one row per contour followed by a totals row
func WriteCSV(w io.Writer, a Area) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	rows := [][]string{{"contour", "points", "closed", "included", "area_m2", "area_ha"}}
	for _, c := range a.Contours {
		area, ha := "", ""
		if c.Err == nil {
			area = strconv.FormatFloat(c.AreaM2, 'f', 2, 64)
			ha = strconv.FormatFloat(c.AreaHa, 'f', 4, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(c.Index),
			strconv.Itoa(c.Points),
			strconv.FormatBool(c.Closed),
			strconv.FormatBool(c.Included),
			area,
			ha,
		})
	}
	rows = append(rows, []string{
		"total", "", strconv.Itoa(a.Closed), strconv.Itoa(a.Included),
		strconv.FormatFloat(a.TotalM2, 'f', 2, 64),
		strconv.FormatFloat(a.TotalHa, 'f', 4, 64),
	})
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
