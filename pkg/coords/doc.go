// Package coords parses freeform coordinate text into contours.
//
// # Contour text
//
// One point per line, two or more whitespace separated fields, the first two
// being x and y. A comma between two digits is read as a decimal separator so
// survey exports such as
//
//	408840,82 3304151,05
//	408841,00 3304152,00
//
// parse without preprocessing. Blank lines separate contours:
//
//	contours, err := coords.ParseContours(text, coords.Options{SwapXY: true})
//
// A line with fewer than two fields is skipped. A line with two or more
// fields whose first two are not finite numbers fails the whole parse with a
// *ParseError carrying the 1-based line number and the raw line.
//
// # Load object import
//
// ParseObjects reads blocks separated by at least one empty line. The first
// line of each block is the cadastral identifier, the remaining lines are
// coordinates read with ParseNumber. Unlike ParseContours the import is
// lenient and drops lines it cannot read.
package coords
