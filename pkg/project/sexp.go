package project

import (
	"math"
	"strconv"
	"strings"
)

// Node is an element of a parsed project file: an *Atom or a *List
type Node interface {
	isNode()
	String() string
}

// Atom is a symbol, number or quoted string
type Atom struct {
	Value  string
	Quoted bool
	Line   int
}

func (*Atom) isNode() {}

func (a *Atom) String() string {
	if a.Quoted {
		return quote(a.Value)
	}
	return a.Value
}

// List is a parenthesized sequence of nodes
type List struct {
	Items []Node
	Line  int
}

func (*List) isNode() {}

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the symbol naming the list, or "" when the first item is not
// an unquoted atom.
func (l *List) Head() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(*Atom); ok && !a.Quoted {
		return a.Value
	}
	return ""
}

// Args returns the items after the head
func (l *List) Args() []Node {
	if len(l.Items) == 0 {
		return nil
	}
	return l.Items[1:]
}

// Find returns the first child list with the given head
func (l *List) Find(head string) *List {
	for _, it := range l.Args() {
		if sub, ok := it.(*List); ok && sub.Head() == head {
			return sub
		}
	}
	return nil
}

// FindAll returns every child list with the given head
func (l *List) FindAll(head string) []*List {
	var out []*List
	for _, it := range l.Args() {
		if sub, ok := it.(*List); ok && sub.Head() == head {
			out = append(out, sub)
		}
	}
	return out
}

// Arg returns the atom value at argument position i
func (l *List) Arg(i int) (string, bool) {
	args := l.Args()
	if i < 0 || i >= len(args) {
		return "", false
	}
	a, ok := args[i].(*Atom)
	if !ok {
		return "", false
	}
	return a.Value, true
}

// FloatArg parses argument i as a finite float
func (l *List) FloatArg(i int) (float64, bool) {
	s, ok := l.Arg(i)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// quote renders s as a quoted string using the escapes the lexer reads
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
