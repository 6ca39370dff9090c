package project

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokOpen
	tokClose
	tokSymbol
	tokString
)

type token struct {
	typ   tokenType
	value string
	line  int
}

// lexer tokenizes a project file. '#' starts a comment that runs to the end
// of the line.
type lexer struct {
	r      *bufio.Reader
	peeked *rune
	line   int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r), line: 1}
}

func (l *lexer) next() (token, error) {
	for {
		ch, err := l.peek()
		if err == io.EOF {
			return token{typ: tokEOF, line: l.line}, nil
		}
		if err != nil {
			return token{}, err
		}
		switch {
		case unicode.IsSpace(ch):
			l.read()
			continue
		case ch == '#':
			for {
				c, err := l.read()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		break
	}

	ch, _ := l.peek()
	switch ch {
	case '(':
		l.read()
		return token{typ: tokOpen, line: l.line}, nil
	case ')':
		l.read()
		return token{typ: tokClose, line: l.line}, nil
	case '"':
		return l.readString()
	default:
		return l.readSymbol()
	}
}

func (l *lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked = &ch
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	var (
		ch  rune
		err error
	)
	if l.peeked != nil {
		ch = *l.peeked
		l.peeked = nil
	} else {
		ch, _, err = l.r.ReadRune()
	}
	if err == nil && ch == '\n' {
		l.line++
	}
	return ch, err
}

func (l *lexer) readString() (token, error) {
	start := l.line
	l.read() // opening quote

	var out []rune
	for {
		ch, err := l.read()
		if err != nil {
			return token{}, fmt.Errorf("line %d: unterminated string", start)
		}
		if ch == '"' {
			break
		}
		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return token{}, fmt.Errorf("line %d: unterminated escape", start)
			}
			switch next {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				out = append(out, next)
			}
			continue
		}
		out = append(out, ch)
	}
	return token{typ: tokString, value: string(out), line: start}, nil
}

func (l *lexer) readSymbol() (token, error) {
	var out []rune
	for {
		ch, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		l.read()
		out = append(out, ch)
	}
	return token{typ: tokSymbol, value: string(out), line: l.line}, nil
}

// Parse reads every top-level node from r
func Parse(r io.Reader) ([]Node, error) {
	lx := newLexer(r)
	var nodes []Node
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokEOF {
			return nodes, nil
		}
		n, err := parseNode(lx, tok)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

func parseNode(lx *lexer, tok token) (Node, error) {
	switch tok.typ {
	case tokSymbol:
		return &Atom{Value: tok.value, Line: tok.line}, nil
	case tokString:
		return &Atom{Value: tok.value, Quoted: true, Line: tok.line}, nil
	case tokClose:
		return nil, fmt.Errorf("line %d: unexpected ')'", tok.line)
	case tokOpen:
		list := &List{Line: tok.line}
		for {
			t, err := lx.next()
			if err != nil {
				return nil, err
			}
			switch t.typ {
			case tokClose:
				return list, nil
			case tokEOF:
				return nil, fmt.Errorf("line %d: unexpected end of file in list", tok.line)
			}
			item, err := parseNode(lx, t)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
	}
	return nil, fmt.Errorf("line %d: unexpected end of file", tok.line)
}
