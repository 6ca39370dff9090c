package coords

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// LineLexer splits a normalized coordinate line into whitespace separated
// fields. Numeric validation happens after lexing so that the caller can
// tell a short line from a malformed one.
var LineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Field", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// coordLine is the grammar of one input line
type coordLine struct {
	Fields []string `parser:"@Field*"`
}

var lineParser = participle.MustBuild[coordLine](
	participle.Lexer(LineLexer),
	participle.Elide("Whitespace"),
)

const nbsp = "\u00a0"

// normalizeLine replaces non-breaking spaces and rewrites a comma decimal
// separator to a period when it sits between two digits.
func normalizeLine(raw string) string {
	s := strings.ReplaceAll(raw, nbsp, " ")
	s = decimalComma.ReplaceAllString(s, "$1.$2")
	return strings.TrimSpace(s)
}

// fields lexes a normalized line
func fields(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	parsed, err := lineParser.ParseString("", line)
	if err != nil {
		return nil, err
	}
	return parsed.Fields, nil
}
