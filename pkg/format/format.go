// Package format prints syntax trees back into query text.
//
// Output re-parses to an equal tree: parentheses are inserted wherever
// operator precedence requires them, strings are re-quoted, and
// case-sensitive keywords (true, null, udf, ...) keep their exact spelling.
package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/ast"
)

// KeywordCase controls how case-insensitive keywords are spelled.
type KeywordCase int

// Keyword spellings.
const (
	KeywordUpper KeywordCase = iota
	KeywordLower
	KeywordTitle
)

var keywordCaseNames = map[KeywordCase]string{
	KeywordUpper: "upper",
	KeywordLower: "lower",
	KeywordTitle: "title",
}

func (k KeywordCase) String() string {
	if s, ok := keywordCaseNames[k]; ok {
		return s
	}
	return fmt.Sprintf("KeywordCase(%d)", int(k))
}

// ParseKeywordCase parses "upper", "lower" or "title".
func ParseKeywordCase(s string) (KeywordCase, error) {
	for k, name := range keywordCaseNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return KeywordUpper, fmt.Errorf("unknown keyword case %q (expected upper, lower or title)", s)
}

// Options configures the printer.
type Options struct {
	Indent      int // spaces per level in pretty output
	KeywordCase KeywordCase
	Compact     bool // single line
}

// DefaultOptions returns pretty output with two-space indentation and
// upper-case keywords.
func DefaultOptions() Options {
	return Options{Indent: 2, KeywordCase: KeywordUpper}
}

// Format prints a query according to opts. Pretty output ends with a newline;
// compact output does not.
func Format(q *ast.Query, opts Options) string {
	p := newPrinter(opts)
	p.formatQuery(q)
	return p.String()
}

// Pretty prints a query across lines with default options.
func Pretty(q *ast.Query) string {
	return Format(q, DefaultOptions())
}

// Compact prints a query on a single line.
func Compact(q *ast.Query) string {
	opts := DefaultOptions()
	opts.Compact = true
	return Format(q, opts)
}

// Expr prints a single expression on one line.
func Expr(e ast.Expr) string {
	opts := DefaultOptions()
	opts.Compact = true
	p := newPrinter(opts)
	p.formatExpr(e)
	return p.String()
}
