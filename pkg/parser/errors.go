package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/docsql/pkg/token"
)

// ErrorKind is the category of a ParseError.
type ErrorKind int

// Error categories.
const (
	LexicalError ErrorKind = iota
	SyntaxError
)

func (k ErrorKind) String() string {
	if k == LexicalError {
		return "lexical"
	}
	return "syntax"
}

// Sentinels for errors.Is matching by category.
var (
	ErrLexical = errors.New("lexical error")
	ErrSyntax  = errors.New("syntax error")
)

// ParseError is the error returned by Parse. It reports the first problem
// found in the input, with its position.
type ParseError struct {
	Kind    ErrorKind
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap returns ErrLexical or ErrSyntax.
func (e *ParseError) Unwrap() error {
	if e.Kind == LexicalError {
		return ErrLexical
	}
	return ErrSyntax
}

// AsParseError extracts a *ParseError from err.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func lexError(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{Kind: LexicalError, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Common error messages
const (
	ErrUnexpectedToken      = "unexpected %s, expected %s"
	ErrUnexpectedEOF        = "unexpected end of input, expected %s"
	ErrTrailingTokens       = "unexpected %s, expected end of query"
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedComment  = "unterminated block comment"
	ErrInvalidEscape        = "invalid escape sequence %q in string literal"
	ErrInvalidNumber        = "invalid number literal %q"
	ErrUnexpectedChar       = "unexpected character %q"
	ErrEmptyParameter       = "parameter name expected after '@'"
	ErrNotAfterPredicate    = "expected IN, BETWEEN or LIKE after NOT"
	ErrHavingWithoutGroupBy = "HAVING requires GROUP BY"
	ErrExpectedInteger      = "expected an integer"
	ErrNestingTooDeep       = "expression nested too deeply"
)
