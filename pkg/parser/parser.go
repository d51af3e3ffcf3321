// Package parser turns query text into a syntax tree.
//
// # Usage
//
//	q, err := parser.Parse("SELECT c.id FROM c WHERE c.age >= 21")
//	if err != nil {
//	    pe, _ := parser.AsParseError(err)
//	    // pe.Kind, pe.Pos, pe.Message
//	}
//
// # Grammar Overview
//
// The parser is a hand-written recursive descent parser with one token of
// lookahead. Expressions use precedence climbing (parser_expr.go).
//
//	query         → SELECT [DISTINCT] [TOP count] select_spec
//	                [FROM from] [WHERE expr]
//	                [GROUP BY expr_list [HAVING expr]]
//	                [ORDER BY [RANK] order_list]
//	                [OFFSET count LIMIT count]
//	count         → NUMBER | PARAM
//
// See each file for detailed grammar rules for that section.
//
// The first lexical or syntax error stops the parse. Parse then returns a
// *ParseError and no tree.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// TokenSource supplies tokens to the parser. *Lexer implements it.
type TokenSource interface {
	NextToken() (token.Token, error)
}

// Parser parses a token stream into an AST.
type Parser struct {
	src     TokenSource
	token   token.Token    // current token
	peek    token.Token    // lookahead token
	peekErr error          // error produced while reading peek
	prevEnd token.Position // end of the last consumed token
	err     *ParseError    // first error; the parser stops advancing once set
	depth   int            // current tree depth, see descend
}

// maxDepth bounds how deep a parsed tree may grow. Each nested expression
// or subquery adds a level, and so does each step of an operator, member
// access or JOIN chain.
const maxDepth = 5000

// NewParser creates a parser reading from src.
func NewParser(src TokenSource) *Parser {
	p := &Parser{src: src}
	p.peek, p.peekErr = src.NextToken()
	p.nextToken()
	return p
}

// Parse parses query text and returns the tree, or a *ParseError.
func Parse(input string) (*ast.Query, error) {
	return parseQuery(NewParser(NewLexer(input)))
}

// ParseTokens parses an already scanned token sequence. A missing trailing
// EOF token is supplied. Tokens other than EOF after the first EOF are a
// syntax error.
func ParseTokens(tokens []token.Token) (*ast.Query, error) {
	return parseQuery(NewParser(&sliceSource{tokens: tokens}))
}

// ParseExpr parses a standalone scalar expression.
func ParseExpr(input string) (ast.Expr, error) {
	p := NewParser(NewLexer(input))
	expr := p.parseExpression()
	p.expectEOF()
	if p.err != nil {
		return nil, p.err
	}
	return expr, nil
}

func parseQuery(p *Parser) (*ast.Query, error) {
	q := p.parseQuery()
	p.expectEOF()
	if p.err != nil {
		return nil, p.err
	}
	return q, nil
}

// sliceSource replays a buffered token sequence.
type sliceSource struct {
	tokens []token.Token
	i      int
}

func (s *sliceSource) NextToken() (token.Token, error) {
	if s.i >= len(s.tokens) {
		var end token.Position
		if n := len(s.tokens); n > 0 {
			end = s.tokens[n-1].End
		}
		return token.Token{Type: token.EOF, Pos: end, End: end}, nil
	}
	tok := s.tokens[s.i]
	s.i++
	switch tok.Type {
	case token.ILLEGAL:
		return tok, lexError(tok.Pos, ErrUnexpectedChar, tok.Literal)
	case token.EOF:
		for _, rest := range s.tokens[s.i:] {
			if rest.Type != token.EOF {
				msg := fmt.Sprintf(ErrTrailingTokens, describe(rest))
				return tok, &ParseError{Kind: SyntaxError, Pos: rest.Pos, Message: msg}
			}
		}
	}
	return tok, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if p.err != nil {
		return
	}
	p.prevEnd = p.token.End
	if p.peekErr != nil {
		p.fail(p.peekErr)
		return
	}
	p.token = p.peek
	if p.token.Type == token.EOF {
		return
	}
	p.peek, p.peekErr = p.src.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peekErr == nil && p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise records an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.errorExpected(fmt.Sprintf("%q", t.String()))
	return false
}

// expectEOF records an error if input remains.
func (p *Parser) expectEOF() {
	if !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrTrailingTokens, describe(p.token)))
	}
}

// errorExpected records an unexpected-token error for the current token.
func (p *Parser) errorExpected(what string) {
	if p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedEOF, what))
		return
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), what))
}

// addError records a syntax error at the current token.
func (p *Parser) addError(msg string) {
	p.fail(&ParseError{Kind: SyntaxError, Pos: p.token.Pos, Message: msg})
}

// fail records the first error and freezes the parser on an EOF token so
// every production unwinds without consuming input.
func (p *Parser) fail(err error) {
	if p.err != nil {
		return
	}
	pe, ok := AsParseError(err)
	if !ok {
		pe = &ParseError{Kind: LexicalError, Pos: p.peek.Pos, Message: err.Error()}
	}
	p.err = pe
	p.token = token.Token{Type: token.EOF, Pos: pe.Pos, End: pe.Pos}
	p.peek = p.token
	p.peekErr = nil
}

// descend adds a level of tree depth. Once the depth passes maxDepth it
// records a syntax error and reports false. Callers restore the depth on
// return with restoreDepth.
func (p *Parser) descend() bool {
	p.depth++
	if p.depth > maxDepth {
		p.addError(ErrNestingTooDeep)
		return false
	}
	return true
}

func (p *Parser) restoreDepth(depth int) {
	p.depth = depth
}

// span returns the source range from start to the end of the last consumed token.
func (p *Parser) span(start token.Position) token.Span {
	return token.Span{Start: start, End: p.prevEnd}
}

// isName reports whether tok can be used as an identifier or alias.
func isName(tok token.Token) bool {
	return tok.Type == token.IDENT || (token.IsKeyword(tok.Type) && !token.IsReserved(tok.Type))
}

// parseName consumes an identifier or alias.
func (p *Parser) parseName() string {
	if !isName(p.token) {
		p.errorExpected("identifier")
		return ""
	}
	name := p.token.Literal
	p.nextToken()
	return name
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	switch {
	case tok.Type == token.EOF:
		return "end of input"
	case tok.Type == token.IDENT:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case tok.Type == token.NUMBER:
		return "number " + tok.Literal
	case tok.Type == token.STRING:
		return "string " + tok.Literal
	case tok.Type == token.PARAM:
		return "parameter " + tok.Literal
	case token.IsKeyword(tok.Type):
		return "keyword " + tok.Literal
	}
	return fmt.Sprintf("%q", tok.Literal)
}
