package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// Primary expression parsing: literals, references, calls, constructors,
// subqueries.
//
// Grammar:
//
//	primary       → literal | PARAM | identifier | func_call | udf_call
//	              | array_create | object_create | paren_expr | subquery
//	              | EXISTS "(" query ")" | ARRAY "(" query ")" | case_expr
//	literal       → NUMBER | STRING | true | false | null | undefined | NaN | Infinity
//	func_call     → name "(" [expr_list] ")"
//	udf_call      → udf "." name "(" [expr_list] ")"
//	array_create  → "[" [expr_list] "]"
//	object_create → "{" [STRING ":" expr ("," STRING ":" expr)*] "}"
//	paren_expr    → "(" expr ")"
//	subquery      → "(" query ")"
//	case_expr     → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() ast.Expr {
	start := p.token.Pos

	switch p.token.Type {
	case token.NUMBER:
		if lit := p.parseNumberLiteral(); lit != nil {
			return lit
		}
		return nil

	case token.STRING:
		s := p.parseStringValue()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Kind: ast.LiteralString, Str: s}

	case token.TRUE, token.FALSE:
		b := p.check(token.TRUE)
		p.nextToken()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Kind: ast.LiteralBoolean, Bool: b}

	case token.NULL:
		p.nextToken()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Kind: ast.LiteralNull}

	case token.UNDEFINED:
		p.nextToken()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Kind: ast.LiteralUndefined}

	case token.NAN, token.INFINITY:
		f := math.NaN()
		if p.check(token.INFINITY) {
			f = math.Inf(1)
		}
		p.nextToken()
		return &ast.Literal{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Kind: ast.LiteralNumber, Num: ast.Number{Float: f}}

	case token.PARAM:
		return p.parseParameter()

	case token.LBRACKET:
		return p.parseArrayCreate()

	case token.LBRACE:
		return p.parseObjectCreate()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.EXISTS:
		p.nextToken()
		q := p.parseParenQuery()
		return &ast.ExistsExpr{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Query: q}

	case token.ARRAY:
		p.nextToken()
		q := p.parseParenQuery()
		return &ast.ArrayExpr{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Query: q}

	case token.CASE:
		return p.parseCaseExpr()

	case token.UDF:
		return p.parseUDFCall()
	}

	if isName(p.token) {
		if p.checkPeek(token.LPAREN) {
			return p.parseFuncCall()
		}
		name := p.parseName()
		return &ast.Identifier{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Name: name}
	}

	p.errorExpected("expression")
	return nil
}

// parseNumberLiteral parses a NUMBER token. Integers that fit in int64 stay
// exact; everything else is a float64.
func (p *Parser) parseNumberLiteral() *ast.Literal {
	tok := p.token
	num, ok := parseNumber(tok.Literal)
	if !ok {
		p.fail(lexError(tok.Pos, ErrInvalidNumber, tok.Literal))
		return nil
	}
	p.nextToken()
	return &ast.Literal{NodeInfo: ast.NodeInfo{Span: tok.Span()}, Kind: ast.LiteralNumber, Num: num}
}

func parseNumber(lit string) (ast.Number, bool) {
	if len(lit) > 2 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X') {
		u, err := strconv.ParseUint(lit[2:], 16, 64)
		if err != nil {
			return ast.Number{}, false
		}
		if u <= math.MaxInt64 {
			return ast.Number{Int: int64(u), Float: float64(u), IsInt: true}, true
		}
		return ast.Number{Float: float64(u)}, true
	}
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return ast.Number{Int: i, Float: float64(i), IsInt: true}, true
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return ast.Number{}, false
	}
	return ast.Number{Float: f}, true
}

// parseStringValue consumes a STRING token and returns its decoded value.
func (p *Parser) parseStringValue() string {
	tok := p.token
	s, err := DecodeString(tok.Literal)
	if err != nil {
		pe, _ := AsParseError(err)
		p.fail(&ParseError{Kind: LexicalError, Pos: tok.Pos, Message: pe.Message})
		return ""
	}
	p.nextToken()
	return s
}

// parseParameter consumes a PARAM token.
func (p *Parser) parseParameter() *ast.Parameter {
	tok := p.token
	p.nextToken()
	return &ast.Parameter{NodeInfo: ast.NodeInfo{Span: tok.Span()}, Name: tok.Literal[1:]}
}

// parseFuncCall parses name(args). Built-in function keywords record their
// token type; other names are left for later resolution.
func (p *Parser) parseFuncCall() ast.Expr {
	start := p.token.Pos
	call := &ast.FuncCall{Name: p.token.Literal, Builtin: token.IDENT}
	if token.IsBuiltinFunction(p.token.Type) {
		call.Builtin = p.token.Type
	}
	p.nextToken()
	call.Args = p.parseArgs()
	call.Span = p.span(start)
	return call
}

// parseUDFCall parses udf.name(args).
func (p *Parser) parseUDFCall() ast.Expr {
	start := p.token.Pos
	p.expect(token.UDF)
	p.expect(token.DOT)
	if !token.IsWord(p.token.Type) {
		p.errorExpected("function name")
		return nil
	}
	call := &ast.FuncCall{Name: p.token.Literal, UDF: true, Builtin: token.IDENT}
	p.nextToken()
	if !p.check(token.LPAREN) {
		p.errorExpected(`"("`)
		return nil
	}
	call.Args = p.parseArgs()
	call.Span = p.span(start)
	return call
}

// parseArgs parses "(" [expr_list] ")".
func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN)
	if p.match(token.RPAREN) {
		return nil
	}
	args := p.parseExpressionList()
	p.expect(token.RPAREN)
	return args
}

// parseArrayCreate parses [a, b, ...].
func (p *Parser) parseArrayCreate() ast.Expr {
	start := p.token.Pos
	p.expect(token.LBRACKET)
	arr := &ast.ArrayCreate{}
	if !p.check(token.RBRACKET) {
		arr.Items = p.parseExpressionList()
	}
	p.expect(token.RBRACKET)
	arr.Span = p.span(start)
	return arr
}

// parseObjectCreate parses {"name": value, ...}.
func (p *Parser) parseObjectCreate() ast.Expr {
	start := p.token.Pos
	p.expect(token.LBRACE)
	obj := &ast.ObjectCreate{}
	if !p.check(token.RBRACE) {
		for {
			propStart := p.token.Pos
			if !p.check(token.STRING) {
				p.errorExpected("property name string")
				return nil
			}
			name := p.parseStringValue()
			p.expect(token.COLON)
			value := p.parseExpression()
			obj.Properties = append(obj.Properties, &ast.ObjectProperty{
				NodeInfo: ast.NodeInfo{Span: p.span(propStart)},
				Name:     name,
				Value:    value,
			})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RBRACE)
	obj.Span = p.span(start)
	return obj
}

// parseParenExpr parses (expr) or a scalar subquery (query).
func (p *Parser) parseParenExpr() ast.Expr {
	start := p.token.Pos
	if p.checkPeek(token.SELECT) {
		q := p.parseParenQuery()
		return &ast.SubqueryExpr{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Query: q}
	}
	p.expect(token.LPAREN)
	expr := p.parseExpression()
	p.expect(token.RPAREN)
	return expr
}

// parseParenQuery parses "(" query ")".
func (p *Parser) parseParenQuery() *ast.Query {
	p.expect(token.LPAREN)
	q := p.parseQuery()
	p.expect(token.RPAREN)
	return q
}

// parseCaseExpr parses simple and searched CASE expressions.
func (p *Parser) parseCaseExpr() ast.Expr {
	start := p.token.Pos
	p.expect(token.CASE)
	c := &ast.CaseExpr{}

	if !p.check(token.WHEN) {
		c.Operand = p.parseExpression()
	}

	for p.check(token.WHEN) {
		whenStart := p.token.Pos
		p.nextToken()
		cond := p.parseExpression()
		p.expect(token.THEN)
		result := p.parseExpression()
		c.Whens = append(c.Whens, &ast.WhenClause{
			NodeInfo:  ast.NodeInfo{Span: p.span(whenStart)},
			Condition: cond,
			Result:    result,
		})
	}
	if len(c.Whens) == 0 {
		p.errorExpected(`"WHEN"`)
		return nil
	}

	if p.match(token.ELSE) {
		c.Else = p.parseExpression()
	}
	p.expect(token.END)
	c.Span = p.span(start)
	return c
}
