package parser

import (
	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// Expression parsing with precedence climbing.
//
// Precedence levels, loosest first:
//
//	precedenceConditional = 1  (? :, right-associative)
//	precedenceCoalesce    = 2  (??)
//	precedenceOr          = 3
//	precedenceAnd         = 4
//	precedenceComparison  = 5  (=, !=, <>, <, >, <=, >=, [NOT] IN, [NOT] BETWEEN, [NOT] LIKE)
//	precedenceBitOr       = 6  (|)
//	precedenceBitXor      = 7  (^)
//	precedenceBitAnd      = 8  (&)
//	precedenceAddition    = 9  (+, -, ||)
//	precedenceMultiply    = 10 (*, /, %)
//	precedenceUnary       = 11 (-, +, ~, NOT)
//	precedencePostfix     = 12 (.name, [index])
//
// Binary operators are left-associative.
const (
	precedenceNone = iota
	precedenceConditional
	precedenceCoalesce
	precedenceOr
	precedenceAnd
	precedenceComparison
	precedenceBitOr
	precedenceBitXor
	precedenceBitAnd
	precedenceAddition
	precedenceMultiply
	precedenceUnary
	precedencePostfix
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

// parseExpressionWithPrecedence parses operators binding at least as tightly
// as minPrecedence.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) ast.Expr {
	defer p.restoreDepth(p.depth)

	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := p.infixPrecedence()
		if prec == precedenceNone || prec < minPrecedence {
			break
		}
		if !p.descend() {
			return nil
		}

		left = p.parseInfixExpr(left, prec)
		if left == nil || p.err != nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses unary operators and primary expressions with their
// member accesses.
func (p *Parser) parsePrefixExpr() ast.Expr {
	defer p.restoreDepth(p.depth)
	if !p.descend() {
		return nil
	}

	switch p.token.Type {
	case token.NOT, token.MINUS, token.PLUS, token.TILDE:
		start := p.token.Pos
		op := p.token.Type
		p.nextToken()
		operand := p.parseExpressionWithPrecedence(precedenceUnary)
		return &ast.UnaryExpr{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Op: op, Operand: operand}

	default:
		start := p.token.Pos
		expr := p.parsePrimary()
		if expr == nil {
			return nil
		}
		return p.parseMemberAccess(expr, start)
	}
}

// parseMemberAccess parses trailing .name and [index] steps.
func (p *Parser) parseMemberAccess(expr ast.Expr, start token.Position) ast.Expr {
	for p.err == nil {
		switch p.token.Type {
		case token.DOT:
			if !p.descend() {
				return nil
			}
			p.nextToken()
			if !token.IsWord(p.token.Type) {
				p.errorExpected("property name")
				return expr
			}
			name := p.token.Literal
			p.nextToken()
			expr = &ast.PropertyRef{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Member: expr, Property: name}

		case token.LBRACKET:
			if !p.descend() {
				return nil
			}
			p.nextToken()
			index := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = &ast.IndexExpr{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Member: expr, Index: index}

		default:
			return expr
		}
	}
	return expr
}

// infixPrecedence returns the precedence of the current token as an infix
// operator, or precedenceNone.
func (p *Parser) infixPrecedence() int {
	switch p.token.Type {
	case token.QUESTION:
		return precedenceConditional
	case token.DQUESTION:
		return precedenceCoalesce
	case token.OR:
		return precedenceOr
	case token.AND:
		return precedenceAnd
	case token.EQ, token.NE, token.LTGT, token.LT, token.GT, token.LE, token.GE,
		token.IN, token.BETWEEN, token.LIKE:
		return precedenceComparison
	case token.NOT:
		// NOT IN, NOT BETWEEN, NOT LIKE
		if p.checkPeek(token.IN) || p.checkPeek(token.BETWEEN) || p.checkPeek(token.LIKE) {
			return precedenceComparison
		}
		return precedenceNone
	case token.PIPE:
		return precedenceBitOr
	case token.CARET:
		return precedenceBitXor
	case token.AMP:
		return precedenceBitAnd
	case token.PLUS, token.MINUS, token.DPIPE:
		return precedenceAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precedenceMultiply
	}
	return precedenceNone
}

// parseInfixExpr parses an infix expression given the left operand and current precedence.
func (p *Parser) parseInfixExpr(left ast.Expr, prec int) ast.Expr {
	start := left.Pos()

	switch p.token.Type {
	case token.QUESTION:
		return p.parseConditionalExpr(left)

	case token.DQUESTION:
		p.nextToken()
		right := p.parseExpressionWithPrecedence(prec + 1)
		return &ast.CoalesceExpr{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Left: left, Right: right}

	case token.NOT:
		p.nextToken() // consume NOT
		return p.parsePredicate(left, true)

	case token.IN, token.BETWEEN, token.LIKE:
		return p.parsePredicate(left, false)
	}

	// Standard binary operators
	op := p.token.Type
	p.nextToken()

	// Parse right operand with higher precedence (left-associative)
	right := p.parseExpressionWithPrecedence(prec + 1)

	return &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Left: left, Op: op, Right: right}
}

// parseConditionalExpr parses cond ? then : else. The else branch binds to
// the right, so a ? b : c ? d : e groups as a ? b : (c ? d : e).
func (p *Parser) parseConditionalExpr(cond ast.Expr) ast.Expr {
	p.expect(token.QUESTION)
	then := p.parseExpression()
	p.expect(token.COLON)
	els := p.parseExpressionWithPrecedence(precedenceConditional)
	return &ast.ConditionalExpr{
		NodeInfo: ast.NodeInfo{Span: p.span(cond.Pos())},
		Cond:     cond,
		Then:     then,
		Else:     els,
	}
}

// parsePredicate parses the IN, BETWEEN or LIKE form following left.
func (p *Parser) parsePredicate(left ast.Expr, not bool) ast.Expr {
	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, not)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, not)
	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, not)
	}
	p.addError(ErrNotAfterPredicate)
	return left
}

// parseInExpr parses the parenthesized list of an IN expression.
func (p *Parser) parseInExpr(left ast.Expr, not bool) ast.Expr {
	p.expect(token.LPAREN)
	in := &ast.InExpr{Expr: left, Not: not}
	in.Values = p.parseExpressionList()
	p.expect(token.RPAREN)
	in.Span = p.span(left.Pos())
	return in
}

// parseBetweenExpr parses a BETWEEN expression.
func (p *Parser) parseBetweenExpr(left ast.Expr, not bool) ast.Expr {
	between := &ast.BetweenExpr{Expr: left, Not: not}
	// Bounds bind tighter than comparison so the AND belongs to BETWEEN
	between.Low = p.parseExpressionWithPrecedence(precedenceBitOr)
	p.expect(token.AND)
	between.High = p.parseExpressionWithPrecedence(precedenceBitOr)
	between.Span = p.span(left.Pos())
	return between
}

// parseLikeExpr parses a LIKE expression with an optional ESCAPE.
func (p *Parser) parseLikeExpr(left ast.Expr, not bool) ast.Expr {
	like := &ast.LikeExpr{Expr: left, Not: not}
	like.Pattern = p.parseExpressionWithPrecedence(precedenceBitOr)
	if p.match(token.ESCAPE) {
		like.Escape = p.parseExpressionWithPrecedence(precedenceBitOr)
	}
	like.Span = p.span(left.Pos())
	return like
}
