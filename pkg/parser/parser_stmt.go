package parser

import (
	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// Query parsing: SELECT clause, optional clauses, ORDER BY, OFFSET/LIMIT.
//
// Grammar:
//
//	query         → select_clause [FROM from] [WHERE expr]
//	                [GROUP BY expr_list [HAVING expr]]
//	                [ORDER BY [RANK] order_list] [OFFSET count LIMIT count]
//	select_clause → SELECT [DISTINCT] [TOP count] select_spec
//	select_spec   → "*" | VALUE expr | select_item ("," select_item)*
//	select_item   → expr [AS identifier]
//	order_list    → order_item ("," order_item)*
//	order_item    → expr [ASC|DESC]
//	count         → NUMBER | PARAM

// parseQuery parses a complete query. The caller checks for end of input.
func (p *Parser) parseQuery() *ast.Query {
	defer p.restoreDepth(p.depth)
	if !p.descend() {
		return nil
	}

	start := p.token.Pos
	q := &ast.Query{}

	q.Select = p.parseSelectClause()

	if p.check(token.FROM) {
		q.From = p.parseFromClause()
	}

	if p.match(token.WHERE) {
		q.Where = p.parseExpression()
	}

	switch {
	case p.check(token.GROUP):
		p.nextToken()
		p.expect(token.BY)
		q.GroupBy = p.parseExpressionList()
		if p.match(token.HAVING) {
			q.Having = p.parseExpression()
		}
	case p.check(token.HAVING):
		p.addError(ErrHavingWithoutGroupBy)
	}

	if p.check(token.ORDER) {
		q.OrderBy = p.parseOrderByClause()
	}

	if p.check(token.OFFSET) {
		q.OffsetLimit = p.parseOffsetLimit()
	}

	q.Span = p.span(start)
	return q
}

// parseSelectClause parses SELECT [DISTINCT] [TOP n] followed by the projection.
func (p *Parser) parseSelectClause() *ast.SelectClause {
	start := p.token.Pos
	sel := &ast.SelectClause{}
	if !p.expect(token.SELECT) {
		return sel
	}

	sel.Distinct = p.match(token.DISTINCT)

	if p.match(token.TOP) {
		sel.Top = p.parseCount()
	}

	specStart := p.token.Pos
	switch p.token.Type {
	case token.STAR:
		p.nextToken()
		sel.Spec = &ast.SelectStar{NodeInfo: ast.NodeInfo{Span: p.span(specStart)}}

	case token.VALUE:
		p.nextToken()
		expr := p.parseExpression()
		sel.Spec = &ast.SelectValue{NodeInfo: ast.NodeInfo{Span: p.span(specStart)}, Expr: expr}

	default:
		list := &ast.SelectList{}
		for {
			list.Items = append(list.Items, p.parseSelectItem())
			if !p.match(token.COMMA) {
				break
			}
		}
		list.Span = p.span(specStart)
		sel.Spec = list
	}

	sel.Span = p.span(start)
	return sel
}

// parseSelectItem parses expr [AS alias].
func (p *Parser) parseSelectItem() *ast.SelectItem {
	start := p.token.Pos
	item := &ast.SelectItem{Expr: p.parseExpression()}
	if p.match(token.AS) {
		item.Alias = p.parseName()
	}
	item.Span = p.span(start)
	return item
}

// parseCount parses the operand of TOP, OFFSET and LIMIT: a non-negative
// integer literal or a parameter.
func (p *Parser) parseCount() ast.Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := p.parseNumberLiteral()
		if lit == nil {
			return nil
		}
		if !lit.Num.IsInt {
			p.fail(&ParseError{Kind: SyntaxError, Pos: lit.Pos(), Message: ErrExpectedInteger})
			return nil
		}
		return lit
	case token.PARAM:
		return p.parseParameter()
	}
	p.errorExpected("integer or parameter")
	return nil
}

// parseOrderByClause parses ORDER BY [RANK] item, ...
func (p *Parser) parseOrderByClause() *ast.OrderByClause {
	start := p.token.Pos
	p.expect(token.ORDER)
	p.expect(token.BY)

	ob := &ast.OrderByClause{}
	ob.Rank = p.match(token.RANK)
	for {
		ob.Items = append(ob.Items, p.parseOrderByItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	ob.Span = p.span(start)
	return ob
}

// parseOrderByItem parses a single ORDER BY item.
func (p *Parser) parseOrderByItem() *ast.OrderByItem {
	start := p.token.Pos
	item := &ast.OrderByItem{Expr: p.parseExpression()}

	if p.match(token.DESC) {
		item.Desc = true
	} else {
		p.match(token.ASC)
	}

	item.Span = p.span(start)
	return item
}

// parseOffsetLimit parses OFFSET n LIMIT m.
func (p *Parser) parseOffsetLimit() *ast.OffsetLimit {
	start := p.token.Pos
	p.expect(token.OFFSET)
	ol := &ast.OffsetLimit{Offset: p.parseCount()}
	if p.expect(token.LIMIT) {
		ol.Limit = p.parseCount()
	}
	ol.Span = p.span(start)
	return ol
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []ast.Expr {
	var exprs []ast.Expr
	for {
		exprs = append(exprs, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}
