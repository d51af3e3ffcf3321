package parser

import (
	"strconv"

	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// FROM clause parsing: collections, aliases, array iterators, joins.
//
// Grammar:
//
//	from          → collection_expr (JOIN collection_expr)*
//	collection_expr → identifier IN source          (array iterator)
//	                | source [[AS] identifier]
//	source        → identifier path* | "(" query ")"
//	path          → "." name | "[" NUMBER "]" | "[" STRING "]" | "[" PARAM "]"
//
// Unlike select items, a collection alias does not need AS.

// parseFromClause parses FROM and its collection expression.
func (p *Parser) parseFromClause() *ast.FromClause {
	defer p.restoreDepth(p.depth)

	start := p.token.Pos
	p.expect(token.FROM)

	collStart := p.token.Pos
	from := &ast.FromClause{Collection: p.parseCollectionExpr()}
	for p.check(token.JOIN) {
		if !p.descend() {
			return nil
		}
		p.nextToken()
		right := p.parseCollectionExpr()
		from.Collection = &ast.JoinCollection{
			NodeInfo: ast.NodeInfo{Span: p.span(collStart)},
			Left:     from.Collection,
			Right:    right,
		}
	}

	from.Span = p.span(start)
	return from
}

// parseCollectionExpr parses one aliased collection or array iterator.
func (p *Parser) parseCollectionExpr() ast.Collection {
	start := p.token.Pos

	if isName(p.token) && p.checkPeek(token.IN) {
		alias := p.parseName()
		p.expect(token.IN)
		src := p.parseSource()
		return &ast.ArrayIterator{
			NodeInfo: ast.NodeInfo{Span: p.span(start)},
			Alias:    alias,
			Source:   src,
		}
	}

	coll := &ast.AliasedCollection{Source: p.parseSource()}
	switch {
	case p.match(token.AS):
		coll.Alias = p.parseName()
	case isName(p.token):
		coll.Alias = p.parseName()
	}
	coll.Span = p.span(start)
	return coll
}

// parseSource parses an input path or a parenthesized subquery.
func (p *Parser) parseSource() ast.Source {
	start := p.token.Pos

	if p.match(token.LPAREN) {
		q := p.parseQuery()
		p.expect(token.RPAREN)
		return &ast.SubqueryCollection{NodeInfo: ast.NodeInfo{Span: p.span(start)}, Query: q}
	}

	if !isName(p.token) {
		p.errorExpected("collection")
		return nil
	}

	path := &ast.InputPath{Input: p.parseName()}
	for {
		segStart := p.token.Pos
		var seg *ast.PathSegment

		switch {
		case p.match(token.DOT):
			if !token.IsWord(p.token.Type) {
				p.errorExpected("property name")
				return path
			}
			seg = &ast.PathSegment{Kind: ast.SegmentProperty, Name: p.token.Literal}
			p.nextToken()

		case p.match(token.LBRACKET):
			seg = p.parsePathIndex()
			p.expect(token.RBRACKET)
		}

		if seg == nil || p.err != nil {
			break
		}
		seg.Span = p.span(segStart)
		path.Path = append(path.Path, seg)
	}

	path.Span = p.span(start)
	return path
}

// parsePathIndex parses the inside of a [ ] path step.
func (p *Parser) parsePathIndex() *ast.PathSegment {
	switch p.token.Type {
	case token.NUMBER:
		n, err := strconv.ParseInt(p.token.Literal, 10, 64)
		if err != nil || n < 0 {
			p.errorExpected("array index")
			return nil
		}
		p.nextToken()
		return &ast.PathSegment{Kind: ast.SegmentIndex, Index: n}

	case token.STRING:
		s := p.parseStringValue()
		return &ast.PathSegment{Kind: ast.SegmentKey, Name: s}

	case token.PARAM:
		name := p.token.Literal[1:]
		p.nextToken()
		return &ast.PathSegment{Kind: ast.SegmentParam, Name: name}
	}
	p.errorExpected("array index, property name or parameter")
	return nil
}
