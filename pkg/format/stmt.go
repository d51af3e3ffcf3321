package format

import (
	"strconv"

	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/token"
)

func (p *Printer) formatQuery(q *ast.Query) {
	if q == nil {
		return
	}

	p.formatSelectClause(q.Select)

	if q.From != nil {
		p.kw(token.FROM)
		p.space()
		p.formatCollection(q.From.Collection)
		p.writeln()
	}

	if q.Where != nil {
		p.kw(token.WHERE)
		p.block(func() { p.formatExpr(q.Where) })
	}

	if len(q.GroupBy) > 0 {
		p.kw(token.GROUP, token.BY)
		p.block(func() {
			p.formatList(len(q.GroupBy), func(i int) { p.formatExpr(q.GroupBy[i]) }, ",", true)
		})
	}

	if q.Having != nil {
		p.kw(token.HAVING)
		p.block(func() { p.formatExpr(q.Having) })
	}

	if q.OrderBy != nil {
		p.formatOrderBy(q.OrderBy)
	}

	if q.OffsetLimit != nil {
		p.kw(token.OFFSET)
		p.space()
		p.formatExpr(q.OffsetLimit.Offset)
		p.space()
		p.kw(token.LIMIT)
		p.space()
		p.formatExpr(q.OffsetLimit.Limit)
		p.writeln()
	}
}

func (p *Printer) formatSelectClause(sel *ast.SelectClause) {
	if sel == nil {
		return
	}

	// SELECT [DISTINCT] [TOP n]
	p.kw(token.SELECT)
	if sel.Distinct {
		p.space()
		p.kw(token.DISTINCT)
	}
	if sel.Top != nil {
		p.space()
		p.kw(token.TOP)
		p.space()
		p.formatExpr(sel.Top)
	}

	switch spec := sel.Spec.(type) {
	case *ast.SelectStar:
		p.write(" *")
		p.writeln()

	case *ast.SelectValue:
		p.space()
		p.kw(token.VALUE)
		p.block(func() { p.formatExpr(spec.Expr) })

	case *ast.SelectList:
		p.block(func() {
			p.formatList(len(spec.Items), func(i int) { p.formatSelectItem(spec.Items[i]) }, ",", true)
		})
	}
}

func (p *Printer) formatSelectItem(item *ast.SelectItem) {
	p.formatExpr(item.Expr)
	if item.Alias != "" {
		p.space()
		p.kw(token.AS)
		p.space()
		p.write(item.Alias)
	}
}

func (p *Printer) formatCollection(c ast.Collection) {
	switch coll := c.(type) {
	case *ast.AliasedCollection:
		p.formatSource(coll.Source)
		if coll.Alias != "" {
			p.space()
			p.kw(token.AS)
			p.space()
			p.write(coll.Alias)
		}

	case *ast.ArrayIterator:
		p.write(coll.Alias)
		p.space()
		p.kw(token.IN)
		p.space()
		p.formatSource(coll.Source)

	case *ast.JoinCollection:
		p.formatCollection(coll.Left)
		p.writeln()
		p.kw(token.JOIN)
		p.space()
		p.formatCollection(coll.Right)
	}
}

func (p *Printer) formatSource(s ast.Source) {
	switch src := s.(type) {
	case *ast.InputPath:
		p.write(src.Input)
		for _, seg := range src.Path {
			p.formatPathSegment(seg)
		}

	case *ast.SubqueryCollection:
		p.formatSubquery(src.Query)
	}
}

func (p *Printer) formatPathSegment(seg *ast.PathSegment) {
	switch seg.Kind {
	case ast.SegmentProperty:
		p.write(".")
		p.write(seg.Name)
	case ast.SegmentKey:
		p.write("[")
		p.write(quoteString(seg.Name))
		p.write("]")
	case ast.SegmentIndex:
		p.write("[")
		p.write(strconv.FormatInt(seg.Index, 10))
		p.write("]")
	case ast.SegmentParam:
		p.write("[@")
		p.write(seg.Name)
		p.write("]")
	}
}

func (p *Printer) formatOrderBy(ob *ast.OrderByClause) {
	p.kw(token.ORDER, token.BY)
	if ob.Rank {
		p.space()
		p.kw(token.RANK)
	}
	p.block(func() {
		p.formatList(len(ob.Items), func(i int) {
			item := ob.Items[i]
			p.formatExpr(item.Expr)
			if item.Desc {
				p.space()
				p.kw(token.DESC)
			}
		}, ",", true)
	})
}

// formatSubquery prints a parenthesized query, indented one level in pretty
// output.
func (p *Printer) formatSubquery(q *ast.Query) {
	p.write("(")
	p.writeln()
	p.indent()
	p.formatQuery(q)
	p.dedent()
	p.write(")")
}
