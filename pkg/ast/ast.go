// Package ast defines the syntax tree produced by the parser.
//
// The node set is closed: every node is one of the types declared in this
// package. Trees are built once by the parser and never mutated afterwards;
// each node is owned by exactly one parent.
package ast

import "github.com/leapstack-labs/docsql/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// Expr is a marker interface for scalar expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Collection is a marker interface for FROM clause collection expressions.
type Collection interface {
	Node
	collectionNode()
}

// Source is what an aliased collection or array iterator ranges over:
// an input path or a subquery.
type Source interface {
	Node
	sourceNode()
}

// SelectSpec is the projection of a SELECT clause.
type SelectSpec interface {
	Node
	selectSpecNode()
}

// NodeInfo provides the source span shared by all nodes.
type NodeInfo struct {
	Span token.Span
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n NodeInfo) End() token.Position { return n.Span.End }

// ---------- Query ----------

// Query is a complete SELECT query.
type Query struct {
	NodeInfo
	Select      *SelectClause
	From        *FromClause // optional
	Where       Expr        // optional
	GroupBy     []Expr
	Having      Expr // optional, requires GroupBy
	OrderBy     *OrderByClause
	OffsetLimit *OffsetLimit
}

// SelectClause is SELECT [DISTINCT] [TOP n] spec.
type SelectClause struct {
	NodeInfo
	Distinct bool
	Top      Expr // *Literal or *Parameter
	Spec     SelectSpec
}

// SelectStar is SELECT *.
type SelectStar struct {
	NodeInfo
}

// SelectValue is SELECT VALUE expr.
type SelectValue struct {
	NodeInfo
	Expr Expr
}

// SelectList is a comma separated list of projected items.
type SelectList struct {
	NodeInfo
	Items []*SelectItem
}

// SelectItem is one projected expression with an optional alias.
type SelectItem struct {
	NodeInfo
	Expr  Expr
	Alias string
}

func (*SelectStar) selectSpecNode()  {}
func (*SelectValue) selectSpecNode() {}
func (*SelectList) selectSpecNode()  {}

// OrderByClause is ORDER BY [RANK] items.
type OrderByClause struct {
	NodeInfo
	Rank  bool
	Items []*OrderByItem
}

// OrderByItem is one sort key. Ascending unless Desc is set.
type OrderByItem struct {
	NodeInfo
	Expr Expr
	Desc bool
}

// OffsetLimit is OFFSET n LIMIT m.
type OffsetLimit struct {
	NodeInfo
	Offset Expr // *Literal or *Parameter
	Limit  Expr // *Literal or *Parameter
}
