package ast

import "github.com/leapstack-labs/docsql/pkg/token"

// ---------- References ----------

// Identifier is a bare name at the root of a property path.
type Identifier struct {
	NodeInfo
	Name string
}

// PropertyRef is member.property.
type PropertyRef struct {
	NodeInfo
	Member   Expr
	Property string
}

// IndexExpr is member[index].
type IndexExpr struct {
	NodeInfo
	Member Expr
	Index  Expr
}

// Parameter is a named query parameter. Name excludes the leading '@'.
type Parameter struct {
	NodeInfo
	Name string
}

// ---------- Literals ----------

// LiteralKind is the type of a literal value.
type LiteralKind int

// Literal kinds.
const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralNull
	LiteralUndefined
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralNumber:
		return "number"
	case LiteralBoolean:
		return "boolean"
	case LiteralNull:
		return "null"
	case LiteralUndefined:
		return "undefined"
	}
	return "unknown"
}

// Number is a numeric literal value. Integers that fit in int64 keep their
// exact value in Int; all numbers carry their float64 value in Float.
type Number struct {
	Int   int64
	Float float64
	IsInt bool
}

// Literal is a typed scalar constant.
type Literal struct {
	NodeInfo
	Kind LiteralKind
	Str  string // decoded value for LiteralString
	Num  Number
	Bool bool
}

// ---------- Operators ----------

// UnaryExpr is a prefix operator applied to an operand: - + ~ NOT.
type UnaryExpr struct {
	NodeInfo
	Op      token.TokenType
	Operand Expr
}

// BinaryExpr is left op right. Precedence is encoded in the tree shape.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

// ConditionalExpr is cond ? then : else.
type ConditionalExpr struct {
	NodeInfo
	Cond Expr
	Then Expr
	Else Expr
}

// CoalesceExpr is left ?? right.
type CoalesceExpr struct {
	NodeInfo
	Left  Expr
	Right Expr
}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	NodeInfo
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

// InExpr is expr [NOT] IN (values).
type InExpr struct {
	NodeInfo
	Expr   Expr
	Not    bool
	Values []Expr
}

// LikeExpr is expr [NOT] LIKE pattern [ESCAPE escape].
type LikeExpr struct {
	NodeInfo
	Expr    Expr
	Not     bool
	Pattern Expr
	Escape  Expr // optional
}

// ---------- Calls and constructors ----------

// FuncCall is name(args) or udf.name(args).
type FuncCall struct {
	NodeInfo
	Name    string          // as written
	UDF     bool            // udf.name(...)
	Builtin token.TokenType // keyword type for built-ins, IDENT otherwise
	Args    []Expr
}

// ArrayCreate is [a, b, ...].
type ArrayCreate struct {
	NodeInfo
	Items []Expr
}

// ObjectCreate is {"name": value, ...}.
type ObjectCreate struct {
	NodeInfo
	Properties []*ObjectProperty
}

// ObjectProperty is one name/value pair of an ObjectCreate.
type ObjectProperty struct {
	NodeInfo
	Name  string
	Value Expr
}

// CaseExpr is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	NodeInfo
	Operand Expr // nil for searched CASE
	Whens   []*WhenClause
	Else    Expr
}

// WhenClause is WHEN condition THEN result.
type WhenClause struct {
	NodeInfo
	Condition Expr
	Result    Expr
}

// ---------- Subqueries ----------

// SubqueryExpr is a parenthesized query used as a scalar.
type SubqueryExpr struct {
	NodeInfo
	Query *Query
}

// ExistsExpr is EXISTS(query).
type ExistsExpr struct {
	NodeInfo
	Query *Query
}

// ArrayExpr is ARRAY(query).
type ArrayExpr struct {
	NodeInfo
	Query *Query
}

func (*Identifier) exprNode()      {}
func (*PropertyRef) exprNode()     {}
func (*IndexExpr) exprNode()       {}
func (*Parameter) exprNode()       {}
func (*Literal) exprNode()         {}
func (*UnaryExpr) exprNode()       {}
func (*BinaryExpr) exprNode()      {}
func (*ConditionalExpr) exprNode() {}
func (*CoalesceExpr) exprNode()    {}
func (*BetweenExpr) exprNode()     {}
func (*InExpr) exprNode()          {}
func (*LikeExpr) exprNode()        {}
func (*FuncCall) exprNode()        {}
func (*ArrayCreate) exprNode()     {}
func (*ObjectCreate) exprNode()    {}
func (*CaseExpr) exprNode()        {}
func (*SubqueryExpr) exprNode()    {}
func (*ExistsExpr) exprNode()      {}
func (*ArrayExpr) exprNode()       {}
