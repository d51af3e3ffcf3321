package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/token"
)

const complexityThreshold = 5

// Binding strength of printed expressions, loosest first. These mirror the
// parser's precedence levels.
const (
	precConditional = iota + 1
	precCoalesce
	precOr
	precAnd
	precComparison
	precBitOr
	precBitXor
	precBitAnd
	precAddition
	precMultiply
	precUnary
	precPostfix
)

func binaryPrecedence(op token.TokenType) int {
	switch op {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NE, token.LTGT, token.LT, token.GT, token.LE, token.GE:
		return precComparison
	case token.PIPE:
		return precBitOr
	case token.CARET:
		return precBitXor
	case token.AMP:
		return precBitAnd
	case token.PLUS, token.MINUS, token.DPIPE:
		return precAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiply
	}
	return precPostfix
}

func precedenceOf(e ast.Expr) int {
	switch expr := e.(type) {
	case *ast.ConditionalExpr:
		return precConditional
	case *ast.CoalesceExpr:
		return precCoalesce
	case *ast.BinaryExpr:
		return binaryPrecedence(expr.Op)
	case *ast.BetweenExpr, *ast.InExpr, *ast.LikeExpr:
		return precComparison
	case *ast.UnaryExpr:
		return precUnary
	}
	return precPostfix
}

func (p *Printer) formatExpr(e ast.Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *ast.Literal:
		p.formatLiteral(expr)
	case *ast.Identifier:
		p.write(expr.Name)
	case *ast.Parameter:
		p.write("@" + expr.Name)
	case *ast.PropertyRef:
		p.formatOperand(expr.Member, precPostfix)
		p.write(".")
		p.write(expr.Property)
	case *ast.IndexExpr:
		p.formatOperand(expr.Member, precPostfix)
		p.write("[")
		p.formatExpr(expr.Index)
		p.write("]")
	case *ast.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *ast.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *ast.ConditionalExpr:
		p.formatOperand(expr.Cond, precCoalesce)
		p.write(" ? ")
		p.formatExpr(expr.Then)
		p.write(" : ")
		p.formatOperand(expr.Else, precConditional)
	case *ast.CoalesceExpr:
		p.formatOperand(expr.Left, precCoalesce)
		p.write(" ?? ")
		p.formatOperand(expr.Right, precOr)
	case *ast.BetweenExpr:
		p.formatBetweenExpr(expr)
	case *ast.InExpr:
		p.formatInExpr(expr)
	case *ast.LikeExpr:
		p.formatLikeExpr(expr)
	case *ast.FuncCall:
		p.formatFuncCall(expr)
	case *ast.ArrayCreate:
		p.write("[")
		p.formatList(len(expr.Items), func(i int) { p.formatExpr(expr.Items[i]) }, ", ", false)
		p.write("]")
	case *ast.ObjectCreate:
		p.formatObjectCreate(expr)
	case *ast.CaseExpr:
		p.formatCaseExpr(expr)
	case *ast.SubqueryExpr:
		p.formatSubquery(expr.Query)
	case *ast.ExistsExpr:
		p.kw(token.EXISTS)
		p.space()
		p.formatSubquery(expr.Query)
	case *ast.ArrayExpr:
		p.kw(token.ARRAY)
		p.formatSubquery(expr.Query)
	}
}

// formatOperand prints e, parenthesized when it binds looser than min.
func (p *Printer) formatOperand(e ast.Expr, minPrec int) {
	if precedenceOf(e) < minPrec {
		p.write("(")
		p.formatExpr(e)
		p.write(")")
		return
	}
	p.formatExpr(e)
}

func (p *Printer) exprComplexity(e ast.Expr) int {
	if e == nil {
		return 0
	}

	switch expr := e.(type) {
	case *ast.BinaryExpr:
		return 1 + p.exprComplexity(expr.Left) + p.exprComplexity(expr.Right)
	case *ast.UnaryExpr:
		return 1 + p.exprComplexity(expr.Operand)
	case *ast.FuncCall:
		score := 2
		for _, arg := range expr.Args {
			score += p.exprComplexity(arg)
		}
		return score
	case *ast.CaseExpr:
		score := 2
		for _, w := range expr.Whens {
			score += p.exprComplexity(w.Condition) + p.exprComplexity(w.Result)
		}
		return score
	case *ast.BetweenExpr:
		return 1 + p.exprComplexity(expr.Expr) + p.exprComplexity(expr.Low) + p.exprComplexity(expr.High)
	case *ast.InExpr:
		score := 1 + p.exprComplexity(expr.Expr)
		for _, v := range expr.Values {
			score += p.exprComplexity(v)
		}
		return score
	default:
		return 1
	}
}

func isLogicalOp(op token.TokenType) bool {
	return op == token.AND || op == token.OR
}

func (p *Printer) formatLiteral(lit *ast.Literal) {
	switch lit.Kind {
	case ast.LiteralString:
		p.write(quoteString(lit.Str))
	case ast.LiteralNumber:
		p.formatNumber(lit.Num)
	case ast.LiteralBoolean:
		if lit.Bool {
			p.kw(token.TRUE)
		} else {
			p.kw(token.FALSE)
		}
	case ast.LiteralNull:
		p.kw(token.NULL)
	case ast.LiteralUndefined:
		p.kw(token.UNDEFINED)
	}
}

// formatNumber prints a number so that it lexes back to the same value and
// kind: integral floats keep a fraction so they stay floats.
func (p *Printer) formatNumber(n ast.Number) {
	switch {
	case n.IsInt:
		p.write(strconv.FormatInt(n.Int, 10))
	case math.IsNaN(n.Float):
		p.kw(token.NAN)
	case math.IsInf(n.Float, 1):
		p.kw(token.INFINITY)
	case math.IsInf(n.Float, -1):
		p.write("-")
		p.kw(token.INFINITY)
	default:
		s := strconv.FormatFloat(n.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		p.write(s)
	}
}

// quoteString renders s as a single-quoted literal.
func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteByte(s[i])
			i++
			continue
		}
		i += size
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func (p *Printer) formatUnaryExpr(expr *ast.UnaryExpr) {
	p.kw(expr.Op)
	// NOT needs a separator; "- -x" must not collapse into a comment.
	if _, nested := expr.Operand.(*ast.UnaryExpr); expr.Op == token.NOT || nested {
		p.space()
	}
	p.formatOperand(expr.Operand, precUnary)
}

func (p *Printer) formatBinaryExpr(expr *ast.BinaryExpr) {
	prec := binaryPrecedence(expr.Op)
	shouldBreak := !p.opts.Compact && isLogicalOp(expr.Op) && p.exprComplexity(expr) > complexityThreshold

	p.formatOperand(expr.Left, prec)

	if shouldBreak {
		p.writeln()
		p.kw(expr.Op)
		p.space()
	} else {
		p.space()
		p.kw(expr.Op)
		p.space()
	}

	// Left-associative: an equal-precedence right operand keeps its parentheses
	p.formatOperand(expr.Right, prec+1)
}

func (p *Printer) formatBetweenExpr(b *ast.BetweenExpr) {
	p.formatOperand(b.Expr, precComparison)
	if b.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.BETWEEN)
	p.space()
	p.formatOperand(b.Low, precBitOr)
	p.space()
	p.kw(token.AND)
	p.space()
	p.formatOperand(b.High, precBitOr)
}

func (p *Printer) formatInExpr(in *ast.InExpr) {
	p.formatOperand(in.Expr, precComparison)
	if in.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.IN)
	p.write(" (")
	p.formatList(len(in.Values), func(i int) { p.formatExpr(in.Values[i]) }, ", ", false)
	p.write(")")
}

func (p *Printer) formatLikeExpr(like *ast.LikeExpr) {
	p.formatOperand(like.Expr, precComparison)
	if like.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.LIKE)
	p.space()
	p.formatOperand(like.Pattern, precBitOr)
	if like.Escape != nil {
		p.space()
		p.kw(token.ESCAPE)
		p.space()
		p.formatOperand(like.Escape, precBitOr)
	}
}

func (p *Printer) formatFuncCall(fn *ast.FuncCall) {
	if fn.UDF {
		p.kw(token.UDF)
		p.write(".")
	}
	p.write(fn.Name)
	p.write("(")
	p.formatList(len(fn.Args), func(i int) { p.formatExpr(fn.Args[i]) }, ", ", false)
	p.write(")")
}

func (p *Printer) formatObjectCreate(obj *ast.ObjectCreate) {
	p.write("{")
	p.formatList(len(obj.Properties), func(i int) {
		prop := obj.Properties[i]
		p.write(quoteString(prop.Name))
		p.write(": ")
		p.formatExpr(prop.Value)
	}, ", ", false)
	p.write("}")
}

func (p *Printer) formatCaseExpr(c *ast.CaseExpr) {
	p.kw(token.CASE)

	if c.Operand != nil {
		p.space()
		p.formatExpr(c.Operand)
	}

	p.writeln()
	p.indent()

	for _, w := range c.Whens {
		p.kw(token.WHEN)
		p.space()
		p.formatExpr(w.Condition)
		p.space()
		p.kw(token.THEN)
		p.space()
		p.formatExpr(w.Result)
		p.writeln()
	}

	if c.Else != nil {
		p.kw(token.ELSE)
		p.space()
		p.formatExpr(c.Else)
		p.writeln()
	}

	p.dedent()
	p.kw(token.END)
}
