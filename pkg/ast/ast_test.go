package ast_test

import (
	"math"
	"testing"

	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/leapstack-labs/docsql/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *ast.Query {
	t.Helper()
	q, err := parser.Parse(input)
	require.NoError(t, err, input)
	return q
}

// ---------- Walk Tests ----------

func TestWalkVisitsInSourceOrder(t *testing.T) {
	q := mustParse(t, "SELECT c.a, c.b FROM c WHERE c.x = @p ORDER BY c.y")

	var props []string
	ast.Walk(q, func(n ast.Node) bool {
		if ref, ok := n.(*ast.PropertyRef); ok {
			props = append(props, ref.Property)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "x", "y"}, props)
}

func TestWalkSkipsChildren(t *testing.T) {
	q := mustParse(t, "SELECT * FROM c WHERE EXISTS (SELECT VALUE t FROM t IN c.tags WHERE t = @inner) AND c.x = @outer")

	var params []string
	ast.Walk(q, func(n ast.Node) bool {
		if _, ok := n.(*ast.ExistsExpr); ok {
			return false
		}
		if p, ok := n.(*ast.Parameter); ok {
			params = append(params, p.Name)
		}
		return true
	})
	assert.Equal(t, []string{"outer"}, params)
}

func TestWalkNil(t *testing.T) {
	called := false
	ast.Walk(nil, func(ast.Node) bool {
		called = true
		return true
	})
	assert.False(t, called)
}

func TestCollect(t *testing.T) {
	q := mustParse(t, "SELECT COUNT(1), udf.f(ABS(c.x)) FROM c JOIN t IN c.tags")

	calls := ast.Collect[*ast.FuncCall](q)
	require.Len(t, calls, 3)
	assert.Equal(t, "COUNT", calls[0].Name)
	assert.Equal(t, "f", calls[1].Name)
	assert.True(t, calls[1].UDF)
	assert.Equal(t, "ABS", calls[2].Name)
	assert.Equal(t, token.ABS, calls[2].Builtin)

	iters := ast.Collect[*ast.ArrayIterator](q)
	require.Len(t, iters, 1)
	assert.Equal(t, "t", iters[0].Alias)

	assert.Empty(t, ast.Collect[*ast.CaseExpr](q))
}

func TestParameters(t *testing.T) {
	q := mustParse(t, "SELECT TOP @n c[@key] FROM c[@key] WHERE c.a = @a OR c.b = @a OFFSET @off LIMIT @n")
	assert.Equal(t, []string{"n", "key", "a", "off"}, ast.Parameters(q))

	q = mustParse(t, "SELECT * FROM c")
	assert.Empty(t, ast.Parameters(q))
}

func TestParametersInFromPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"path then where", "SELECT * FROM c[@p] WHERE c.x = @q", []string{"p", "q"}},
		{"path only", "SELECT * FROM c.items[@idx]", []string{"idx"}},
		{"iterator source", "SELECT VALUE t FROM t IN c.tags[@k]", []string{"k"}},
		{"repeated in path and where", "SELECT * FROM c[@p] WHERE c[@p] = 1", []string{"p"}},
		{"join", "SELECT * FROM c JOIN t IN c[@a][@b]", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Parameters(mustParse(t, tt.input)))
		})
	}
}

// ---------- Equal Tests ----------

func TestEqualIgnoresPositions(t *testing.T) {
	a := mustParse(t, "SELECT c.id FROM c WHERE c.x = 1")
	b := mustParse(t, "SELECT   c.id\n  FROM c\n  WHERE (c.x = 1)")
	assert.True(t, ast.Equal(a, b))
}

func TestEqualDetectsDifferences(t *testing.T) {
	base := mustParse(t, "SELECT c.id FROM c WHERE c.x = 1")
	for _, other := range []string{
		"SELECT c.id FROM c WHERE c.x = 2",
		"SELECT c.id FROM c WHERE c.x != 1",
		"SELECT c.id FROM c WHERE c.y = 1",
		"SELECT c.id AS i FROM c WHERE c.x = 1",
		"SELECT DISTINCT c.id FROM c WHERE c.x = 1",
		"SELECT c.id FROM c",
		"SELECT c.id FROM d WHERE c.x = 1",
		"SELECT c.id FROM c WHERE c.x = 1.0",
	} {
		assert.False(t, ast.Equal(base, mustParse(t, other)), other)
	}
}

func TestEqualNaN(t *testing.T) {
	a := &ast.Literal{Kind: ast.LiteralNumber, Num: ast.Number{Float: math.NaN()}}
	b := &ast.Literal{Kind: ast.LiteralNumber, Num: ast.Number{Float: math.NaN()}}
	assert.True(t, ast.Equal(a, b))

	c := &ast.Literal{Kind: ast.LiteralNumber, Num: ast.Number{Float: math.Inf(1)}}
	assert.False(t, ast.Equal(a, c))
}

func TestEqualNil(t *testing.T) {
	assert.True(t, ast.Equal(nil, nil))
	assert.False(t, ast.Equal(nil, &ast.Identifier{Name: "c"}))
	assert.False(t, ast.Equal(&ast.Identifier{Name: "c"}, &ast.Parameter{Name: "c"}))
}

// ---------- Collection Tests ----------

func TestAliasedCollectionName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SELECT * FROM c", "c"},
		{"SELECT * FROM root r", "r"},
		{"SELECT * FROM root.children", "children"},
		{"SELECT * FROM root['kids'][0]", "kids"},
		{"SELECT * FROM root[0]", "root"},
		{"SELECT * FROM (SELECT * FROM c)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q := mustParse(t, tt.input)
			coll, ok := q.From.Collection.(*ast.AliasedCollection)
			require.True(t, ok)
			assert.Equal(t, tt.want, coll.Name())
		})
	}
}

// ---------- Dump Tests ----------

func TestDump(t *testing.T) {
	q := mustParse(t, "SELECT c.id AS i FROM c WHERE c.n > 1.5")
	d := ast.Dump(q)

	assert.Equal(t, "Query", d["node"])
	assert.Equal(t, "1:1", d["pos"])
	assert.NotContains(t, d, "groupBy")
	assert.NotContains(t, d, "orderBy")

	sel := d["select"].(map[string]any)
	assert.Equal(t, "SelectClause", sel["node"])
	assert.NotContains(t, sel, "distinct")

	items := sel["spec"].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "i", item["alias"])
	assert.Equal(t, "PropertyRef", item["expr"].(map[string]any)["node"])

	where := d["where"].(map[string]any)
	assert.Equal(t, "BinaryExpr", where["node"])
	assert.Equal(t, ">", where["op"])
	assert.Equal(t, "1:31", where["pos"])

	right := where["right"].(map[string]any)
	assert.Equal(t, "Literal", right["node"])
	assert.Equal(t, "number", right["kind"])
	assert.InDelta(t, 1.5, right["value"], 0)
}

func TestDumpLiterals(t *testing.T) {
	tests := []struct {
		expr string
		kind string
		want any
	}{
		{"42", "number", int64(42)},
		{"'x'", "string", "x"},
		{"true", "boolean", true},
		{"false", "boolean", false},
		{"NaN", "number", "NaN"},
		{"Infinity", "number", "Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := parser.ParseExpr(tt.expr)
			require.NoError(t, err)
			d := ast.Dump(e)
			assert.Equal(t, tt.kind, d["kind"])
			assert.Equal(t, tt.want, d["value"])
		})
	}

	e, err := parser.ParseExpr("null")
	require.NoError(t, err)
	assert.NotContains(t, ast.Dump(e), "value")
}

func TestDumpFuncCall(t *testing.T) {
	e, err := parser.ParseExpr("ABS(udf.f(@p))")
	require.NoError(t, err)
	d := ast.Dump(e)
	assert.Equal(t, "ABS", d["builtin"])

	inner := d["args"].([]any)[0].(map[string]any)
	assert.Equal(t, true, inner["udf"])
	assert.NotContains(t, inner, "builtin")
	param := inner["args"].([]any)[0].(map[string]any)
	assert.Equal(t, "Parameter", param["node"])
	assert.Equal(t, "p", param["name"])
}

func TestDumpNil(t *testing.T) {
	assert.Nil(t, ast.Dump(nil))
	var q *ast.Query
	assert.Nil(t, ast.Dump(q))
}
