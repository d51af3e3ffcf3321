package ast

import (
	"math"
	"reflect"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/token"
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentProperty:
		return "property"
	case SegmentKey:
		return "key"
	case SegmentIndex:
		return "index"
	case SegmentParam:
		return "param"
	}
	return "unknown"
}

// Dump converts a tree into nested maps and slices suitable for JSON or YAML
// encoding. Every node becomes a map with a "node" key naming its type and a
// "pos" key holding line:column. Zero-valued fields are omitted.
func Dump(node Node) map[string]any {
	if node == nil {
		return nil
	}
	v := reflect.ValueOf(node)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return dumpNode(v)
}

func dumpNode(v reflect.Value) map[string]any {
	if lit, ok := v.Interface().(*Literal); ok {
		return dumpLiteral(lit)
	}

	elem := v.Elem()
	out := map[string]any{
		"node": elem.Type().Name(),
		"pos":  v.Interface().(Node).Pos().String(),
	}
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Type().Field(i)
		if field.Type == nodeInfoType {
			continue
		}
		if val, ok := dumpValue(elem.Field(i)); ok {
			out[lowerFirst(field.Name)] = val
		}
	}
	return out
}

func dumpValue(v reflect.Value) (any, bool) {
	if tt, ok := v.Interface().(token.TokenType); ok {
		if tt == token.IDENT || tt == token.EOF {
			return nil, false
		}
		return tt.String(), true
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil, false
		}
		if v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		return dumpNode(v), true

	case reflect.Slice:
		if v.Len() == 0 {
			return nil, false
		}
		list := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item, ok := dumpValue(v.Index(i)); ok {
				list = append(list, item)
			}
		}
		return list, true

	case reflect.String:
		return v.String(), v.String() != ""

	case reflect.Bool:
		return v.Bool(), v.Bool()

	case reflect.Int, reflect.Int64:
		if s, ok := v.Interface().(interface{ String() string }); ok {
			return s.String(), true
		}
		return v.Int(), v.Int() != 0
	}
	return v.Interface(), true
}

func dumpLiteral(lit *Literal) map[string]any {
	out := map[string]any{
		"node": "Literal",
		"pos":  lit.Pos().String(),
		"kind": lit.Kind.String(),
	}
	switch lit.Kind {
	case LiteralString:
		out["value"] = lit.Str
	case LiteralNumber:
		switch {
		case lit.Num.IsInt:
			out["value"] = lit.Num.Int
		case math.IsNaN(lit.Num.Float):
			out["value"] = "NaN"
		case math.IsInf(lit.Num.Float, 1):
			out["value"] = "Infinity"
		default:
			out["value"] = lit.Num.Float
		}
	case LiteralBoolean:
		out["value"] = lit.Bool
	}
	return out
}

// lowerFirst converts an exported field name to lowerCamel, keeping
// initialisms together (UDF -> udf, OffsetLimit -> offsetLimit).
func lowerFirst(s string) string {
	n := 0
	for n < len(s) && s[n] >= 'A' && s[n] <= 'Z' {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(s):
		return strings.ToLower(s[:n]) + s[n:]
	}
	return strings.ToLower(s[:n-1]) + s[n-1:]
}
