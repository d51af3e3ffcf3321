package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/leapstack-labs/docsql/internal/cli/output"
)

// childOrder lists child fields in the order they appear in query text.
// Fields not listed sort after these, alphabetically.
var childOrder = []string{
	"select", "top", "spec", "from", "collection", "source",
	"member", "left", "operand", "expr", "cond", "then",
	"where", "groupBy", "having", "orderBy", "offsetLimit", "offset", "limit",
	"items", "values", "low", "high", "pattern", "escape",
	"args", "properties", "value", "whens", "condition", "result",
	"else", "right", "index", "path", "query",
}

var childRank = func() map[string]int {
	m := make(map[string]int, len(childOrder))
	for i, k := range childOrder {
		m[k] = i
	}
	return m
}()

// renderTree draws a dumped syntax tree as an indented outline.
func renderTree(s *output.Styles, root map[string]any) string {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedLight)
	appendNode(l, s, "", root)
	return l.Render()
}

func appendNode(l list.Writer, s *output.Styles, label string, n map[string]any) {
	l.AppendItem(label + nodeLine(s, n))

	children := childKeys(n)
	if len(children) == 0 {
		return
	}
	l.Indent()
	for _, key := range children {
		field := s.Field.Render(key + ":")
		switch v := n[key].(type) {
		case map[string]any:
			appendNode(l, s, field+" ", v)
		case []any:
			l.AppendItem(field)
			l.Indent()
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					appendNode(l, s, "", m)
				}
			}
			l.UnIndent()
		}
	}
	l.UnIndent()
}

// nodeLine renders the node type, its position and its scalar attributes.
func nodeLine(s *output.Styles, n map[string]any) string {
	var sb strings.Builder
	sb.WriteString(s.NodeType.Render(fmt.Sprint(n["node"])))
	if pos, ok := n["pos"].(string); ok {
		sb.WriteString(" ")
		sb.WriteString(s.Muted.Render(pos))
	}
	for _, key := range scalarKeys(n) {
		sb.WriteString(" ")
		sb.WriteString(s.Field.Render(key + "="))
		sb.WriteString(scalarText(n[key]))
	}
	return sb.String()
}

func scalarText(v any) string {
	if str, ok := v.(string); ok {
		return fmt.Sprintf("%q", str)
	}
	return fmt.Sprint(v)
}

func isChild(v any) bool {
	switch v := v.(type) {
	case map[string]any:
		return true
	case []any:
		for _, item := range v {
			if _, ok := item.(map[string]any); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func scalarKeys(n map[string]any) []string {
	var keys []string
	for k, v := range n {
		if k == "node" || k == "pos" || isChild(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func childKeys(n map[string]any) []string {
	var keys []string
	for k, v := range n {
		if isChild(v) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := childRank[keys[i]]
		rj, jok := childRank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})
	return keys
}
