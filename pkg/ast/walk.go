package ast

// Walk traverses a tree depth-first in source order and calls fn for each
// node. If fn returns false, the children of that node are skipped.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	walkChildren(node, fn)
}

func walkExprs(list []Expr, fn func(Node) bool) {
	for _, e := range list {
		Walk(e, fn)
	}
}

//nolint:gocyclo // one case per node type
func walkChildren(node Node, fn func(Node) bool) {
	switch n := node.(type) {
	case *Query:
		if n.Select != nil {
			Walk(n.Select, fn)
		}
		if n.From != nil {
			Walk(n.From, fn)
		}
		Walk(n.Where, fn)
		walkExprs(n.GroupBy, fn)
		Walk(n.Having, fn)
		if n.OrderBy != nil {
			Walk(n.OrderBy, fn)
		}
		if n.OffsetLimit != nil {
			Walk(n.OffsetLimit, fn)
		}

	case *SelectClause:
		Walk(n.Top, fn)
		Walk(n.Spec, fn)

	case *SelectStar:

	case *SelectValue:
		Walk(n.Expr, fn)

	case *SelectList:
		for _, item := range n.Items {
			Walk(item, fn)
		}

	case *SelectItem:
		Walk(n.Expr, fn)

	case *FromClause:
		Walk(n.Collection, fn)

	case *AliasedCollection:
		Walk(n.Source, fn)

	case *ArrayIterator:
		Walk(n.Source, fn)

	case *JoinCollection:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *InputPath:
		for _, seg := range n.Path {
			Walk(seg, fn)
		}

	case *SubqueryCollection:
		Walk(n.Query, fn)

	case *OrderByClause:
		for _, item := range n.Items {
			Walk(item, fn)
		}

	case *OrderByItem:
		Walk(n.Expr, fn)

	case *OffsetLimit:
		Walk(n.Offset, fn)
		Walk(n.Limit, fn)

	case *PropertyRef:
		Walk(n.Member, fn)

	case *IndexExpr:
		Walk(n.Member, fn)
		Walk(n.Index, fn)

	case *UnaryExpr:
		Walk(n.Operand, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *ConditionalExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)

	case *CoalesceExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *BetweenExpr:
		Walk(n.Expr, fn)
		Walk(n.Low, fn)
		Walk(n.High, fn)

	case *InExpr:
		Walk(n.Expr, fn)
		walkExprs(n.Values, fn)

	case *LikeExpr:
		Walk(n.Expr, fn)
		Walk(n.Pattern, fn)
		Walk(n.Escape, fn)

	case *FuncCall:
		walkExprs(n.Args, fn)

	case *ArrayCreate:
		walkExprs(n.Items, fn)

	case *ObjectCreate:
		for _, prop := range n.Properties {
			Walk(prop, fn)
		}

	case *ObjectProperty:
		Walk(n.Value, fn)

	case *CaseExpr:
		Walk(n.Operand, fn)
		for _, w := range n.Whens {
			Walk(w, fn)
		}
		Walk(n.Else, fn)

	case *WhenClause:
		Walk(n.Condition, fn)
		Walk(n.Result, fn)

	case *SubqueryExpr:
		Walk(n.Query, fn)

	case *ExistsExpr:
		Walk(n.Query, fn)

	case *ArrayExpr:
		Walk(n.Query, fn)
	}
}

// Collect returns every node of type T under root, in source order.
func Collect[T Node](root Node) []T {
	var out []T
	Walk(root, func(n Node) bool {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Parameters returns the distinct parameter names referenced under root,
// in order of first use. Parameters in FROM paths such as c[@p] count.
func Parameters(root Node) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	Walk(root, func(n Node) bool {
		switch n := n.(type) {
		case *Parameter:
			add(n.Name)
		case *PathSegment:
			if n.Kind == SegmentParam {
				add(n.Name)
			}
		}
		return true
	})
	return names
}
