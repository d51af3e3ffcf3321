package ast

// ---------- FROM Clause ----------

// FromClause holds the root collection expression of a query.
type FromClause struct {
	NodeInfo
	Collection Collection
}

// AliasedCollection ranges over Source, optionally naming it.
//
//	FROM c
//	FROM root.children AS ch
//	FROM (SELECT VALUE c.tags FROM c) t
type AliasedCollection struct {
	NodeInfo
	Source Source
	Alias  string // empty when not given
}

// Name returns the alias a query uses to refer to the collection: the explicit
// alias, else the last property of the input path, else the input name.
func (a *AliasedCollection) Name() string {
	if a.Alias != "" {
		return a.Alias
	}
	p, ok := a.Source.(*InputPath)
	if !ok {
		return ""
	}
	for i := len(p.Path) - 1; i >= 0; i-- {
		if p.Path[i].Kind == SegmentProperty || p.Path[i].Kind == SegmentKey {
			return p.Path[i].Name
		}
	}
	return p.Input
}

// ArrayIterator binds Alias to each element of Source.
//
//	FROM t IN c.tags
type ArrayIterator struct {
	NodeInfo
	Alias  string
	Source Source
}

// JoinCollection is the self-join of two collection expressions.
type JoinCollection struct {
	NodeInfo
	Left  Collection
	Right Collection
}

func (*AliasedCollection) collectionNode() {}
func (*ArrayIterator) collectionNode()     {}
func (*JoinCollection) collectionNode()    {}

// InputPath is a named input followed by property and index steps.
type InputPath struct {
	NodeInfo
	Input string // root, c, ...
	Path  []*PathSegment
}

// SubqueryCollection is a parenthesized query used as a collection.
type SubqueryCollection struct {
	NodeInfo
	Query *Query
}

func (*InputPath) sourceNode()          {}
func (*SubqueryCollection) sourceNode() {}

// SegmentKind is the kind of step in an input path.
type SegmentKind int

// Path segment kinds.
const (
	SegmentProperty SegmentKind = iota // .name
	SegmentKey                         // ["name"]
	SegmentIndex                       // [0]
	SegmentParam                       // [@p]
)

// PathSegment is one step of an InputPath. Name holds the property, key or
// parameter name; Index holds the array index.
type PathSegment struct {
	NodeInfo
	Kind  SegmentKind
	Name  string
	Index int64
}
