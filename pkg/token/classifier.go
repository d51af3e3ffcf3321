package token

import "fmt"

// Trie edges: a-z (case folded) 0-25, 0-9 26-35, '_' 36.
const edgeCount = 37

// maxKeywordLen bounds the length buckets. Longer spans are never keywords.
const maxKeywordLen = 32

type trieNode struct {
	next    [edgeCount]uint16 // node index, 0 means no edge
	keyword int16             // keywordTable index + 1, 0 on inner nodes
}

// classifier is a set of tries, one per spelling length. Node 0 is unused so
// the zero value of an edge means "absent".
type classifier struct {
	roots [maxKeywordLen + 1]uint16
	nodes []trieNode
}

var std = buildClassifier()

func init() {
	for i := range keywordIndex {
		keywordIndex[i] = -1
	}
	for i, kw := range keywordTable {
		if !IsKeyword(kw.Type) {
			panic(fmt.Sprintf("token: %q has non-keyword type %d", kw.Spelling, kw.Type))
		}
		slot := kw.Type - keywordBeg - 1
		if keywordIndex[slot] != -1 {
			panic(fmt.Sprintf("token: keyword type of %q listed twice", kw.Spelling))
		}
		keywordIndex[slot] = int16(i)
	}
	for i, idx := range keywordIndex {
		if idx == -1 {
			panic(fmt.Sprintf("token: keyword type %d has no table entry", keywordBeg+1+TokenType(i)))
		}
	}
}

func buildClassifier() *classifier {
	c := &classifier{nodes: make([]trieNode, 1, 2048)}
	for i, kw := range keywordTable {
		n := len(kw.Spelling)
		if n == 0 || n > maxKeywordLen {
			panic(fmt.Sprintf("token: keyword %q length out of range", kw.Spelling))
		}
		if c.roots[n] == 0 {
			c.roots[n] = c.newNode()
		}
		node := c.roots[n]
		for j := 0; j < n; j++ {
			e := edgeIndex(kw.Spelling[j])
			if e < 0 {
				panic(fmt.Sprintf("token: keyword %q has unsupported character %q", kw.Spelling, kw.Spelling[j]))
			}
			next := c.nodes[node].next[e]
			if next == 0 {
				next = c.newNode()
				c.nodes[node].next[e] = next
			}
			node = next
		}
		if prev := c.nodes[node].keyword; prev != 0 {
			panic(fmt.Sprintf("token: keywords %q and %q collide", keywordTable[prev-1].Spelling, kw.Spelling))
		}
		c.nodes[node].keyword = int16(i + 1)
	}
	return c
}

func (c *classifier) newNode() uint16 {
	c.nodes = append(c.nodes, trieNode{})
	return uint16(len(c.nodes) - 1)
}

// edgeIndex folds ASCII letters and maps identifier characters to trie edges.
// Every other byte, including all bytes of multi-byte runes, returns -1.
func edgeIndex(b byte) int {
	switch {
	case b >= 'a' && b <= 'z':
		return int(b - 'a')
	case b >= 'A' && b <= 'Z':
		return int(b - 'A')
	case b >= '0' && b <= '9':
		return 26 + int(b-'0')
	case b == '_':
		return 36
	}
	return -1
}

func (c *classifier) classify(word string) TokenType {
	n := len(word)
	if n > maxKeywordLen {
		return IDENT
	}
	node := c.roots[n]
	if node == 0 {
		return IDENT
	}
	for i := 0; i < n; i++ {
		e := edgeIndex(word[i])
		if e < 0 {
			return IDENT
		}
		node = c.nodes[node].next[e]
		if node == 0 {
			return IDENT
		}
	}
	idx := c.nodes[node].keyword
	if idx == 0 {
		return IDENT
	}
	kw := &keywordTable[idx-1]
	if kw.CaseSensitive && word != kw.Spelling {
		return IDENT
	}
	return kw.Type
}

// Classify maps an identifier-shaped word to its keyword token type, or IDENT
// when the word is not a keyword. Keywords match case-insensitively under
// ASCII folding except for the case-sensitive entries (true, false, null,
// undefined, NaN, Infinity, udf), which must match exactly.
//
// Classify is safe for concurrent use and does not allocate.
func Classify(word string) TokenType {
	return std.classify(word)
}

