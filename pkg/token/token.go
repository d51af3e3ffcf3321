// Package token defines the lexical vocabulary of the query language.
//
// Operators and punctuation are fixed constants. Keywords come from a static
// table (keywords.go) and are recognized by Classify, which walks a trie
// bucketed by spelling length.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow the spelling of the language keywords
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // c, root, _ts
	NUMBER // 123, 45.67, 1e10, 0x1F
	STRING // 'hello', "hello"
	PARAM  // @name

	operatorBeg
	// Operators and punctuation
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // !=
	LTGT      // <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	AMP       // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	QUESTION  // ?
	DQUESTION // ??
	COLON     // :
	DOT       // .
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	operatorEnd

	keywordBeg
	// Clause keywords
	AND
	ARRAY
	AS
	ASC
	BETWEEN
	BY
	CASE
	DESC
	DISTINCT
	ELSE
	END
	ESCAPE
	EXISTS
	FROM
	GROUP
	HAVING
	IN
	JOIN
	LIKE
	LIMIT
	NOT
	OFFSET
	OR
	ORDER
	RANK
	SELECT
	THEN
	TOP
	VALUE
	WHEN
	WHERE
	UDF // udf, exact case

	// Constants, exact case
	TRUE
	FALSE
	NULL
	UNDEFINED
	NAN
	INFINITY

	// Mathematical functions
	ABS
	ACOS
	ASIN
	ATAN
	ATN2
	CEILING
	COS
	COT
	DEGREES
	EXP
	FLOOR
	LOG
	LOG10
	PI
	POWER
	RADIANS
	RAND
	ROUND
	SIGN
	SIN
	SQRT
	SQUARE
	TAN
	TRUNC
	NUMBERBIN
	INTADD
	INTBITAND
	INTBITLEFTSHIFT
	INTBITNOT
	INTBITOR
	INTBITRIGHTSHIFT
	INTBITXOR
	INTDIV
	INTMOD
	INTMUL
	INTSUB

	// Aggregates
	AVG
	COUNT
	MAX
	MIN
	SUM
	ALL
	ANY

	// Array functions
	ARRAY_CONCAT
	ARRAY_CONTAINS
	ARRAY_CONTAINS_ALL
	ARRAY_CONTAINS_ANY
	ARRAY_LENGTH
	ARRAY_SLICE
	SETINTERSECT
	SETUNION

	// Type checking functions
	IS_ARRAY
	IS_BOOL
	IS_DEFINED
	IS_FINITE_NUMBER
	IS_INTEGER
	IS_NULL
	IS_NUMBER
	IS_OBJECT
	IS_PRIMITIVE
	IS_STRING

	// String functions
	CONCAT
	CONTAINS
	ENDSWITH
	INDEX_OF
	LEFT
	LENGTH
	LOWER
	LTRIM
	REPLACE
	REPLICATE
	REVERSE
	RIGHT
	RTRIM
	STARTSWITH
	STRINGEQUALS
	STRINGJOIN
	STRINGSPLIT
	STRINGTOARRAY
	STRINGTOBOOLEAN
	STRINGTONULL
	STRINGTONUMBER
	STRINGTOOBJECT
	SUBSTRING
	TOSTRING
	TRIM
	UPPER

	// Object, regex, search and misc functions
	OBJECTTOARRAY
	DOCUMENTID
	REGEXMATCH
	FULLTEXTCONTAINS
	FULLTEXTSCORE
	RRF
	VECTORDISTANCE

	// Date and time functions
	DATETIMEADD
	DATETIMEBIN
	DATETIMEDIFF
	DATETIMEFROMPARTS
	DATETIMEPART
	DATETIMETOTICKS
	DATETIMETOTIMESTAMP
	GETCURRENTDATETIME
	GETCURRENTDATETIMESTATIC
	GETCURRENTTICKS
	GETCURRENTTIMESTAMP
	TICKSTODATETIME
	TIMESTAMPTODATETIME

	// Spatial functions
	ST_AREA
	ST_DISTANCE
	ST_INTERSECTS
	ST_ISVALID
	ST_ISVALIDDETAILED
	ST_WITHIN

	// Type tags
	C_BINARY
	C_FLOAT32
	C_FLOAT64
	C_GUID
	C_INT16
	C_INT32
	C_INT64
	C_INT8
	C_LIST
	C_LISTCONTAINS
	C_MAP
	C_MAPCONTAINS
	C_MAPCONTAINSKEY
	C_MAPCONTAINSVALUE
	C_SET
	C_SETCONTAINS
	C_TUPLE
	C_UDT
	C_UINT32
	keywordEnd
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if kw, ok := LookupKeyword(t); ok {
		return kw.Spelling
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps non-keyword token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	PARAM:  "PARAM",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LTGT:      "<>",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	AMP:       "&",
	PIPE:      "|",
	CARET:     "^",
	TILDE:     "~",
	QUESTION:  "?",
	DQUESTION: "??",
	COLON:     ":",
	DOT:       ".",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t > keywordBeg && t < keywordEnd
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t > operatorBeg && t < operatorEnd
}

// IsLiteral returns true for tokens that carry a value of their own.
func IsLiteral(t TokenType) bool {
	switch t {
	case NUMBER, STRING, TRUE, FALSE, NULL, UNDEFINED, NAN, INFINITY:
		return true
	}
	return false
}

// IsReserved reports whether t is a keyword that cannot be used as a name.
// Function names are keywords too, but they stay usable as identifiers.
func IsReserved(t TokenType) bool {
	kw, ok := LookupKeyword(t)
	if !ok {
		return false
	}
	return kw.Family == FamilyClause || kw.Family == FamilyConstant
}

// IsBuiltinFunction reports whether t names a built-in function.
func IsBuiltinFunction(t TokenType) bool {
	kw, ok := LookupKeyword(t)
	return ok && kw.Family.IsFunction()
}

// IsWord reports whether tokens of type t are spelled as an identifier-shaped
// run, i.e. identifiers and keywords.
func IsWord(t TokenType) bool {
	return t == IDENT || IsKeyword(t)
}

// Category names the broad class of a token type: eof, identifier, number,
// string, parameter, function, keyword, operator or illegal.
func Category(t TokenType) string {
	switch {
	case t == EOF:
		return "eof"
	case t == IDENT:
		return "identifier"
	case t == NUMBER:
		return "number"
	case t == STRING:
		return "string"
	case t == PARAM:
		return "parameter"
	case IsBuiltinFunction(t):
		return "function"
	case IsKeyword(t):
		return "keyword"
	case IsOperator(t):
		return "operator"
	}
	return "illegal"
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string   // raw source text
	Pos     Position // first byte
	End     Position // one past the last byte
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}

func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
