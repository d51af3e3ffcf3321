package token

// Family groups keywords for documentation and completion.
type Family uint8

// Keyword families.
const (
	FamilyClause Family = iota + 1
	FamilyConstant
	FamilyMath
	FamilyAggregate
	FamilyArray
	FamilyTypeCheck
	FamilyString
	FamilyOther
	FamilyDateTime
	FamilySpatial
	FamilyTypeTag
)

var familyNames = [...]string{
	FamilyClause:    "clause",
	FamilyConstant:  "constant",
	FamilyMath:      "math",
	FamilyAggregate: "aggregate",
	FamilyArray:     "array",
	FamilyTypeCheck: "type check",
	FamilyString:    "string",
	FamilyOther:     "other",
	FamilyDateTime:  "date and time",
	FamilySpatial:   "spatial",
	FamilyTypeTag:   "type tag",
}

func (f Family) String() string {
	if int(f) < len(familyNames) && familyNames[f] != "" {
		return familyNames[f]
	}
	return "unknown"
}

// IsFunction reports whether keywords of this family are called like functions.
func (f Family) IsFunction() bool {
	return f >= FamilyMath && f <= FamilyTypeTag
}

// Families returns every family in display order.
func Families() []Family {
	out := make([]Family, 0, len(familyNames)-1)
	for f := FamilyClause; int(f) < len(familyNames); f++ {
		out = append(out, f)
	}
	return out
}

// Keyword describes one entry of the keyword table.
type Keyword struct {
	Type          TokenType
	Spelling      string // canonical spelling
	Family        Family
	CaseSensitive bool // must match Spelling byte-for-byte
}

// Len returns the declared character length of the keyword.
func (k Keyword) Len() int { return len(k.Spelling) }

// keywordTable is the canonical keyword catalog. Entries are unique under
// ASCII case folding; init panics otherwise.
var keywordTable = [...]Keyword{
	{AND, "AND", FamilyClause, false},
	{ARRAY, "ARRAY", FamilyClause, false},
	{AS, "AS", FamilyClause, false},
	{ASC, "ASC", FamilyClause, false},
	{BETWEEN, "BETWEEN", FamilyClause, false},
	{BY, "BY", FamilyClause, false},
	{CASE, "CASE", FamilyClause, false},
	{DESC, "DESC", FamilyClause, false},
	{DISTINCT, "DISTINCT", FamilyClause, false},
	{ELSE, "ELSE", FamilyClause, false},
	{END, "END", FamilyClause, false},
	{ESCAPE, "ESCAPE", FamilyClause, false},
	{EXISTS, "EXISTS", FamilyClause, false},
	{FROM, "FROM", FamilyClause, false},
	{GROUP, "GROUP", FamilyClause, false},
	{HAVING, "HAVING", FamilyClause, false},
	{IN, "IN", FamilyClause, false},
	{JOIN, "JOIN", FamilyClause, false},
	{LIKE, "LIKE", FamilyClause, false},
	{LIMIT, "LIMIT", FamilyClause, false},
	{NOT, "NOT", FamilyClause, false},
	{OFFSET, "OFFSET", FamilyClause, false},
	{OR, "OR", FamilyClause, false},
	{ORDER, "ORDER", FamilyClause, false},
	{RANK, "RANK", FamilyClause, false},
	{SELECT, "SELECT", FamilyClause, false},
	{THEN, "THEN", FamilyClause, false},
	{TOP, "TOP", FamilyClause, false},
	{VALUE, "VALUE", FamilyClause, false},
	{WHEN, "WHEN", FamilyClause, false},
	{WHERE, "WHERE", FamilyClause, false},
	{UDF, "udf", FamilyClause, true},

	{TRUE, "true", FamilyConstant, true},
	{FALSE, "false", FamilyConstant, true},
	{NULL, "null", FamilyConstant, true},
	{UNDEFINED, "undefined", FamilyConstant, true},
	{NAN, "NaN", FamilyConstant, true},
	{INFINITY, "Infinity", FamilyConstant, true},

	{ABS, "ABS", FamilyMath, false},
	{ACOS, "ACOS", FamilyMath, false},
	{ASIN, "ASIN", FamilyMath, false},
	{ATAN, "ATAN", FamilyMath, false},
	{ATN2, "ATN2", FamilyMath, false},
	{CEILING, "CEILING", FamilyMath, false},
	{COS, "COS", FamilyMath, false},
	{COT, "COT", FamilyMath, false},
	{DEGREES, "DEGREES", FamilyMath, false},
	{EXP, "EXP", FamilyMath, false},
	{FLOOR, "FLOOR", FamilyMath, false},
	{LOG, "LOG", FamilyMath, false},
	{LOG10, "LOG10", FamilyMath, false},
	{PI, "PI", FamilyMath, false},
	{POWER, "POWER", FamilyMath, false},
	{RADIANS, "RADIANS", FamilyMath, false},
	{RAND, "RAND", FamilyMath, false},
	{ROUND, "ROUND", FamilyMath, false},
	{SIGN, "SIGN", FamilyMath, false},
	{SIN, "SIN", FamilyMath, false},
	{SQRT, "SQRT", FamilyMath, false},
	{SQUARE, "SQUARE", FamilyMath, false},
	{TAN, "TAN", FamilyMath, false},
	{TRUNC, "TRUNC", FamilyMath, false},
	{NUMBERBIN, "NUMBERBIN", FamilyMath, false},
	{INTADD, "INTADD", FamilyMath, false},
	{INTBITAND, "INTBITAND", FamilyMath, false},
	{INTBITLEFTSHIFT, "INTBITLEFTSHIFT", FamilyMath, false},
	{INTBITNOT, "INTBITNOT", FamilyMath, false},
	{INTBITOR, "INTBITOR", FamilyMath, false},
	{INTBITRIGHTSHIFT, "INTBITRIGHTSHIFT", FamilyMath, false},
	{INTBITXOR, "INTBITXOR", FamilyMath, false},
	{INTDIV, "INTDIV", FamilyMath, false},
	{INTMOD, "INTMOD", FamilyMath, false},
	{INTMUL, "INTMUL", FamilyMath, false},
	{INTSUB, "INTSUB", FamilyMath, false},

	{AVG, "AVG", FamilyAggregate, false},
	{COUNT, "COUNT", FamilyAggregate, false},
	{MAX, "MAX", FamilyAggregate, false},
	{MIN, "MIN", FamilyAggregate, false},
	{SUM, "SUM", FamilyAggregate, false},
	{ALL, "ALL", FamilyAggregate, false},
	{ANY, "ANY", FamilyAggregate, false},

	{ARRAY_CONCAT, "ARRAY_CONCAT", FamilyArray, false},
	{ARRAY_CONTAINS, "ARRAY_CONTAINS", FamilyArray, false},
	{ARRAY_CONTAINS_ALL, "ARRAY_CONTAINS_ALL", FamilyArray, false},
	{ARRAY_CONTAINS_ANY, "ARRAY_CONTAINS_ANY", FamilyArray, false},
	{ARRAY_LENGTH, "ARRAY_LENGTH", FamilyArray, false},
	{ARRAY_SLICE, "ARRAY_SLICE", FamilyArray, false},
	{SETINTERSECT, "SETINTERSECT", FamilyArray, false},
	{SETUNION, "SETUNION", FamilyArray, false},

	{IS_ARRAY, "IS_ARRAY", FamilyTypeCheck, false},
	{IS_BOOL, "IS_BOOL", FamilyTypeCheck, false},
	{IS_DEFINED, "IS_DEFINED", FamilyTypeCheck, false},
	{IS_FINITE_NUMBER, "IS_FINITE_NUMBER", FamilyTypeCheck, false},
	{IS_INTEGER, "IS_INTEGER", FamilyTypeCheck, false},
	{IS_NULL, "IS_NULL", FamilyTypeCheck, false},
	{IS_NUMBER, "IS_NUMBER", FamilyTypeCheck, false},
	{IS_OBJECT, "IS_OBJECT", FamilyTypeCheck, false},
	{IS_PRIMITIVE, "IS_PRIMITIVE", FamilyTypeCheck, false},
	{IS_STRING, "IS_STRING", FamilyTypeCheck, false},

	{CONCAT, "CONCAT", FamilyString, false},
	{CONTAINS, "CONTAINS", FamilyString, false},
	{ENDSWITH, "ENDSWITH", FamilyString, false},
	{INDEX_OF, "INDEX_OF", FamilyString, false},
	{LEFT, "LEFT", FamilyString, false},
	{LENGTH, "LENGTH", FamilyString, false},
	{LOWER, "LOWER", FamilyString, false},
	{LTRIM, "LTRIM", FamilyString, false},
	{REPLACE, "REPLACE", FamilyString, false},
	{REPLICATE, "REPLICATE", FamilyString, false},
	{REVERSE, "REVERSE", FamilyString, false},
	{RIGHT, "RIGHT", FamilyString, false},
	{RTRIM, "RTRIM", FamilyString, false},
	{STARTSWITH, "STARTSWITH", FamilyString, false},
	{STRINGEQUALS, "STRINGEQUALS", FamilyString, false},
	{STRINGJOIN, "STRINGJOIN", FamilyString, false},
	{STRINGSPLIT, "STRINGSPLIT", FamilyString, false},
	{STRINGTOARRAY, "STRINGTOARRAY", FamilyString, false},
	{STRINGTOBOOLEAN, "STRINGTOBOOLEAN", FamilyString, false},
	{STRINGTONULL, "STRINGTONULL", FamilyString, false},
	{STRINGTONUMBER, "STRINGTONUMBER", FamilyString, false},
	{STRINGTOOBJECT, "STRINGTOOBJECT", FamilyString, false},
	{SUBSTRING, "SUBSTRING", FamilyString, false},
	{TOSTRING, "TOSTRING", FamilyString, false},
	{TRIM, "TRIM", FamilyString, false},
	{UPPER, "UPPER", FamilyString, false},

	{OBJECTTOARRAY, "OBJECTTOARRAY", FamilyOther, false},
	{DOCUMENTID, "DOCUMENTID", FamilyOther, false},
	{REGEXMATCH, "REGEXMATCH", FamilyOther, false},
	{FULLTEXTCONTAINS, "FULLTEXTCONTAINS", FamilyOther, false},
	{FULLTEXTSCORE, "FULLTEXTSCORE", FamilyOther, false},
	{RRF, "RRF", FamilyOther, false},
	{VECTORDISTANCE, "VECTORDISTANCE", FamilyOther, false},

	{DATETIMEADD, "DATETIMEADD", FamilyDateTime, false},
	{DATETIMEBIN, "DATETIMEBIN", FamilyDateTime, false},
	{DATETIMEDIFF, "DATETIMEDIFF", FamilyDateTime, false},
	{DATETIMEFROMPARTS, "DATETIMEFROMPARTS", FamilyDateTime, false},
	{DATETIMEPART, "DATETIMEPART", FamilyDateTime, false},
	{DATETIMETOTICKS, "DATETIMETOTICKS", FamilyDateTime, false},
	{DATETIMETOTIMESTAMP, "DATETIMETOTIMESTAMP", FamilyDateTime, false},
	{GETCURRENTDATETIME, "GETCURRENTDATETIME", FamilyDateTime, false},
	{GETCURRENTDATETIMESTATIC, "GETCURRENTDATETIMESTATIC", FamilyDateTime, false},
	{GETCURRENTTICKS, "GETCURRENTTICKS", FamilyDateTime, false},
	{GETCURRENTTIMESTAMP, "GETCURRENTTIMESTAMP", FamilyDateTime, false},
	{TICKSTODATETIME, "TICKSTODATETIME", FamilyDateTime, false},
	{TIMESTAMPTODATETIME, "TIMESTAMPTODATETIME", FamilyDateTime, false},

	{ST_AREA, "ST_AREA", FamilySpatial, false},
	{ST_DISTANCE, "ST_DISTANCE", FamilySpatial, false},
	{ST_INTERSECTS, "ST_INTERSECTS", FamilySpatial, false},
	{ST_ISVALID, "ST_ISVALID", FamilySpatial, false},
	{ST_ISVALIDDETAILED, "ST_ISVALIDDETAILED", FamilySpatial, false},
	{ST_WITHIN, "ST_WITHIN", FamilySpatial, false},

	{C_BINARY, "C_BINARY", FamilyTypeTag, false},
	{C_FLOAT32, "C_FLOAT32", FamilyTypeTag, false},
	{C_FLOAT64, "C_FLOAT64", FamilyTypeTag, false},
	{C_GUID, "C_GUID", FamilyTypeTag, false},
	{C_INT16, "C_INT16", FamilyTypeTag, false},
	{C_INT32, "C_INT32", FamilyTypeTag, false},
	{C_INT64, "C_INT64", FamilyTypeTag, false},
	{C_INT8, "C_INT8", FamilyTypeTag, false},
	{C_LIST, "C_LIST", FamilyTypeTag, false},
	{C_LISTCONTAINS, "C_LISTCONTAINS", FamilyTypeTag, false},
	{C_MAP, "C_MAP", FamilyTypeTag, false},
	{C_MAPCONTAINS, "C_MAPCONTAINS", FamilyTypeTag, false},
	{C_MAPCONTAINSKEY, "C_MAPCONTAINSKEY", FamilyTypeTag, false},
	{C_MAPCONTAINSVALUE, "C_MAPCONTAINSVALUE", FamilyTypeTag, false},
	{C_SET, "C_SET", FamilyTypeTag, false},
	{C_SETCONTAINS, "C_SETCONTAINS", FamilyTypeTag, false},
	{C_TUPLE, "C_TUPLE", FamilyTypeTag, false},
	{C_UDT, "C_UDT", FamilyTypeTag, false},
	{C_UINT32, "C_UINT32", FamilyTypeTag, false},
}

// keywordIndex maps TokenType-keywordBeg-1 to a keywordTable index.
var keywordIndex [keywordEnd - keywordBeg - 1]int16

// Keywords returns a copy of the keyword table in declaration order.
func Keywords() []Keyword {
	out := make([]Keyword, len(keywordTable))
	copy(out, keywordTable[:])
	return out
}

// LookupKeyword returns the table entry for a keyword token type.
func LookupKeyword(t TokenType) (Keyword, bool) {
	if !IsKeyword(t) {
		return Keyword{}, false
	}
	return keywordTable[keywordIndex[t-keywordBeg-1]], true
}

// KeywordLengths returns the distinct keyword lengths in ascending order.
func KeywordLengths() []int {
	var out []int
	for n, root := range std.roots {
		if root != 0 {
			out = append(out, n)
		}
	}
	return out
}
