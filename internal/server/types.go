package server

import "github.com/leapstack-labs/docsql/pkg/token"

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	Query      string `json:"query"`
	Expression bool   `json:"expression,omitempty"`
}

// ParseResponse carries the dumped tree and the parameters it references.
type ParseResponse struct {
	AST        map[string]any `json:"ast"`
	Parameters []string       `json:"parameters"`
}

// FormatRequest is the body of POST /v1/format. Unset fields fall back to
// the server's format settings.
type FormatRequest struct {
	Query       string `json:"query"`
	Indent      *int   `json:"indent,omitempty"`
	KeywordCase string `json:"keyword_case,omitempty"`
	Compact     *bool  `json:"compact,omitempty"`
}

// FormatResponse is the reprinted query.
type FormatResponse struct {
	Formatted string `json:"formatted"`
	Changed   bool   `json:"changed"`
}

// TokensRequest is the body of POST /v1/tokens.
type TokensRequest struct {
	Query  string `json:"query"`
	Trivia bool   `json:"trivia,omitempty"`
}

// TokensResponse lists tokens, ending with EOF, and optionally the trivia
// between them.
type TokensResponse struct {
	Tokens []Token `json:"tokens"`
	Trivia []Token `json:"trivia,omitempty"`
}

// Token is one lexeme.
type Token struct {
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Text     string   `json:"text"`
	Position Position `json:"position"`
}

// KeywordsResponse is the body of GET /v1/keywords.
type KeywordsResponse struct {
	Keywords []Keyword `json:"keywords"`
}

// Keyword is one keyword table entry.
type Keyword struct {
	Keyword       string `json:"keyword"`
	Family        string `json:"family"`
	Reserved      bool   `json:"reserved"`
	CaseSensitive bool   `json:"case_sensitive"`
}

// Position is a source location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func newPosition(p token.Position) Position {
	return Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// ErrorResponse wraps every non-2xx body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure. Kind is lexical or syntax for parse
// errors, request otherwise; Position is set for parse errors only.
type ErrorBody struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Position Position `json:"position,omitzero"`
}
