package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/format"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// Handlers provides the HTTP handlers of the API.
type Handlers struct {
	format  format.Options
	maxBody int64
}

// NewHandlers creates a new Handlers instance. opts is the default layout
// for /v1/format; maxBody caps request bodies in bytes.
func NewHandlers(opts format.Options, maxBody int64) *Handlers {
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Handlers{format: opts, maxBody: maxBody}
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Parse parses a query, or a scalar expression, and returns its tree.
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		node ast.Node
		err  error
	)
	if req.Expression {
		node, err = parser.ParseExpr(req.Query)
	} else {
		node, err = parser.Parse(req.Query)
	}
	if err != nil {
		writeParseError(w, err)
		return
	}

	params := ast.Parameters(node)
	if params == nil {
		params = []string{}
	}
	writeJSON(w, http.StatusOK, ParseResponse{AST: ast.Dump(node), Parameters: params})
}

// Format reprints a query using the server defaults, overridden per request.
func (h *Handlers) Format(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if !h.decode(w, r, &req) {
		return
	}

	opts := h.format
	if req.Indent != nil {
		if *req.Indent < 1 || *req.Indent > 16 {
			writeError(w, http.StatusBadRequest, "indent must be between 1 and 16")
			return
		}
		opts.Indent = *req.Indent
	}
	if req.KeywordCase != "" {
		kc, err := format.ParseKeywordCase(req.KeywordCase)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.KeywordCase = kc
	}
	if req.Compact != nil {
		opts.Compact = *req.Compact
	}

	q, err := parser.Parse(req.Query)
	if err != nil {
		writeParseError(w, err)
		return
	}

	formatted := format.Format(q, opts)
	writeJSON(w, http.StatusOK, FormatResponse{
		Formatted: formatted,
		Changed:   strings.TrimSuffix(formatted, "\n") != strings.TrimSuffix(req.Query, "\n"),
	})
}

// Tokens returns the token stream of a query.
func (h *Handlers) Tokens(w http.ResponseWriter, r *http.Request) {
	var req TokensRequest
	if !h.decode(w, r, &req) {
		return
	}

	toks, trivia, err := parser.Scan(req.Query)
	if err != nil {
		writeParseError(w, err)
		return
	}

	resp := TokensResponse{Tokens: make([]Token, 0, len(toks))}
	for _, tok := range toks {
		resp.Tokens = append(resp.Tokens, Token{
			Category: token.Category(tok.Type),
			Type:     tok.Type.String(),
			Text:     tok.Literal,
			Position: newPosition(tok.Pos),
		})
	}
	if req.Trivia {
		resp.Trivia = make([]Token, 0, len(trivia))
		for _, tr := range trivia {
			resp.Trivia = append(resp.Trivia, Token{
				Category: "trivia",
				Type:     tr.Kind.String(),
				Text:     tr.Text,
				Position: newPosition(tr.Span.Start),
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Keywords lists the keyword table. ?family= narrows it to one family
// (spaces may be written as hyphens); ?reserved=true keeps reserved words.
func (h *Handlers) Keywords(w http.ResponseWriter, r *http.Request) {
	family := strings.ReplaceAll(strings.ToLower(r.URL.Query().Get("family")), "-", " ")
	reserved := false
	if v := r.URL.Query().Get("reserved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid reserved value %q", v))
			return
		}
		reserved = b
	}

	if family != "" && !knownFamily(family) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown keyword family %q", family))
		return
	}

	resp := KeywordsResponse{Keywords: []Keyword{}}
	for _, kw := range token.Keywords() {
		if family != "" && kw.Family.String() != family {
			continue
		}
		if reserved && !token.IsReserved(kw.Type) {
			continue
		}
		resp.Keywords = append(resp.Keywords, Keyword{
			Keyword:       kw.Spelling,
			Family:        kw.Family.String(),
			Reserved:      token.IsReserved(kw.Type),
			CaseSensitive: kw.CaseSensitive,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func knownFamily(name string) bool {
	for _, f := range token.Families() {
		if f.String() == name {
			return true
		}
	}
	return false
}

// decode reads a JSON body into v. It writes the error response and returns
// false when the body is unusable.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		}
		return false
	}
	return true
}

func writeParseError(w http.ResponseWriter, err error) {
	pe, ok := parser.AsParseError(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorBody{
		Kind:     pe.Kind.String(),
		Message:  pe.Message,
		Position: newPosition(pe.Pos),
	}})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Kind: "request", Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
