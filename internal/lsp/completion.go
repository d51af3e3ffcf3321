package lsp

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/docsql/pkg/format"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// CompletionContextType describes what kind of completion context we're in.
type CompletionContextType int

// Completion context type constants.
const (
	ContextKeyword  CompletionContextType = iota // bare word: keywords and functions
	ContextParam                                 // after "@"
	ContextProperty                              // after ".": documents are schemaless
)

// getCompletions returns completion items for the given position.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	ctx, prefix := detectContext(doc, params.Position)
	switch ctx {
	case ContextParam:
		return parameterCompletions(doc.Content, prefix)
	case ContextProperty:
		return nil
	default:
		return s.keywordCompletions(prefix)
	}
}

// detectContext classifies the cursor position and returns the word being
// typed before it.
func detectContext(doc *Document, pos Position) (CompletionContextType, string) {
	before := doc.GetTextBefore(pos)

	start := len(before)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(before[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	prefix := before[start:]

	if start > 0 {
		switch before[start-1] {
		case '@':
			return ContextParam, prefix
		case '.':
			return ContextProperty, prefix
		}
	}
	return ContextKeyword, prefix
}

// keywordCompletions lists keywords starting with prefix. Case-sensitive
// keywords need an exact-case prefix; the others follow the prefix's case.
func (s *Server) keywordCompletions(prefix string) []CompletionItem {
	lower := isLowerWord(prefix)

	var items []CompletionItem
	for _, kw := range token.Keywords() {
		label := kw.Spelling
		if kw.CaseSensitive {
			if !strings.HasPrefix(kw.Spelling, prefix) {
				continue
			}
		} else {
			if !strings.HasPrefix(kw.Spelling, strings.ToUpper(prefix)) {
				continue
			}
			if lower {
				label = strings.ToLower(label)
			}
		}
		items = append(items, s.keywordItem(kw, label))
	}
	return items
}

func (s *Server) keywordItem(kw token.Keyword, label string) CompletionItem {
	item := CompletionItem{Label: label, Detail: kw.Family.String()}

	switch {
	case kw.Family.IsFunction():
		item.Kind = CompletionItemKindFunction
		item.Detail += " function"
		if s.snippets {
			item.InsertText = label + "($1)"
			item.InsertTextFormat = InsertTextFormatSnippet
		}
	case kw.Family == token.FamilyConstant:
		item.Kind = CompletionItemKindConstant
	default:
		item.Kind = CompletionItemKindKeyword
	}
	return item
}

// parameterCompletions offers parameter names already used in content.
// Tokens after a lexical error are not seen.
func parameterCompletions(content, prefix string) []CompletionItem {
	var items []CompletionItem
	for _, name := range documentParameters(content) {
		if name == prefix || !strings.HasPrefix(name, prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:  name,
			Kind:   CompletionItemKindVariable,
			Detail: "parameter",
		})
	}
	return items
}

// documentParameters returns the distinct parameter names in content, in
// order of first use, stopping at the first lexical error.
func documentParameters(content string) []string {
	var names []string
	seen := make(map[string]bool)

	lex := parser.NewLexer(content)
	for {
		tok, err := lex.NextToken()
		if err != nil || tok.Type == token.EOF {
			return names
		}
		if tok.Type != token.PARAM {
			continue
		}
		name := strings.TrimPrefix(tok.Literal, "@")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
}

// getHover describes the keyword or parameter under the cursor.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	start, end := doc.WordAt(doc.PositionToOffset(params.Position))
	if start == end {
		return nil
	}
	word := doc.Content[start:end]
	rng := doc.RangeOf(start, end)

	if start > 0 && doc.Content[start-1] == '@' {
		rng = doc.RangeOf(start-1, end)
		return &Hover{
			Contents: MarkupContent{
				Kind:  MarkupKindMarkdown,
				Value: fmt.Sprintf("**@%s** (parameter)\n\nSupplied at execution time.", word),
			},
			Range: &rng,
		}
	}

	typ := token.Classify(word)
	kw, ok := token.LookupKeyword(typ)
	if !ok {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (%s", kw.Spelling, kw.Family)
	if kw.Family.IsFunction() {
		sb.WriteString(" function")
	}
	sb.WriteString(")")
	if token.IsReserved(typ) {
		sb.WriteString("\n\nReserved: cannot be used as a name.")
	}
	if kw.CaseSensitive {
		sb.WriteString("\n\nCase-sensitive: must be written `" + kw.Spelling + "`.")
	}

	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: sb.String()},
		Range:    &rng,
	}
}

// getFormattingEdits reprints the document. It returns no edits when the
// document does not parse or is already formatted, and refuses documents
// with comments, which the printer would drop.
func (s *Server) getFormattingEdits(params DocumentFormattingParams) ([]TextEdit, string) {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return []TextEdit{}, ""
	}

	toks, trivia, err := parser.Scan(doc.Content)
	if err != nil {
		return []TextEdit{}, ""
	}
	for _, tr := range trivia {
		if tr.IsComment() {
			return []TextEdit{}, "docsql: formatting skipped, comments are not preserved by the formatter"
		}
	}

	q, err := parser.ParseTokens(toks)
	if err != nil {
		return []TextEdit{}, ""
	}

	opts := s.opts.Format
	if params.Options.InsertSpaces && params.Options.TabSize > 0 && params.Options.TabSize <= 16 {
		opts.Indent = int(params.Options.TabSize)
	}
	formatted := format.Format(q, opts)
	if opts.Compact {
		formatted += "\n"
	}
	if formatted == doc.Content {
		return []TextEdit{}, ""
	}

	return []TextEdit{{Range: doc.FullRange(), NewText: formatted}}, ""
}

// isLowerWord reports whether s has letters and all of them are lowercase.
func isLowerWord(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
