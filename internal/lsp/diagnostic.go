package lsp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/leapstack-labs/docsql/pkg/token"
)

const diagnosticSource = "docsql"

// publishDiagnostics parses the document and sends its parse error, if any.
// Documents outside the configured extensions get an empty list.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := []Diagnostic{}
	if s.isQueryFile(uri) {
		diagnostics = append(diagnostics, getDiagnostics(doc)...)
	}

	s.notify("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     doc.Version,
		Diagnostics: diagnostics,
	})
}

// getDiagnostics returns the document's parse error as a diagnostic.
// Blank documents are not reported.
func getDiagnostics(doc *Document) []Diagnostic {
	if strings.TrimSpace(doc.Content) == "" {
		return nil
	}

	_, err := parser.Parse(doc.Content)
	if err == nil {
		return nil
	}
	return []Diagnostic{parseErrorToDiagnostic(doc, err)}
}

// parseErrorToDiagnostic converts a parse error to an LSP diagnostic that
// covers the offending word, or a single character.
func parseErrorToDiagnostic(doc *Document, err error) Diagnostic {
	pe, ok := parser.AsParseError(err)
	if !ok {
		return Diagnostic{
			Range:    doc.RangeOf(0, 0),
			Severity: DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  err.Error(),
		}
	}

	start := min(max(pe.Pos.Offset, 0), len(doc.Content))
	end := start
	if ws, we := doc.WordAt(start); ws == start && we > start {
		end = we
	} else if start < len(doc.Content) {
		_, size := utf8.DecodeRuneInString(doc.Content[start:])
		end = start + size
	}

	msg := pe.Message
	if pe.Kind == parser.SyntaxError && end > start {
		if hint := keywordHint(doc.Content[start:end]); hint != "" {
			msg += fmt.Sprintf(" (did you mean %s?)", hint)
		}
	}

	return Diagnostic{
		Range:    doc.RangeOf(start, end),
		Severity: DiagnosticSeverityError,
		Code:     pe.Kind.String(),
		Source:   diagnosticSource,
		Message:  msg,
	}
}

// clauseKeywords are the spellings checked for typos.
var clauseKeywords = func() []string {
	var out []string
	for _, kw := range token.Keywords() {
		if kw.Family == token.FamilyClause {
			out = append(out, kw.Spelling)
		}
	}
	return out
}()

// keywordHint returns the clause keyword word is most likely a typo of.
// Only identifiers of three or more characters are considered.
func keywordHint(word string) string {
	if utf8.RuneCountInString(word) < 3 || token.Classify(word) != token.IDENT {
		return ""
	}
	if matches := suggestSimilar(word, clauseKeywords, 1); len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// suggestSimilar finds candidates within maxDistance edits of input,
// ignoring case.
func suggestSimilar(input string, candidates []string, maxDistance int) []string {
	inputLower := strings.ToLower(input)
	var suggestions []string

	for _, candidate := range candidates {
		dist := levenshtein(inputLower, strings.ToLower(candidate))
		if dist <= maxDistance && dist > 0 {
			suggestions = append(suggestions, candidate)
		}
	}

	return suggestions
}

// levenshtein calculates the edit distance between two strings, by rune.
func levenshtein(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
