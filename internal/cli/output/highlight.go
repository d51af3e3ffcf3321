package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/leapstack-labs/docsql/pkg/token"
)

// Highlight returns src with query syntax styled. The text is unchanged
// apart from the styling; input the lexer rejects is copied as is from the
// point of the error.
func (s *Styles) Highlight(src string) string {
	l := parser.NewLexer(src)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil || tok.Type == token.EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	trivia := l.Trivia()

	var sb strings.Builder
	sb.Grow(len(src))
	pos, i, j := 0, 0, 0
	for i < len(tokens) || j < len(trivia) {
		var (
			start, end int
			text       string
			style      *lipgloss.Style
		)
		if j >= len(trivia) || (i < len(tokens) && tokens[i].Pos.Offset < trivia[j].Span.Start.Offset) {
			tok := tokens[i]
			start, end, text = tok.Pos.Offset, tok.End.Offset, tok.Literal
			style = s.tokenStyle(tok.Type)
			i++
		} else {
			tv := trivia[j]
			start, end, text = tv.Span.Start.Offset, tv.Span.End.Offset, tv.Text
			if tv.IsComment() {
				style = &s.Comment
			}
			j++
		}
		if start < pos {
			continue
		}
		sb.WriteString(src[pos:start])
		if style == nil {
			sb.WriteString(text)
		} else {
			sb.WriteString(renderLines(*style, text))
		}
		pos = end
	}
	if pos < len(src) {
		sb.WriteString(src[pos:])
	}
	return sb.String()
}

func (s *Styles) tokenStyle(t token.TokenType) *lipgloss.Style {
	switch {
	case token.IsBuiltinFunction(t):
		return &s.Function
	case token.IsKeyword(t):
		return &s.Keyword
	case token.IsOperator(t):
		return &s.Operator
	}
	switch t {
	case token.STRING:
		return &s.String
	case token.NUMBER:
		return &s.Number
	case token.PARAM:
		return &s.Param
	}
	return nil
}

// renderLines styles each line on its own so lipgloss does not pad lines
// of a multi-line lexeme to a common width.
func renderLines(style lipgloss.Style, text string) string {
	if !strings.Contains(text, "\n") {
		return style.Render(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
