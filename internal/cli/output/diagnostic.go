package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/parser"
)

// FormatParseError renders a parse error as a compiler-style diagnostic:
// a location header, the offending source line and a caret under the column.
// name labels the source; it defaults to <input>.
func (s *Styles) FormatParseError(name, src string, pe *parser.ParseError) string {
	if name == "" {
		name = "<input>"
	}

	var sb strings.Builder
	loc := fmt.Sprintf("%s:%d:%d:", name, pe.Pos.Line, pe.Pos.Column)
	sb.WriteString(s.Path.Render(loc))
	sb.WriteString(" ")
	sb.WriteString(s.Error.Render(pe.Kind.String() + " error:"))
	sb.WriteString(" ")
	sb.WriteString(pe.Message)
	sb.WriteString("\n")

	line, prefix := sourceLine(src, pe.Pos.Offset)
	gutter := strconv.Itoa(pe.Pos.Line)
	blank := strings.Repeat(" ", len(gutter))

	sb.WriteString(s.Muted.Render(gutter + " | "))
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(s.Muted.Render(blank + " | "))
	sb.WriteString(caretPadding(prefix))
	sb.WriteString(s.Caret.Render("^"))
	sb.WriteString("\n")
	return sb.String()
}

// sourceLine returns the line containing offset and the part of it before offset.
func sourceLine(src string, offset int) (line, prefix string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := len(src)
	if i := strings.IndexByte(src[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	line = strings.TrimRight(src[start:end], "\r")
	prefix = src[start:offset]
	if len(prefix) > len(line) {
		prefix = line
	}
	return line, prefix
}

// caretPadding blanks out prefix one rune at a time, keeping tabs so the
// caret lines up with the source line above it.
func caretPadding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}
