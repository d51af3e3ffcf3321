package output

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func plainRenderer(mode OutputMode) (*Renderer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewRendererWithTTY(out, &bytes.Buffer{}, false, mode), out
}

// ---------- Renderer Tests ----------

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeYAML},
		{"xml", ModeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _ := plainRenderer(ModeAuto)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _ = plainRenderer(ModeJSON)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestRenderer_NoColorOffTerminal(t *testing.T) {
	r, _ := plainRenderer(ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, "SELECT", r.Styles().Keyword.Render("SELECT"))
	assert.Equal(t, "bold", r.Styles().Bold.Render("bold"))
}

func TestRenderer_ColorModes(t *testing.T) {
	r, _ := plainRenderer(ModeAuto)

	always := r.WithColor(ColorAlways)
	assert.Regexp(t, ansiPattern, always.Styles().Keyword.Render("SELECT"))

	never := always.WithColor(ColorNever)
	assert.Equal(t, "SELECT", never.Styles().Keyword.Render("SELECT"))

	// The original renderer is unchanged
	assert.Equal(t, "SELECT", r.Styles().Keyword.Render("SELECT"))
}

func TestRenderer_Data(t *testing.T) {
	payload := map[string]any{"node": "Identifier", "name": "c"}

	r, out := plainRenderer(ModeJSON)
	handled, err := r.Data(payload)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.JSONEq(t, `{"node": "Identifier", "name": "c"}`, out.String())

	r, out = plainRenderer(ModeYAML)
	handled, err = r.Data(payload)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "name: c\nnode: Identifier\n", out.String())

	r, out = plainRenderer(ModeText)
	handled, err = r.Data(payload)
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, out.String())
}

func TestRenderer_Table(t *testing.T) {
	rows := []table.Row{{"SELECT", "clause"}, {"ABS", "math"}}

	r, out := plainRenderer(ModeText)
	r.Table(table.Row{"Keyword", "Family"}, rows)
	assert.Contains(t, out.String(), "│ SELECT  │ clause │")
	assert.Contains(t, out.String(), "KEYWORD")

	r, out = plainRenderer(ModeMarkdown)
	r.Table(table.Row{"Keyword", "Family"}, rows)
	assert.Contains(t, out.String(), "| Keyword | Family |")
	assert.Contains(t, out.String(), "| ABS | math |")
}

// ---------- Highlight Tests ----------

var highlightCorpus = []string{
	"SELECT c.name, ABS(c.x) AS n FROM c WHERE c.id = @id AND c.s = 'x' -- trailing",
	"select\n\tvalue c\n/* multi\n   line */ from c",
	"SELECT {'a': [1, 2.5, null]} ?? undefined",
	"SELECT 'unterminated",
	"SELECT # oops FROM c",
	"",
}

func TestHighlight_PreservesText(t *testing.T) {
	r, _ := plainRenderer(ModeText)
	color := r.WithColor(ColorAlways)

	for _, src := range highlightCorpus {
		t.Run(src, func(t *testing.T) {
			assert.Equal(t, src, r.Styles().Highlight(src))
			assert.Equal(t, src, ansiPattern.ReplaceAllString(color.Styles().Highlight(src), ""))
		})
	}
}

func TestHighlight_StylesTokens(t *testing.T) {
	r, _ := plainRenderer(ModeText)
	s := r.WithColor(ColorAlways).Styles()

	out := s.Highlight("SELECT c.x")
	assert.Contains(t, out, s.Keyword.Render("SELECT"))
	assert.Contains(t, out, " c")
	assert.Contains(t, out, s.Operator.Render("."))

	out = s.Highlight("SELECT LOWER(@p) -- note")
	assert.Contains(t, out, s.Function.Render("LOWER"))
	assert.Contains(t, out, s.Param.Render("@p"))
	assert.Contains(t, out, s.Comment.Render("-- note"))
}

// ---------- Diagnostic Tests ----------

func parseError(t *testing.T, src string) *parser.ParseError {
	t.Helper()
	_, err := parser.Parse(src)
	require.Error(t, err)
	pe, ok := parser.AsParseError(err)
	require.True(t, ok)
	return pe
}

func TestFormatParseError(t *testing.T) {
	r, _ := plainRenderer(ModeText)
	src := "SELECT 1 FR0M c"

	got := r.Styles().FormatParseError("q.sql", src, parseError(t, src))
	want := `q.sql:1:10: syntax error: unexpected identifier "FR0M", expected end of query
1 | SELECT 1 FR0M c
  |          ^
`
	assert.Equal(t, want, got)
}

func TestFormatParseError_Multiline(t *testing.T) {
	r, _ := plainRenderer(ModeText)
	src := "SELECT *\r\nFROM c\r\n\tWHERE"

	got := r.Styles().FormatParseError("", src, parseError(t, src))
	assert.Contains(t, got, "<input>:3:7: syntax error:")
	assert.Contains(t, got, "3 | \tWHERE\n")
	assert.Contains(t, got, "  | \t     ^\n")
}

func TestFormatParseError_Lexical(t *testing.T) {
	r, _ := plainRenderer(ModeText)
	src := "SELECT 'é' + 'abc"

	got := r.Styles().FormatParseError("", src, parseError(t, src))
	assert.Contains(t, got, "lexical error: unterminated string literal")
	assert.Contains(t, got, "1 | SELECT 'é' + 'abc\n  |              ^\n")
}

func TestSourceLine(t *testing.T) {
	line, prefix := sourceLine("ab\ncd\nef", 4)
	assert.Equal(t, "cd", line)
	assert.Equal(t, "c", prefix)

	line, prefix = sourceLine("abc", 3)
	assert.Equal(t, "abc", line)
	assert.Equal(t, "abc", prefix)

	line, prefix = sourceLine("abc", 99)
	assert.Equal(t, "abc", line)
	assert.Equal(t, "abc", prefix)
}
