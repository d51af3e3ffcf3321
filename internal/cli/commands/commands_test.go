package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/docsql/internal/cli/config"
	"github.com/leapstack-labs/docsql/internal/cli/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd in an empty working directory with stdin set to input.
func execute(t *testing.T, cmd *cobra.Command, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	config.ResetConfig()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

// ---------- Command Metadata Tests ----------

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"parse", NewParseCommand(), "parse [file]", []string{"query", "expression"}},
		{"tokens", NewTokensCommand(), "tokens [file]", []string{"query", "trivia"}},
		{"fmt", NewFmtCommand(), "fmt [file]", []string{"query", "write", "check", "indent", "keyword-case", "compact"}},
		{"check", NewCheckCommand(), "check [path...]", []string{"concurrency", "watch", "debounce", "ext"}},
		{"keywords", NewKeywordsCommand(), "keywords", []string{"family", "reserved"}},
		{"repl", NewReplCommand(), "repl", []string{"history-file", "prompt"}},
		{"serve", NewServeCommand(), "serve", []string{"addr", "max-body"}},
		{"lsp", NewLSPCommand("test"), "lsp", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestNewConfigCommand(t *testing.T) {
	cmd := NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"init", "show"}, names)
}

// ---------- Input Tests ----------

func TestReadQuery(t *testing.T) {
	dir := testutil.WriteQueryFiles(t, map[string]string{"q.sql": "SELECT 1"})
	file := filepath.Join(dir, "q.sql")

	tests := []struct {
		name     string
		expr     string
		args     []string
		stdin    string
		wantSrc  string
		wantName string
		wantErr  string
	}{
		{name: "inline", expr: "SELECT 2", wantSrc: "SELECT 2", wantName: "<expr>"},
		{name: "stdin", stdin: "SELECT 3", wantSrc: "SELECT 3", wantName: "<stdin>"},
		{name: "dash", args: []string{"-"}, stdin: "SELECT 4", wantSrc: "SELECT 4", wantName: "<stdin>"},
		{name: "file", args: []string{file}, wantSrc: "SELECT 1", wantName: file},
		{name: "inline and file", expr: "SELECT 2", args: []string{file}, wantErr: "cannot combine"},
		{name: "missing file", args: []string{filepath.Join(dir, "nope.sql")}, wantErr: "failed to read query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(tt.stdin))

			src, name, err := readQuery(cmd, tt.expr, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSrc, src)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

// ---------- Parse Tests ----------

func TestParseCommand_Tree(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), "", "-q", "SELECT c.id FROM c WHERE c.age > @min")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "Query 1:1")
	assert.Contains(t, out, "select: SelectClause 1:1")
	assert.Contains(t, out, `where: BinaryExpr 1:26 op=">"`)
	assert.Contains(t, out, `PropertyRef 1:26 property="age"`)
	assert.Contains(t, out, "Parameters: @min")

	// Clauses appear in query order
	assert.Less(t, strings.Index(out, "select:"), strings.Index(out, "from:"))
	assert.Less(t, strings.Index(out, "from:"), strings.Index(out, "where:"))
}

func TestParseCommand_Markdown(t *testing.T) {
	t.Setenv("DOCSQL_OUTPUT", "markdown")

	out, _, err := execute(t, NewParseCommand(), "SELECT * FROM c")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "```text\n"))
	testutil.AssertValidMarkdown(t, out)
}

func TestParseCommand_Expression(t *testing.T) {
	t.Setenv("DOCSQL_OUTPUT", "json")

	out, _, err := execute(t, NewParseCommand(), "", "-x", "-q", "c.price * (1 + @tax)")
	require.NoError(t, err)

	got := decodeJSON(t, out)
	assert.Equal(t, []any{"tax"}, got["parameters"])
	tree := got["ast"].(map[string]any)
	assert.Equal(t, "BinaryExpr", tree["node"])
	assert.Equal(t, "*", tree["op"])
}

func TestParseCommand_SyntaxError(t *testing.T) {
	out, errOut, err := execute(t, NewParseCommand(), "", "-q", "SELECT FROM c")
	require.ErrorIs(t, err, ErrInvalidQuery)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "<expr>:1:8: syntax error:")
	assert.Contains(t, errOut, "1 | SELECT FROM c\n  |        ^\n")
}

func TestParseCommand_SyntaxErrorJSON(t *testing.T) {
	t.Setenv("DOCSQL_OUTPUT", "json")

	out, _, err := execute(t, NewParseCommand(), "SELECT FROM c")
	require.ErrorIs(t, err, ErrInvalidQuery)

	e := decodeJSON(t, out)["error"].(map[string]any)
	assert.Equal(t, "syntax", e["kind"])
	assert.Equal(t, "<stdin>", e["source"])
	assert.EqualValues(t, 1, e["line"])
	assert.EqualValues(t, 8, e["column"])
	assert.EqualValues(t, 7, e["offset"])
}

// ---------- Tokens Tests ----------

func TestTokensCommand(t *testing.T) {
	out, _, err := execute(t, NewTokensCommand(), "", "-q", "select c.id")
	require.NoError(t, err)

	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "keyword")
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "identifier")
	assert.Contains(t, out, "operator")
	assert.Contains(t, out, "eof")
	assert.NotContains(t, out, "whitespace")
}

func TestTokensCommand_JSON(t *testing.T) {
	t.Setenv("DOCSQL_OUTPUT", "json")

	out, _, err := execute(t, NewTokensCommand(), "", "--trivia", "-q", "select ABS(1) -- one")
	require.NoError(t, err)

	var rows []tokenRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))

	var kinds []string
	for _, row := range rows {
		kinds = append(kinds, row.Kind)
	}
	assert.Equal(t, []string{
		"keyword", "trivia", "function", "operator", "number", "operator", "trivia", "trivia", "eof",
	}, kinds)

	assert.Equal(t, tokenRow{Kind: "keyword", Type: "SELECT", Text: "select", Line: 1, Column: 1, Offset: 0}, rows[0])
	assert.Equal(t, "line comment", rows[7].Type)
	assert.Equal(t, "-- one", rows[7].Text)
}

func TestTokensCommand_LexicalError(t *testing.T) {
	_, errOut, err := execute(t, NewTokensCommand(), "", "-q", "SELECT 'abc")
	require.ErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, errOut, "lexical error:")
}

// ---------- Fmt Tests ----------

func TestFmtCommand(t *testing.T) {
	out, _, err := execute(t, NewFmtCommand(), "select distinct top 5 * from c")
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT TOP 5 *\nFROM c\n", out)
}

func TestFmtCommand_Flags(t *testing.T) {
	out, _, err := execute(t, NewFmtCommand(), "", "--compact", "--keyword-case", "title", "-q", "select * from c")
	require.NoError(t, err)
	assert.Equal(t, "Select * From c\n", out)

	_, _, err = execute(t, NewFmtCommand(), "", "--keyword-case", "shouty", "-q", "select * from c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format.keyword_case")
}

func TestFmtCommand_Write(t *testing.T) {
	dir := testutil.WriteQueryFiles(t, map[string]string{"q.sql": "select * from c"})
	path := filepath.Join(dir, "q.sql")

	out, _, err := execute(t, NewFmtCommand(), "", "-w", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ formatted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT *\nFROM c\n", string(data))
}

func TestFmtCommand_WriteRequiresFile(t *testing.T) {
	_, _, err := execute(t, NewFmtCommand(), "SELECT 1", "-w")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--write requires a file argument")
}

func TestFmtCommand_Check(t *testing.T) {
	dir := testutil.WriteQueryFiles(t, map[string]string{
		"ugly.sql": "select * from c",
		"ok.sql":   "SELECT *\nFROM c\n",
	})

	_, _, err := execute(t, NewFmtCommand(), "", "--check", filepath.Join(dir, "ugly.sql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not formatted")

	out, _, err := execute(t, NewFmtCommand(), "", "--check", filepath.Join(dir, "ok.sql"))
	require.NoError(t, err)
	assert.Contains(t, out, "is formatted")
}

func TestFmtCommand_CommentsWarning(t *testing.T) {
	out, errOut, err := execute(t, NewFmtCommand(), "SELECT 1 -- one")
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  1\n", out)
	assert.Contains(t, errOut, "comments are not preserved")
}

// ---------- Version Tests ----------

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "default version", version: "0.1.0", wantOut: []string{"docsql v0.1.0", "document SQL"}},
		{name: "custom version", version: "1.2.3", wantOut: []string{"docsql v1.2.3"}},
		{name: "dev version", version: "dev", wantOut: []string{"docsql vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

// ---------- Config Tests ----------

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsql.yaml")

	out, _, err := execute(t, NewConfigCommand(), "", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "keyword_case: upper")

	_, _, err = execute(t, NewConfigCommand(), "", "init", path)
	require.ErrorIs(t, err, config.ErrConfigExists)

	_, _, err = execute(t, NewConfigCommand(), "", "init", "--force", path)
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	t.Setenv("DOCSQL_FORMAT_INDENT", "4")

	out, _, err := execute(t, NewConfigCommand(), "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "no config file found")
	assert.Contains(t, out, "indent: 4")

	t.Setenv("DOCSQL_OUTPUT", "json")
	out, _, err = execute(t, NewConfigCommand(), "", "show")
	require.NoError(t, err)
	format := decodeJSON(t, out)["format"].(map[string]any)
	assert.EqualValues(t, 4, format["indent"])
}
