package commands

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/leapstack-labs/docsql/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Query  string // Inline query text
	Trivia bool   // Include whitespace and comments
}

// tokenRow is one lexeme of the token listing.
type tokenRow struct {
	Kind   string `json:"kind" yaml:"kind"`
	Type   string `json:"type" yaml:"type"`
	Text   string `json:"text" yaml:"text"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Offset int    `json:"offset" yaml:"offset"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a query",
		Long: `Print the token stream of a query.

Each token is shown with its kind, its type, the source text it covers and
where it starts. Use --trivia to include whitespace and comments.`,
		Example: `  # Tokenize a query file
  docsql tokens query.sql

  # Include comments and whitespace
  docsql tokens --trivia -q "SELECT 1 -- one"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Query text to tokenize")
	cmd.Flags().BoolVar(&opts.Trivia, "trivia", false, "Include whitespace and comments")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	src, name, err := readQuery(cmd, opts.Query, args)
	if err != nil {
		return err
	}

	toks, trivia, err := parser.Scan(src)
	if err != nil {
		return reportParseError(r, name, src, err)
	}

	rows := tokenRows(toks)
	if opts.Trivia {
		rows = mergeTrivia(rows, trivia)
	}

	if handled, err := r.Data(rows); handled {
		return err
	}

	tableRows := make([]table.Row, 0, len(rows))
	for i, row := range rows {
		tableRows = append(tableRows, table.Row{i + 1, row.Kind, row.Type, row.Text, row.Line, row.Column, row.Offset})
	}
	r.Table(table.Row{"#", "Kind", "Type", "Text", "Line", "Col", "Offset"}, tableRows)
	return nil
}

func tokenRows(toks []token.Token) []tokenRow {
	rows := make([]tokenRow, 0, len(toks))
	for _, tok := range toks {
		rows = append(rows, tokenRow{
			Kind:   token.Category(tok.Type),
			Type:   tok.Type.String(),
			Text:   tok.Literal,
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
			Offset: tok.Pos.Offset,
		})
	}
	return rows
}

// mergeTrivia interleaves trivia with tokens by source offset.
func mergeTrivia(rows []tokenRow, trivia []token.Trivia) []tokenRow {
	for _, tr := range trivia {
		rows = append(rows, tokenRow{
			Kind:   "trivia",
			Type:   tr.Kind.String(),
			Text:   tr.Text,
			Line:   tr.Span.Start.Line,
			Column: tr.Span.Start.Column,
			Offset: tr.Span.Start.Offset,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Offset < rows[j].Offset
	})
	return rows
}
