package parser_test

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/leapstack-labs/docsql/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

// ---------- Token Recognition Tests ----------

func TestTokenizeQuery(t *testing.T) {
	tokens, err := parser.Tokenize("SELECT c.id FROM c WHERE c.age >= 21 AND c.x <> @p OR c.n ?? 'd'")
	require.NoError(t, err)

	want := []token.TokenType{
		token.SELECT, token.IDENT, token.DOT, token.IDENT,
		token.FROM, token.IDENT,
		token.WHERE, token.IDENT, token.DOT, token.IDENT, token.GE, token.NUMBER,
		token.AND, token.IDENT, token.DOT, token.IDENT, token.LTGT, token.PARAM,
		token.OR, token.IDENT, token.DOT, token.IDENT, token.DQUESTION, token.STRING,
		token.EOF,
	}
	assert.Equal(t, want, tokenTypes(tokens))
	assert.Equal(t, "@p", tokens[17].Literal)
	assert.Equal(t, "'d'", tokens[23].Literal)
}

func TestTokenizeOperators(t *testing.T) {
	tokens, err := parser.Tokenize("+ - * / % || = != <> < > <= >= & | ^ ~ ? ?? : . , ( ) [ ] { }")
	require.NoError(t, err)

	want := []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.DPIPE,
		token.EQ, token.NE, token.LTGT, token.LT, token.GT, token.LE, token.GE,
		token.AMP, token.PIPE, token.CARET, token.TILDE, token.QUESTION, token.DQUESTION,
		token.COLON, token.DOT, token.COMMA, token.LPAREN, token.RPAREN,
		token.LBRACKET, token.RBRACKET, token.LBRACE, token.RBRACE, token.EOF,
	}
	assert.Equal(t, want, tokenTypes(tokens))
}

func TestTokenizeLongestMatch(t *testing.T) {
	tokens, err := parser.Tokenize("a<=b>=c<>d!=e||f??g")
	require.NoError(t, err)

	var ops []string
	for _, tok := range tokens {
		if token.IsOperator(tok.Type) {
			ops = append(ops, tok.Literal)
		}
	}
	assert.Equal(t, []string{"<=", ">=", "<>", "!=", "||", "??"}, ops)
}

func TestTokenizeNumbers(t *testing.T) {
	tokens, err := parser.Tokenize("1 1.5 .5 1e10 1E-5 2.5e+3 0x1F 42")
	require.NoError(t, err)

	var lits []string
	for _, tok := range tokens[:len(tokens)-1] {
		assert.Equal(t, token.NUMBER, tok.Type, tok.Literal)
		lits = append(lits, tok.Literal)
	}
	assert.Equal(t, []string{"1", "1.5", ".5", "1e10", "1E-5", "2.5e+3", "0x1F", "42"}, lits)
}

func TestTokenizeNumberFollowedByDot(t *testing.T) {
	tokens, err := parser.Tokenize("c[1].x")
	require.NoError(t, err)
	assert.Equal(t, []token.TokenType{
		token.IDENT, token.LBRACKET, token.NUMBER, token.RBRACKET, token.DOT, token.IDENT, token.EOF,
	}, tokenTypes(tokens))
}

func TestTokenizeStrings(t *testing.T) {
	tokens, err := parser.Tokenize(`'a' "b" 'it\'s' "é" 'tab\there'`)
	require.NoError(t, err)

	var lits []string
	for _, tok := range tokens[:len(tokens)-1] {
		assert.Equal(t, token.STRING, tok.Type)
		lits = append(lits, tok.Literal)
	}
	assert.Equal(t, []string{`'a'`, `"b"`, `'it\'s'`, `"é"`, `'tab\there'`}, lits)
}

func TestTokenizeWords(t *testing.T) {
	tokens, err := parser.Tokenize("select FROM Where true TRUE NaN nan udf UDF café _x x1 array_length")
	require.NoError(t, err)

	want := []token.TokenType{
		token.SELECT, token.FROM, token.WHERE,
		token.TRUE, token.IDENT,
		token.NAN, token.IDENT,
		token.UDF, token.IDENT,
		token.IDENT, token.IDENT, token.IDENT,
		token.ARRAY_LENGTH,
		token.EOF,
	}
	assert.Equal(t, want, tokenTypes(tokens))
	assert.Equal(t, "café", tokens[9].Literal)
}

func TestTokenPositions(t *testing.T) {
	tokens, err := parser.Tokenize("SELECT\n  c.id\nFROM 'é' x")
	require.NoError(t, err)

	c := tokens[1]
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, c.Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 4, Offset: 10}, c.End)

	from := tokens[4]
	assert.Equal(t, token.FROM, from.Type)
	assert.Equal(t, token.Position{Line: 3, Column: 1, Offset: 14}, from.Pos)

	// 'é' is two bytes but one column
	x := tokens[6]
	assert.Equal(t, "x", x.Literal)
	assert.Equal(t, token.Position{Line: 3, Column: 10, Offset: 24}, x.Pos)

	eof := tokens[len(tokens)-1]
	assert.Equal(t, token.EOF, eof.Type)
	assert.Equal(t, 25, eof.Pos.Offset)
}

// ---------- Trivia Tests ----------

var scanCorpus = []string{
	"",
	"   ",
	"SELECT * FROM c",
	"SELECT c.id FROM c WHERE c.age >= 21 ORDER BY c.name",
	"-- leading comment\nSELECT /* inline */ c.x -- trailing\nFROM c\n",
	"SELECT\t{\"a\": [1, 2.5, 'x']}\r\n  FROM  root r JOIN t IN r.tags",
	"SELECT VALUE udf.f(@p, NaN, Infinity) /* multi\nline */",
	"SELECT 'ünïcödé' AS s FROM c WHERE c.name LIKE '%\\u00e9%' ESCAPE '\\\\'",
}

func TestScanReconstructsInput(t *testing.T) {
	for _, input := range scanCorpus {
		t.Run(input, func(t *testing.T) {
			tokens, trivia, err := parser.Scan(input)
			require.NoError(t, err)

			type piece struct {
				start, end int
				text       string
			}
			var pieces []piece
			for _, tok := range tokens {
				if tok.Type == token.EOF {
					continue
				}
				pieces = append(pieces, piece{tok.Pos.Offset, tok.End.Offset, tok.Literal})
			}
			for _, tr := range trivia {
				pieces = append(pieces, piece{tr.Span.Start.Offset, tr.Span.End.Offset, tr.Text})
			}
			sort.Slice(pieces, func(i, j int) bool { return pieces[i].start < pieces[j].start })

			var sb strings.Builder
			offset := 0
			for _, pc := range pieces {
				assert.Equal(t, offset, pc.start, "gap or overlap before %q", pc.text)
				assert.Equal(t, input[pc.start:pc.end], pc.text)
				sb.WriteString(pc.text)
				offset = pc.end
			}
			assert.Equal(t, input, sb.String())
		})
	}
}

func TestScanTriviaKinds(t *testing.T) {
	_, trivia, err := parser.Scan("SELECT -- note\n/* block */ 1")
	require.NoError(t, err)

	var kinds []token.TriviaKind
	for _, tr := range trivia {
		kinds = append(kinds, tr.Kind)
	}
	assert.Equal(t, []token.TriviaKind{
		token.Whitespace, token.LineComment, token.Whitespace, token.BlockComment, token.Whitespace,
	}, kinds)
	assert.Equal(t, "-- note", trivia[1].Text)
	assert.Equal(t, "/* block */", trivia[3].Text)
	assert.True(t, trivia[3].IsComment())
}

func TestScanIsIdempotent(t *testing.T) {
	for _, input := range scanCorpus {
		first, firstTrivia, err := parser.Scan(input)
		require.NoError(t, err)
		second, secondTrivia, err := parser.Scan(input)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, firstTrivia, secondTrivia)
	}
}

// ---------- Lexical Error Tests ----------

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		offset  int
		message string
	}{
		{"unterminated string", "'abc", 0, "unterminated string"},
		{"newline in string", "'ab\ncd'", 0, "unterminated string"},
		{"unterminated comment", "SELECT /* x", 7, "unterminated block comment"},
		{"exponent without digits", "1e", 0, `invalid number literal "1e"`},
		{"number into letters", "x = 12abc", 4, `invalid number literal "12abc"`},
		{"empty hex", "0x", 0, "invalid number"},
		{"bad hex", "0xZZ", 0, `invalid number literal "0xZZ"`},
		{"illegal character", "a # b", 2, `unexpected character "#"`},
		{"lone bang", "a ! b", 2, `unexpected character "!"`},
		{"bare at", "@ x", 0, "parameter name expected"},
		{"bad escape", `'\q'`, 1, "invalid escape"},
		{"short unicode escape", `'\u12'`, 1, "invalid escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := parser.NewLexer(tt.input)
			var err error
			for range 10 {
				var tok token.Token
				tok, err = l.NextToken()
				if err != nil || tok.Type == token.EOF {
					break
				}
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, parser.ErrLexical))

			pe, ok := parser.AsParseError(err)
			require.True(t, ok)
			assert.Equal(t, parser.LexicalError, pe.Kind)
			assert.Equal(t, tt.offset, pe.Pos.Offset)
			assert.Contains(t, pe.Message, tt.message)

			// Errors are sticky
			tok, again := l.NextToken()
			assert.Equal(t, err, again)
			assert.Equal(t, token.ILLEGAL, tok.Type)
		})
	}
}

func TestTokenizeErrorReturnsNoTokens(t *testing.T) {
	tokens, err := parser.Tokenize("SELECT 'oops")
	require.Error(t, err)
	assert.Nil(t, tokens)
}

// ---------- String Decoding Tests ----------

func TestDecodeString(t *testing.T) {
	tests := []struct {
		lexeme string
		want   string
	}{
		{`'abc'`, "abc"},
		{`"it's"`, "it's"},
		{`'a\'b'`, "a'b"},
		{`"a\"b"`, `a"b`},
		{`'a\nb\tc'`, "a\nb\tc"},
		{`'\\'`, `\`},
		{`'\/'`, "/"},
		{`'\b\f\r'`, "\b\f\r"},
		{`'é'`, "é"},
		{`'😀'`, "😀"},
		{`''`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			got, err := parser.DecodeString(tt.lexeme)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStringRejectsMalformed(t *testing.T) {
	for _, lexeme := range []string{`'abc`, `x`, `'\x'`, `'\u12'`} {
		_, err := parser.DecodeString(lexeme)
		assert.Error(t, err, lexeme)
	}
}
