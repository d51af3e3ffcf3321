package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/leapstack-labs/docsql/pkg/token"
)

// Lexer tokenizes query text. It makes a single forward pass and is not
// restartable; create a new Lexer for each input.
type Lexer struct {
	input   string
	pos     int  // offset of ch
	readPos int  // offset after ch
	ch      rune // current char, 0 at end of input
	line    int  // line of ch (1-based)
	col     int  // column of ch in runes (1-based)

	trivia []token.Trivia
	err    *ParseError // sticky after the first error
	errTok token.Token
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
	l.decode()
	return l
}

// decode loads the rune at l.pos into l.ch.
func (l *Lexer) decode() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.readPos = l.pos
		return
	}
	r, w := rune(l.input[l.pos]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRuneInString(l.input[l.pos:])
	}
	l.ch = r
	l.readPos = l.pos + w
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.atEOF() {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos = l.readPos
	l.decode()
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r := rune(l.input[l.readPos])
	if r >= utf8.RuneSelf {
		r, _ = utf8.DecodeRuneInString(l.input[l.readPos:])
	}
	return r
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// Trivia returns the whitespace and comments skipped so far.
func (l *Lexer) Trivia() []token.Trivia {
	return l.trivia
}

// NextToken returns the next token. After the end of input it keeps
// returning EOF. After an error it keeps returning the same error.
func (l *Lexer) NextToken() (token.Token, error) {
	if l.err != nil {
		return l.errTok, l.err
	}
	if err := l.skipTrivia(); err != nil {
		return l.fail(err)
	}

	start := l.currentPos()
	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: start, End: start}, nil
	}

	switch {
	case isLetter(l.ch) || l.ch == '_':
		word := l.readWord()
		return l.emit(token.Classify(word), start), nil
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		if err := l.readNumber(start); err != nil {
			return l.fail(err)
		}
		return l.emit(token.NUMBER, start), nil
	case l.ch == '\'' || l.ch == '"':
		if err := l.readString(start); err != nil {
			return l.fail(err)
		}
		return l.emit(token.STRING, start), nil
	case l.ch == '@':
		l.readChar()
		if l.readWord() == "" {
			return l.fail(lexError(start, ErrEmptyParameter))
		}
		return l.emit(token.PARAM, start), nil
	}

	typ, width := l.operator()
	if typ == token.ILLEGAL {
		return l.fail(lexError(start, ErrUnexpectedChar, string(l.ch)))
	}
	for range width {
		l.readChar()
	}
	return l.emit(typ, start), nil
}

// emit returns a token spanning start to the current position.
func (l *Lexer) emit(t token.TokenType, start token.Position) token.Token {
	return token.Token{
		Type:    t,
		Literal: l.input[start.Offset:l.pos],
		Pos:     start,
		End:     l.currentPos(),
	}
}

func (l *Lexer) fail(err *ParseError) (token.Token, error) {
	end := err.Pos
	if l.pos > end.Offset {
		end = l.currentPos()
	} else if !l.atEOF() {
		end = token.Position{Line: end.Line, Column: end.Column + 1, Offset: l.readPos}
	}
	l.err = err
	l.errTok = token.Token{
		Type:    token.ILLEGAL,
		Literal: l.input[err.Pos.Offset:end.Offset],
		Pos:     err.Pos,
		End:     end,
	}
	return l.errTok, l.err
}

// operator matches punctuation at the current position, preferring the
// longest match. It returns ILLEGAL when nothing matches.
func (l *Lexer) operator() (token.TokenType, int) {
	next := l.peekChar()
	switch l.ch {
	case '<':
		switch next {
		case '=':
			return token.LE, 2
		case '>':
			return token.LTGT, 2
		}
		return token.LT, 1
	case '>':
		if next == '=' {
			return token.GE, 2
		}
		return token.GT, 1
	case '!':
		if next == '=' {
			return token.NE, 2
		}
		return token.ILLEGAL, 0
	case '|':
		if next == '|' {
			return token.DPIPE, 2
		}
		return token.PIPE, 1
	case '?':
		if next == '?' {
			return token.DQUESTION, 2
		}
		return token.QUESTION, 1
	}
	if t, ok := singleCharOps[l.ch]; ok {
		return t, 1
	}
	return token.ILLEGAL, 0
}

var singleCharOps = map[rune]token.TokenType{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'=': token.EQ,
	'&': token.AMP,
	'^': token.CARET,
	'~': token.TILDE,
	':': token.COLON,
	'.': token.DOT,
	',': token.COMMA,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	'{': token.LBRACE,
	'}': token.RBRACE,
}

// skipTrivia skips whitespace and comments, recording each run.
func (l *Lexer) skipTrivia() *ParseError {
	for {
		switch {
		case isSpace(l.ch) && !l.atEOF():
			start := l.currentPos()
			for isSpace(l.ch) && !l.atEOF() {
				l.readChar()
			}
			l.addTrivia(token.Whitespace, start)

		case l.ch == '-' && l.peekChar() == '-':
			start := l.currentPos()
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			l.addTrivia(token.LineComment, start)

		case l.ch == '/' && l.peekChar() == '*':
			start := l.currentPos()
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			for {
				if l.atEOF() {
					return lexError(start, ErrUnterminatedComment)
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			l.addTrivia(token.BlockComment, start)

		default:
			return nil
		}
	}
}

func (l *Lexer) addTrivia(kind token.TriviaKind, start token.Position) {
	l.trivia = append(l.trivia, token.Trivia{
		Kind: kind,
		Text: l.input[start.Offset:l.pos],
		Span: token.Span{Start: start, End: l.currentPos()},
	})
}

// readWord reads a run of letters, digits and underscores.
func (l *Lexer) readWord() string {
	start := l.pos
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal: integer, decimal, scientific or hex.
// A number running straight into a letter is malformed.
func (l *Lexer) readNumber(start token.Position) *ParseError {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		if !isHexDigit(l.ch) {
			return l.badNumber(start)
		}
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return l.checkNumberEnd(start)
	}

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5)
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		if !isDigit(l.ch) {
			return l.badNumber(start)
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.checkNumberEnd(start)
}

func (l *Lexer) checkNumberEnd(start token.Position) *ParseError {
	if !l.atEOF() && (isLetter(l.ch) || l.ch == '_') {
		return l.badNumber(start)
	}
	return nil
}

// badNumber consumes the rest of the word so the error names the whole run.
func (l *Lexer) badNumber(start token.Position) *ParseError {
	l.readWord()
	return lexError(start, ErrInvalidNumber, l.input[start.Offset:l.pos])
}

// readString reads a quoted string literal and validates its escapes.
// Decoding happens later, in DecodeString.
func (l *Lexer) readString(start token.Position) *ParseError {
	quote := l.ch
	l.readChar() // skip opening quote

	for {
		switch {
		case l.atEOF() || l.ch == '\n' || l.ch == '\r':
			return lexError(start, ErrUnterminatedString)
		case l.ch == quote:
			l.readChar() // skip closing quote
			return nil
		case l.ch == '\\':
			escPos := l.currentPos()
			l.readChar()
			if err := l.readEscape(escPos); err != nil {
				return err
			}
		default:
			l.readChar()
		}
	}
}

func (l *Lexer) readEscape(escPos token.Position) *ParseError {
	switch l.ch {
	case '\'', '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		l.readChar()
		return nil
	case 'u':
		l.readChar()
		for range 4 {
			if !isHexDigit(l.ch) {
				return lexError(escPos, ErrInvalidEscape, l.input[escPos.Offset:l.pos])
			}
			l.readChar()
		}
		return nil
	}
	if l.atEOF() {
		return lexError(escPos, ErrUnterminatedString)
	}
	l.readChar()
	return lexError(escPos, ErrInvalidEscape, l.input[escPos.Offset:l.pos])
}

func isLetter(ch rune) bool {
	if ch < utf8.RuneSelf {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
	}
	return unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return ch >= utf8.RuneSelf && unicode.IsSpace(ch)
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string) ([]token.Token, error) {
	tokens, _, err := Scan(input)
	return tokens, err
}

// Scan returns all tokens and the trivia between them. Tokens and trivia
// together cover the input exactly.
func Scan(input string) ([]token.Token, []token.Trivia, error) {
	l := NewLexer(input)
	tokens := make([]token.Token, 0, len(input)/4+1)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, l.Trivia(), nil
		}
	}
}

// DecodeString returns the value of a string literal lexeme, including its
// quotes, with escape sequences resolved.
func DecodeString(lexeme string) (string, error) {
	if len(lexeme) < 2 || lexeme[0] != lexeme[len(lexeme)-1] || (lexeme[0] != '\'' && lexeme[0] != '"') {
		return "", lexError(token.Position{}, ErrUnterminatedString)
	}
	body := lexeme[1 : len(lexeme)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(body) {
			return "", lexError(token.Position{}, ErrInvalidEscape, body[i:])
		}
		i++
		switch body[i] {
		case '\'', '"', '\\', '/':
			sb.WriteByte(body[i])
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			r, n, ok := decodeUnicodeEscape(body[i-1:])
			if !ok {
				return "", lexError(token.Position{}, ErrInvalidEscape, body[i-1:min(i+5, len(body))])
			}
			sb.WriteRune(r)
			i += n - 2
		default:
			return "", lexError(token.Position{}, ErrInvalidEscape, body[i-1:i+1])
		}
	}
	return sb.String(), nil
}

// decodeUnicodeEscape decodes a \uXXXX escape at the start of s, joining a
// following low surrogate escape when s starts with a high surrogate. It
// returns the rune and the number of bytes consumed.
func decodeUnicodeEscape(s string) (rune, int, bool) {
	hex4 := func(s string) (rune, bool) {
		if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
			return 0, false
		}
		v, err := strconv.ParseUint(s[2:6], 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}

	r, ok := hex4(s)
	if !ok {
		return 0, 0, false
	}
	if utf16.IsSurrogate(r) {
		if lo, ok := hex4(s[6:]); ok {
			if pair := utf16.DecodeRune(r, lo); pair != unicode.ReplacementChar {
				return pair, 12, true
			}
		}
	}
	return r, 6, true
}
