package token

// TriviaKind distinguishes the kinds of skipped source text.
type TriviaKind int

// Trivia kinds.
const (
	Whitespace   TriviaKind = iota
	LineComment             // -- comment
	BlockComment            // /* comment */
)

func (k TriviaKind) String() string {
	switch k {
	case Whitespace:
		return "whitespace"
	case LineComment:
		return "line comment"
	case BlockComment:
		return "block comment"
	}
	return "unknown"
}

// Trivia is source text between tokens: whitespace or a comment.
type Trivia struct {
	Kind TriviaKind
	Text string // exact source text, including comment delimiters
	Span Span
}

// IsComment returns true for line and block comments.
func (t Trivia) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}
