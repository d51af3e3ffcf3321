package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Printer handles query formatting with indentation and keyword style.
// In compact mode line breaks collapse to single spaces.
type Printer struct {
	opts         Options
	caser        cases.Caser
	output       *bytes.Buffer
	depth        int
	atLineStart  bool
	pendingSpace bool
}

func newPrinter(opts Options) *Printer {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	var caser cases.Caser
	switch opts.KeywordCase {
	case KeywordLower:
		caser = cases.Lower(language.Und)
	case KeywordTitle:
		caser = cases.Title(language.Und)
	default:
		caser = cases.Upper(language.Und)
	}
	return &Printer{
		opts:        opts,
		caser:       caser,
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	if p.opts.Compact {
		return p.output.String()
	}
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	if p.pendingSpace {
		p.pendingSpace = false
		if n := p.output.Len(); n > 0 && s[0] != ')' && s[0] != ' ' {
			if last := p.output.Bytes()[n-1]; last != '(' && last != ' ' {
				p.output.WriteByte(' ')
			}
		}
	}
	if p.atLineStart {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	if p.opts.Compact {
		p.pendingSpace = true
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*p.opts.Indent; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.write(" ")
}

// kw prints keywords and operators. Case-sensitive keywords keep their
// canonical spelling; the rest follow the configured keyword case.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		kw, ok := token.LookupKeyword(t)
		switch {
		case !ok:
			p.write(t.String())
		case kw.CaseSensitive:
			p.write(kw.Spelling)
		default:
			p.write(p.caser.String(kw.Spelling))
		}
	}
}

// block prints a clause body on its own indented lines.
func (p *Printer) block(body func()) {
	p.writeln()
	p.indent()
	body()
	p.dedent()
	p.writeln()
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			}
		}
	}
}
