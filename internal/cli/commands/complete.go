package commands

import (
	"sort"
	"strings"
	"unicode"

	"github.com/leapstack-labs/docsql/pkg/token"
)

// keywordCompleter completes keywords, function names and dot-commands for
// readline. Case-insensitive keywords follow the case of what was typed.
type keywordCompleter struct {
	keywords []token.Keyword
}

func newKeywordCompleter() *keywordCompleter {
	kws := token.Keywords()
	sort.Slice(kws, func(i, j int) bool { return kws[i].Spelling < kws[j].Spelling })
	return &keywordCompleter{keywords: kws}
}

// Do implements readline.AutoCompleter. It returns the suffixes that
// complete the word before pos and the length of that word.
func (c *keywordCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])

	// Dot-commands only at the start of a line
	if start > 0 && line[start-1] == '.' && strings.TrimSpace(string(line[:start-1])) == "" {
		prefix = "." + prefix
		var out [][]rune
		for _, dc := range dotCommands {
			if strings.HasPrefix(dc, prefix) {
				out = append(out, []rune(dc[len(prefix):]))
			}
		}
		return out, len([]rune(prefix))
	}

	if prefix == "" {
		return nil, 0
	}

	lower := prefix == strings.ToLower(prefix)
	var out [][]rune
	for _, kw := range c.keywords {
		if len(kw.Spelling) < len(prefix) {
			continue
		}
		head := kw.Spelling[:len(prefix)]
		if kw.CaseSensitive {
			if head == prefix {
				out = append(out, []rune(kw.Spelling[len(prefix):]))
			}
			continue
		}
		if !strings.EqualFold(head, prefix) {
			continue
		}
		rest := kw.Spelling[len(prefix):]
		if lower {
			rest = strings.ToLower(rest)
		} else {
			rest = strings.ToUpper(rest)
		}
		out = append(out, []rune(rest))
	}
	return out, len([]rune(prefix))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
