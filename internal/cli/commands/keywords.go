package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/docsql/internal/cli/output"
	"github.com/leapstack-labs/docsql/pkg/token"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeywordsOptions holds options for the keywords command.
type KeywordsOptions struct {
	Family   string // Filter by family
	Reserved bool   // Only reserved words
}

// keywordInfo is the listing entry for one keyword.
type keywordInfo struct {
	Keyword       string `json:"keyword" yaml:"keyword"`
	Family        string `json:"family" yaml:"family"`
	Reserved      bool   `json:"reserved" yaml:"reserved"`
	CaseSensitive bool   `json:"case_sensitive" yaml:"case_sensitive"`
}

// NewKeywordsCommand creates the keywords command.
func NewKeywordsCommand() *cobra.Command {
	opts := &KeywordsOptions{}
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "List keywords and built-in functions",
		Long: `List every keyword the lexer recognizes, grouped by family.

Reserved words (clauses and constants) cannot be used as names. Built-in
function names stay usable as identifiers. Case-sensitive keywords must be
written exactly as listed; all others match in any case.`,
		Example: `  # List everything
  docsql keywords

  # Only string functions
  docsql keywords --family string

  # Reserved words as JSON
  docsql keywords --reserved -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeywords(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Family, "family", "", "Filter by family")
	cmd.Flags().BoolVar(&opts.Reserved, "reserved", false, "Only list reserved words")

	_ = cmd.RegisterFlagCompletionFunc("family", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(token.Families()))
		for _, f := range token.Families() {
			names = append(names, familyFlagName(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runKeywords(cmd *cobra.Command, opts *KeywordsOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	families := token.Families()
	if opts.Family != "" {
		f, err := parseFamily(opts.Family)
		if err != nil {
			return err
		}
		families = []token.Family{f}
	}

	groups := make(map[token.Family][]keywordInfo)
	all := []keywordInfo{}
	for _, kw := range token.Keywords() {
		if !slices.Contains(families, kw.Family) {
			continue
		}
		if opts.Reserved && !token.IsReserved(kw.Type) {
			continue
		}
		info := keywordInfo{
			Keyword:       kw.Spelling,
			Family:        kw.Family.String(),
			Reserved:      token.IsReserved(kw.Type),
			CaseSensitive: kw.CaseSensitive,
		}
		groups[kw.Family] = append(groups[kw.Family], info)
		all = append(all, info)
	}

	if handled, err := r.Data(all); handled {
		return err
	}

	s := r.Styles()
	title := cases.Title(language.English)
	first := true
	for _, f := range families {
		entries := groups[f]
		if len(entries) == 0 {
			continue
		}
		if !first {
			r.Println()
		}
		first = false

		heading := fmt.Sprintf("%s (%d)", title.String(f.String()), len(entries))
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println("## " + heading)
			r.Println()
		} else {
			r.Println(s.Header2.Render(heading))
		}

		rows := make([]table.Row, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, table.Row{e.Keyword, yesNo(e.Reserved), yesNo(e.CaseSensitive)})
		}
		r.Table(table.Row{"Keyword", "Reserved", "Case-sensitive"}, rows)
	}
	return nil
}

// familyFlagName spells a family for the command line: "date and time"
// becomes "date-and-time".
func familyFlagName(f token.Family) string {
	return strings.ReplaceAll(f.String(), " ", "-")
}

func parseFamily(s string) (token.Family, error) {
	want := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", " ")
	names := make([]string, 0, len(token.Families()))
	for _, f := range token.Families() {
		if f.String() == want {
			return f, nil
		}
		names = append(names, familyFlagName(f))
	}
	return 0, fmt.Errorf("unknown keyword family %q (expected one of: %s)", s, strings.Join(names, ", "))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
