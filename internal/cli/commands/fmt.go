package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/docsql/internal/cli/output"
	"github.com/leapstack-labs/docsql/pkg/format"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/spf13/cobra"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Query string // Inline query text
	Write bool   // Rewrite the file in place
	Check bool   // Fail when the input is not formatted
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Format a query",
		Long: `Parse a query and print it in canonical form.

Formatting is controlled by the format section of docsql.yaml and by the
--indent, --keyword-case and --compact flags. Comments are not kept.`,
		Example: `  # Print the formatted query
  docsql fmt query.sql

  # Rewrite the file in place
  docsql fmt -w query.sql

  # Fail in CI when a file is not formatted
  docsql fmt --check query.sql

  # Single line, lower-case keywords
  docsql fmt --compact --keyword-case lower -q "select * from c"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Query text to format")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to the file")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit with an error if the input is not formatted")
	cmd.Flags().Int("indent", 0, "Spaces per indentation level")
	cmd.Flags().String("keyword-case", "", "Keyword spelling: upper, lower, title")
	cmd.Flags().Bool("compact", false, "Print on a single line")

	_ = cmd.RegisterFlagCompletionFunc("keyword-case", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"upper", "lower", "title"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	if opts.Write && (len(args) == 0 || args[0] == "-") {
		return fmt.Errorf("--write requires a file argument")
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	fmtOpts := cmdCtx.Cfg.FormatOptions()

	src, name, err := readQuery(cmd, opts.Query, args)
	if err != nil {
		return err
	}

	q, err := parser.Parse(src)
	if err != nil {
		return reportParseError(r, name, src, err)
	}

	formatted := format.Format(q, fmtOpts)
	if fmtOpts.Compact {
		formatted += "\n"
	}
	changed := formatted != src

	if hasComments(src) {
		r.Warning(fmt.Sprintf("%s: comments are not preserved by fmt", name))
	}

	if opts.Write && changed {
		if err := writeInPlace(args[0], formatted); err != nil {
			return err
		}
		cmdCtx.Logger.Info("formatted file", "path", args[0])
	}

	handled, err := r.Data(map[string]any{
		"source":    name,
		"formatted": formatted,
		"changed":   changed,
	})
	if err != nil {
		return err
	}
	if !handled {
		switch {
		case opts.Check:
			if !changed {
				r.Success(name + " is formatted")
			}
		case opts.Write:
			r.Success("formatted " + name)
		default:
			printQuery(r, formatted)
		}
	}

	if opts.Check && changed && !opts.Write {
		return fmt.Errorf("%s is not formatted", name)
	}
	return nil
}

// printQuery writes query text, highlighted in text mode and fenced in markdown.
func printQuery(r *output.Renderer, text string) {
	text = strings.TrimSuffix(text, "\n")
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("```sql")
		r.Println(text)
		r.Println("```")
		return
	}
	r.Println(r.Styles().Highlight(text))
}

func writeInPlace(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// hasComments reports whether src contains a line or block comment.
func hasComments(src string) bool {
	_, trivia, err := parser.Scan(src)
	if err != nil {
		return false
	}
	for _, tr := range trivia {
		if tr.IsComment() {
			return true
		}
	}
	return false
}
