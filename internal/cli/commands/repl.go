package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/docsql/internal/cli/output"
	"github.com/leapstack-labs/docsql/pkg/ast"
	"github.com/leapstack-labs/docsql/pkg/format"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/spf13/cobra"
)

// replName labels REPL input in diagnostics.
const replName = "<repl>"

// replModes are the views the REPL can print for a parsed query.
var replModes = []string{"tree", "format", "json", "tokens"}

var dotCommands = []string{".help", ".mode", ".clear", ".quit", ".exit"}

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse queries interactively",
		Long: `Start an interactive session. Each query is parsed when a line ends
with a semicolon and printed as a tree, formatted text, JSON or tokens.

Type .help for commands. Keywords complete with Tab.`,
		Example: `  # Start the REPL
  docsql repl

  # Keep history between sessions
  docsql repl --history-file ~/.docsql_history`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}

	cmd.Flags().String("history-file", "", "File to keep input history in")
	cmd.Flags().String("prompt", "", "Prompt text")

	return cmd
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	prompt := cfg.Repl.Prompt
	contPrompt := fmt.Sprintf("%*s", len(prompt), "...> ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.Repl.HistoryFile,
		AutoComplete:    newKeywordCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := newReplSession(cmdCtx.Renderer, cfg.FormatOptions())
	cmdCtx.Logger.Debug("repl started", "history", cfg.Repl.HistoryFile)

	r := cmdCtx.Renderer
	r.Println("docsql REPL")
	r.Println("Type .help for commands, .quit to exit")
	r.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if s.handleLine(line) {
			return nil
		}
		if s.pending() {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
}

// replSession holds the state of one REPL: the view mode and any
// unfinished multi-line query.
type replSession struct {
	r       *output.Renderer
	fmtOpts format.Options
	mode    string
	buf     strings.Builder
}

func newReplSession(r *output.Renderer, fmtOpts format.Options) *replSession {
	return &replSession{r: r, fmtOpts: fmtOpts, mode: "tree"}
}

func (s *replSession) pending() bool {
	return s.buf.Len() > 0
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// handleLine processes one line of input and reports whether to quit.
func (s *replSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.pending() {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.dotCommand(trimmed)
		}
	}

	// Accumulate lines until one ends with a semicolon
	s.buf.WriteString(line)
	if !strings.HasSuffix(trimmed, ";") {
		s.buf.WriteString("\n")
		return false
	}

	src := strings.TrimSuffix(strings.TrimRight(s.buf.String(), " \t\r\n"), ";")
	s.buf.Reset()
	s.eval(src)
	s.r.Println()
	return false
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printReplHelp(s.r.Writer())

	case ".mode":
		if len(parts) < 2 {
			s.r.Printf("mode: %s\n", s.mode)
			return false
		}
		mode := strings.ToLower(parts[1])
		if !slices.Contains(replModes, mode) {
			_, _ = fmt.Fprintf(s.r.ErrWriter(), "Unknown mode: %s (expected one of: %s)\n", parts[1], strings.Join(replModes, ", "))
			return false
		}
		s.mode = mode

	case ".clear":
		_, _ = fmt.Fprint(s.r.Writer(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.r.ErrWriter(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// eval parses src and prints it in the current mode.
func (s *replSession) eval(src string) {
	q, err := parser.Parse(src)
	if err != nil {
		if pe, ok := parser.AsParseError(err); ok {
			_, _ = fmt.Fprint(s.r.ErrWriter(), s.r.Styles().FormatParseError(replName, src, pe))
		} else {
			_, _ = fmt.Fprintf(s.r.ErrWriter(), "Error: %v\n", err)
		}
		return
	}

	switch s.mode {
	case "format":
		printQuery(s.r, format.Format(q, s.fmtOpts))
	case "json":
		if err := s.r.JSON(ast.Dump(q)); err != nil {
			_, _ = fmt.Fprintf(s.r.ErrWriter(), "Error: %v\n", err)
		}
	case "tokens":
		toks, _, err := parser.Scan(src)
		if err != nil {
			_, _ = fmt.Fprintf(s.r.ErrWriter(), "Error: %v\n", err)
			return
		}
		rows := make([]table.Row, 0, len(toks))
		for _, row := range tokenRows(toks) {
			rows = append(rows, table.Row{row.Kind, row.Type, row.Text, fmt.Sprintf("%d:%d", row.Line, row.Column)})
		}
		s.r.Table(table.Row{"Kind", "Type", "Text", "Pos"}, rows)
	default:
		s.r.Println(renderTree(s.r.Styles(), ast.Dump(q)))
	}
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .mode [name]    Show or set the output: tree, format, json, tokens
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Queries must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completes keywords and function names
`
	_, _ = fmt.Fprintln(w, help)
}
