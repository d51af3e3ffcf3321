package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/docsql/internal/cli/output"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/spf13/cobra"
)

// ErrInvalidQuery is returned when a query fails to parse. The diagnostic
// has already been written to stderr by the time it is returned.
var ErrInvalidQuery = errors.New("invalid query")

// stdinName labels queries read from standard input.
const stdinName = "<stdin>"

// readQuery returns the query text and a name for diagnostics. An inline
// expression wins over a file argument; "-" or no argument reads stdin.
func readQuery(cmd *cobra.Command, expr string, args []string) (src, name string, err error) {
	if expr != "" {
		if len(args) > 0 {
			return "", "", fmt.Errorf("cannot combine --query with a file argument")
		}
		return expr, "<expr>", nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), stdinName, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read query: %w", err)
	}
	return string(data), args[0], nil
}

// reportParseError writes a diagnostic for err and returns the error the
// command should exit with. Errors that are not parse errors pass through.
func reportParseError(r *output.Renderer, name, src string, err error) error {
	pe, ok := parser.AsParseError(err)
	if !ok {
		return err
	}

	if handled, dataErr := r.Data(map[string]any{"error": parseErrorData(name, pe)}); handled {
		if dataErr != nil {
			return dataErr
		}
		return ErrInvalidQuery
	}

	_, _ = fmt.Fprint(r.ErrWriter(), r.Styles().FormatParseError(name, src, pe))
	return ErrInvalidQuery
}

// parseErrorData is the structured form of a parse error.
func parseErrorData(name string, pe *parser.ParseError) map[string]any {
	return map[string]any{
		"source":  name,
		"kind":    pe.Kind.String(),
		"message": pe.Message,
		"line":    pe.Pos.Line,
		"column":  pe.Pos.Column,
		"offset":  pe.Pos.Offset,
	}
}
