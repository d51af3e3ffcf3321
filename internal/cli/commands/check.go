package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/docsql/internal/cli/output"
	"github.com/leapstack-labs/docsql/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check that query files parse",
		Long: `Parse every query file under the given paths and report errors.

Directories are searched recursively for files with a query extension
(.sql and .dsql by default, see check.extensions). Files named explicitly
are always checked. Files are parsed concurrently.

With --watch, files are checked again whenever they change.`,
		Example: `  # Check the current directory
  docsql check

  # Check specific files and directories
  docsql check queries/ report.sql

  # Re-check on every save
  docsql check --watch queries/

  # Machine-readable results
  docsql check -o json queries/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}

	cmd.Flags().Int("concurrency", 0, "Number of files parsed at once")
	cmd.Flags().Bool("watch", false, "Re-check files when they change")
	cmd.Flags().Duration("debounce", 0, "Delay before re-checking after a change")
	cmd.Flags().StringSlice("ext", nil, "File extensions to check in directories")

	return cmd
}

// fileResult is the outcome of parsing one file.
type fileResult struct {
	Path string
	Src  string
	Err  *parser.ParseError
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if len(args) == 0 {
		args = []string{"."}
	}

	files, err := collectFiles(args, cfg.Check.Extensions)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("collected query files", "count", len(files), "concurrency", cfg.Check.Concurrency)

	results, err := checkFiles(cmd.Context(), files, cfg.Check.Concurrency)
	if err != nil {
		return err
	}
	failed, err := reportCheck(r, results)
	if err != nil {
		return err
	}

	if !cfg.Check.Watch {
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to parse", failed, len(results))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w, err := newQueryWatcher(args, cfg.Check.Extensions, cfg.Check.Debounce, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	r.Println(r.Styles().Muted.Render("Watching for changes. Press Ctrl+C to stop."))
	return w.Run(ctx, func(paths []string) {
		results, err := checkFiles(ctx, paths, cfg.Check.Concurrency)
		if err != nil {
			r.Warning(err.Error())
			return
		}
		if _, err := reportCheck(r, results); err != nil {
			r.Warning(err.Error())
		}
	})
}

// collectFiles expands args into a sorted list of query files. Directories
// are walked for files with one of exts; hidden directories are skipped.
func collectFiles(args []string, exts []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && isHidden(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if hasQueryExt(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}

func hasQueryExt(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// checkFiles parses files with at most concurrency parsers running at once.
// Results keep the order of files. Only I/O failures are returned as errors.
func checkFiles(ctx context.Context, files []string, concurrency int) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			res := fileResult{Path: path, Src: string(data)}
			if _, err := parser.Parse(res.Src); err != nil {
				pe, ok := parser.AsParseError(err)
				if !ok {
					return fmt.Errorf("%s: %w", path, err)
				}
				res.Err = pe
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// reportCheck writes diagnostics and a summary, returning the failure count.
func reportCheck(r *output.Renderer, results []fileResult) (int, error) {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	files := make([]map[string]any, 0, len(results))
	for _, res := range results {
		entry := map[string]any{"path": res.Path, "ok": res.Err == nil}
		if res.Err != nil {
			entry["error"] = parseErrorData(res.Path, res.Err)
		}
		files = append(files, entry)
	}
	if handled, err := r.Data(map[string]any{
		"files":   files,
		"checked": len(results),
		"failed":  failed,
	}); handled {
		return failed, err
	}

	s := r.Styles()
	for _, res := range results {
		if res.Err != nil {
			_, _ = fmt.Fprint(r.ErrWriter(), s.FormatParseError(res.Path, res.Src, res.Err))
		}
	}

	if failed == 0 {
		r.Success(fmt.Sprintf("%d %s parsed", len(results), plural(len(results), "file", "files")))
		return 0, nil
	}
	r.Println(s.Error.Render(fmt.Sprintf("%d of %d %s failed to parse", failed, len(results), plural(len(results), "file", "files"))))
	return failed, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
