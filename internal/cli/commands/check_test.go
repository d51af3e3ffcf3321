package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	clitestutil "github.com/leapstack-labs/docsql/internal/cli/testutil"
	"github.com/leapstack-labs/docsql/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultExts = []string{".sql", ".dsql"}

// ---------- File Collection Tests ----------

func TestCollectFiles(t *testing.T) {
	dir := clitestutil.WriteQueryFiles(t, map[string]string{
		"a.sql":          "SELECT 1",
		"b.dsql":         "SELECT 2",
		"notes.txt":      "not a query",
		"sub/e.SQL":      "SELECT 3",
		".hidden/d.sql":  "SELECT 4",
		"sub/deep/f.sql": "SELECT 5",
	})

	files, err := collectFiles([]string{dir}, defaultExts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.sql"),
		filepath.Join(dir, "b.dsql"),
		filepath.Join(dir, "sub", "deep", "f.sql"),
		filepath.Join(dir, "sub", "e.SQL"),
	}, files)

	// Explicit files are kept whatever their extension, and only once
	files, err = collectFiles([]string{filepath.Join(dir, "notes.txt"), dir + "/notes.txt"}, defaultExts)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")}, defaultExts)
	assert.Error(t, err)
}

// ---------- Check Tests ----------

func TestCheckFiles(t *testing.T) {
	dir := clitestutil.WriteQueryFiles(t, map[string]string{
		"ok.sql":  "SELECT * FROM c",
		"bad.sql": "SELECT * FROM",
		"lex.sql": "SELECT 'open",
	})
	files := []string{
		filepath.Join(dir, "bad.sql"),
		filepath.Join(dir, "lex.sql"),
		filepath.Join(dir, "ok.sql"),
	}

	for _, concurrency := range []int{0, 1, 3} {
		results, err := checkFiles(context.Background(), files, concurrency)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, files[0], results[0].Path)
		require.NotNil(t, results[0].Err)
		assert.Equal(t, "syntax", results[0].Err.Kind.String())

		require.NotNil(t, results[1].Err)
		assert.Equal(t, "lexical", results[1].Err.Kind.String())

		assert.Nil(t, results[2].Err)
		assert.Equal(t, "SELECT * FROM c", results[2].Src)
	}

	_, err := checkFiles(context.Background(), []string{filepath.Join(dir, "missing.sql")}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestCheckCommand(t *testing.T) {
	dir := clitestutil.WriteQueryFiles(t, map[string]string{
		"a.sql": "SELECT * FROM c",
		"b.sql": "SELECT c.id FROM c WHERE c.x = @x",
	})

	out, errOut, err := execute(t, NewCheckCommand(), "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 files parsed")
	assert.Empty(t, errOut)
}

func TestCheckCommand_Failures(t *testing.T) {
	dir := clitestutil.WriteQueryFiles(t, map[string]string{
		"a.sql":   "SELECT * FROM c",
		"bad.sql": "SELECT *\nFROM c\nWHERE",
		"c.txt":   "ignored",
	})

	out, errOut, err := execute(t, NewCheckCommand(), "", "--concurrency", "2", dir)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed to parse", err.Error())
	assert.Contains(t, out, "1 of 2 files failed to parse")
	assert.Contains(t, errOut, filepath.Join(dir, "bad.sql")+":3:6: syntax error:")
	assert.Contains(t, errOut, "3 | WHERE\n")
}

func TestCheckCommand_JSON(t *testing.T) {
	t.Setenv("DOCSQL_OUTPUT", "json")
	dir := clitestutil.WriteQueryFiles(t, map[string]string{
		"a.dsql":  "SELECT * FROM c",
		"bad.sql": "SELECT FROM c",
	})

	out, _, err := execute(t, NewCheckCommand(), "", dir)
	require.Error(t, err)

	got := decodeJSON(t, out)
	assert.EqualValues(t, 2, got["checked"])
	assert.EqualValues(t, 1, got["failed"])

	files := got["files"].([]any)
	require.Len(t, files, 2)
	first := files[0].(map[string]any)
	assert.Equal(t, true, first["ok"])
	second := files[1].(map[string]any)
	assert.Equal(t, false, second["ok"])
	assert.Equal(t, "syntax", second["error"].(map[string]any)["kind"])
}

func TestCheckCommand_Extensions(t *testing.T) {
	dir := clitestutil.WriteQueryFiles(t, map[string]string{
		"a.sql":   "SELECT FROM",
		"b.query": "SELECT 1",
	})

	out, _, err := execute(t, NewCheckCommand(), "", "--ext", "query", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 1 file parsed")
}

// ---------- Watch Tests ----------

func TestQueryWatcher_Matches(t *testing.T) {
	dir := clitestutil.WriteQueryFiles(t, map[string]string{
		"q/a.sql":   "SELECT 1",
		"other.txt": "x",
	})

	w, err := newQueryWatcher([]string{filepath.Join(dir, "q"), filepath.Join(dir, "other.txt")}, defaultExts, 0, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	assert.True(t, w.matches(filepath.Join(dir, "q", "a.sql")))
	assert.True(t, w.matches(filepath.Join(dir, "q", "new", "b.dsql")))
	assert.True(t, w.matches(filepath.Join(dir, "other.txt")))
	assert.False(t, w.matches(filepath.Join(dir, "q", "notes.txt")))
	assert.False(t, w.matches(filepath.Join(dir, "a.sql")))
}

func TestQueryWatcher_Run(t *testing.T) {
	dir := clitestutil.WriteQueryFiles(t, map[string]string{"a.sql": "SELECT 1"})

	w, err := newQueryWatcher([]string{dir}, defaultExts, 20*time.Millisecond, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { changes <- paths })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.sql"), []byte("SELECT 2"), 0644))

	select {
	case paths := <-changes:
		assert.Equal(t, []string{filepath.Join(dir, "b.sql")}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
