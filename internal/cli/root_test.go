package cli

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/leapstack-labs/docsql/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "docsql", cmd.Use)
	for _, flag := range []string{"config", "output", "color", "log-level", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"version", "parse", "tokens", "fmt", "check", "keywords", "repl", "serve", "lsp", "config", "completion"})
}

func TestRootCmd_StoresConfigAndLogger(t *testing.T) {
	t.Chdir(t.TempDir())

	var (
		gotCfg    *config.Config
		gotLogger *slog.Logger
	)
	root := NewRootCmd()
	root.AddCommand(&cobra.Command{
		Use: "probe",
		Run: func(cmd *cobra.Command, _ []string) {
			gotCfg = config.GetConfig(cmd.Context())
			gotLogger = config.GetLogger(cmd.Context())
		},
	})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"probe", "-o", "yaml", "--verbose"})

	require.NoError(t, root.Execute())
	require.NotNil(t, gotCfg)
	assert.Equal(t, "yaml", gotCfg.Output)
	assert.True(t, gotCfg.Verbose)
	require.NotNil(t, gotLogger)
	assert.True(t, gotLogger.Enabled(context.Background(), slog.LevelDebug))
}

func TestRootCmd_InvalidConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"keywords", "--config", "missing.yaml"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := NewRootCmd()
			buf := new(bytes.Buffer)
			root.SetOut(buf)
			root.SetArgs([]string{"completion", shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, buf.String(), "docsql")
		})
	}

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, root.Execute())
}
