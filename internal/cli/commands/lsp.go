package commands

import (
	"github.com/leapstack-labs/docsql/internal/lsp"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. It reports
parse errors as diagnostics, completes keywords, functions and
@parameters, shows keyword hover and formats whole documents with the
configured format settings. Diagnostics apply to files with the
extensions listed under check.extensions.`,
		Example: `  # Start LSP server (usually called by an editor)
  docsql lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
		Format:     cmdCtx.Cfg.FormatOptions(),
		Extensions: cmdCtx.Cfg.Check.Extensions,
		Version:    version,
		Logger:     cmdCtx.Logger,
	})
	return server.Run()
}
