package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/docsql/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser and formatter as a JSON API",
		Long: `Serve the parser and formatter as a JSON API.

Endpoints:
  GET  /healthz        liveness
  POST /v1/parse       {"query": "...", "expression": false}
  POST /v1/format      {"query": "...", "indent": 2, "keyword_case": "upper", "compact": false}
  POST /v1/tokens      {"query": "...", "trivia": false}
  GET  /v1/keywords    ?family=string&reserved=true

Parse failures return 422 with the error kind and position.`,
		Example: `  # Listen on the configured address
  docsql serve

  # Listen on all interfaces
  docsql serve --addr :7878`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Address to listen on (default from config)")
	cmd.Flags().Int64("max-body", 0, "Maximum request body size in bytes (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	srv := server.NewServer(server.Config{
		Addr:         cfg.Serve.Addr,
		MaxBodyBytes: cfg.Serve.MaxBodyBytes,
		Format:       cfg.FormatOptions(),
		Logger:       cmdCtx.Logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Println(cmdCtx.Renderer.Styles().Info.Render("Listening on http://" + cfg.Serve.Addr))
	return srv.Serve(ctx)
}
