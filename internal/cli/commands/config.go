package commands

import (
	"fmt"

	"github.com/leapstack-labs/docsql/internal/cli/config"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage docsql configuration",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Example: `  # Create docsql.yaml in the current directory
  docsql config init

  # Replace an existing file
  docsql config init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "docsql.yaml"
			if len(args) > 0 {
				path = args[0]
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := config.WriteFile(path, config.Default(), force); err != nil {
				return err
			}
			cmdCtx.Logger.Info("wrote config file", "path", path)
			cmdCtx.Renderer.Success(fmt.Sprintf("Created %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
DOCSQL_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			if handled, err := r.Data(cmdCtx.Cfg); handled {
				return err
			}

			if used := config.GetConfigFileUsed(); used != "" {
				r.Println(r.Styles().Muted.Render("# from " + used))
			} else {
				r.Println(r.Styles().Muted.Render("# no config file found, showing defaults"))
			}
			data, err := config.Marshal(cmdCtx.Cfg)
			if err != nil {
				return err
			}
			_, _ = r.Writer().Write(data)
			return nil
		},
	}
}
