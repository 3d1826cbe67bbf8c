package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/config"
	"github.com/agentpm-dev/agentpm/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		schemaSource string
		strict       bool
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .agentpm.yaml configuration file",
		Long:  "Create a .agentpm.yaml with the default lint settings. Manifests are not created.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := starterConfig(schemaSource, strict)
			if err := cfg.Validate(); err != nil {
				return err
			}
			content, err := config.Render(cfg)
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}

			if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaSource, "schema", "", "Schema file path or URL to record in the config")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures by default")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .agentpm.yaml")

	return cmd
}

func starterConfig(schemaSource string, strict bool) domain.ProjectConfig {
	cfg := domain.DefaultConfig()
	cfg.Lint.Schema = schemaSource
	cfg.Lint.Strict = strict
	cfg.Lint.Format = string(domain.FormatPretty)
	cfg.Lint.Exclude = []string{"**/node_modules/**"}
	cfg.Lint.Rules.Enable = []string{}
	cfg.Lint.Rules.Disable = []string{}
	return cfg
}
