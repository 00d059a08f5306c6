package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/unattended/internal/config"
	"github.com/sandevgo/unattended/pkg/env"
	"github.com/spf13/cobra"
)

// fileConfig is everything that can live in the runtime .env file.
type fileConfig struct {
	App     config.AppConfig
	Formula config.FormulaConfig
	Wizard  config.WizardConfig
}

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the runtime configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write the resolved configuration to the runtime .env file",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := prepare(cmd)
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		content, err := resolvedConfig(ctx)
		if err != nil {
			return err
		}

		path := appCfg.GetEnvPath()
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the resolved configuration",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := prepare(cmd)
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		content, err := resolvedConfig(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# runtime path: %s\n", appCfg.GetRuntimePath())
		fmt.Fprint(out, content)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing .env file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func resolvedConfig(ctx context.Context) (string, error) {
	c := fileConfig{
		App:     *config.NewAppConfig(ctx),
		Formula: *config.NewFormulaConfig(ctx),
		Wizard:  *config.NewWizardConfig(ctx),
	}
	// The runtime path locates the file, so it cannot come from it.
	c.App.RuntimePath = ""
	return env.MarshalEnv(c)
}
