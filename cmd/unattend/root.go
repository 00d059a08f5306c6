package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/unattended/internal/config"
	"github.com/sandevgo/unattended/internal/formula"
	"github.com/sandevgo/unattended/internal/service/ui"
	"github.com/sandevgo/unattended/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "unattend",
	Short: "Unattended builds and installer wizards",
	Long: `unattend builds and installs a source formula through a fail-fast
bootstrap, make, make install pipeline, and drives graphical installer
wizards without a human at the keyboard.`,
}

// Execute runs the CLI and returns the process exit code. A failed external
// tool passes its own exit code through.
func Execute(ctx context.Context) int {
	CustomizeHelp(rootCmd)

	return exitCode(rootCmd.ExecuteContext(ctx))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var failure *formula.ExternalToolFailure
	if errors.As(err, &failure) && failure.ExitCode > 0 {
		return failure.ExitCode
	}
	return 1
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}

// prepare sets up logging and loads the runtime .env before any config is parsed.
func prepare(cmd *cobra.Command) (context.Context, func()) {
	ctx, flushLog := setupLogger(cmd.Context())
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to init env")
	}
	return ctx, flushLog
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Values already in the environment win over the file.
	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableInheritedFlags}}{{StyleTitle "GLOBAL FLAGS"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
