package main

import (
	"fmt"
	"os"

	"github.com/sandevgo/unattended/internal/formula"
	"github.com/sandevgo/unattended/pkg/log"
	"github.com/spf13/cobra"
)

var scratchDir string

var testCmd = &cobra.Command{
	Use:          "test",
	Short:        "Run the installed binary against a probe project",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := prepare(cmd)
		defer flushLog()
		logger := log.FromCtx(ctx)

		fcfg := formulaConfig(ctx, cmd)
		recipe, err := fcfg.LoadRecipe()
		if err != nil {
			return err
		}
		cfg, err := fcfg.BuildConfig(recipe)
		if err != nil {
			return err
		}

		dir := scratchDir
		if dir == "" {
			dir, err = os.MkdirTemp("", "unattend-test-*")
			if err != nil {
				return fmt.Errorf("failed to create scratch directory: %w", err)
			}
			defer os.RemoveAll(dir)
		}

		runner := formula.NewRunner(cfg, recipe, fcfg.SourceDir, formula.WithExecutor(newExecutor(fcfg.Verbose)))
		res, err := runner.SelfTest(ctx, dir)
		if err != nil {
			return err
		}

		logger.Info().Str("command", res.Step.Argv()).Dur("took", res.Duration).Msg("self-test passed")
		return nil
	},
}

func init() {
	addFormulaFlags(testCmd)
	testCmd.Flags().StringVar(&scratchDir, "scratch", "", "keep the probe project in this directory")
	rootCmd.AddCommand(testCmd)
}
