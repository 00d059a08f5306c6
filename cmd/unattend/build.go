package main

import (
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/sandevgo/unattended/internal/config"
	"github.com/sandevgo/unattended/internal/formula"
	"github.com/sandevgo/unattended/internal/service/history"
	"github.com/sandevgo/unattended/internal/storage/sqlite"
	"github.com/sandevgo/unattended/pkg/log"
	"github.com/spf13/cobra"
)

var formulaFlags struct {
	prefix    string
	jobs      int
	platform  string
	arch      string
	source    string
	recipe    string
	verbose   bool
	noHistory bool
}

var buildCmd = &cobra.Command{
	Use:          "build",
	Short:        "Bootstrap, build and install a formula",
	Long:         `Runs bootstrap, make and make install in the source directory. The first failing step stops the run and its exit code becomes the exit code of unattend.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := prepare(cmd)
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		fcfg := formulaConfig(ctx, cmd)

		recipe, err := fcfg.LoadRecipe()
		if err != nil {
			return err
		}
		cfg, err := fcfg.BuildConfig(recipe)
		if err != nil {
			return err
		}

		opts := []formula.RunnerOption{formula.WithExecutor(newExecutor(fcfg.Verbose))}

		var rec *history.Recorder
		if appCfg.EnableHistory && !formulaFlags.noHistory {
			db := openHistory(ctx, appCfg)
			if db != nil {
				defer db.Close()
				// Receipts are written even if the build is interrupted.
				hctx := context.WithoutCancel(ctx)
				rec = history.NewRecorder(sqlite.NewRunsRepo(db))
				rec.Start(hctx, cfg, recipe)
				opts = append(opts, formula.WithStepHook(rec.Hook(hctx)))
			}
		}

		_, err = formula.NewRunner(cfg, recipe, fcfg.SourceDir, opts...).Run(ctx)
		if rec != nil {
			rec.Finish(context.WithoutCancel(ctx), err)
		}
		return err
	},
}

func init() {
	addFormulaFlags(buildCmd)
	buildCmd.Flags().IntVarP(&formulaFlags.jobs, "jobs", "j", 0, "parallel build jobs, 0 for one per CPU")
	buildCmd.Flags().StringVar(&formulaFlags.platform, "os", "", "target OS: darwin or linux (default: host)")
	buildCmd.Flags().StringVar(&formulaFlags.arch, "arch", "", "target architecture (default: host)")
	buildCmd.Flags().StringVarP(&formulaFlags.source, "source", "s", "", "source directory (default: .)")
	buildCmd.Flags().BoolVarP(&formulaFlags.verbose, "verbose", "v", false, "stream tool output to stderr")
	buildCmd.Flags().BoolVar(&formulaFlags.noHistory, "no-history", false, "do not record this run")
	rootCmd.AddCommand(buildCmd)
}

// addFormulaFlags registers the flags shared by build and test.
func addFormulaFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&formulaFlags.prefix, "prefix", "p", "", "install prefix (default: /usr/local)")
	cmd.Flags().StringVarP(&formulaFlags.recipe, "formula", "f", "", "formula recipe file (default: built-in cmake)")
}

// formulaConfig reads the environment and applies any flags set on cmd.
func formulaConfig(ctx context.Context, cmd *cobra.Command) *config.FormulaConfig {
	c := config.NewFormulaConfig(ctx)
	flags := cmd.Flags()

	if flags.Changed("prefix") {
		c.Prefix = formulaFlags.prefix
	}
	if flags.Changed("formula") {
		c.Recipe = formulaFlags.recipe
	}
	if flags.Changed("jobs") {
		c.SetJobs(formulaFlags.jobs)
	}
	if flags.Changed("os") {
		c.OS = formulaFlags.platform
	}
	if flags.Changed("arch") {
		c.Arch = formulaFlags.arch
	}
	if flags.Changed("source") {
		c.SourceDir = formulaFlags.source
	}
	if flags.Changed("verbose") {
		c.Verbose = formulaFlags.verbose
	}
	return c
}

func newExecutor(verbose bool) formula.Executor {
	var stream io.Writer
	if verbose {
		stream = os.Stderr
	}
	return formula.NewProcessExecutor(stream)
}

// openHistory opens the history database. It returns nil when the store is
// unavailable; the build goes on without a receipt.
func openHistory(ctx context.Context, appCfg *config.AppConfig) *sql.DB {
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("run history disabled")
		return nil
	}
	return db
}
