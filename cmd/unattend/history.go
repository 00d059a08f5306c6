package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/unattended/internal/config"
	"github.com/sandevgo/unattended/internal/core"
	"github.com/sandevgo/unattended/internal/service/ui"
	"github.com/sandevgo/unattended/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:          "history [run-id]",
	Short:        "List recorded builds, or the steps of one build",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := prepare(cmd)
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()
		repo := sqlite.NewRunsRepo(db)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			run, err := repo.GetRun(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(out, renderSteps(run))
			return nil
		}

		limit := appCfg.HistoryLimit
		if cmd.Flags().Changed("limit") {
			limit = historyLimit
		}
		runs, err := repo.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}
		fmt.Fprint(out, renderRuns(runs))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func renderRuns(runs []core.Receipt) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format(time.DateTime),
			r.Formula,
			r.Prefix,
			r.Platform,
			ui.Status(string(r.Status), r.Status != core.RunStatusFailed),
			r.Duration().Round(time.Second).String(),
		})
	}
	return ui.Table([]string{"ID", "STARTED", "FORMULA", "PREFIX", "PLATFORM", "STATUS", "TOOK"}, rows)
}

func renderSteps(run core.Receipt) string {
	header := fmt.Sprintf("run %d: %s %s -> %s (%s)\n\n", run.ID, run.Formula, run.Version, run.Prefix, run.Status)

	rows := make([][]string, 0, len(run.Steps))
	for _, s := range run.Steps {
		rows = append(rows, []string{
			s.Name,
			ui.Status(strconv.Itoa(s.ExitCode), s.ExitCode == 0),
			s.Duration.Round(time.Millisecond).String(),
			s.Argv,
		})
	}
	return header + ui.Table([]string{"STEP", "EXIT", "TOOK", "COMMAND"}, rows)
}
