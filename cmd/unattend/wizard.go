package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sandevgo/unattended/internal/config"
	"github.com/sandevgo/unattended/internal/service/installer"
	"github.com/sandevgo/unattended/internal/service/ui"
	"github.com/sandevgo/unattended/internal/wizard"
	"github.com/spf13/cobra"
)

var wizardFlags struct {
	home         string
	subpath      string
	component    string
	welcomeDelay time.Duration
	catalogue    []string
	preselected  []string
	noLaunch     bool
	headless     bool
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Drive an installer wizard unattended",
}

var planCmd = &cobra.Command{
	Use:          "plan",
	Short:        "Print every UI action the driver would take",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := prepare(cmd)
		defer flushLog()

		wcfg := wizardConfig(ctx, cmd)
		ops, err := wizard.Plan(ctx, recorderOptions(), wcfg.DriverOptions()...)
		fmt.Fprint(cmd.OutOrStdout(), renderOps(ops))
		return err
	},
}

var rehearseCmd = &cobra.Command{
	Use:          "rehearse",
	Short:        "Run the driver against a simulated installer in real time",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := prepare(cmd)
		defer flushLog()

		wcfg := wizardConfig(ctx, cmd)
		out := cmd.OutOrStdout()

		if !wizardFlags.headless && isatty.IsTerminal(os.Stdout.Fd()) {
			_, err := installer.RunRehearsal(ctx, recorderOptions(), wcfg.DriverOptions()...)
			return err
		}
		return rehearseHeadless(ctx, out, wcfg)
	},
}

func init() {
	flags := wizardCmd.PersistentFlags()
	flags.StringVar(&wizardFlags.home, "home", "", "home directory the target path is built from")
	flags.StringVar(&wizardFlags.subpath, "subpath", "", "target directory below home (default: Qt)")
	flags.StringVar(&wizardFlags.component, "component", "", "component to install")
	flags.DurationVar(&wizardFlags.welcomeDelay, "welcome-delay", 0, "wait before leaving the Welcome page (default: 3s)")
	flags.StringSliceVar(&wizardFlags.catalogue, "available", nil, "components the simulated installer offers (default: any)")
	flags.StringSliceVar(&wizardFlags.preselected, "preselect", nil, "components selected before the wizard starts")
	flags.BoolVar(&wizardFlags.noLaunch, "no-launch-checkbox", false, "simulate an installer without the launch checkbox")

	rehearseCmd.Flags().BoolVar(&wizardFlags.headless, "headless", false, "do not start the terminal UI")

	wizardCmd.AddCommand(planCmd, rehearseCmd)
	rootCmd.AddCommand(wizardCmd)
}

func wizardConfig(ctx context.Context, cmd *cobra.Command) *config.WizardConfig {
	c := config.NewWizardConfig(ctx)
	flags := cmd.Flags()

	if flags.Changed("home") {
		c.HomeDir = wizardFlags.home
	}
	if flags.Changed("subpath") {
		c.Subpath = wizardFlags.subpath
	}
	if flags.Changed("component") {
		c.Component = wizardFlags.component
	}
	if flags.Changed("welcome-delay") {
		c.WelcomeDelay = wizardFlags.welcomeDelay
	}
	return c
}

func recorderOptions() []wizard.RecorderOption {
	var opts []wizard.RecorderOption
	if len(wizardFlags.catalogue) > 0 {
		opts = append(opts, wizard.WithComponents(wizardFlags.catalogue...))
	}
	if len(wizardFlags.preselected) > 0 {
		opts = append(opts, wizard.WithPreselected(wizardFlags.preselected...))
	}
	if wizardFlags.noLaunch {
		opts = append(opts, wizard.WithoutLaunchCheckbox())
	}
	return opts
}

func rehearseHeadless(ctx context.Context, out io.Writer, wcfg *config.WizardConfig) error {
	host := wizard.NewRecorder(recorderOptions()...)
	driver := wizard.New(host, append(wcfg.DriverOptions(), wizard.WithContext(ctx))...)

	err := wizard.NewSession(host, driver).Run(ctx)
	fmt.Fprint(out, renderOps(host.Ops()))
	return err
}

func renderOps(ops []wizard.Op) string {
	rows := make([][]string, 0, len(ops))
	for i, op := range ops {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), op.Stage, op.String()})
	}
	return ui.Table([]string{"#", "PAGE", "ACTION"}, rows)
}
