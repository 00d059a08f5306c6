package formula

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sandevgo/unattended/pkg/log"
)

// Step names as they appear in logs and in the run history.
const (
	StepBootstrap = "bootstrap"
	StepBuild     = "build"
	StepInstall   = "install"
	StepSelfTest  = "test"
)

// Runner builds and installs one formula.
type Runner struct {
	cfg       BuildConfig
	recipe    Recipe
	sourceDir string
	exec      Executor
	hooks     []StepHook
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithExecutor replaces the process executor, mainly for tests.
func WithExecutor(e Executor) RunnerOption {
	return func(r *Runner) {
		r.exec = e
	}
}

// WithStepHook registers a hook called after every step.
func WithStepHook(h StepHook) RunnerOption {
	return func(r *Runner) {
		r.hooks = append(r.hooks, h)
	}
}

func NewRunner(cfg BuildConfig, recipe Recipe, sourceDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		recipe:    recipe,
		sourceDir: sourceDir,
		exec:      NewProcessExecutor(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Config() BuildConfig {
	return r.cfg
}

// Steps returns the bootstrap, build and install steps in execution order.
func (r *Runner) Steps() []Step {
	steps := []Step{
		{
			Name:    StepBootstrap,
			Command: r.recipe.Bootstrap,
			Args:    BootstrapArgs(r.cfg, r.recipe),
			Dir:     r.sourceDir,
		},
		{
			Name:    StepBuild,
			Command: r.recipe.Make,
			Dir:     r.sourceDir,
		},
	}

	return append(steps, Step{
		Name:    StepInstall,
		Command: r.recipe.Make,
		Args:    []string{r.recipe.InstallTarget},
		Dir:     r.sourceDir,
	})
}

// Run executes the pipeline. Any failing step aborts the run and is returned
// as an *ExternalToolFailure.
func (r *Runner) Run(ctx context.Context) ([]StepResult, error) {
	ctx = log.WithComponent(ctx, "formula")
	logger := log.FromCtx(ctx)

	if err := r.recipe.Validate(); err != nil {
		return nil, err
	}
	if err := r.checkSourceDir(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("formula", r.recipe.Name).
		Str("prefix", r.cfg.Prefix).
		Str("platform", r.cfg.Platform.String()).
		Int("parallel", r.cfg.Parallelism).
		Msg("building formula")

	results, err := NewPipeline(r.exec, r.hooks...).Run(ctx, r.Steps())
	if err != nil {
		return results, err
	}

	logger.Info().Str("prefix", r.cfg.Prefix).Msg("formula installed")
	return results, nil
}

// SelfTest writes the recipe's probe file into scratchDir and runs the installed
// binary against it. A failure means the installation is broken, not the tool.
func (r *Runner) SelfTest(ctx context.Context, scratchDir string) (StepResult, error) {
	ctx = log.WithComponent(ctx, "formula")

	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return StepResult{}, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	probe := filepath.Join(scratchDir, filepath.Base(r.recipe.Probe.File))
	if err := os.WriteFile(probe, []byte(r.recipe.Probe.Content), 0o644); err != nil {
		return StepResult{}, fmt.Errorf("failed to write probe file: %w", err)
	}

	step := Step{
		Name:    StepSelfTest,
		Command: r.binaryPath(),
		Args:    r.recipe.Probe.Args,
		Dir:     scratchDir,
	}
	results, err := NewPipeline(r.exec, r.hooks...).Run(ctx, []Step{step})
	if len(results) == 0 {
		return StepResult{}, err
	}
	return results[0], err
}

func (r *Runner) binaryPath() string {
	if path.IsAbs(r.recipe.Binary) {
		return r.recipe.Binary
	}
	return path.Join(r.cfg.Prefix, strings.TrimPrefix(r.recipe.Binary, "./"))
}

func (r *Runner) checkSourceDir() error {
	info, err := os.Stat(r.sourceDir)
	if err != nil {
		return fmt.Errorf("%w: source directory: %v", ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: source %q is not a directory", ErrInvalidConfig, r.sourceDir)
	}
	return nil
}
