package history

import (
	"context"
	"time"

	"github.com/sandevgo/unattended/internal/core"
	"github.com/sandevgo/unattended/internal/formula"
	"github.com/sandevgo/unattended/pkg/log"
)

// Recorder writes a build's receipt as the pipeline progresses.
// Every store error is logged and swallowed: history never changes a build's outcome.
type Recorder struct {
	repo  core.RunsRepository
	runID int64
}

func NewRecorder(repo core.RunsRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Start opens a receipt for the build described by cfg and recipe.
func (r *Recorder) Start(ctx context.Context, cfg formula.BuildConfig, recipe formula.Recipe) {
	id, err := r.repo.StartRun(ctx, core.Receipt{
		Formula:   recipe.Name,
		Version:   recipe.Version,
		Prefix:    cfg.Prefix,
		Platform:  cfg.Platform.String(),
		StartedAt: time.Now(),
	})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to record run")
		return
	}
	r.runID = id
}

// Hook returns a step hook that appends each result to the open receipt.
func (r *Recorder) Hook(ctx context.Context) formula.StepHook {
	return func(res formula.StepResult) {
		if r.runID == 0 {
			return
		}
		err := r.repo.AddStep(ctx, r.runID, core.StepRecord{
			Name:     res.Step.Name,
			Argv:     res.Step.Argv(),
			ExitCode: res.ExitCode,
			Duration: res.Duration,
		})
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("step", res.Step.Name).Msg("failed to record step")
		}
	}
}

// Finish closes the receipt with the status implied by runErr.
func (r *Recorder) Finish(ctx context.Context, runErr error) {
	if r.runID == 0 {
		return
	}
	status := core.RunStatusSucceeded
	if runErr != nil {
		status = core.RunStatusFailed
	}
	if err := r.repo.FinishRun(ctx, r.runID, status); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to finish run record")
	}
}

func (r *Recorder) RunID() int64 {
	return r.runID
}
