package formula

import (
	"context"

	"github.com/sandevgo/unattended/pkg/log"
)

// Pipeline runs steps strictly in order and stops at the first failure.
type Pipeline struct {
	exec  Executor
	hooks []StepHook
}

func NewPipeline(exec Executor, hooks ...StepHook) *Pipeline {
	return &Pipeline{exec: exec, hooks: hooks}
}

// Run returns the results of every step that was started. When a step fails the
// error is an *ExternalToolFailure and no later step is executed.
func (p *Pipeline) Run(ctx context.Context, steps []Step) ([]StepResult, error) {
	logger := log.FromCtx(ctx)
	results := make([]StepResult, 0, len(steps))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		logger.Info().Msgf("[%d/%d] %s", i+1, len(steps), step.Name)
		res := p.exec.Execute(ctx, step)
		results = append(results, res)

		for _, hook := range p.hooks {
			hook(res)
		}

		if !res.Succeeded() {
			logger.Error().
				Str("step", step.Name).
				Int("exit_code", res.ExitCode).
				Err(res.Err).
				Msg("step failed")
			return results, failureFrom(res)
		}

		logger.Debug().
			Str("step", step.Name).
			Dur("duration", res.Duration).
			Msg("step completed")
	}
	return results, nil
}
