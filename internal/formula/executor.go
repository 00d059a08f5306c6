package formula

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
	"time"

	"github.com/sandevgo/unattended/pkg/log"
)

// Executor runs a single step to completion.
type Executor interface {
	Execute(ctx context.Context, step Step) StepResult
}

// ProcessExecutor runs steps as child processes of the current one.
// The child inherits the environment; combined stdout and stderr are captured
// into the result and, when Stream is set, copied there as they arrive.
type ProcessExecutor struct {
	Stream io.Writer
}

func NewProcessExecutor(stream io.Writer) *ProcessExecutor {
	return &ProcessExecutor{Stream: stream}
}

func (e *ProcessExecutor) Execute(ctx context.Context, step Step) StepResult {
	logger := log.FromCtx(ctx)
	res := StepResult{Step: step}

	cmd := exec.CommandContext(ctx, step.Command, step.Args...)
	cmd.Dir = step.Dir

	var out bytes.Buffer
	var w io.Writer = &out
	if e.Stream != nil {
		w = io.MultiWriter(&out, e.Stream)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	logger.Debug().
		Str("step", step.Name).
		Str("dir", step.Dir).
		Str("argv", step.Argv()).
		Msg("starting step")

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Output = out.Bytes()

	if e.Stream == nil && len(res.Output) > 0 {
		logger.Debug().Str("step", step.Name).Msg(string(bytes.TrimRight(res.Output, "\n")))
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr) && exitErr.ExitCode() > 0:
			res.ExitCode = exitErr.ExitCode()
		case errors.As(err, &exitErr):
			// The process ran but died from a signal; report it the way a shell does.
			res.ExitCode = signalExitCode(exitErr)
			res.Err = fmt.Errorf("%s: %w", step.Command, err)
		default:
			res.ExitCode = ExitCodeNotRun
			res.Err = fmt.Errorf("failed to run %s: %w", step.Command, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Err = ctxErr
		}
	}
	return res
}

// signalExitCode maps a process killed by a signal to 128+signum.
func signalExitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitCodeSignalBase + int(ws.Signal())
	}
	return ExitCodeSignalBase
}
