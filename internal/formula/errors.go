package formula

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned before any step runs when the build inputs are unusable.
var ErrInvalidConfig = errors.New("invalid build config")

// ExitCodeNotRun is reported when a command could not be started at all,
// matching the shell's "command not found" status.
const ExitCodeNotRun = 127

// ExitCodeSignalBase is added to the signal number of a step killed by a signal.
const ExitCodeSignalBase = 128

// ExternalToolFailure reports a pipeline step whose process exited non-zero or
// could not be started. The pipeline never continues past it.
type ExternalToolFailure struct {
	Step     string
	Command  string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *ExternalToolFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %q (%s) failed with exit code %d: %v", e.Step, e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("step %q (%s) failed with exit code %d", e.Step, e.Command, e.ExitCode)
}

func (e *ExternalToolFailure) Unwrap() error {
	return e.Err
}

// failureFrom converts a failed StepResult into the error returned to callers.
func failureFrom(res StepResult) *ExternalToolFailure {
	code := res.ExitCode
	if code == 0 {
		code = ExitCodeNotRun
	}
	return &ExternalToolFailure{
		Step:     res.Step.Name,
		Command:  res.Step.Command,
		ExitCode: code,
		Output:   res.Output,
		Err:      res.Err,
	}
}
