package formula

import (
	"strings"
	"time"
)

// Step is one external command in the pipeline.
type Step struct {
	Name    string
	Command string
	Args    []string
	Dir     string
}

// Argv returns the command line as it would be typed.
func (s Step) Argv() string {
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}

// StepResult is what running a Step produced.
// Err is set when the process could not be started or waited on.
type StepResult struct {
	Step     Step
	ExitCode int
	Output   []byte
	Duration time.Duration
	Err      error
}

func (r StepResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// StepHook observes each finished step, successful or not.
type StepHook func(StepResult)
