package core

import (
	"context"
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Receipt is the history record of one build invocation.
type Receipt struct {
	ID         int64
	Formula    string
	Version    string
	Prefix     string
	Platform   string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      []StepRecord
}

func (r Receipt) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// StepRecord is one pipeline step inside a receipt.
type StepRecord struct {
	Name     string
	Argv     string
	ExitCode int
	Duration time.Duration
}

type RunsRepository interface {
	StartRun(ctx context.Context, r Receipt) (int64, error)
	AddStep(ctx context.Context, runID int64, step StepRecord) error
	FinishRun(ctx context.Context, runID int64, status RunStatus) error
	ListRuns(ctx context.Context, limit int) ([]Receipt, error)
	GetRun(ctx context.Context, runID int64) (Receipt, error)
}
