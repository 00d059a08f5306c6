package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/unattended/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *RunsRepo {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunsRepo(db)
}

func TestRunsRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, err := repo.StartRun(ctx, core.Receipt{
		Formula:  "cmake",
		Version:  "3.11.1",
		Prefix:   "/usr/local",
		Platform: "darwin/arm64",
	})
	require.NoError(t, err)

	require.NoError(t, repo.AddStep(ctx, id, core.StepRecord{
		Name: "bootstrap", Argv: "./bootstrap --prefix=/usr/local", Duration: 1500 * time.Millisecond,
	}))
	require.NoError(t, repo.AddStep(ctx, id, core.StepRecord{
		Name: "build", Argv: "make", ExitCode: 2, Duration: time.Second,
	}))
	require.NoError(t, repo.FinishRun(ctx, id, core.RunStatusFailed))

	rec, err := repo.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cmake", rec.Formula)
	assert.Equal(t, "darwin/arm64", rec.Platform)
	assert.Equal(t, core.RunStatusFailed, rec.Status)
	assert.False(t, rec.FinishedAt.IsZero())

	require.Len(t, rec.Steps, 2)
	assert.Equal(t, "bootstrap", rec.Steps[0].Name)
	assert.Equal(t, 1500*time.Millisecond, rec.Steps[0].Duration)
	assert.Equal(t, 2, rec.Steps[1].ExitCode)
}

func TestRunsRepo_ListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, prefix := range []string{"/opt/a", "/opt/b", "/opt/c"} {
		_, err := repo.StartRun(ctx, core.Receipt{Formula: "cmake", Prefix: prefix, Platform: "linux/amd64"})
		require.NoError(t, err)
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "/opt/c", runs[0].Prefix)
	assert.Equal(t, "/opt/b", runs[1].Prefix)
	assert.Equal(t, core.RunStatusRunning, runs[0].Status)
	assert.True(t, runs[0].FinishedAt.IsZero())
}

func TestRunsRepo_UnknownRun(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.GetRun(ctx, 42)
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = repo.FinishRun(ctx, 42, core.RunStatusSucceeded)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunsRepo_StepRequiresRun(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.AddStep(context.Background(), 99, core.StepRecord{Name: "build", Argv: "make"})
	assert.Error(t, err)
}

func TestNewDB_ReopenKeepsSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	_, err = NewRunsRepo(db).StartRun(ctx, core.Receipt{Formula: "cmake", Prefix: "/opt/a", Platform: "linux/amd64"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	version, err := migrateUp(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	runs, err := NewRunsRepo(db).ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
