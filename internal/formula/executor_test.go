package formula

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestProcessExecutor_CapturesOutputAndExitCode(t *testing.T) {
	requireShell(t)

	var stream bytes.Buffer
	e := NewProcessExecutor(&stream)

	res := e.Execute(context.Background(), Step{
		Name:    "fail",
		Command: "sh",
		Args:    []string{"-c", "echo out; echo err >&2; exit 3"},
		Dir:     t.TempDir(),
	})

	assert.False(t, res.Succeeded())
	assert.NoError(t, res.Err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, string(res.Output), "out")
	assert.Contains(t, string(res.Output), "err")
	assert.Equal(t, string(res.Output), stream.String())
}

func TestProcessExecutor_Success(t *testing.T) {
	requireShell(t)

	res := NewProcessExecutor(nil).Execute(context.Background(), Step{
		Name:    "ok",
		Command: "sh",
		Args:    []string{"-c", "pwd"},
		Dir:     t.TempDir(),
	})

	assert.True(t, res.Succeeded())
	assert.Equal(t, 0, res.ExitCode)
}

func TestProcessExecutor_MissingCommand(t *testing.T) {
	res := NewProcessExecutor(nil).Execute(context.Background(), Step{
		Name:    "missing",
		Command: "definitely-not-a-real-command-xyz",
		Dir:     t.TempDir(),
	})

	assert.False(t, res.Succeeded())
	assert.Error(t, res.Err)
	assert.Equal(t, ExitCodeNotRun, res.ExitCode)
}

func TestProcessExecutor_KilledBySignal(t *testing.T) {
	requireShell(t)

	res := NewProcessExecutor(nil).Execute(context.Background(), Step{
		Name:    "oom",
		Command: "sh",
		Args:    []string{"-c", "kill -9 $$"},
		Dir:     t.TempDir(),
	})

	assert.False(t, res.Succeeded())
	assert.Error(t, res.Err)
	assert.Equal(t, ExitCodeSignalBase+9, res.ExitCode)
	assert.NotEqual(t, ExitCodeNotRun, res.ExitCode)

	failure := failureFrom(res)
	assert.Equal(t, 137, failure.ExitCode)
}
