package formula

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor records invoked steps and fails the ones listed in exitCodes.
type stubExecutor struct {
	calls     []Step
	exitCodes map[string]int
	startErr  map[string]error
}

func (s *stubExecutor) Execute(_ context.Context, step Step) StepResult {
	s.calls = append(s.calls, step)
	res := StepResult{Step: step, ExitCode: s.exitCodes[step.Name], Output: []byte(step.Name + " output")}
	if err, ok := s.startErr[step.Name]; ok {
		res.Err = err
	}
	return res
}

func (s *stubExecutor) names() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Name)
	}
	return out
}

func newTestRunner(t *testing.T, exec Executor, opts ...RunnerOption) *Runner {
	t.Helper()
	cfg, err := NewBuildConfig("cmake", "/opt/tool", 4, Platform{OS: OSLinux, Arch: "amd64"})
	require.NoError(t, err)
	return NewRunner(cfg, DefaultRecipe(), t.TempDir(), append([]RunnerOption{WithExecutor(exec)}, opts...)...)
}

func TestRunner_Steps(t *testing.T) {
	r := newTestRunner(t, &stubExecutor{})
	steps := r.Steps()

	require.Len(t, steps, 3)
	assert.Equal(t, StepBootstrap, steps[0].Name)
	assert.Equal(t, "./bootstrap", steps[0].Command)
	assert.Equal(t, "--prefix=/opt/tool", steps[0].Args[0])
	assert.Equal(t, Step{Name: StepBuild, Command: "make", Dir: steps[0].Dir}, steps[1])
	assert.Equal(t, []string{"install"}, steps[2].Args)
}

func TestRunner_Run_Success(t *testing.T) {
	exec := &stubExecutor{}
	var observed []string
	r := newTestRunner(t, exec, WithStepHook(func(res StepResult) {
		observed = append(observed, res.Step.Name)
	}))

	results, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, results, 3)
	assert.Equal(t, []string{StepBootstrap, StepBuild, StepInstall}, exec.names())
	assert.Equal(t, exec.names(), observed)
}

func TestRunner_Run_BuildFailureSkipsInstall(t *testing.T) {
	exec := &stubExecutor{exitCodes: map[string]int{StepBuild: 2}}
	r := newTestRunner(t, exec)

	results, err := r.Run(context.Background())
	require.Error(t, err)

	var failure *ExternalToolFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, StepBuild, failure.Step)
	assert.Equal(t, 2, failure.ExitCode)
	assert.Equal(t, []byte("build output"), failure.Output)

	assert.Equal(t, []string{StepBootstrap, StepBuild}, exec.names())
	assert.Len(t, results, 2)
	assert.NotContains(t, exec.names(), StepInstall)
}

func TestRunner_Run_BootstrapCannotStart(t *testing.T) {
	exec := &stubExecutor{startErr: map[string]error{StepBootstrap: errors.New("no such file")}}
	r := newTestRunner(t, exec)

	_, err := r.Run(context.Background())

	var failure *ExternalToolFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, ExitCodeNotRun, failure.ExitCode)
	assert.Equal(t, []string{StepBootstrap}, exec.names())
}

func TestRunner_Run_MissingSourceDir(t *testing.T) {
	exec := &stubExecutor{}
	cfg, err := NewBuildConfig("cmake", "/opt/tool", 1, Platform{OS: OSLinux, Arch: "amd64"})
	require.NoError(t, err)
	r := NewRunner(cfg, DefaultRecipe(), filepath.Join(t.TempDir(), "missing"), WithExecutor(exec))

	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, exec.calls)
}

func TestRunner_Run_RecipeWithoutInstallTarget(t *testing.T) {
	exec := &stubExecutor{}
	cfg, err := NewBuildConfig("cmake", "/opt/tool", 1, Platform{OS: OSLinux, Arch: "amd64"})
	require.NoError(t, err)

	recipe := DefaultRecipe()
	recipe.InstallTarget = ""
	r := NewRunner(cfg, recipe, t.TempDir(), WithExecutor(exec))

	_, err = r.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "install_target")
	assert.Empty(t, exec.calls)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	exec := &stubExecutor{}
	r := newTestRunner(t, exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, exec.calls)
}

func TestRunner_SelfTest(t *testing.T) {
	exec := &stubExecutor{}
	r := newTestRunner(t, exec)
	scratch := filepath.Join(t.TempDir(), "probe")

	res, err := r.SelfTest(context.Background(), scratch)
	require.NoError(t, err)

	assert.Equal(t, "/opt/tool/bin/cmake", res.Step.Command)
	assert.Equal(t, []string{"."}, res.Step.Args)
	assert.Equal(t, scratch, res.Step.Dir)

	data, err := os.ReadFile(filepath.Join(scratch, "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "cmake_minimum_required")
}

func TestRunner_SelfTest_Failure(t *testing.T) {
	exec := &stubExecutor{exitCodes: map[string]int{StepSelfTest: 1}}
	r := newTestRunner(t, exec)

	_, err := r.SelfTest(context.Background(), t.TempDir())

	var failure *ExternalToolFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, StepSelfTest, failure.Step)
	assert.Equal(t, 1, failure.ExitCode)
}
