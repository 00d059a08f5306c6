package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/unattended/internal/core"
	"github.com/sandevgo/unattended/internal/formula"
	"github.com/sandevgo/unattended/internal/wizard"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"tool failure", &formula.ExternalToolFailure{Step: "build", ExitCode: 2}, 2},
		{"wrapped tool failure", fmt.Errorf("run: %w", &formula.ExternalToolFailure{Step: "bootstrap", ExitCode: 127}), 127},
		{"config error", fmt.Errorf("%w: empty prefix", formula.ErrInvalidConfig), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRenderOps(t *testing.T) {
	out := renderOps([]wizard.Op{
		{Stage: "Welcome", Kind: wizard.OpClick, Target: "Next", Delay: 3 * time.Second},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Welcome")
	assert.Contains(t, lines[1], "click Next after 3s")
}

func TestRenderSteps(t *testing.T) {
	out := renderSteps(core.Receipt{
		ID: 7, Formula: "cmake", Version: "3.11.1", Prefix: "/opt/tool", Status: core.RunStatusFailed,
		Steps: []core.StepRecord{
			{Name: "bootstrap", Argv: "./bootstrap --prefix=/opt/tool", Duration: time.Second},
			{Name: "build", Argv: "make", ExitCode: 2},
		},
	})

	assert.True(t, strings.HasPrefix(out, "run 7: cmake 3.11.1 -> /opt/tool (failed)"))
	assert.Contains(t, out, "./bootstrap --prefix=/opt/tool")
	assert.Contains(t, out, "build")
}
