package log

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewContextWithLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := newContext(context.Background(), &buf, false)

	FromCtx(ctx).Debug().Msg("hidden")
	FromCtx(ctx).Info().Msg("visible")
	flush()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := newContext(context.Background(), &buf, true)
	ctx = WithComponent(ctx, "formula")

	FromCtx(ctx).Debug().Msg("step started")
	flush()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "component")
	assert.Contains(t, buf.String(), "formula")
}
