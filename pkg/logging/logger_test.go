package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/polemap/pkg/logging"
)

func TestNewLoggerFromConfig(t *testing.T) {
	configs := []struct {
		name  string
		level string
		want  []string
		never []string
	}{
		{name: "debug level", level: "debug", want: []string{`"level":"debug"`, `"level":"info"`}},
		{name: "error level only", level: "error", want: []string{`"level":"error"`}, never: []string{`"level":"info"`}},
		{name: "unknown level falls back to info", level: "loud", want: []string{`"level":"info"`}, never: []string{`"level":"debug"`}},
	}

	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(&logging.Config{Level: tc.level, Format: "json", Output: "discard"})
			logger = logger.Output(buf)

			logger.Debug().Msg("debug")
			logger.Info().Msg("info")
			logger.Error().Msg("error")

			for _, w := range tc.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, n := range tc.never {
				assert.NotContains(t, buf.String(), n)
			}
		})
	}
}

func TestContextFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithRun(ctx, "run-1")
	ctx = logging.WithPole(ctx, "P-101")
	ctx = logging.WithSource(ctx, "SourceB")

	logging.FromContext(ctx).Info().Msg("joined")

	require.Equal(t, 1, tl.Count())
	assert.True(t, tl.Contains(`"run_id":"run-1"`))
	assert.True(t, tl.Contains(`"pole_id":"P-101"`))
	assert.True(t, tl.Contains(`"source":"SourceB"`))
	assert.Equal(t, "run-1", logging.RunID(ctx))
}

func TestFromContextDefaults(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Same(t, logging.Default(), logging.OrDefault(nil))
	assert.Empty(t, logging.RunID(context.Background()))
}

func TestWithFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithFields(ctx, map[string]any{"job": "north", "poles": 3})

	logging.FromContext(ctx).Warn().Msg("done")

	line := tl.Lines()[0]
	assert.True(t, strings.Contains(line, `"job":"north"`))
	assert.True(t, strings.Contains(line, `"poles":3`))
}
