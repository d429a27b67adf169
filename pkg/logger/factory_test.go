package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transkit/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("text by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello", logger.Locale("en"))
		out := buf.String()
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, "msg=hello")
		assert.Contains(t, out, "locale=en")
	})

	t.Run("json format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatJSON))
		log.Info("hello", logger.Count(3))
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.InDelta(t, 3, entry["count"], 0)
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("hidden")
		log.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithVerbose(true))
		log.Debug("details")
		assert.Contains(t, buf.String(), "details")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Command("compile")))
		log.Info("hello")
		assert.Contains(t, buf.String(), "command=compile")
	})
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, buf *bytes.Buffer) map[string]any {
		t.Helper()
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		buf.Reset()
		return entry
	}

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatJSON))

	ctx := logger.ContextWithBuildID(context.Background(), "b-1")
	ctx = logger.ContextWithAttrs(ctx, logger.Project("app"), logger.RequestID(""))
	ctx = logger.ContextWithAttrs(ctx, logger.RequestID("req-7"))
	log.With(logger.Component("compiler")).InfoContext(ctx, "done")

	entry := decode(t, buf)
	assert.Equal(t, "b-1", entry["build_id"])
	assert.Equal(t, "app", entry["project"])
	assert.Equal(t, "req-7", entry["request_id"])
	assert.Equal(t, "compiler", entry["component"])

	log.InfoContext(ctx, "explicit wins", logger.BuildID("b-2"))
	entry = decode(t, buf)
	assert.Equal(t, "b-2", entry["build_id"])

	log.InfoContext(ctx, "once", logger.Project("app"))
	assert.Equal(t, 1, strings.Count(buf.String(), `"project"`))
	buf.Reset()

	log.Info("no context values")
	entry = decode(t, buf)
	assert.NotContains(t, entry, "build_id")
	assert.NotContains(t, entry, "project")
}

func TestContextWithAttrs(t *testing.T) {
	t.Parallel()

	base := context.Background()
	assert.Equal(t, base, logger.ContextWithAttrs(base, logger.RequestID("")), "empty attributes leave ctx untouched")

	parent := logger.ContextWithAttrs(base, logger.Project("app"))
	child := logger.ContextWithAttrs(parent, logger.Locale("en"))

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))
	log.InfoContext(parent, "parent")
	assert.Contains(t, buf.String(), "project=app")
	assert.NotContains(t, buf.String(), "locale=en", "children do not leak into the parent")

	buf.Reset()
	log.InfoContext(child, "child")
	assert.Contains(t, buf.String(), "project=app")
	assert.Contains(t, buf.String(), "locale=en")
}

func TestParse(t *testing.T) {
	t.Parallel()

	lvl, err := logger.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = logger.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	_, err = logger.ParseLevel("loud")
	assert.ErrorIs(t, err, logger.ErrInvalidLevel)

	f, err := logger.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatJSON, f)

	_, err = logger.ParseFormat("xml")
	assert.ErrorIs(t, err, logger.ErrInvalidFormat)
}
