package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transkit/pkg/config"
)

// Tests in this file mutate the process environment and must not run in parallel.

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "locales", cfg.Input)
	assert.Equal(t, "dist/locales", cfg.Output)
	assert.Equal(t, "en", cfg.PrimaryLocale)
	assert.Equal(t, "bundle", cfg.Layout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, "transkit:builds", cfg.Redis.Channel)
	assert.Empty(t, cfg.Redis.ConnectionURL)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRANSKIT_INPUT", "i18n")
	t.Setenv("TRANSKIT_PRIMARY_LOCALE", "en-US")
	t.Setenv("TRANSKIT_LAYOUT", "split")
	t.Setenv("TRANSKIT_MANIFEST", "true")
	t.Setenv("TRANSKIT_S3_BUCKET", "translations")
	t.Setenv("TRANSKIT_S3_PREFIX", "v1")
	t.Setenv("TRANSKIT_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("TRANSKIT_HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "i18n", cfg.Input)
	assert.Equal(t, "en-US", cfg.PrimaryLocale)
	assert.Equal(t, "split", cfg.Layout)
	assert.True(t, cfg.Manifest)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.ConnectionURL)

	s3 := cfg.S3.Storage()
	assert.Equal(t, "translations", s3.Bucket)
	assert.Equal(t, "us-east-1", s3.Region)
	assert.Equal(t, "v1", s3.Prefix)
}

func TestLoad_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("default .env", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRANSKIT_OUTPUT=build\n"), 0o644))
		t.Cleanup(func() { _ = os.Unsetenv("TRANSKIT_OUTPUT") })

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "build", cfg.Output)
	})

	t.Run("explicit file does not override the environment", func(t *testing.T) {
		path := filepath.Join(dir, "dev.env")
		require.NoError(t, os.WriteFile(path, []byte("TRANSKIT_INPUT=from_file\nTRANSKIT_INDENT=\"  \"\n"), 0o644))
		t.Setenv("TRANSKIT_INPUT", "from_env")
		t.Cleanup(func() { _ = os.Unsetenv("TRANSKIT_INDENT") })

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from_env", cfg.Input)
		assert.Equal(t, "  ", cfg.Indent)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "missing.env"))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("unknown layout and level", func(t *testing.T) {
		t.Setenv("TRANSKIT_LAYOUT", "tree")
		t.Setenv("TRANSKIT_LOG_LEVEL", "loud")
		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("TRANSKIT_HTTP_SHUTDOWN_TIMEOUT", "soon")
		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}
