package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, int64(30*1024*1024), cfg.Upload.MaxFileSizeBytes())
	assert.Equal(t, 5, cfg.Upload.MaxConcurrent)
	assert.Equal(t, "tmp", cfg.Upload.TmpDir)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Queue.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SERVER_HOST":          "127.0.0.1",
		"SERVER_PORT":          "9090",
		"MAX_FILE_SIZE_MB":     "10",
		"UPLOAD_MAX_WAIT_TIME": "5s",
		"STORE_DRIVER":         "postgres",
		"DATABASE_URL":         "postgres://localhost/orceu",
		"QUEUE_DRIVER":         "redis",
		"LOG_FORMAT":           "json",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSizeBytes())
	assert.Equal(t, 5*time.Second, cfg.Upload.MaxWaitTime)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "redis", cfg.Queue.Driver)
}

func TestLoadFromInvalidValue(t *testing.T) {
	_, err := LoadFrom(map[string]string{"SERVER_PORT": "abc"})
	require.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	cfg.Server.Port = 0
	cfg.Upload.MaxFileSizeMB = 0
	cfg.Store.Driver = "s3"
	cfg.Queue.Driver = "kafka"
	cfg.Logging.Format = "xml"

	err = cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"SERVER_PORT", "MAX_FILE_SIZE_MB", "STORE_DRIVER", "QUEUE_DRIVER", "LOG_FORMAT"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateDriverRequirements(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"postgres without url", func(c *Config) { c.Store.Driver = "postgres" }, "DATABASE_URL"},
		{"dynamodb without table", func(c *Config) { c.Store.Driver = "dynamodb"; c.Store.Table = "" }, "ESTIMATES_TABLE"},
		{"redis without url", func(c *Config) { c.Queue.Driver = "redis"; c.Queue.RedisURL = "" }, "REDIS_URL"},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "METRICS_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(map[string]string{})
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("ORCEU_TEST_LOAD_ENV=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ORCEU_TEST_LOAD_ENV") })

	n, err := LoadEnv([]string{file, filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "from-file", os.Getenv("ORCEU_TEST_LOAD_ENV"))

	n, err = LoadEnv([]string{filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Zero(t, n)
}
