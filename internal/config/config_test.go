package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobalog/bobalog/internal/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Minute, cfg.Images.URLTTL)
	assert.Less(t, cfg.Images.CacheMargin, cfg.Images.URLTTL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad log level", func(c *config.Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }},
		{"missing db file", func(c *config.Config) { c.Storage.DBFile = "" }},
		{"zero url ttl", func(c *config.Config) { c.Images.URLTTL = 0 }},
		{"margin exceeds ttl", func(c *config.Config) { c.Images.CacheMargin = time.Hour }},
		{"zero auth timeout", func(c *config.Config) { c.Auth.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bobalog.yaml")

	content := `
storage:
  db_file: /tmp/test-drinks.db
s3:
  bucket: test-bucket
  region: eu-west-1
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test-drinks.db", cfg.Storage.DBFile)
	assert.Equal(t, "test-bucket", cfg.S3.Bucket)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched values keep their defaults.
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BOBALOG_S3_BUCKET", "env-bucket")
	t.Setenv("BOBALOG_LOG_LEVEL", "warn")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-bucket", cfg.S3.Bucket)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
