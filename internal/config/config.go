package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Local storage paths
	Storage StorageConfig `mapstructure:"storage"`

	// Remote object store
	S3 S3Config `mapstructure:"s3"`

	// Identity provider
	Auth AuthConfig `mapstructure:"auth"`

	// Signed image URLs
	Images ImageConfig `mapstructure:"images"`

	// Logging
	Log LogConfig `mapstructure:"log"`
}

// StorageConfig for local data paths.
type StorageConfig struct {
	DataDir       string `mapstructure:"data_dir"`        // Base directory for all data
	DBFile        string `mapstructure:"db_file"`         // SQLite database path
	LocalModeFile string `mapstructure:"local_mode_file"` // Durable local-mode flag
	SessionFile   string `mapstructure:"session_file"`    // Persisted session
}

// S3Config for the remote object store.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	BaseEndpoint    string `mapstructure:"base_endpoint"` // Override for MinIO-style stores
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// AuthConfig for the external identity provider.
type AuthConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ImageConfig for signed photo URLs.
type ImageConfig struct {
	URLTTL time.Duration `mapstructure:"url_ttl"` // Lifetime of signed URLs

	// CacheMargin is subtracted from URLTTL to get the cache lifetime, so a
	// cached URL always expires before the URL itself does.
	CacheMargin time.Duration `mapstructure:"cache_margin"`
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Default returns config with sensible defaults.
func Default() *Config {
	dataDir := ".bobalog"

	return &Config{
		Storage: StorageConfig{
			DataDir:       dataDir,
			DBFile:        filepath.Join(dataDir, "drinks.db"),
			LocalModeFile: filepath.Join(dataDir, "local-mode"),
			SessionFile:   filepath.Join(dataDir, "session.json"),
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		Auth: AuthConfig{
			Timeout: 15 * time.Second,
		},
		Images: ImageConfig{
			URLTTL:      15 * time.Minute,
			CacheMargin: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	if c.Storage.DBFile == "" {
		return errors.New("storage.db_file is required")
	}

	if c.Images.URLTTL <= 0 {
		return errors.New("images.url_ttl must be positive")
	}

	if c.Images.CacheMargin <= 0 || c.Images.CacheMargin >= c.Images.URLTTL {
		return errors.New("images.cache_margin must be positive and shorter than images.url_ttl")
	}

	if c.Auth.Timeout <= 0 {
		return errors.New("auth.timeout must be positive")
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDir,
		filepath.Dir(c.Storage.DBFile),
		filepath.Dir(c.Storage.SessionFile),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
