package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional file plus BOBALOG_* environment
// variables, layered over defaults. An empty configPath searches the default
// locations; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, Default())

	v.SetEnvPrefix("BOBALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("bobalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "bobalog"))
		}

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every default so viper can overlay file and env
// values onto them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.db_file", d.Storage.DBFile)
	v.SetDefault("storage.local_mode_file", d.Storage.LocalModeFile)
	v.SetDefault("storage.session_file", d.Storage.SessionFile)

	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.base_endpoint", d.S3.BaseEndpoint)
	v.SetDefault("s3.access_key_id", d.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", d.S3.SecretAccessKey)
	v.SetDefault("s3.use_path_style", d.S3.UsePathStyle)

	v.SetDefault("auth.base_url", d.Auth.BaseURL)
	v.SetDefault("auth.timeout", d.Auth.Timeout)

	v.SetDefault("images.url_ttl", d.Images.URLTTL)
	v.SetDefault("images.cache_margin", d.Images.CacheMargin)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
