// Package config loads settings from defaults, an optional YAML file and
// IMAGE_FILTERS_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended (with an underscore) to every key when reading the
// environment, e.g. IMAGE_FILTERS_LOG_LEVEL.
const EnvPrefix = "IMAGE_FILTERS"

// Config holds every setting the commands read.
type Config struct {
	LogLevel       string `mapstructure:"log_level"`
	UploadDir      string `mapstructure:"upload_dir"`
	ProcessedDir   string `mapstructure:"processed_dir"`
	ListenAddr     string `mapstructure:"listen_addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	PreviewMaxSize int    `mapstructure:"preview_max_size"`

	// Seed makes noise transforms reproducible. 0 seeds every call randomly.
	Seed uint64 `mapstructure:"seed"`

	// ConfigFile is the file that was read, empty if none.
	ConfigFile string `mapstructure:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		UploadDir:      "static/uploads",
		ProcessedDir:   "static/processed",
		ListenAddr:     ":5000",
		MaxUploadBytes: 10 << 20,
		PreviewMaxSize: 256,
	}
}

// Load reads configuration. If path is empty, image-filters.yaml is looked up
// in the working directory and in $HOME/.image-filters; a missing file is
// not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("upload_dir", cfg.UploadDir)
	v.SetDefault("processed_dir", cfg.ProcessedDir)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("max_upload_bytes", cfg.MaxUploadBytes)
	v.SetDefault("preview_max_size", cfg.PreviewMaxSize)
	v.SetDefault("seed", cfg.Seed)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("image-filters")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.image-filters")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be used as given.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.UploadDir == "" || c.ProcessedDir == "" {
		return errors.New("upload_dir and processed_dir must be set")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.PreviewMaxSize < 0 {
		return fmt.Errorf("preview_max_size must not be negative, got %d", c.PreviewMaxSize)
	}
	return nil
}
