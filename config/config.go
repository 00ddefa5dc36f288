package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Output     OutputConfig     `mapstructure:"output"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Processing ProcessingConfig `mapstructure:"processing"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

// UploadConfig holds where uploaded spreadsheets are staged
type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

// OutputConfig selects the schema store
type OutputConfig struct {
	Type      string `mapstructure:"type"` // "local" or "gcs"
	Dir       string `mapstructure:"dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	GCSPrefix string `mapstructure:"gcs_prefix"`
}

// CacheConfig holds fingerprint index configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// ProcessingConfig holds schema generation options
type ProcessingConfig struct {
	Debug               bool `mapstructure:"debug"`
	DefaultTextareaRows int  `mapstructure:"default_textarea_rows"`
}

const (
	OutputLocal = "local"
	OutputGCS   = "gcs"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/specforms/")

	v.SetEnvPrefix("SPECFORMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("upload.dir", "./uploads")

	// Output defaults
	v.SetDefault("output.type", OutputLocal)
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.gcs_bucket", "")
	v.SetDefault("output.gcs_prefix", "")

	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("processing.debug", false)
	v.SetDefault("processing.default_textarea_rows", 2)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Output.Type {
	case OutputLocal:
		if config.Output.Dir == "" {
			return fmt.Errorf("output dir is required when output type is 'local'")
		}
	case OutputGCS:
		if config.Output.GCSBucket == "" {
			return fmt.Errorf("GCS bucket is required when output type is 'gcs' (set SPECFORMS_OUTPUT_GCS_BUCKET)")
		}
	default:
		return fmt.Errorf("output type must be 'local' or 'gcs', got: %s", config.Output.Type)
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got: %d", config.Server.MaxUploadBytes)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("rate limit per IP must be positive, got: %d", config.RateLimit.PerIP)
	}

	if config.Processing.DefaultTextareaRows <= 0 {
		return fmt.Errorf("default textarea rows must be positive, got: %d", config.Processing.DefaultTextareaRows)
	}

	return nil
}

// loadEnvFile copies KEY=VALUE pairs from ./.env into the environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	if err := gotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
