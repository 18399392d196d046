// Package config loads the process configuration of the streaming server.
//
// Values come from, in increasing priority: built-in defaults, an optional
// YAML/TOML/JSON config file, an optional dotenv file, environment variables
// prefixed with STREAMER_ (dots become underscores, e.g. STREAMER_STORE_BUCKET)
// and command-line flags bound by the caller. The legacy KEY_ID and ACCESS_KEY
// variables are honoured for the store credentials.
package config

import (
	"time"

	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "STREAMER"

// Store backends.
const (
	BackendS3     = "s3"
	BackendMinio  = "minio"
	BackendMemory = "memory"
)

// Config is the full process configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	MaxUploadSize   int64         `mapstructure:"max_upload_size"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// StoreConfig selects and configures the object store backend.
type StoreConfig struct {
	Backend         string `mapstructure:"backend"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
	MaxRetries      int    `mapstructure:"max_retries"`

	// Secure enables TLS towards a MinIO endpoint.
	Secure bool `mapstructure:"secure"`
}

// StreamConfig configures the request pipeline.
type StreamConfig struct {
	ContentType string                `mapstructure:"content_type"`
	Timeout     time.Duration         `mapstructure:"timeout"`
	EndPolicy   streamtypes.EndPolicy `mapstructure:"end_policy"`
	// RateLimit in bytes per second per stream; 0 disables throttling.
	RateLimit int `mapstructure:"rate_limit"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
