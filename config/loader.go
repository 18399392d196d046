package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Params groups the sources of a configuration load.
type Params struct {
	// File is an optional config file. Its type follows the extension.
	File string

	// EnvFile is an optional dotenv file. Its variables never override
	// variables already present in the environment.
	EnvFile string
}

// NewViper creates a viper instance with defaults, the optional files and
// environment lookups in place. Callers may bind flags on it before Decode.
func NewViper(p Params) (*viper.Viper, error) {
	if p.EnvFile != "" {
		if err := loadEnvFile(p.EnvFile); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Legacy credential variables.
	if err := v.BindEnv("store.access_key_id", EnvPrefix+"_STORE_ACCESS_KEY_ID", "KEY_ID"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("store.secret_access_key", EnvPrefix+"_STORE_SECRET_ACCESS_KEY", "ACCESS_KEY"); err != nil {
		return nil, err
	}

	if p.File != "" {
		v.SetConfigFile(p.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", p.File, err)
		}
	}

	return v, nil
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration from defaults, files and the environment.
func Load(p Params) (*Config, error) {
	v, err := NewViper(p)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.max_upload_size", 512<<20)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("store.backend", BackendS3)
	v.SetDefault("store.bucket", "test-bucket-cloud-streamer")
	v.SetDefault("store.region", "us-west-1")
	v.SetDefault("store.endpoint", "")
	v.SetDefault("store.access_key_id", "")
	v.SetDefault("store.secret_access_key", "")
	v.SetDefault("store.session_token", "")
	v.SetDefault("store.force_path_style", false)
	v.SetDefault("store.max_retries", 3)
	v.SetDefault("store.secure", true)

	v.SetDefault("stream.content_type", "audio/mpeg")
	v.SetDefault("stream.timeout", "30s")
	v.SetDefault("stream.end_policy", "clamp")
	v.SetDefault("stream.rate_limit", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.color", true)

	v.SetDefault("metrics.enabled", true)
}

// loadEnvFile exports the variables of a dotenv file that are not set yet.
func loadEnvFile(path string) error {
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}
