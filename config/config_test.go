package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// clearEnv unsets the given variables for the duration of the test.
func clearEnv(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "KEY_ID", "ACCESS_KEY")

	cfg, err := Load(Params{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(512<<20), cfg.Server.MaxUploadSize)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	assert.Equal(t, BackendS3, cfg.Store.Backend)
	assert.Equal(t, "test-bucket-cloud-streamer", cfg.Store.Bucket)
	assert.Equal(t, "us-west-1", cfg.Store.Region)
	assert.Equal(t, 3, cfg.Store.MaxRetries)

	assert.Equal(t, "audio/mpeg", cfg.Stream.ContentType)
	assert.Equal(t, 30*time.Second, cfg.Stream.Timeout)
	assert.Equal(t, streamtypes.EndPolicyClamp, cfg.Stream.EndPolicy)
	assert.Zero(t, cfg.Stream.RateLimit)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t, "KEY_ID", "ACCESS_KEY")
	t.Setenv("STREAMER_STORE_BACKEND", "memory")
	t.Setenv("STREAMER_STORE_BUCKET", "music-library")
	t.Setenv("STREAMER_STREAM_TIMEOUT", "5s")
	t.Setenv("STREAMER_STREAM_END_POLICY", "trust-client")
	t.Setenv("STREAMER_STREAM_RATE_LIMIT", "65536")
	t.Setenv("STREAMER_SERVER_CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("STREAMER_LOG_FORMAT", "json")

	cfg, err := Load(Params{})
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "music-library", cfg.Store.Bucket)
	assert.Equal(t, 5*time.Second, cfg.Stream.Timeout)
	assert.Equal(t, streamtypes.EndPolicyTrustClient, cfg.Stream.EndPolicy)
	assert.Equal(t, 65536, cfg.Stream.RateLimit)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_LegacyCredentials(t *testing.T) {
	clearEnv(t, "STREAMER_STORE_ACCESS_KEY_ID", "STREAMER_STORE_SECRET_ACCESS_KEY")
	t.Setenv("KEY_ID", "AKIALEGACY")
	t.Setenv("ACCESS_KEY", "legacy-secret")

	cfg, err := Load(Params{})
	require.NoError(t, err)
	assert.Equal(t, "AKIALEGACY", cfg.Store.AccessKeyID)
	assert.Equal(t, "legacy-secret", cfg.Store.SecretAccessKey)

	t.Setenv("STREAMER_STORE_ACCESS_KEY_ID", "AKIAPREFIXED")
	t.Setenv("STREAMER_STORE_SECRET_ACCESS_KEY", "prefixed-secret")

	cfg, err = Load(Params{})
	require.NoError(t, err)
	assert.Equal(t, "AKIAPREFIXED", cfg.Store.AccessKeyID)
	assert.Equal(t, "prefixed-secret", cfg.Store.SecretAccessKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t, "KEY_ID", "ACCESS_KEY", "STREAMER_STORE_BUCKET")
	path := writeFile(t, "streamer.yaml", `
server:
  address: "127.0.0.1:9000"
store:
  backend: minio
  endpoint: "localhost:9000"
  bucket: podcasts
  secure: false
stream:
  content_type: audio/ogg
`)

	cfg, err := Load(Params{File: path})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, BackendMinio, cfg.Store.Backend)
	assert.Equal(t, "localhost:9000", cfg.Store.Endpoint)
	assert.Equal(t, "podcasts", cfg.Store.Bucket)
	assert.False(t, cfg.Store.Secure)
	assert.Equal(t, "audio/ogg", cfg.Stream.ContentType)

	t.Setenv("STREAMER_STORE_BUCKET", "from-env")
	cfg, err = Load(Params{File: path})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store.Bucket)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(Params{File: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t, "KEY_ID", "ACCESS_KEY", "STREAMER_STORE_REGION")
	t.Setenv("STREAMER_STORE_BUCKET", "already-set")
	path := writeFile(t, ".env", "KEY_ID=AKIADOTENV\nACCESS_KEY=dotenv-secret\nSTREAMER_STORE_REGION=eu-west-2\nSTREAMER_STORE_BUCKET=ignored\n")

	cfg, err := Load(Params{EnvFile: path})
	require.NoError(t, err)

	assert.Equal(t, "AKIADOTENV", cfg.Store.AccessKeyID)
	assert.Equal(t, "dotenv-secret", cfg.Store.SecretAccessKey)
	assert.Equal(t, "eu-west-2", cfg.Store.Region)
	assert.Equal(t, "already-set", cfg.Store.Bucket)
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: time.Second,
			ReadTimeout:     time.Second,
			MaxUploadSize:   1024,
		},
		Store: StoreConfig{Backend: BackendS3, Bucket: "test-bucket"},
		Stream: StreamConfig{
			ContentType: "audio/mpeg",
			Timeout:     time.Second,
			EndPolicy:   streamtypes.EndPolicyClamp,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "gcs" }, `store.backend "gcs"`},
		{"minio without endpoint", func(c *Config) { c.Store.Backend = BackendMinio }, "store.endpoint is required"},
		{"bad bucket", func(c *Config) { c.Store.Bucket = "UPPER" }, `store.bucket "UPPER"`},
		{"half credentials", func(c *Config) { c.Store.AccessKeyID = "AKIA" }, "must be set together"},
		{"bad content type", func(c *Config) { c.Stream.ContentType = "mpeg" }, "stream.content_type"},
		{"zero timeout", func(c *Config) { c.Stream.Timeout = 0 }, "stream.timeout"},
		{"bad end policy", func(c *Config) { c.Stream.EndPolicy = "round" }, "stream.end_policy"},
		{"negative rate", func(c *Config) { c.Stream.RateLimit = -1 }, "stream.rate_limit"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"no address", func(c *Config) { c.Server.Address = "" }, "server.address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "gcs"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
	assert.Contains(t, err.Error(), "log.format")
}
