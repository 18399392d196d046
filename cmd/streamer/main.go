// Command streamer serves audio objects from an object store over HTTP with
// byte-range support.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	streamer "github.com/Cameron831/CloudStreamer"
	"github.com/Cameron831/CloudStreamer/config"
	"github.com/Cameron831/CloudStreamer/internal/logging"
	"github.com/Cameron831/CloudStreamer/internal/metrics"
	"github.com/Cameron831/CloudStreamer/server"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

const defaultEnvFile = ".env"

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"listen":     "server.address",
	"backend":    "store.backend",
	"bucket":     "store.bucket",
	"region":     "store.region",
	"endpoint":   "store.endpoint",
	"path-style": "store.force_path_style",
	"timeout":    "stream.timeout",
	"end-policy": "stream.end_policy",
	"rate-limit": "stream.rate_limit",
	"log-level":  "log.level",
	"log-format": "log.format",
	"metrics":    "metrics.enabled",
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streamer",
		Short: "Audio streaming proxy with HTTP range support",
		Long: `streamer serves objects of one bucket over HTTP. Players may seek with
single-interval Range headers; uploads and folder listing are available too.

Configuration is read from defaults, --config, a dotenv file, STREAMER_*
environment variables and flags, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, cfg)
		},
	}

	addFlags(cmd.Flags())
	return cmd
}

func addFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to a YAML, TOML or JSON config file")
	fs.String("env-file", defaultEnvFile, "dotenv file exported before reading the environment")

	fs.StringP("listen", "l", ":8080", "address to listen on")
	fs.String("backend", config.BackendS3, "object store backend: s3, minio or memory")
	fs.StringP("bucket", "b", "test-bucket-cloud-streamer", "bucket to serve")
	fs.String("region", "us-west-1", "store region")
	fs.String("endpoint", "", "custom store endpoint (LocalStack, MinIO)")
	fs.Bool("path-style", false, "use path-style S3 addressing")
	fs.Duration("timeout", streamtypes.DefaultStoreTimeout, "how long a request waits for the store")
	fs.String("end-policy", "clamp", "Content-Range end reporting: clamp or trust-client")
	fs.Int("rate-limit", 0, "per-stream bandwidth cap in bytes per second, 0 to disable")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", logging.FormatConsole, "log format: console, text, json")
	fs.Bool("metrics", true, "expose Prometheus metrics on /metrics")
}

// bindFlags lets explicitly set flags override every other source.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	file, err := fs.GetString("config")
	if err != nil {
		return nil, err
	}
	envFile, err := fs.GetString("env-file")
	if err != nil {
		return nil, err
	}
	// The default dotenv file is optional, an explicit one is not.
	if !fs.Changed("env-file") {
		if _, statErr := os.Stat(envFile); statErr != nil {
			envFile = ""
		}
	}

	v, err := config.NewViper(config.Params{File: file, EnvFile: envFile})
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}
	return config.Decode(v)
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level, cfg.Log.Color)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	logger.Info("object store ready",
		"backend", store.Name(),
		"bucket", cfg.Store.Bucket,
		"region", cfg.Store.Region,
	)

	st, err := streamer.New(store,
		streamer.WithBucket(cfg.Store.Bucket),
		streamer.WithContentType(cfg.Stream.ContentType),
		streamer.WithStoreTimeout(cfg.Stream.Timeout),
		streamer.WithEndPolicy(cfg.Stream.EndPolicy),
		streamer.WithRateLimit(cfg.Stream.RateLimit),
		streamer.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	srv, err := server.New(st, server.Config{
		Address:         cfg.Server.Address,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ReadTimeout:     cfg.Server.ReadTimeout,
		MaxUploadSize:   cfg.Server.MaxUploadSize,
		CORSOrigins:     cfg.Server.CORSOrigins,
		EnableMetrics:   cfg.Metrics.Enabled,
	}, logger, metrics.New())
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "streamer:", err)
		os.Exit(1)
	}
}
