package config

import (
	"fmt"
	"strings"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/internal/logging"
	"github.com/Cameron831/CloudStreamer/internal/validation"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Server.Address != "", "server.address is required")
	check(c.Server.ShutdownTimeout > 0, "server.shutdown_timeout must be positive")
	check(c.Server.ReadTimeout > 0, "server.read_timeout must be positive")
	check(c.Server.MaxUploadSize > 0, "server.max_upload_size must be positive")

	switch c.Store.Backend {
	case BackendS3, BackendMemory:
	case BackendMinio:
		check(c.Store.Endpoint != "", "store.endpoint is required for the minio backend")
	default:
		problems = append(problems, fmt.Sprintf("store.backend %q is not one of s3, minio, memory", c.Store.Backend))
	}
	if err := validation.ValidateBucketName(c.Store.Bucket); err != nil {
		problems = append(problems, fmt.Sprintf("store.bucket %q is invalid", c.Store.Bucket))
	}
	check((c.Store.AccessKeyID == "") == (c.Store.SecretAccessKey == ""),
		"store.access_key_id and store.secret_access_key must be set together")
	check(c.Store.MaxRetries >= 0, "store.max_retries cannot be negative")

	if err := validation.ValidateContentType(c.Stream.ContentType); err != nil {
		problems = append(problems, fmt.Sprintf("stream.content_type %q is not a MIME type", c.Stream.ContentType))
	}
	check(c.Stream.Timeout > 0, "stream.timeout must be positive")
	switch c.Stream.EndPolicy {
	case streamtypes.EndPolicyClamp, streamtypes.EndPolicyTrustClient:
	default:
		problems = append(problems, fmt.Sprintf("stream.end_policy %q is not one of clamp, trust-client", c.Stream.EndPolicy))
	}
	check(c.Stream.RateLimit >= 0, "stream.rate_limit cannot be negative")

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatText, logging.FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not one of console, text, json", c.Log.Format))
	}

	if len(problems) > 0 {
		return errors.NewError("validate configuration", errors.ErrInvalidInput).
			WithMessage(strings.Join(problems, "; "))
	}
	return nil
}
