package streamer

import (
	"log/slog"
	"time"

	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// WithBucket sets the bucket every request is served from. Required.
func WithBucket(bucket string) streamtypes.Option {
	return func(c *streamtypes.StreamerConfig) {
		c.Bucket = bucket
	}
}

// WithContentType sets the Content-Type of streamed responses.
// Default is audio/mpeg.
func WithContentType(contentType string) streamtypes.Option {
	return func(c *streamtypes.StreamerConfig) {
		if contentType != "" {
			c.ContentType = contentType
		}
	}
}

// WithStoreTimeout bounds how long a request waits for the store to answer.
// Default is 30 seconds. Non-positive values keep the default.
func WithStoreTimeout(timeout time.Duration) streamtypes.Option {
	return func(c *streamtypes.StreamerConfig) {
		if timeout > 0 {
			c.StoreTimeout = timeout
		}
	}
}

// WithEndPolicy selects the end offset reported in Content-Range.
// Default is streamtypes.EndPolicyClamp.
func WithEndPolicy(policy streamtypes.EndPolicy) streamtypes.Option {
	return func(c *streamtypes.StreamerConfig) {
		c.EndPolicy = policy
	}
}

// WithRateLimit caps each stream at bytesPerSec. Zero disables throttling.
func WithRateLimit(bytesPerSec int) streamtypes.Option {
	return func(c *streamtypes.StreamerConfig) {
		c.RateLimit = bytesPerSec
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) streamtypes.Option {
	return func(c *streamtypes.StreamerConfig) {
		c.Logger = logger
	}
}
