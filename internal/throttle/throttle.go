// Package throttle limits the bandwidth of a single body stream.
package throttle

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Reader is an io.ReadCloser that delivers at most a fixed number of bytes per second.
type Reader struct {
	ctx     context.Context
	rc      io.ReadCloser
	limiter *rate.Limiter
}

// NewReader wraps rc so it yields at most bytesPerSec bytes per second.
// Waiting for the limiter stops as soon as ctx is done. A non-positive rate
// returns rc unchanged.
func NewReader(ctx context.Context, rc io.ReadCloser, bytesPerSec int) io.ReadCloser {
	if bytesPerSec <= 0 {
		return rc
	}
	return &Reader{
		ctx:     ctx,
		rc:      rc,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// Read reads at most one burst and then waits until the bytes are allowed through.
func (r *Reader) Read(p []byte) (int, error) {
	if burst := r.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}

	n, err := r.rc.Read(p)
	if n > 0 {
		if werr := r.limiter.WaitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// Close closes the underlying stream.
func (r *Reader) Close() error {
	return r.rc.Close()
}
