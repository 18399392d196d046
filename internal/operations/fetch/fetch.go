package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// Config controls how a Fetcher talks to the store.
type Config struct {
	// Timeout bounds the wait for the store's answers. It does not limit
	// how long the body takes to stream.
	Timeout time.Duration

	// EndPolicy selects the end offset reported for ranged fetches.
	EndPolicy streamtypes.EndPolicy
}

// Fetcher handles object fetches against a single store.
type Fetcher struct {
	store     streamtypes.ObjectStore
	timeout   time.Duration
	endPolicy streamtypes.EndPolicy
	logger    *slog.Logger
}

// New creates a new Fetcher. A nil logger disables logging.
func New(store streamtypes.ObjectStore, cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = streamtypes.DefaultStoreTimeout
	}
	if cfg.EndPolicy == "" {
		cfg.EndPolicy = streamtypes.EndPolicyClamp
	}
	return &Fetcher{
		store:     store,
		timeout:   cfg.Timeout,
		endPolicy: cfg.EndPolicy,
		logger:    logger,
	}
}

// Fetch retrieves id, or the part of it selected by rng when rng is non-nil.
//
// On success the returned body keeps the fetch context alive until it is
// closed. On failure no body is left open.
func (f *Fetcher) Fetch(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	rng *streamtypes.RangeSpec,
) (*streamtypes.FetchResult, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	timer := time.AfterFunc(f.timeout, func() { cancel(errors.ErrTimeout) })

	var (
		result *streamtypes.FetchResult
		err    error
	)
	if rng == nil {
		result, err = f.fetchFull(ctx, id)
	} else {
		result, err = f.fetchRange(ctx, id, rng)
	}

	if !timer.Stop() {
		// The context is gone, so a body that was opened can no longer be read.
		if err == nil {
			_ = result.Body.Close()
			err = errors.ErrTimeout
		} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = errors.ErrTimeout
		}
	}

	if err != nil {
		cancel(nil)
		if f.logger != nil {
			f.logger.WarnContext(ctx, "fetch failed",
				"bucket", id.Bucket,
				"key", id.Key,
				"range", rangeAttr(rng),
				"error", err,
			)
		}
		return nil, errors.NewObjectError("fetch", id.Bucket, id.Key, err)
	}

	result.Body = &cancelOnClose{ReadCloser: result.Body, cancel: func() { cancel(nil) }}

	if f.logger != nil {
		f.logger.DebugContext(ctx, "fetched object",
			"bucket", id.Bucket,
			"key", id.Key,
			"range", rangeAttr(rng),
			"bytes", result.ContentLength,
			"total", result.TotalSize,
		)
	}
	return result, nil
}

// Head resolves the metadata Fetch would report for id and rng with a single
// metadata lookup. No object stream is opened; the result's Body is http.NoBody.
func (f *Fetcher) Head(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	rng *streamtypes.RangeSpec,
) (*streamtypes.FetchResult, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, f.timeout, errors.ErrTimeout)
	defer cancel()

	info, err := f.store.HeadObject(ctx, id)
	if err != nil {
		if ctx.Err() != nil && errors.Is(context.Cause(ctx), errors.ErrTimeout) {
			err = errors.ErrTimeout
		}
		if f.logger != nil {
			f.logger.WarnContext(ctx, "head failed",
				"bucket", id.Bucket,
				"key", id.Key,
				"range", rangeAttr(rng),
				"error", err,
			)
		}
		return nil, errors.NewObjectError("head", id.Bucket, id.Key, err)
	}

	result := &streamtypes.FetchResult{
		Body:          http.NoBody,
		ContentLength: info.Size,
		TotalSize:     info.Size,
		ETag:          info.ETag,
		LastModified:  info.LastModified,
	}
	if rng == nil {
		return result, nil
	}

	if rng.Start >= info.Size {
		return nil, errors.NewObjectError("head", id.Bucket, id.Key,
			&errors.RangeNotSatisfiableError{Start: rng.Start, Size: info.Size})
	}
	last := info.Size - 1
	if rng.End != nil && *rng.End < last {
		last = *rng.End
	}
	end := last
	if f.endPolicy == streamtypes.EndPolicyTrustClient && rng.End != nil {
		end = *rng.End
	}
	result.ContentLength = last - rng.Start + 1
	result.Range = &streamtypes.ByteRange{Start: rng.Start, End: end}
	return result, nil
}

func (f *Fetcher) fetchFull(ctx context.Context, id streamtypes.ObjectIdentity) (*streamtypes.FetchResult, error) {
	obj, err := f.store.GetObject(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	return &streamtypes.FetchResult{
		Body:          obj.Body,
		ContentLength: obj.ContentLength,
		TotalSize:     obj.ContentLength,
		ETag:          obj.ETag,
		LastModified:  obj.LastModified,
	}, nil
}

func (f *Fetcher) fetchRange(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	rng *streamtypes.RangeSpec,
) (*streamtypes.FetchResult, error) {
	var (
		obj             *streamtypes.ObjectReader
		info            *streamtypes.ObjectInfo
		getErr, sizeErr error
		g               errgroup.Group
	)

	g.Go(func() error {
		obj, getErr = f.store.GetObject(ctx, id, rng)
		return getErr
	})
	g.Go(func() error {
		info, sizeErr = f.store.HeadObject(ctx, id)
		return sizeErr
	})

	if err := g.Wait(); err != nil {
		if getErr == nil {
			_ = obj.Body.Close()
		}
		err = pickError(getErr, sizeErr)
		if errors.IsRangeNotSatisfiable(err) && info != nil {
			return nil, &errors.RangeNotSatisfiableError{Start: rng.Start, Size: info.Size}
		}
		return nil, err
	}

	total := info.Size
	if rng.Start >= total {
		_ = obj.Body.Close()
		return nil, &errors.RangeNotSatisfiableError{Start: rng.Start, Size: total}
	}

	returned := obj.ContentLength
	if returned < 0 {
		last := total - 1
		if rng.End != nil && *rng.End < last {
			last = *rng.End
		}
		returned = last - rng.Start + 1
	}
	if returned == 0 {
		_ = obj.Body.Close()
		return nil, &errors.RangeNotSatisfiableError{Start: rng.Start, Size: total}
	}

	end := rng.Start + returned - 1
	if f.endPolicy == streamtypes.EndPolicyTrustClient && rng.End != nil {
		end = *rng.End
	}

	etag, modified := obj.ETag, obj.LastModified
	if etag == "" {
		etag = info.ETag
	}
	if modified.IsZero() {
		modified = info.LastModified
	}

	return &streamtypes.FetchResult{
		Body:          obj.Body,
		ContentLength: returned,
		Range:         &streamtypes.ByteRange{Start: rng.Start, End: end},
		TotalSize:     total,
		ETag:          etag,
		LastModified:  modified,
	}, nil
}

// errPriority orders failure kinds from most to least specific.
var errPriority = []error{
	errors.ErrObjectNotFound,
	errors.ErrBucketNotFound,
	errors.ErrAccessDenied,
	errors.ErrRangeNotSatisfiable,
	errors.ErrTimeout,
	errors.ErrStoreUnavailable,
}

// pickError returns the most specific of the given errors.
func pickError(errs ...error) error {
	for _, target := range errPriority {
		for _, err := range errs {
			if err != nil && errors.Is(err, target) {
				return err
			}
		}
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func rangeAttr(rng *streamtypes.RangeSpec) string {
	if rng == nil {
		return "none"
	}
	return rng.HeaderValue()
}

// cancelOnClose releases the fetch context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel func()
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
