package streamer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/internal/operations/assemble"
	"github.com/Cameron831/CloudStreamer/internal/operations/fetch"
	"github.com/Cameron831/CloudStreamer/internal/operations/upload"
	"github.com/Cameron831/CloudStreamer/internal/rangespec"
	"github.com/Cameron831/CloudStreamer/internal/throttle"
	"github.com/Cameron831/CloudStreamer/internal/validation"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// Streamer serves objects of one bucket. It holds no per-request state and is
// safe for concurrent use.
type Streamer struct {
	store    streamtypes.Store
	config   streamtypes.StreamerConfig
	fetcher  *fetch.Fetcher
	uploader *upload.Uploader
	logger   *slog.Logger
}

// New creates a Streamer on top of store.
//
// Example:
//
//	st, err := streamer.New(store,
//	    streamer.WithBucket("music"),
//	    streamer.WithRateLimit(256*1024),
//	)
func New(store streamtypes.Store, opts ...streamtypes.Option) (*Streamer, error) {
	if store == nil {
		return nil, errors.NewError("streamer initialization", errors.ErrInvalidInput).
			WithMessage("store cannot be nil")
	}

	cfg := streamtypes.StreamerConfig{
		ContentType:  streamtypes.DefaultContentType,
		StoreTimeout: streamtypes.DefaultStoreTimeout,
		EndPolicy:    streamtypes.EndPolicyClamp,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validation.ValidateBucketName(cfg.Bucket); err != nil {
		return nil, errors.NewError("streamer initialization", err)
	}
	switch cfg.EndPolicy {
	case streamtypes.EndPolicyClamp, streamtypes.EndPolicyTrustClient:
	default:
		return nil, errors.NewError("streamer initialization", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("unknown end policy %q", cfg.EndPolicy))
	}
	if cfg.RateLimit < 0 {
		return nil, errors.NewError("streamer initialization", errors.ErrInvalidInput).
			WithMessage("rate limit cannot be negative")
	}

	return &Streamer{
		store:  store,
		config: cfg,
		fetcher: fetch.New(store, fetch.Config{
			Timeout:   cfg.StoreTimeout,
			EndPolicy: cfg.EndPolicy,
		}, cfg.Logger),
		uploader: upload.New(store, cfg.Logger),
		logger:   cfg.Logger,
	}, nil
}

// Bucket returns the bucket the Streamer serves from.
func (s *Streamer) Bucket() string {
	return s.config.Bucket
}

// Stream resolves key and the raw Range header into a response.
//
// An empty rangeHeader requests the whole object. A malformed header fails
// with errors.ErrInvalidRange before the store is contacted. A range starting
// at or past the end of the object fails with an error matching
// errors.ErrRangeNotSatisfiable; errors.ObjectSize extracts the object size
// from it when known.
//
// The caller must close the body of the returned response.
func (s *Streamer) Stream(ctx context.Context, key, rangeHeader string) (*streamtypes.StreamResponse, error) {
	id, rng, err := s.resolve(ctx, key, rangeHeader)
	if err != nil {
		return nil, err
	}

	result, err := s.fetcher.Fetch(ctx, id, rng)
	if err != nil {
		return nil, err
	}

	resp := assemble.Assemble(result, s.config.ContentType)
	resp.Body = throttle.NewReader(ctx, resp.Body, s.config.RateLimit)
	return resp, nil
}

// Head resolves the same status and headers as Stream from the object's
// metadata alone. The returned body is empty and no object stream is opened.
func (s *Streamer) Head(ctx context.Context, key, rangeHeader string) (*streamtypes.StreamResponse, error) {
	id, rng, err := s.resolve(ctx, key, rangeHeader)
	if err != nil {
		return nil, err
	}

	result, err := s.fetcher.Head(ctx, id, rng)
	if err != nil {
		return nil, err
	}
	return assemble.Assemble(result, s.config.ContentType), nil
}

// resolve validates key and parses rangeHeader.
func (s *Streamer) resolve(
	ctx context.Context,
	key, rangeHeader string,
) (streamtypes.ObjectIdentity, *streamtypes.RangeSpec, error) {
	id := streamtypes.ObjectIdentity{Bucket: s.config.Bucket, Key: key}
	if err := validation.ValidateObjectKey(key); err != nil {
		return id, nil, errors.NewObjectError("stream", s.config.Bucket, key, err)
	}

	rng, err := rangespec.Parse(rangeHeader)
	if err != nil {
		if s.logger != nil {
			s.logger.DebugContext(ctx, "rejected range header",
				"key", key,
				"range", rangeHeader,
			)
		}
		return id, nil, errors.NewObjectError("stream", s.config.Bucket, key, err)
	}
	return id, rng, nil
}

// Upload writes files under folder and reports one result per file, in order.
// A failing file does not stop the others.
func (s *Streamer) Upload(
	ctx context.Context,
	folder string,
	files []streamtypes.UploadFile,
) ([]streamtypes.UploadResult, error) {
	if len(files) == 0 {
		return nil, errors.NewError("upload", errors.ErrInvalidInput).
			WithBucket(s.config.Bucket).
			WithMessage("no files provided")
	}
	return s.uploader.Upload(ctx, s.config.Bucket, folder, files), nil
}

// Folders lists the top-level pseudo-folders of the bucket.
func (s *Streamer) Folders(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, s.config.StoreTimeout, errors.ErrTimeout)
	defer cancel()

	folders, err := s.store.ListFolders(ctx, s.config.Bucket, "")
	if err != nil {
		if ctx.Err() != nil && errors.Is(context.Cause(ctx), errors.ErrTimeout) {
			err = fmt.Errorf("%w: %v", errors.ErrTimeout, err)
		}
		if s.logger != nil {
			s.logger.WarnContext(ctx, "list folders failed",
				"bucket", s.config.Bucket,
				"store", s.store.Name(),
				"error", err,
			)
		}
		return nil, errors.NewError("list folders", err).WithBucket(s.config.Bucket)
	}
	if folders == nil {
		folders = []string{}
	}
	return folders, nil
}
