// Package minio implements the object store on MinIO and other S3-compatible
// servers using minio-go.
package minio

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// Config describes how to reach the server.
type Config struct {
	Endpoint        string // host:port, no scheme
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Secure          bool
}

// Store is an object store backed by a MinIO server.
type Store struct {
	core *minio.Core
}

var _ streamtypes.Store = (*Store)(nil)

// New connects a Store to the server described by cfg.
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.NewError("minio store initialization", errors.ErrInvalidInput).
			WithMessage("endpoint is required")
	}

	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.NewError("minio store initialization", err)
	}
	return &Store{core: core}, nil
}

// Name identifies the backend in logs.
func (s *Store) Name() string {
	return "minio"
}

// GetObject fetches the object, or the requested range of it.
// The request is issued eagerly so failures surface here rather than on first read.
func (s *Store) GetObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	rng *streamtypes.RangeSpec,
) (*streamtypes.ObjectReader, error) {
	opts := minio.GetObjectOptions{}
	if rng != nil {
		opts.Set("Range", rng.HeaderValue())
	}

	body, info, _, err := s.core.GetObject(ctx, id.Bucket, id.Key, opts)
	if err != nil {
		err = translateError(ctx, err)
		if rng != nil && errors.IsRangeNotSatisfiable(err) {
			return nil, &errors.RangeNotSatisfiableError{Start: rng.Start, Size: -1}
		}
		return nil, err
	}

	return &streamtypes.ObjectReader{
		Body:          body,
		ContentLength: info.Size,
		ETag:          quoteETag(info.ETag),
		LastModified:  info.LastModified,
	}, nil
}

// HeadObject returns the object's size and metadata.
func (s *Store) HeadObject(ctx context.Context, id streamtypes.ObjectIdentity) (*streamtypes.ObjectInfo, error) {
	info, err := s.core.StatObject(ctx, id.Bucket, id.Key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &streamtypes.ObjectInfo{
		Key:          id.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         quoteETag(info.ETag),
		LastModified: info.LastModified,
	}, nil
}

// PutObject uploads body under id. A size of -1 streams the body in parts.
func (s *Store) PutObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	body io.Reader,
	size int64,
	contentType string,
) error {
	_, err := s.core.Client.PutObject(ctx, id.Bucket, id.Key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return translateError(ctx, err)
	}
	return nil
}

// ListFolders returns the common prefixes directly under prefix, without the trailing "/".
func (s *Store) ListFolders(ctx context.Context, bucket, prefix string) ([]string, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var folders []string
	for obj := range s.core.Client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, translateError(ctx, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			folders = append(folders, strings.TrimSuffix(obj.Key, "/"))
		}
	}
	return folders, nil
}

// quoteETag restores the quotes minio-go strips from ETags.
func quoteETag(etag string) string {
	if etag == "" || strings.HasPrefix(etag, `"`) {
		return etag
	}
	return `"` + etag + `"`
}
