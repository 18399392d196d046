// Package s3 implements the object store on Amazon S3 using the AWS SDK v2.
//
// Any S3-compatible endpoint works as long as it honours the Range header on
// GetObject; set WithEndpoint and usually WithForcePathStyle for those.
package s3

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/internal/s3api"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// DefaultRegion is used when neither options nor the environment name a region.
const DefaultRegion = "us-west-1"

// Store is an object store backed by S3.
// It is safe for concurrent use; the SDK client is shared by all requests.
type Store struct {
	api s3api.S3API
}

var _ streamtypes.Store = (*Store)(nil)

// New creates a Store with the provided options.
// Credentials come from the default AWS chain unless static keys are given.
//
// Example:
//
//	store, err := s3.New(ctx,
//	    s3.WithRegion("us-west-1"),
//	    s3.WithEndpoint("http://localhost:4566"),
//	    s3.WithForcePathStyle(true),
//	)
func New(ctx context.Context, opts ...Option) (*Store, error) {
	cfg := &Config{MaxRetries: 3}
	for _, opt := range opts {
		opt(cfg)
	}

	var awsCfg aws.Config
	if cfg.CustomAWSConfig != nil {
		awsCfg = *cfg.CustomAWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
			))
		}

		var err error
		awsCfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.NewError("s3 store initialization", err)
		}
	}

	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = DefaultRegion
	}
	if cfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = cfg.MaxRetries
	}
	if cfg.HTTPClient != nil {
		awsCfg.HTTPClient = cfg.HTTPClient
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{api: client}, nil
}

// NewWithClient creates a Store around an existing S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(api s3api.S3API) *Store {
	return &Store{api: api}
}

// Name identifies the backend in logs.
func (s *Store) Name() string {
	return "s3"
}

// GetObject fetches the object, or the requested range of it.
// A ContentLength the service did not report is returned as -1.
func (s *Store) GetObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	rng *streamtypes.RangeSpec,
) (*streamtypes.ObjectReader, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(id.Bucket),
		Key:    aws.String(id.Key),
	}
	if rng != nil {
		input.Range = aws.String(rng.HeaderValue())
	}

	out, err := s.api.GetObject(ctx, input)
	if err != nil {
		err = translateError(ctx, err)
		if rng != nil && errors.IsRangeNotSatisfiable(err) {
			return nil, &errors.RangeNotSatisfiableError{Start: rng.Start, Size: -1}
		}
		return nil, err
	}

	length := int64(-1)
	if out.ContentLength != nil {
		length = *out.ContentLength
	}

	return &streamtypes.ObjectReader{
		Body:          out.Body,
		ContentLength: length,
		ETag:          aws.ToString(out.ETag),
		LastModified:  aws.ToTime(out.LastModified),
	}, nil
}

// HeadObject returns the object's size and metadata.
func (s *Store) HeadObject(ctx context.Context, id streamtypes.ObjectIdentity) (*streamtypes.ObjectInfo, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(id.Bucket),
		Key:    aws.String(id.Key),
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &streamtypes.ObjectInfo{
		Key:          id.Key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		ETag:         aws.ToString(out.ETag),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// PutObject uploads body under id.
// Bodies that cannot seek are read into memory first so the request can be signed.
func (s *Store) PutObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	body io.Reader,
	size int64,
	contentType string,
) error {
	if _, ok := body.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(id.Bucket),
		Key:    aws.String(id.Key),
		Body:   body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return translateError(ctx, err)
	}
	return nil
}

// ListFolders returns the common prefixes directly under prefix, without the trailing "/".
func (s *Store) ListFolders(ctx context.Context, bucket, prefix string) ([]string, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Delimiter: aws.String("/"),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var folders []string
	paginator := s3.NewListObjectsV2Paginator(s.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateError(ctx, err)
		}
		for _, cp := range page.CommonPrefixes {
			if p := strings.TrimSuffix(aws.ToString(cp.Prefix), "/"); p != "" {
				folders = append(folders, p)
			}
		}
	}
	return folders, nil
}
