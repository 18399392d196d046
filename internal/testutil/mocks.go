// Package testutil provides test utilities and mocks for the streaming module.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Cameron831/CloudStreamer/internal/s3api"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// It allows customization of each S3 operation through function fields.
type MockS3Client struct {
	GetObjectFunc     func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObjectFunc    func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObjectFunc     func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2Func func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ s3api.S3API = (*MockS3Client)(nil)

// GetObject mocks the S3 GetObject operation.
func (m *MockS3Client) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

// HeadObject mocks the S3 HeadObject operation.
func (m *MockS3Client) HeadObject(
	ctx context.Context,
	params *s3.HeadObjectInput,
	optFns ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	if m.HeadObjectFunc != nil {
		return m.HeadObjectFunc(ctx, params, optFns...)
	}
	return &s3.HeadObjectOutput{}, nil
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

// MockStore is a mock implementation of streamtypes.Store.
// Unset function fields return empty successful results.
type MockStore struct {
	GetObjectFunc   func(context.Context, streamtypes.ObjectIdentity, *streamtypes.RangeSpec) (*streamtypes.ObjectReader, error)
	HeadObjectFunc  func(context.Context, streamtypes.ObjectIdentity) (*streamtypes.ObjectInfo, error)
	PutObjectFunc   func(context.Context, streamtypes.ObjectIdentity, io.Reader, int64, string) error
	ListFoldersFunc func(context.Context, string, string) ([]string, error)
}

var _ streamtypes.Store = (*MockStore)(nil)

// Name returns the backend name.
func (m *MockStore) Name() string {
	return "mock"
}

// GetObject mocks a data fetch.
func (m *MockStore) GetObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	rng *streamtypes.RangeSpec,
) (*streamtypes.ObjectReader, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, id, rng)
	}
	return &streamtypes.ObjectReader{Body: io.NopCloser(eofReader{})}, nil
}

// HeadObject mocks a metadata lookup.
func (m *MockStore) HeadObject(ctx context.Context, id streamtypes.ObjectIdentity) (*streamtypes.ObjectInfo, error) {
	if m.HeadObjectFunc != nil {
		return m.HeadObjectFunc(ctx, id)
	}
	return &streamtypes.ObjectInfo{Key: id.Key}, nil
}

// PutObject mocks an object write.
func (m *MockStore) PutObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	body io.Reader,
	size int64,
	contentType string,
) error {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, id, body, size, contentType)
	}
	return nil
}

// ListFolders mocks a folder listing.
func (m *MockStore) ListFolders(ctx context.Context, bucket, prefix string) ([]string, error) {
	if m.ListFoldersFunc != nil {
		return m.ListFoldersFunc(ctx, bucket, prefix)
	}
	return nil, nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
