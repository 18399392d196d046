package minio

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cameron831/CloudStreamer/errors"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, errors.ErrObjectNotFound},
		{"no such bucket", minio.ErrorResponse{Code: "NoSuchBucket"}, errors.ErrBucketNotFound},
		{"invalid range", minio.ErrorResponse{Code: "InvalidRange"}, errors.ErrRangeNotSatisfiable},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied"}, errors.ErrAccessDenied},
		{"bare 404 from stat", minio.ErrorResponse{StatusCode: http.StatusNotFound}, errors.ErrObjectNotFound},
		{"bare 403", minio.ErrorResponse{StatusCode: http.StatusForbidden}, errors.ErrAccessDenied},
		{"server error", minio.ErrorResponse{StatusCode: http.StatusBadGateway}, errors.ErrStoreUnavailable},
		{"slow down", minio.ErrorResponse{Code: "SlowDown"}, errors.ErrStoreUnavailable},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: io.ErrUnexpectedEOF}, errors.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(context.Background(), tt.err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTranslateError_Passthrough(t *testing.T) {
	assert.NoError(t, translateError(context.Background(), nil))
	assert.Equal(t, io.ErrShortWrite, translateError(context.Background(), io.ErrShortWrite))
}

func TestTranslateError_Timeout(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(errors.ErrTimeout)

	err := translateError(ctx, context.Canceled)
	assert.ErrorIs(t, err, errors.ErrTimeout)
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	store, err := New(Config{Endpoint: "localhost:9000", AccessKeyID: "minio", SecretAccessKey: "minio123"})
	require.NoError(t, err)
	assert.Equal(t, "minio", store.Name())
}

func TestQuoteETag(t *testing.T) {
	assert.Equal(t, "", quoteETag(""))
	assert.Equal(t, `"abc"`, quoteETag("abc"))
	assert.Equal(t, `"abc"`, quoteETag(`"abc"`))
}
