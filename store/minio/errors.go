package minio

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/minio/minio-go/v7"

	"github.com/Cameron831/CloudStreamer/errors"
)

// translateError converts MinIO errors to the sentinel errors of the errors package.
func translateError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		if errors.Is(context.Cause(ctx), errors.ErrTimeout) {
			return fmt.Errorf("%w: %v", errors.ErrTimeout, err)
		}
		return err
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%w: %v", errors.ErrObjectNotFound, err)
	case "NoSuchBucket":
		return fmt.Errorf("%w: %v", errors.ErrBucketNotFound, err)
	case "InvalidRange":
		return fmt.Errorf("%w: %v", errors.ErrRangeNotSatisfiable, err)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("%w: %v", errors.ErrAccessDenied, err)
	case "SlowDown", "ServiceUnavailable", "XMinioServerNotInitialized", "InternalError":
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %v", errors.ErrObjectNotFound, err)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %v", errors.ErrAccessDenied, err)
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		return fmt.Errorf("%w: %v", errors.ErrRangeNotSatisfiable, err)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return err
}
