package s3

import (
	"context"
	"fmt"
	"net"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/Cameron831/CloudStreamer/errors"
)

// S3 error codes the store distinguishes.
const (
	codeNoSuchKey      = "NoSuchKey"
	codeNotFound       = "NotFound"
	codeNoSuchBucket   = "NoSuchBucket"
	codeInvalidRange   = "InvalidRange"
	codeAccessDenied   = "AccessDenied"
	codeForbidden      = "Forbidden"
	codeInvalidKeyID   = "InvalidAccessKeyId"
	codeSignature      = "SignatureDoesNotMatch"
	codeSlowDown       = "SlowDown"
	codeServiceUnavail = "ServiceUnavailable"
	codeInternalError  = "InternalError"
	codeRequestTimeout = "RequestTimeout"
)

// translateError maps an SDK error onto the sentinel errors of the errors package.
// The original error text is kept in the message.
func translateError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		if cause := context.Cause(ctx); errors.Is(cause, errors.ErrTimeout) {
			return wrap(errors.ErrTimeout, err)
		}
		return err
	}

	var (
		noSuchKey    *types.NoSuchKey
		notFound     *types.NotFound
		noSuchBucket *types.NoSuchBucket
	)
	switch {
	case errors.As(err, &noSuchKey), errors.As(err, &notFound):
		return wrap(errors.ErrObjectNotFound, err)
	case errors.As(err, &noSuchBucket):
		return wrap(errors.ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case codeNoSuchKey, codeNotFound:
			return wrap(errors.ErrObjectNotFound, err)
		case codeNoSuchBucket:
			return wrap(errors.ErrBucketNotFound, err)
		case codeInvalidRange:
			return wrap(errors.ErrRangeNotSatisfiable, err)
		case codeAccessDenied, codeForbidden, codeInvalidKeyID, codeSignature:
			return wrap(errors.ErrAccessDenied, err)
		case codeSlowDown, codeServiceUnavail, codeInternalError, codeRequestTimeout:
			return wrap(errors.ErrStoreUnavailable, err)
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch status := respErr.HTTPStatusCode(); {
		case status == http.StatusNotFound:
			return wrap(errors.ErrObjectNotFound, err)
		case status == http.StatusForbidden:
			return wrap(errors.ErrAccessDenied, err)
		case status == http.StatusRequestedRangeNotSatisfiable:
			return wrap(errors.ErrRangeNotSatisfiable, err)
		case status >= http.StatusInternalServerError:
			return wrap(errors.ErrStoreUnavailable, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return wrap(errors.ErrStoreUnavailable, err)
	}

	return err
}

func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %v", sentinel, err)
}
