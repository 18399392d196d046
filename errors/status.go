package errors

import (
	"errors"
	"net/http"
)

// CodeOf classifies err into an ErrorCode. Unrecognised errors are CodeInternal.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRange):
		return CodeInvalidRange
	case errors.Is(err, ErrRangeNotSatisfiable):
		return CodeRangeNotSatisfiable
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidObjectKey):
		return CodeInvalidInput
	case errors.Is(err, ErrObjectNotFound), errors.Is(err, ErrBucketNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAccessDenied):
		return CodeForbidden
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrStoreUnavailable):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

// HTTPStatus maps an error code to the status returned to clients.
//
// Access denied is reported as 502: the store refused this service, not the client.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidRange, CodeRangeNotSatisfiable:
		return http.StatusRequestedRangeNotSatisfiable
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusBadGateway
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case "":
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	return CodeOf(err).HTTPStatus()
}
