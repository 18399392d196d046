package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "bucket and key",
			err:  NewObjectError("fetch", "media", "song.mp3", ErrObjectNotFound),
			want: "fetch media/song.mp3: object not found",
		},
		{
			name: "bucket only",
			err:  NewError("folders", ErrAccessDenied).WithBucket("media"),
			want: "folders bucket media: access denied",
		},
		{
			name: "key only",
			err:  NewError("stream", ErrInvalidObjectKey).WithKey("../x"),
			want: "stream object ../x: invalid object key",
		},
		{
			name: "no context",
			err:  NewError("parse", ErrInvalidRange),
			want: "parse: invalid range header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_WithMessageKeepsChain(t *testing.T) {
	err := NewError("stream", ErrInvalidRange).WithMessage("missing '='")

	assert.True(t, IsInvalidRange(err))
	assert.Contains(t, err.Error(), "missing '='")
}

func TestRangeNotSatisfiableError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &RangeNotSatisfiableError{Start: 10, Size: 5})

	assert.True(t, IsRangeNotSatisfiable(err))
	size, ok := ObjectSize(err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), size)

	_, ok = ObjectSize(&RangeNotSatisfiableError{Start: 10, Size: -1})
	assert.False(t, ok)
	_, ok = ObjectSize(ErrObjectNotFound)
	assert.False(t, ok)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want int
	}{
		{"malformed range", NewError("parse", ErrInvalidRange), CodeInvalidRange, http.StatusRequestedRangeNotSatisfiable},
		{"unsatisfiable", &RangeNotSatisfiableError{Start: 9, Size: 3}, CodeRangeNotSatisfiable, http.StatusRequestedRangeNotSatisfiable},
		{"invalid key", ErrInvalidObjectKey, CodeInvalidInput, http.StatusBadRequest},
		{"invalid input", ErrInvalidInput, CodeInvalidInput, http.StatusBadRequest},
		{"not found", NewObjectError("fetch", "b", "k", ErrObjectNotFound), CodeNotFound, http.StatusNotFound},
		{"bucket not found", ErrBucketNotFound, CodeNotFound, http.StatusNotFound},
		{"access denied", ErrAccessDenied, CodeForbidden, http.StatusBadGateway},
		{"timeout", ErrTimeout, CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", ErrStoreUnavailable, CodeUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}

	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
