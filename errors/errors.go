package errors

import (
	"errors"
	"fmt"
)

// Error represents a streaming operation error with context about the operation that failed.
// It wraps the underlying store or parse error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "stream", "fetch", "upload")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for streaming failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidRange indicates that the Range header is present but malformed
	ErrInvalidRange = errors.New("invalid range header")

	// ErrRangeNotSatisfiable indicates that the requested range starts at or beyond the object size
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound indicates that the configured bucket does not exist
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrAccessDenied indicates that the store refused access to the resource
	ErrAccessDenied = errors.New("access denied")

	// ErrStoreUnavailable indicates a network or service failure talking to the store
	ErrStoreUnavailable = errors.New("object store unavailable")

	// ErrTimeout indicates that a store call did not answer within the request timeout
	ErrTimeout = errors.New("object store timeout")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("invalid object key")
)

// RangeNotSatisfiableError reports a range whose start lies at or past the end
// of the object. Size is -1 when the store did not report the object size.
type RangeNotSatisfiableError struct {
	Start int64
	Size  int64
}

// Error implements the error interface.
func (e *RangeNotSatisfiableError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("range not satisfiable: start %d", e.Start)
	}
	return fmt.Sprintf("range not satisfiable: start %d, size %d", e.Start, e.Size)
}

// Is reports ErrRangeNotSatisfiable as a match so callers can use errors.Is.
func (e *RangeNotSatisfiableError) Is(target error) bool {
	return target == ErrRangeNotSatisfiable
}

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsInvalidRange checks if an error indicates a malformed Range header.
func IsInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

// IsRangeNotSatisfiable checks if an error indicates an unsatisfiable range.
func IsRangeNotSatisfiable(err error) bool {
	return errors.Is(err, ErrRangeNotSatisfiable)
}

// ObjectSize extracts the object size carried by an unsatisfiable range error.
// It returns false when err carries no size.
func ObjectSize(err error) (int64, bool) {
	var rangeErr *RangeNotSatisfiableError
	if errors.As(err, &rangeErr) && rangeErr.Size >= 0 {
		return rangeErr.Size, true
	}
	return 0, false
}

// Is reports whether any error in err's tree matches target.
// It mirrors the standard library so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
