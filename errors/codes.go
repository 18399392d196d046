// Package errors provides error types and handling for streaming operations.
// It extends Go's standard error handling with sentinel errors, structured
// error codes, and the single translation from error kinds to HTTP status codes.
package errors

// ErrorCode represents a specific error condition surfaced to clients.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested object or bucket does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Client errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidRange indicates the Range header does not match the accepted grammar.
	CodeInvalidRange ErrorCode = "INVALID_RANGE"

	// CodeRangeNotSatisfiable indicates the requested range starts beyond the object.
	CodeRangeNotSatisfiable ErrorCode = "RANGE_NOT_SATISFIABLE"

	// Store errors.

	// CodeForbidden indicates the object store refused access to the object.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeUnavailable indicates the object store could not be reached or failed transiently.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// CodeTimeout indicates a store call exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)
