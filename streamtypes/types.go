// Package streamtypes provides shared type definitions for the streaming module.
//
// Every entity here is request-scoped: it is created and discarded while a
// single request is handled and is never shared between requests.
package streamtypes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultContentType is the media type served for streamed objects.
const DefaultContentType = "audio/mpeg"

// DefaultStoreTimeout bounds how long a request waits for the store to answer.
const DefaultStoreTimeout = 30 * time.Second

// RangeSpec is a client's requested byte interval.
// End is nil for an open-ended request ("to the end of the object").
// When End is set, *End >= Start.
type RangeSpec struct {
	Start int64
	End   *int64
}

// IsOpenEnded reports whether the range extends to the end of the object.
func (r RangeSpec) IsOpenEnded() bool {
	return r.End == nil
}

// HeaderValue renders the range for the object store.
// Open-ended requests stay open-ended so the store decides where the object ends.
func (r RangeSpec) HeaderValue() string {
	if r.End == nil {
		return fmt.Sprintf("bytes=%d-", r.Start)
	}
	return fmt.Sprintf("bytes=%d-%d", r.Start, *r.End)
}

// ObjectIdentity identifies a stored object.
type ObjectIdentity struct {
	Bucket string
	Key    string
}

// ByteRange is an inclusive byte interval actually returned to the client.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the range.
func (b ByteRange) Length() int64 {
	return b.End - b.Start + 1
}

// FetchResult is produced by the fetch adapter and consumed exactly once by the
// response assembler. Body must be closed by whoever ends up owning it.
type FetchResult struct {
	// Body streams the fetched bytes.
	Body io.ReadCloser

	// ContentLength is the number of bytes the store returned.
	ContentLength int64

	// Range is the interval reported to the client. Nil for a full fetch.
	Range *ByteRange

	// TotalSize is the size of the whole object.
	TotalSize int64

	// ETag of the object, if the store reported one.
	ETag string

	// LastModified of the object, zero if unknown.
	LastModified time.Time
}

// StreamResponse is the terminal artifact handed to the HTTP layer.
type StreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// ObjectReader is the result of a data fetch against a store.
type ObjectReader struct {
	Body          io.ReadCloser
	ContentLength int64
	ETag          string
	LastModified  time.Time
}

// ObjectInfo is the result of a metadata lookup against a store.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// ObjectStore is the read side of a backing object store.
//
// Implementations must map failures onto the sentinel errors of the errors
// package (ErrObjectNotFound, ErrAccessDenied, ErrRangeNotSatisfiable,
// ErrStoreUnavailable, ...) and must be safe for concurrent use.
//
// Calls must return promptly once ctx is done. The store timeout is enforced
// only through ctx, so a call that ignores it holds its request until it
// returns on its own.
type ObjectStore interface {
	// GetObject fetches the object, or the given range of it when rng is non-nil.
	GetObject(ctx context.Context, id ObjectIdentity, rng *RangeSpec) (*ObjectReader, error)

	// HeadObject returns the object's metadata without its content.
	HeadObject(ctx context.Context, id ObjectIdentity) (*ObjectInfo, error)
}

// ObjectWriter stores new objects.
type ObjectWriter interface {
	// PutObject writes size bytes from body under id. size may be -1 when unknown.
	PutObject(ctx context.Context, id ObjectIdentity, body io.Reader, size int64, contentType string) error
}

// FolderLister lists pseudo-folders (common key prefixes).
type FolderLister interface {
	// ListFolders returns the common prefixes directly under prefix, without trailing "/".
	ListFolders(ctx context.Context, bucket, prefix string) ([]string, error)
}

// Store is the full set of capabilities the streamer needs from a backend.
type Store interface {
	ObjectStore
	ObjectWriter
	FolderLister

	// Name identifies the backend in logs.
	Name() string
}

// EndPolicy decides which end offset is reported in Content-Range.
type EndPolicy string

const (
	// EndPolicyClamp reports start + returned length - 1, whatever the client asked for.
	EndPolicyClamp EndPolicy = "clamp"

	// EndPolicyTrustClient reports the client's end bound verbatim when one was given,
	// even when it exceeds the object.
	EndPolicyTrustClient EndPolicy = "trust-client"
)

// UploadFile is one file of an upload batch.
type UploadFile struct {
	// Filename is the client-provided name, not yet sanitised.
	Filename string

	// Size in bytes, -1 if unknown.
	Size int64

	// Open returns a fresh reader over the file's content.
	Open func() (io.ReadCloser, error)
}

// UploadResult reports the outcome for one file of an upload batch.
type UploadResult struct {
	Filename string
	Key      string
	Size     int64
	Err      error
}

// Configuration types for functional options

// StreamerConfig holds configuration for the Streamer.
type StreamerConfig struct {
	Bucket       string
	ContentType  string
	StoreTimeout time.Duration
	EndPolicy    EndPolicy
	RateLimit    int // bytes per second per stream, 0 disables throttling
	Logger       *slog.Logger
}

// Option is a functional option for configuring the Streamer.
type Option func(*StreamerConfig)
