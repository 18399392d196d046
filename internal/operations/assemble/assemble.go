// Package assemble turns fetch results into HTTP response metadata.
//
// It performs no I/O: the body is passed through untouched and ownership of
// it moves to the returned StreamResponse.
package assemble

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// Assemble builds the response for a successful fetch.
// A ranged result yields 206 Partial Content, a full result 200 OK.
func Assemble(result *streamtypes.FetchResult, contentType string) *streamtypes.StreamResponse {
	if contentType == "" {
		contentType = streamtypes.DefaultContentType
	}

	h := make(http.Header)
	h.Set("Content-Type", contentType)
	h.Set("Accept-Ranges", "bytes")

	status := http.StatusOK
	if result.Range != nil {
		status = http.StatusPartialContent
		h.Set("Content-Range", ContentRange(result.Range, result.TotalSize))
	}
	if result.ContentLength >= 0 {
		h.Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	if result.ETag != "" {
		h.Set("ETag", result.ETag)
	}
	if !result.LastModified.IsZero() {
		h.Set("Last-Modified", result.LastModified.UTC().Format(http.TimeFormat))
	}

	return &streamtypes.StreamResponse{
		StatusCode: status,
		Header:     h,
		Body:       result.Body,
	}
}

// ContentRange renders "bytes <start>-<end>/<total>".
func ContentRange(r *streamtypes.ByteRange, total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// Unsatisfiable returns the headers of a 416 response for an object of size bytes.
// A negative size omits Content-Range.
func Unsatisfiable(size int64) http.Header {
	h := make(http.Header)
	h.Set("Accept-Ranges", "bytes")
	if size >= 0 {
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
	}
	return h
}
