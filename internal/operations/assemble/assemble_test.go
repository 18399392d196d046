package assemble

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cameron831/CloudStreamer/streamtypes"
)

func TestAssemble(t *testing.T) {
	modified := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		result      *streamtypes.FetchResult
		contentType string
		wantStatus  int
		wantHeaders map[string]string
		absent      []string
	}{
		{
			name: "bounded range",
			result: &streamtypes.FetchResult{
				ContentLength: 1000,
				Range:         &streamtypes.ByteRange{Start: 0, End: 999},
				TotalSize:     1_000_000,
			},
			wantStatus: http.StatusPartialContent,
			wantHeaders: map[string]string{
				"Content-Range":  "bytes 0-999/1000000",
				"Accept-Ranges":  "bytes",
				"Content-Length": "1000",
				"Content-Type":   "audio/mpeg",
			},
			absent: []string{"ETag", "Last-Modified"},
		},
		{
			name: "open-ended range",
			result: &streamtypes.FetchResult{
				ContentLength: 500_000,
				Range:         &streamtypes.ByteRange{Start: 500_000, End: 999_999},
				TotalSize:     1_000_000,
			},
			wantStatus: http.StatusPartialContent,
			wantHeaders: map[string]string{
				"Content-Range":  "bytes 500000-999999/1000000",
				"Content-Length": "500000",
			},
		},
		{
			name: "full object",
			result: &streamtypes.FetchResult{
				ContentLength: 1_000_000,
				TotalSize:     1_000_000,
				ETag:          `"abc"`,
				LastModified:  modified,
			},
			contentType: "audio/ogg",
			wantStatus:  http.StatusOK,
			wantHeaders: map[string]string{
				"Accept-Ranges":  "bytes",
				"Content-Length": "1000000",
				"Content-Type":   "audio/ogg",
				"ETag":           `"abc"`,
				"Last-Modified":  "Fri, 01 Mar 2024 12:00:00 GMT",
			},
			absent: []string{"Content-Range"},
		},
		{
			name: "full object of unknown length",
			result: &streamtypes.FetchResult{
				ContentLength: -1,
				TotalSize:     -1,
			},
			wantStatus: http.StatusOK,
			absent:     []string{"Content-Range", "Content-Length"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := io.NopCloser(strings.NewReader("payload"))
			tt.result.Body = body

			resp := Assemble(tt.result, tt.contentType)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, body, resp.Body)
			for k, v := range tt.wantHeaders {
				assert.Equal(t, v, resp.Header.Get(k), k)
			}
			for _, k := range tt.absent {
				assert.Empty(t, resp.Header.Get(k), k)
			}
		})
	}
}

func TestUnsatisfiable(t *testing.T) {
	h := Unsatisfiable(1_000_000)
	assert.Equal(t, "bytes */1000000", h.Get("Content-Range"))

	assert.Empty(t, Unsatisfiable(-1).Get("Content-Range"))
}
