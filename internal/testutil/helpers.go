package testutil

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// FixedTime is the modification time reported by mocks.
var FixedTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// StringPtr returns a pointer to the given string.
// This is useful for AWS SDK inputs that require string pointers.
func StringPtr(s string) *string {
	return aws.String(s)
}

// Int64Ptr returns a pointer to the given int64.
func Int64Ptr(i int64) *int64 {
	return aws.Int64(i)
}

// BoolPtr returns a pointer to the given bool.
func BoolPtr(b bool) *bool {
	return aws.Bool(b)
}

// TimePtr returns a pointer to the given time.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// GenerateAudioData returns size bytes of deterministic content.
// Byte i is i mod 251 so that any slice can be checked against its offset.
func GenerateAudioData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// GenerateTestKey generates a test object key with optional prefix.
// This helps ensure test isolation by using unique keys.
func GenerateTestKey(prefix string) string {
	timestamp := time.Now().UnixNano()
	random := rand.Int63n(100000)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%stest-track-%d-%d.mp3", prefix, timestamp, random)
}

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	name := fmt.Sprintf("%s-%d-%d", prefix, time.Now().Unix(), rand.Int31n(10000))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// CalculateETag calculates the ETag S3 reports for a simple upload of data.
func CalculateETag(data []byte) string {
	h := md5.Sum(data)
	return fmt.Sprintf(`"%x"`, h)
}

// SliceRange resolves a "bytes=<start>-[<end>]" header against an object of
// size bytes using object store semantics: the end is clamped to size-1 and
// ok is false when start is at or beyond size.
func SliceRange(size int64, header string) (start, end int64, ok bool) {
	spec, found := strings.CutPrefix(header, "bytes=")
	if !found {
		return 0, 0, false
	}
	startTok, endTok, _ := strings.Cut(spec, "-")
	start, err := strconv.ParseInt(startTok, 10, 64)
	if err != nil || start >= size {
		return 0, 0, false
	}
	end = size - 1
	if endTok != "" {
		e, err := strconv.ParseInt(endTok, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		end = min(e, size-1)
	}
	return start, end, true
}

// CreateHeadObjectOutput creates a test HeadObjectOutput structure.
// This is useful for mocking HeadObject operations.
func CreateHeadObjectOutput(size int64, lastModified time.Time, contentType string) *s3.HeadObjectOutput {
	return &s3.HeadObjectOutput{
		ContentLength: Int64Ptr(size),
		LastModified:  TimePtr(lastModified),
		ContentType:   StringPtr(contentType),
		ETag:          StringPtr(fmt.Sprintf(`"%x"`, md5.Sum([]byte("test")))),
		Metadata:      map[string]string{},
	}
}

// CreateGetObjectOutput creates a test GetObjectOutput structure.
// This is useful for mocking download operations.
func CreateGetObjectOutput(data []byte, contentType string) *s3.GetObjectOutput {
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: Int64Ptr(int64(len(data))),
		ContentType:   StringPtr(contentType),
		ETag:          StringPtr(CalculateETag(data)),
		LastModified:  TimePtr(FixedTime),
		AcceptRanges:  StringPtr("bytes"),
	}
}

// NewDataStore returns a MockStore holding a single object under key.
// Other keys report errors.ErrObjectNotFound.
func NewDataStore(key string, data []byte) *MockStore {
	size := int64(len(data))
	etag := CalculateETag(data)

	return &MockStore{
		GetObjectFunc: func(
			_ context.Context,
			id streamtypes.ObjectIdentity,
			rng *streamtypes.RangeSpec,
		) (*streamtypes.ObjectReader, error) {
			if id.Key != key {
				return nil, errors.ErrObjectNotFound
			}
			start, end := int64(0), size-1
			if rng != nil {
				var ok bool
				if start, end, ok = SliceRange(size, rng.HeaderValue()); !ok {
					return nil, &errors.RangeNotSatisfiableError{Start: rng.Start, Size: size}
				}
			}
			part := data[start : end+1]
			return &streamtypes.ObjectReader{
				Body:          io.NopCloser(bytes.NewReader(part)),
				ContentLength: int64(len(part)),
				ETag:          etag,
				LastModified:  FixedTime,
			}, nil
		},
		HeadObjectFunc: func(_ context.Context, id streamtypes.ObjectIdentity) (*streamtypes.ObjectInfo, error) {
			if id.Key != key {
				return nil, errors.ErrObjectNotFound
			}
			return &streamtypes.ObjectInfo{
				Key:          key,
				Size:         size,
				ContentType:  streamtypes.DefaultContentType,
				ETag:         etag,
				LastModified: FixedTime,
			}, nil
		},
	}
}
