package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

func TestSliceRange(t *testing.T) {
	tests := []struct {
		header    string
		wantStart int64
		wantEnd   int64
		wantOK    bool
	}{
		{"bytes=0-9", 0, 9, true},
		{"bytes=5-", 5, 99, true},
		{"bytes=90-500", 90, 99, true},
		{"bytes=99-99", 99, 99, true},
		{"bytes=100-", 0, 0, false},
		{"items=0-1", 0, 0, false},
		{"bytes=x-1", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			start, end, ok := SliceRange(100, tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestMockBuilder_WithObject(t *testing.T) {
	data := GenerateAudioData(100)
	client := NewMockBuilder().WithObject(data, "audio/mpeg").Build()

	out, err := client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String("b"),
		Key:    aws.String("k"),
		Range:  aws.String("bytes=10-19"),
	})
	require.NoError(t, err)
	got, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Equal(t, data[10:20], got)
	assert.Equal(t, "bytes 10-19/100", aws.ToString(out.ContentRange))
	assert.Equal(t, int64(10), aws.ToInt64(out.ContentLength))

	_, err = client.GetObject(context.Background(), &s3.GetObjectInput{Range: aws.String("bytes=100-")})
	var apiErr smithy.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "InvalidRange", apiErr.ErrorCode())

	head, err := client.HeadObject(context.Background(), &s3.HeadObjectInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(100), aws.ToInt64(head.ContentLength))
}

func TestNewDataStore(t *testing.T) {
	data := GenerateAudioData(50)
	store := NewDataStore("song.mp3", data)
	id := streamtypes.ObjectIdentity{Bucket: "b", Key: "song.mp3"}

	obj, err := store.GetObject(context.Background(), id, &streamtypes.RangeSpec{Start: 45})
	require.NoError(t, err)
	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, data[45:], got)

	_, err = store.GetObject(context.Background(), id, &streamtypes.RangeSpec{Start: 50})
	size, ok := errors.ObjectSize(err)
	assert.True(t, ok)
	assert.Equal(t, int64(50), size)

	_, err = store.HeadObject(context.Background(), streamtypes.ObjectIdentity{Bucket: "b", Key: "other"})
	assert.ErrorIs(t, err, errors.ErrObjectNotFound)
}

func TestRecordingLogger(t *testing.T) {
	logger, rec := NewRecordingLogger()
	logger.Info("fetched object", "key", "song.mp3", "bytes", 1000)

	entry, ok := rec.Find("fetched object")
	require.True(t, ok)
	assert.Equal(t, "song.mp3", entry.Attrs["key"])
	assert.Equal(t, "1000", entry.Attrs["bytes"])
	assert.Len(t, rec.Entries(), 1)

	_, ok = rec.Find("missing")
	assert.False(t, ok)
}
