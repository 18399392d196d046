package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

const bucket = "test-bucket"

func int64Ptr(v int64) *int64 { return &v }

func seeded(t *testing.T, data []byte) *Store {
	t.Helper()
	s := New(bucket)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	s.Put(bucket, "song.mp3", data, "audio/mpeg")
	return s
}

func readAll(t *testing.T, obj *streamtypes.ObjectReader) []byte {
	t.Helper()
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	return data
}

func TestStore_GetObject(t *testing.T) {
	data := []byte("0123456789")
	s := seeded(t, data)
	id := streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"}

	tests := []struct {
		name string
		rng  *streamtypes.RangeSpec
		want string
	}{
		{"full", nil, "0123456789"},
		{"bounded", &streamtypes.RangeSpec{Start: 2, End: int64Ptr(4)}, "234"},
		{"open", &streamtypes.RangeSpec{Start: 7}, "789"},
		{"end clamped", &streamtypes.RangeSpec{Start: 8, End: int64Ptr(100)}, "89"},
		{"single byte", &streamtypes.RangeSpec{Start: 9, End: int64Ptr(9)}, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := s.GetObject(context.Background(), id, tt.rng)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), obj.ContentLength)
			assert.Equal(t, `"781e5e245d69b566979b86e28d23f2c7"`, obj.ETag)
			assert.Equal(t, tt.want, string(readAll(t, obj)))
		})
	}
}

func TestStore_GetObject_Errors(t *testing.T) {
	s := seeded(t, []byte("0123456789"))

	_, err := s.GetObject(context.Background(),
		streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"}, &streamtypes.RangeSpec{Start: 10})
	assert.True(t, errors.IsRangeNotSatisfiable(err))
	size, ok := errors.ObjectSize(err)
	assert.True(t, ok)
	assert.Equal(t, int64(10), size)

	_, err = s.GetObject(context.Background(), streamtypes.ObjectIdentity{Bucket: bucket, Key: "missing"}, nil)
	assert.ErrorIs(t, err, errors.ErrObjectNotFound)

	_, err = s.HeadObject(context.Background(), streamtypes.ObjectIdentity{Bucket: "other", Key: "song.mp3"})
	assert.ErrorIs(t, err, errors.ErrBucketNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.GetObject(ctx, streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_HeadObject(t *testing.T) {
	s := seeded(t, []byte("abc"))

	info, err := s.HeadObject(context.Background(), streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size)
	assert.Equal(t, "audio/mpeg", info.ContentType)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), info.LastModified)
}

func TestStore_PutObject(t *testing.T) {
	s := New(bucket)
	id := streamtypes.ObjectIdentity{Bucket: bucket, Key: "albums/a.mp3"}

	require.NoError(t, s.PutObject(context.Background(), id, strings.NewReader("hello"), 5, "audio/mpeg"))
	obj, err := s.GetObject(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(readAll(t, obj)))

	err = s.PutObject(context.Background(), id, strings.NewReader("short"), 10, "audio/mpeg")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	err = s.PutObject(context.Background(), streamtypes.ObjectIdentity{Bucket: "nope", Key: "x"},
		strings.NewReader("x"), -1, "")
	assert.ErrorIs(t, err, errors.ErrBucketNotFound)
}

func TestStore_PutCopiesData(t *testing.T) {
	data := []byte("abc")
	s := seeded(t, data)
	data[0] = 'X'

	obj, err := s.GetObject(context.Background(), streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(readAll(t, obj)))
}

func TestStore_ListFolders(t *testing.T) {
	s := New(bucket)
	for _, key := range []string{"root.mp3", "albums/a.mp3", "albums/2024/b.mp3", "podcasts/ep1.mp3", "live/x/y.mp3"} {
		s.Put(bucket, key, []byte("x"), "audio/mpeg")
	}

	folders, err := s.ListFolders(context.Background(), bucket, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"albums", "live", "podcasts"}, folders)

	nested, err := s.ListFolders(context.Background(), bucket, "albums")
	require.NoError(t, err)
	assert.Equal(t, []string{"albums/2024"}, nested)

	_, err = s.ListFolders(context.Background(), "missing", "")
	assert.ErrorIs(t, err, errors.ErrBucketNotFound)
}

func TestStore_Concurrent(t *testing.T) {
	s := New(bucket)
	id := streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"}
	s.Put(bucket, id.Key, bytes.Repeat([]byte("a"), 100), "audio/mpeg")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			obj, err := s.GetObject(context.Background(), id, &streamtypes.RangeSpec{Start: 10})
			if assert.NoError(t, err) {
				_ = obj.Body.Close()
			}
		}()
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			assert.NoError(t, s.PutObject(context.Background(),
				streamtypes.ObjectIdentity{Bucket: bucket, Key: key}, strings.NewReader("x"), 1, ""))
		}(i)
	}
	wg.Wait()
}

func TestStore_Close(t *testing.T) {
	s := seeded(t, []byte("abc"))
	require.NoError(t, s.Close())

	_, err := s.HeadObject(context.Background(), streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"})
	assert.ErrorIs(t, err, errors.ErrObjectNotFound)
	assert.Equal(t, "memory", s.Name())
}

func TestStore_HonoursCancelledContext(t *testing.T) {
	s := New(bucket)
	s.Put(bucket, "song.mp3", []byte("abcd"), "audio/mpeg")
	id := streamtypes.ObjectIdentity{Bucket: bucket, Key: "song.mp3"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetObject(ctx, id, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.HeadObject(ctx, id)
	assert.ErrorIs(t, err, context.Canceled)

	err = s.PutObject(ctx, id, strings.NewReader("x"), 1, "audio/mpeg")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.ListFolders(ctx, bucket, "")
	assert.ErrorIs(t, err, context.Canceled)
}
