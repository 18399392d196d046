package throttle

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestNewReader_Disabled(t *testing.T) {
	rc := io.NopCloser(bytes.NewReader([]byte("abc")))
	assert.Equal(t, rc, NewReader(context.Background(), rc, 0))
	assert.Equal(t, rc, NewReader(context.Background(), rc, -5))
}

func TestReader_DeliversEverything(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 4096)
	src := &closeRecorder{Reader: bytes.NewReader(data)}

	r := NewReader(context.Background(), src, 1<<20)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, r.Close())
	assert.True(t, src.closed)
}

func TestReader_Limits(t *testing.T) {
	// The first 2000 bytes fit the burst; 500 more need a quarter second at 2000 B/s.
	data := bytes.Repeat([]byte("y"), 2000)
	r := NewReader(context.Background(), io.NopCloser(bytes.NewReader(data)), 2000)

	start := time.Now()
	first := make([]byte, 2000)
	n, err := io.ReadFull(r, first)
	require.NoError(t, err)
	assert.Equal(t, 2000, n)
	assert.Less(t, time.Since(start), 200*time.Millisecond, "the first burst is not delayed")

	r = NewReader(context.Background(), io.NopCloser(bytes.NewReader(append(data, data[:500]...))), 2000)
	start = time.Now()
	_, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestReader_CapsReadToBurst(t *testing.T) {
	r := NewReader(context.Background(), io.NopCloser(bytes.NewReader(make([]byte, 100))), 10)

	n, err := r.Read(make([]byte, 100))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestReader_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewReader(ctx, io.NopCloser(bytes.NewReader(make([]byte, 100))), 10)

	_, err := r.Read(make([]byte, 10))
	require.NoError(t, err)

	cancel()
	_, err = r.Read(make([]byte, 10))
	assert.ErrorIs(t, err, context.Canceled)
}
