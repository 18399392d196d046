// Package bufpool reuses the copy buffers of response streams so that
// concurrent streams do not allocate a fresh buffer each.
package bufpool

import (
	"io"
	"sync"
)

// Size of a pooled copy buffer.
const Size = 32 * 1024

var buffers = sync.Pool{
	New: func() any {
		buf := make([]byte, Size)
		return &buf
	},
}

// Get returns a buffer of length Size. Return it with Put.
func Get() *[]byte {
	return buffers.Get().(*[]byte)
}

// Put returns buf to the pool. Buffers of a foreign size are dropped.
func Put(buf *[]byte) {
	if buf == nil || cap(*buf) != Size {
		return
	}
	*buf = (*buf)[:Size]
	buffers.Put(buf)
}

// Copy is io.CopyBuffer with a pooled buffer.
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	buf := Get()
	defer Put(buf)
	return io.CopyBuffer(dst, src, *buf)
}
