// Package memory provides an in-memory object store for testing and development.
// Range requests follow S3 semantics: the end is clamped to the object and a
// start at or past the end is rejected.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

type object struct {
	data        []byte
	contentType string
	etag        string
	modified    time.Time
}

// Store keeps objects in memory with no persistence.
// It is safe for concurrent use.
type Store struct {
	// buckets holds objects keyed by bucket, then key
	buckets map[string]map[string]*object
	// mu protects concurrent access to buckets
	mu sync.RWMutex
	// now is replaceable in tests
	now func() time.Time
}

var _ streamtypes.Store = (*Store)(nil)

// New creates a store holding the given, empty buckets.
func New(buckets ...string) *Store {
	s := &Store{
		buckets: make(map[string]map[string]*object),
		now:     time.Now,
	}
	for _, b := range buckets {
		s.buckets[b] = make(map[string]*object)
	}
	return s
}

// Name returns the backend identifier.
func (s *Store) Name() string {
	return "memory"
}

// Put stores data under bucket/key, creating the bucket if needed.
// It is a seeding shortcut for tests and local development.
func (s *Store) Put(bucket, key string, data []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		objects = make(map[string]*object)
		s.buckets[bucket] = objects
	}
	objects[key] = &object{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		etag:        fmt.Sprintf(`"%x"`, md5.Sum(data)),
		modified:    s.now().UTC().Truncate(time.Second),
	}
}

func (s *Store) lookup(ctx context.Context, id streamtypes.ObjectIdentity) (*object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, ok := s.buckets[id.Bucket]
	if !ok {
		return nil, errors.ErrBucketNotFound
	}
	obj, ok := objects[id.Key]
	if !ok {
		return nil, errors.ErrObjectNotFound
	}
	return obj, nil
}

// GetObject returns the object, or the requested range of it.
func (s *Store) GetObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	rng *streamtypes.RangeSpec,
) (*streamtypes.ObjectReader, error) {
	obj, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	size := int64(len(obj.data))
	part := obj.data
	if rng != nil {
		if rng.Start >= size {
			return nil, &errors.RangeNotSatisfiableError{Start: rng.Start, Size: size}
		}
		end := size - 1
		if rng.End != nil && *rng.End < end {
			end = *rng.End
		}
		part = obj.data[rng.Start : end+1]
	}

	return &streamtypes.ObjectReader{
		Body:          io.NopCloser(bytes.NewReader(part)),
		ContentLength: int64(len(part)),
		ETag:          obj.etag,
		LastModified:  obj.modified,
	}, nil
}

// HeadObject returns the object's metadata.
func (s *Store) HeadObject(ctx context.Context, id streamtypes.ObjectIdentity) (*streamtypes.ObjectInfo, error) {
	obj, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	return &streamtypes.ObjectInfo{
		Key:          id.Key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		ETag:         obj.etag,
		LastModified: obj.modified,
	}, nil
}

// PutObject reads body fully and stores it. The bucket must exist.
func (s *Store) PutObject(
	ctx context.Context,
	id streamtypes.ObjectIdentity,
	body io.Reader,
	size int64,
	contentType string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	_, ok := s.buckets[id.Bucket]
	s.mu.RUnlock()
	if !ok {
		return errors.ErrBucketNotFound
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if size >= 0 && int64(len(data)) != size {
		return errors.NewObjectError("put", id.Bucket, id.Key, errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("read %d bytes, expected %d", len(data), size))
	}

	s.Put(id.Bucket, id.Key, data, contentType)
	return nil
}

// ListFolders returns the distinct first path segments below prefix, sorted.
func (s *Store) ListFolders(ctx context.Context, bucket, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		return nil, errors.ErrBucketNotFound
	}

	seen := make(map[string]struct{})
	for key := range objects {
		rest, found := strings.CutPrefix(key, prefix)
		if !found {
			continue
		}
		if dir, _, isNested := strings.Cut(rest, "/"); isNested && dir != "" {
			seen[prefix+dir] = struct{}{}
		}
	}

	folders := make([]string, 0, len(seen))
	for f := range seen {
		folders = append(folders, f)
	}
	sort.Strings(folders)
	return folders, nil
}

// Close drops every stored object.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for b := range s.buckets {
		s.buckets[b] = make(map[string]*object)
	}
	return nil
}
