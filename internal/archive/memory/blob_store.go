// Package memory provides an in-memory blob store for tests.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Object captures one stored blob.
type Object struct {
	Path        string
	ContentType string
	Data        []byte
}

// BlobStore records objects in memory for later inspection.
type BlobStore struct {
	mu      sync.RWMutex
	objects []Object
}

// New returns an empty in-memory blob store.
func New() *BlobStore {
	return &BlobStore{}
}

// PutObject stores a copy of data and returns a mem:// URI.
func (s *BlobStore) PutObject(_ context.Context, path string, contentType string, data []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, Object{
		Path:        path,
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	})
	return "mem://" + path, nil
}

// Objects returns the stored blobs.
func (s *BlobStore) Objects() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}
