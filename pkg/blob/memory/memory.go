// Package memory implements an in-memory blob store.
//
// Suitable for tests and for deployments that accept losing overlay state
// on restart. All data lives in a single map guarded by a read-write mutex.
package memory

import (
	"context"
	"sync"

	"github.com/ymtools/ivrdir/pkg/blob"
)

// MemoryBlobStore implements blob.Store backed by a map.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore creates an empty in-memory blob store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string][]byte),
	}
}

// Load returns a copy of the blob stored under key, or blob.ErrNotFound.
func (s *MemoryBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, blob.ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save stores a copy of data under key.
func (s *MemoryBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = stored
	return nil
}

// Delete removes the blob under key if present.
func (s *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryBlobStore) Close() error {
	return nil
}
