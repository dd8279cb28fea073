// Package overlay records the local mutations layered on top of a directory
// source: deleted paths, locally created entries, and per-path metadata
// overrides.
//
// The overlay is the user-visible source of truth. Every mutation is applied
// in memory first and then written through to the blob store; persistence
// failures are logged and swallowed so the overlay stays valid for the
// process lifetime even when the durable store is unavailable.
package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/blob"
	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/ivrpath"
)

// Blob keys for the three overlay sections. Each section is persisted
// independently so corruption of one never takes down the others.
const (
	keyDeleted  = "overlay/deleted"
	keyCreated  = "overlay/created"
	keyMetadata = "overlay/metadata"
)

// Store holds the overlay state for one session.
//
// Thread safety: all operations are guarded by a read-write mutex. Reads
// (IsDeleted, CreationsUnder, MetadataFor) take the read lock, so concurrent
// listings do not serialize against each other.
//
// Deletion is terminal within a session: no operation removes a path from
// the deleted set. A deleted folder masks its whole subtree implicitly,
// because its parent no longer lists it and listings of masked folders are
// never produced.
type Store struct {
	mu sync.RWMutex

	// deleted is the set of masked paths.
	deleted map[string]struct{}

	// created are entries added locally, pending or in place of remote
	// confirmation. Never deduplicated against remote entries by path.
	created []directory.Entry

	// metadata maps path -> user-supplied annotation. Last write wins;
	// an empty string removes the override.
	metadata map[string]string

	// blobs is the write-through durable store.
	blobs blob.Store
}

// Load creates a Store and populates it from the blob store.
//
// A missing or unreadable blob yields an empty default for that section
// without failing: the overlay must come up even when persisted state is
// corrupt or absent.
func Load(ctx context.Context, blobs blob.Store) *Store {
	s := &Store{
		deleted:  make(map[string]struct{}),
		metadata: make(map[string]string),
		blobs:    blobs,
	}

	var deletedPaths []string
	if loadSection(ctx, blobs, keyDeleted, &deletedPaths) {
		for _, p := range deletedPaths {
			s.deleted[p] = struct{}{}
		}
	}

	loadSection(ctx, blobs, keyCreated, &s.created)
	loadSection(ctx, blobs, keyMetadata, &s.metadata)

	return s
}

// loadSection unmarshals one overlay blob into target. Returns false and
// leaves target untouched when the blob is missing or corrupt.
func loadSection(ctx context.Context, blobs blob.Store, key string, target any) bool {
	data, err := blobs.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			logger.Warn("Failed to load %s, starting empty: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(data, target); err != nil {
		logger.Warn("Corrupt blob %s, starting empty: %v", key, err)
		return false
	}

	return true
}

// RecordDeletion adds path to the deleted set. Recording the same path
// twice is a no-op, which is what makes delete idempotent at the service
// level.
func (s *Store) RecordDeletion(ctx context.Context, path string) {
	s.mu.Lock()
	s.deleted[path] = struct{}{}
	snapshot := make([]string, 0, len(s.deleted))
	for p := range s.deleted {
		snapshot = append(snapshot, p)
	}
	s.mu.Unlock()

	s.persist(ctx, keyDeleted, snapshot)
}

// RecordCreation appends a locally created entry.
func (s *Store) RecordCreation(ctx context.Context, entry directory.Entry) {
	s.mu.Lock()
	s.created = append(s.created, entry)
	snapshot := make([]directory.Entry, len(s.created))
	copy(snapshot, s.created)
	s.mu.Unlock()

	s.persist(ctx, keyCreated, snapshot)
}

// SetMetadata records a free-text annotation for path. An empty (or
// whitespace-only handled by callers) text removes the override.
func (s *Store) SetMetadata(ctx context.Context, path, text string) {
	s.mu.Lock()
	if text == "" {
		delete(s.metadata, path)
	} else {
		s.metadata[path] = text
	}
	snapshot := make(map[string]string, len(s.metadata))
	for k, v := range s.metadata {
		snapshot[k] = v
	}
	s.mu.Unlock()

	s.persist(ctx, keyMetadata, snapshot)
}

// IsDeleted reports whether path itself is in the deleted set. Ancestor
// masking is implicit and not checked here.
func (s *Store) IsDeleted(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.deleted[path]
	return ok
}

// CreationsUnder returns the locally created entries that are direct
// children of parent and not themselves deleted.
func (s *Store) CreationsUnder(parent string) []directory.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []directory.Entry
	for _, e := range s.created {
		if _, deleted := s.deleted[e.Path]; deleted {
			continue
		}
		if ivrpath.IsDirectChild(parent, e.Path) {
			out = append(out, e)
		}
	}
	return out
}

// Creations returns all locally created entries that are not deleted.
// Used by search, which scans the baseline plus local creations.
func (s *Store) Creations() []directory.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []directory.Entry
	for _, e := range s.created {
		if _, deleted := s.deleted[e.Path]; deleted {
			continue
		}
		out = append(out, e)
	}
	return out
}

// MetadataFor returns the override for path, if one is set.
func (s *Store) MetadataFor(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.metadata[path]
	return text, ok
}

// persist writes one overlay section through to the blob store. Failures
// are logged and swallowed: the in-memory overlay remains authoritative.
func (s *Store) persist(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("Failed to encode %s: %v", key, err)
		return
	}

	if err := s.blobs.Save(ctx, key, data); err != nil {
		logger.Warn("Failed to persist %s: %v", key, err)
	}
}
