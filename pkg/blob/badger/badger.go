// Package badger implements a blob store persisted with BadgerDB.
//
// This is the default durable store for local deployments: overlay state,
// users and the activity log survive restarts without any external service.
package badger

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ymtools/ivrdir/pkg/blob"
)

// BadgerBlobStore implements blob.Store on top of a BadgerDB database.
//
// Thread safety: BadgerDB transactions provide the necessary isolation;
// no additional locking is required.
type BadgerBlobStore struct {
	db *badger.DB
}

// NewBadgerBlobStore opens (or creates) a BadgerDB database at path.
func NewBadgerBlobStore(path string) (*BadgerBlobStore, error) {
	if path == "" {
		return nil, fmt.Errorf("badger blob store: path is required")
	}

	opts := badger.DefaultOptions(path)
	// Badger's own logger is chatty at INFO; blob traffic here is tiny
	// and the operations log what matters.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", path, err)
	}

	return &BadgerBlobStore{db: db}, nil
}

// Load returns the blob stored under key, or blob.ErrNotFound.
func (s *BadgerBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, blob.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %q: %w", key, err)
	}

	return data, nil
}

// Save stores data under key.
func (s *BadgerBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save blob %q: %w", key, err)
	}

	return nil
}

// Delete removes the blob under key. Missing keys are not an error.
func (s *BadgerBlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}

	return nil
}

// Close closes the underlying database.
func (s *BadgerBlobStore) Close() error {
	return s.db.Close()
}
