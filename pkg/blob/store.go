// Package blob defines the key-value blob store used to persist ivrdir
// state: overlay deletions and creations, metadata overrides, user accounts,
// the activity log and the active remote credential.
//
// Each piece of state is an independently loadable/saveable blob. Callers
// treat a missing or unreadable blob as an empty default, so corruption of
// one blob never prevents startup.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// Store is a durable key-value blob store.
//
// Implementations must be safe for concurrent use. Keys are short
// slash-separated identifiers such as "overlay/deleted" or "users".
type Store interface {
	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores data under key, replacing any previous blob.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the blob under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources. The store must not be used
	// after Close returns.
	Close() error
}
