// Package source defines the directory source abstraction: where raw
// listings come from and where create/delete operations are sent.
//
// Two implementations exist: remote (the IVR hosting HTTP API) and baseline
// (a synthetic in-memory dataset used when no credential is configured or
// the remote call fails). The directory service composes them; callers never
// talk to a source directly.
package source

import (
	"context"

	"github.com/ymtools/ivrdir/pkg/directory"
)

// Source lists the children of a path and accepts content mutations.
type Source interface {
	// List returns the direct children of path. Remote implementations
	// signal ErrRemoteUnavailable on transport failure or a non-OK
	// response body, which triggers the caller's baseline fallback.
	List(ctx context.Context, path string) ([]directory.Entry, error)

	// Create stores a file named name with the given content under path.
	Create(ctx context.Context, path, name string, data []byte) error

	// Delete removes the entry at path.
	Delete(ctx context.Context, path string) error
}
