// Package metrics provides optional Prometheus metrics collection for the
// directory service.
//
// All metrics are optional - if the registry is not initialized, components
// receive no-op implementations with zero overhead, so ivrdir runs with or
// without metrics collection enabled.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry for all ivrdir metrics.
	// Protected by registryOnce for write-once, read-many access.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry. Safe to call
// multiple times; subsequent calls are ignored.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry, or nil when metrics
// are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return registry != nil
}

// DirectoryMetrics records directory service activity.
//
// Sources are labeled "remote" or "baseline" so fallback behavior is
// observable in production.
type DirectoryMetrics interface {
	// ListingServed records a completed listing and the source that
	// produced it.
	ListingServed(source string)

	// RemoteFallback records a listing that fell back to the baseline
	// because the remote was unavailable.
	RemoteFallback()

	// SearchServed records a completed search.
	SearchServed()

	// UploadRecorded records an upload and whether the remote confirmed it.
	UploadRecorded(remoteConfirmed bool)

	// DeleteRecorded records a delete and whether the remote accepted it.
	DeleteRecorded(remoteConfirmed bool)
}

// noopDirectoryMetrics discards all observations.
type noopDirectoryMetrics struct{}

func (noopDirectoryMetrics) ListingServed(string) {}
func (noopDirectoryMetrics) RemoteFallback()      {}
func (noopDirectoryMetrics) SearchServed()        {}
func (noopDirectoryMetrics) UploadRecorded(bool)  {}
func (noopDirectoryMetrics) DeleteRecorded(bool)  {}

// NewNoopDirectoryMetrics returns a DirectoryMetrics that discards
// everything.
func NewNoopDirectoryMetrics() DirectoryMetrics {
	return noopDirectoryMetrics{}
}
