// Package prometheus provides the Prometheus-backed implementations of the
// metrics interfaces.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ymtools/ivrdir/pkg/metrics"
)

// directoryMetrics is the Prometheus implementation of
// metrics.DirectoryMetrics.
type directoryMetrics struct {
	listingsTotal  *prometheus.CounterVec
	fallbacksTotal prometheus.Counter
	searchesTotal  prometheus.Counter
	uploadsTotal   *prometheus.CounterVec
	deletesTotal   *prometheus.CounterVec
}

// NewDirectoryMetrics creates a Prometheus-backed DirectoryMetrics.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry
// not called).
func NewDirectoryMetrics() metrics.DirectoryMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopDirectoryMetrics()
	}

	reg := metrics.GetRegistry()

	return &directoryMetrics{
		listingsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ivrdir_listings_total",
				Help: "Total directory listings served, by producing source",
			},
			[]string{"source"},
		),
		fallbacksTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "ivrdir_remote_fallbacks_total",
				Help: "Listings that fell back to the baseline dataset because the remote was unavailable",
			},
		),
		searchesTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "ivrdir_searches_total",
				Help: "Total searches served",
			},
		),
		uploadsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ivrdir_uploads_total",
				Help: "Total uploads, by whether the remote confirmed the write",
			},
			[]string{"remote_confirmed"},
		),
		deletesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ivrdir_deletes_total",
				Help: "Total deletes, by whether the remote accepted the request",
			},
			[]string{"remote_confirmed"},
		),
	}
}

func (m *directoryMetrics) ListingServed(source string) {
	m.listingsTotal.WithLabelValues(source).Inc()
}

func (m *directoryMetrics) RemoteFallback() {
	m.fallbacksTotal.Inc()
}

func (m *directoryMetrics) SearchServed() {
	m.searchesTotal.Inc()
}

func (m *directoryMetrics) UploadRecorded(remoteConfirmed bool) {
	m.uploadsTotal.WithLabelValues(boolLabel(remoteConfirmed)).Inc()
}

func (m *directoryMetrics) DeleteRecorded(remoteConfirmed bool) {
	m.deletesTotal.WithLabelValues(boolLabel(remoteConfirmed)).Inc()
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
