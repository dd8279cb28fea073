package directory

import (
	"context"
	"strings"
	"time"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/ivrpath"
	"github.com/ymtools/ivrdir/pkg/metrics"
)

// ListSource is the slice of the directory source the service reads from
// and writes to. Both the remote API client and the baseline dataset
// satisfy it.
type ListSource interface {
	List(ctx context.Context, path string) ([]Entry, error)
	Create(ctx context.Context, path, name string, data []byte) error
	Delete(ctx context.Context, path string) error
}

// BaselineData is a ListSource whose full dataset can be scanned. Search
// and child-count enrichment need the whole tree, not just one level.
type BaselineData interface {
	ListSource
	All() []Entry
}

// Overlay is the local mutation record the service layers over source
// listings.
type Overlay interface {
	RecordDeletion(ctx context.Context, path string)
	RecordCreation(ctx context.Context, entry Entry)
	SetMetadata(ctx context.Context, path, text string)
	IsDeleted(path string) bool
	CreationsUnder(parent string) []Entry
	Creations() []Entry
	MetadataFor(path string) (string, bool)
}

// Validator probes remote credential connectivity.
type Validator interface {
	Validate(ctx context.Context) bool
}

// Service answers listing, search, upload and delete requests by composing
// a directory source, the overlay and the access policy.
//
// Reads never surface remote errors: a listing always comes back, from the
// remote when possible and from the baseline otherwise. Writes update the
// overlay synchronously and treat the remote as best-effort; a remote
// failure is logged, never rolled back locally.
//
// Thread safety: the service itself is stateless; concurrency is bounded by
// the overlay's locking, so concurrent listings for different paths run in
// parallel.
type Service struct {
	// remote is nil when no credential is configured.
	remote ListSource

	// validator probes the credential, when a remote is configured.
	validator Validator

	baseline BaselineData
	overlay  Overlay
	metrics  metrics.DirectoryMetrics
	now      func() time.Time
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Remote is the remote directory source. Nil means baseline-only
	// operation.
	Remote ListSource

	// Validator probes the remote credential. Usually the same object
	// as Remote. Optional.
	Validator Validator

	// Baseline is the fallback dataset (required).
	Baseline BaselineData

	// Overlay is the local mutation record (required).
	Overlay Overlay

	// Metrics is optional; nil installs a no-op implementation.
	Metrics metrics.DirectoryMetrics

	// Now overrides the clock, used by tests. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a Service.
//
// Panics if Baseline or Overlay is nil (programmer error).
func NewService(cfg ServiceConfig) *Service {
	if cfg.Baseline == nil {
		panic("baseline source cannot be nil")
	}
	if cfg.Overlay == nil {
		panic("overlay store cannot be nil")
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNoopDirectoryMetrics()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		remote:    cfg.Remote,
		validator: cfg.Validator,
		baseline:  cfg.Baseline,
		overlay:   cfg.Overlay,
		metrics:   m,
		now:       now,
	}
}

// List returns the entries visible to user under path.
//
// The raw listing comes from the remote source when one is configured,
// falling back to the baseline dataset for this call only when the remote
// is unavailable. Overlay deletions mask entries, overlay creations are
// appended on baseline-derived listings, metadata overrides are applied,
// and the access policy filters the result.
func (s *Service) List(ctx context.Context, path string, user User) ([]Entry, error) {
	raw, baselineDerived, err := s.rawListing(ctx, path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if s.overlay.IsDeleted(e.Path) {
			continue
		}
		entries = append(entries, e)
	}

	if baselineDerived {
		entries = append(entries, s.overlay.CreationsUnder(path)...)
		entries = s.enrichBaseline(entries)
	}

	entries = s.applyOverrides(entries)
	entries = s.filterVisible(entries, user)

	source := "remote"
	if baselineDerived {
		source = "baseline"
	}
	s.metrics.ListingServed(source)

	return entries, nil
}

// rawListing fetches one level of the tree and reports whether the result
// is baseline-derived.
func (s *Service) rawListing(ctx context.Context, path string) ([]Entry, bool, error) {
	if s.remote == nil {
		raw, err := s.baseline.List(ctx, path)
		return raw, true, err
	}

	raw, err := s.remote.List(ctx, path)
	if err == nil {
		return raw, false, nil
	}
	if ctx.Err() != nil {
		// The caller abandoned the request; don't serve stale baseline.
		return nil, false, ctx.Err()
	}

	logger.Warn("Remote listing for %q failed, serving baseline: %v", path, err)
	s.metrics.RemoteFallback()

	raw, err = s.baseline.List(ctx, path)
	return raw, true, err
}

// enrichBaseline fills the fields the remote normally supplies: direct
// child counts for folders, and default createdBy/full timestamps for
// files. The counts scan the overlay-merged dataset so locally created and
// deleted entries are reflected.
func (s *Service) enrichBaseline(entries []Entry) []Entry {
	merged := s.mergedDataset()

	for i, e := range entries {
		if e.Kind == KindFolder {
			folders, files := 0, 0
			for _, child := range merged {
				if !ivrpath.IsDirectChild(e.Path, child.Path) {
					continue
				}
				if child.Kind == KindFolder {
					folders++
				} else {
					files++
				}
			}
			entries[i].ChildFolders = folders
			entries[i].ChildFiles = files
			continue
		}

		if e.CreatedBy == "" {
			entries[i].CreatedBy = "מערכת ימות המשיח"
		}
		if e.FullTimestamp == "" {
			entries[i].FullTimestamp = e.ModifiedAt + " 12:00:00"
		}
	}

	return entries
}

// mergedDataset is the full baseline tree plus local creations, minus
// deleted paths.
func (s *Service) mergedDataset() []Entry {
	all := s.baseline.All()
	merged := make([]Entry, 0, len(all))
	for _, e := range all {
		if s.overlay.IsDeleted(e.Path) {
			continue
		}
		merged = append(merged, e)
	}
	return append(merged, s.overlay.Creations()...)
}

// applyOverrides replaces entry metadata with the user-supplied override
// where one is set.
func (s *Service) applyOverrides(entries []Entry) []Entry {
	for i, e := range entries {
		if text, ok := s.overlay.MetadataFor(e.Path); ok {
			entries[i].Metadata = text
		}
	}
	return entries
}

// filterVisible keeps the entries the access policy allows.
func (s *Service) filterVisible(entries []Entry, user User) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if Visible(e, user) {
			out = append(out, e)
		}
	}
	return out
}

// SetMetadata records a free-text annotation for path. Leading and trailing
// whitespace is trimmed; a blank text removes the override.
func (s *Service) SetMetadata(ctx context.Context, path, text string) {
	s.overlay.SetMetadata(ctx, path, strings.TrimSpace(text))
}

// ValidateCredential probes remote connectivity. Always false when no
// remote is configured.
func (s *Service) ValidateCredential(ctx context.Context) bool {
	if s.validator == nil {
		return false
	}
	return s.validator.Validate(ctx)
}

// RemoteConfigured reports whether a remote source is in use.
func (s *Service) RemoteConfigured() bool {
	return s.remote != nil
}
