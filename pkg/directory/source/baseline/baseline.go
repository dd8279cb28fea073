// Package baseline implements the synthetic directory source used when no
// remote credential is configured or the remote call fails.
//
// The dataset is purely structural: listing filters it for direct children
// of the requested path, with no network involved, so the baseline source
// never fails. Entries are never physically removed; deletions are masked
// by the overlay at the service level.
package baseline

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/ivrpath"
)

// Source implements source.Source over a fixed seed dataset.
//
// The dataset is immutable after construction, so reads need no locking and
// concurrent listings are safe.
type Source struct {
	entries []directory.Entry
}

// New creates a baseline source over the given dataset.
func New(entries []directory.Entry) *Source {
	return &Source{entries: entries}
}

// NewDefault creates a baseline source over the built-in seed dataset.
func NewDefault() *Source {
	return New(defaultDataset())
}

// List returns the entries whose parent is exactly path.
func (s *Source) List(ctx context.Context, path string) ([]directory.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []directory.Entry
	for _, e := range s.entries {
		if ivrpath.IsDirectChild(path, e.Path) {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns the full dataset. The service scans it for search and for
// child-count enrichment of baseline-derived listings.
func (s *Source) All() []directory.Entry {
	return s.entries
}

// Create is a no-op: locally created entries live in the overlay, not in
// the seed dataset.
func (s *Source) Create(ctx context.Context, path, name string, data []byte) error {
	return ctx.Err()
}

// Delete is a no-op: deletions are masked by the overlay.
func (s *Source) Delete(ctx context.Context, path string) error {
	return ctx.Err()
}

// datasetFile is the YAML shape of an external dataset file.
type datasetFile struct {
	Entries []datasetEntry `yaml:"entries"`
}

type datasetEntry struct {
	Name       string `yaml:"name"`
	Path       string `yaml:"path"`
	Kind       string `yaml:"kind"`
	SizeBytes  uint64 `yaml:"size_bytes"`
	ModifiedAt string `yaml:"modified_at"`
	Metadata   string `yaml:"metadata"`
	ContentURL string `yaml:"content_url"`
}

// LoadDatasetFile reads a YAML dataset so deployments can ship their own
// baseline tree instead of the built-in seed.
func LoadDatasetFile(path string) ([]directory.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse dataset file: %w", err)
	}

	entries := make([]directory.Entry, 0, len(file.Entries))
	for i, de := range file.Entries {
		var kind directory.Kind
		switch de.Kind {
		case "folder":
			kind = directory.KindFolder
		case "media":
			kind = directory.KindMedia
		case "other":
			kind = directory.KindOther
		default:
			return nil, fmt.Errorf("entries[%d]: unknown kind %q", i, de.Kind)
		}

		if de.Path == "" {
			return nil, fmt.Errorf("entries[%d]: path is required", i)
		}

		name := de.Name
		if name == "" {
			name = ivrpath.Base(de.Path)
		}

		modified := de.ModifiedAt
		if modified == "" {
			modified = "---"
		}

		entries = append(entries, directory.Entry{
			ID:         fmt.Sprintf("seed-%d", i),
			Name:       name,
			Path:       de.Path,
			Kind:       kind,
			SizeBytes:  de.SizeBytes,
			ModifiedAt: modified,
			Metadata:   de.Metadata,
			ContentURL: de.ContentURL,
		})
	}

	return entries, nil
}
