package directory

import (
	"context"
	"strings"
)

// Search returns the entries visible to user whose name, stored metadata or
// metadata override contains query, case-insensitively.
//
// Search scans the baseline dataset plus local creations only; it never
// queries the remote source. This is a deliberate simplification: the
// remote API has no search endpoint, and a recursive remote walk per query
// would be unbounded.
func (s *Service) Search(ctx context.Context, query string, user User) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)

	var matched []Entry
	for _, e := range s.mergedDataset() {
		override, hasOverride := s.overlay.MetadataFor(e.Path)

		nameMatch := strings.Contains(strings.ToLower(e.Name), q)
		metadataMatch := strings.Contains(strings.ToLower(e.Metadata), q)
		overrideMatch := hasOverride && strings.Contains(strings.ToLower(override), q)

		if !nameMatch && !metadataMatch && !overrideMatch {
			continue
		}

		if hasOverride {
			e.Metadata = override
		}
		matched = append(matched, e)
	}

	matched = s.filterVisible(matched, user)
	s.metrics.SearchServed()

	return matched, nil
}
