package application

import (
	"context"
	"errors"
	"sort"

	"technician-marketplace/domain"
)

// Filters restricts a discovery search. Zero values mean no restriction.
type Filters struct {
	JobType   domain.JobType
	City      string
	MinRating float64
	Tags      []string
}

// BrowseResult carries the filtered catalogue plus the facet values the
// browse UI offers as filter options.
type BrowseResult struct {
	Technicians     []*domain.TechnicianProfile
	AvailableCities []string
	AvailableTags   []string
}

// DiscoveryService answers technician searches. Browse reads the profile
// store only; Suggest additionally goes through the embedding client and the
// vector index, hydrating every hit back from the store so the index never
// supplies display data.
type DiscoveryService struct {
	store    domain.ProfileStore
	embedder domain.EmbeddingClient
	index    domain.VectorIndex
}

// NewDiscoveryService creates a new DiscoveryService.
func NewDiscoveryService(store domain.ProfileStore, embedder domain.EmbeddingClient, index domain.VectorIndex) *DiscoveryService {
	return &DiscoveryService{
		store:    store,
		embedder: embedder,
		index:    index,
	}
}

// Browse lists visible technicians matching the filters, sorted by rating
// descending with unrated profiles last. Facet sets are collected over all
// visible profiles, not just the filtered ones, so the UI can widen a search.
func (s *DiscoveryService) Browse(ctx context.Context, filters Filters) (*BrowseResult, error) {
	visible, err := s.store.ListVisible(ctx)
	if err != nil {
		return nil, err
	}

	citySet := make(map[string]bool)
	tagSet := make(map[string]bool)
	seen := make(map[string]bool, len(visible))
	filtered := make([]*domain.TechnicianProfile, 0, len(visible))

	for _, t := range visible {
		for _, city := range t.Cities {
			citySet[city] = true
		}
		for _, tag := range t.Tags {
			tagSet[tag] = true
		}

		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true

		if matchesFilters(t, filters) {
			filtered = append(filtered, t)
		}
	}

	// Unrated profiles carry RatingAvg 0 and naturally sort last.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RatingAvg > filtered[j].RatingAvg
	})

	return &BrowseResult{
		Technicians:     filtered,
		AvailableCities: sortedKeys(citySet),
		AvailableTags:   sortedKeys(tagSet),
	}, nil
}

// Suggest embeds the free-text query and asks the index for the nearest
// visible entries, then resolves each hit back to its profile. Hits whose
// profile is gone or hidden are dropped silently; a failure on the embedding
// or index path is returned as-is, never degraded into an empty Browse.
func (s *DiscoveryService) Suggest(ctx context.Context, filters Filters, query string, topK int) ([]*domain.TechnicianProfile, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	searchFilter := domain.SearchFilter{
		JobType: filters.JobType,
		City:    filters.City,
		Tags:    filters.Tags,
	}
	matches, err := s.index.Query(ctx, vector, searchFilter, topK)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.TechnicianProfile, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, match := range matches {
		if seen[match.ProfileID] {
			continue
		}
		seen[match.ProfileID] = true

		profile, err := s.store.Get(ctx, match.ProfileID)
		if errors.Is(err, domain.ErrProfileNotFound) {
			continue // stale index entry
		}
		if err != nil {
			return nil, err
		}
		if !profile.IsVisible {
			continue
		}
		// Rating is not denormalized into the index, so the rating floor is
		// applied after hydration.
		if filters.MinRating > 0 && profile.RatingAvg < filters.MinRating {
			continue
		}

		results = append(results, profile)
	}

	return results, nil
}

func matchesFilters(t *domain.TechnicianProfile, f Filters) bool {
	if f.JobType != "" && !hasJobType(t.JobTypes, f.JobType) {
		return false
	}
	if f.City != "" && !containsString(t.Cities, f.City) {
		return false
	}
	if f.MinRating > 0 && t.RatingAvg < f.MinRating {
		return false
	}
	if len(f.Tags) > 0 && !containsAny(t.Tags, f.Tags) {
		return false
	}
	return true
}

func hasJobType(jobTypes []domain.JobType, want domain.JobType) bool {
	for _, jt := range jobTypes {
		if jt == want {
			return true
		}
	}
	return false
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func containsAny(values, wanted []string) bool {
	for _, w := range wanted {
		if containsString(values, w) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
