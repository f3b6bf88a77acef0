package domain

import "context"

// VectorEntry is the denormalized record stored in the vector index for one
// technician profile. The profile store stays authoritative for every field
// in it; the entry exists only to serve similarity queries with server-side
// metadata filters.
type VectorEntry struct {
	ProfileID string
	Vector    Embedding
	JobTypes  []JobType
	Tags      []string
	Cities    []string
	IsVisible bool
}

// Match is a single similarity hit returned by the index, scored by the
// index's native distance metric.
type Match struct {
	ProfileID string
	Score     float32
}

// SearchFilter restricts a similarity query by stored metadata. Zero values
// mean no restriction; visibility is always restricted to visible entries.
// Tags match when the entry contains at least one of the requested tags.
type SearchFilter struct {
	JobType JobType
	City    string
	Tags    []string
}

// VectorIndex defines the interface for the remote vector index holding
// technician embeddings.
type VectorIndex interface {
	// Upsert creates or replaces the entry for a profile. Upserting the same
	// profile twice leaves a single entry holding the latest values.
	Upsert(ctx context.Context, entry VectorEntry) error
	// Delete removes the entry for a profile. Deleting an absent profile is
	// not an error.
	Delete(ctx context.Context, profileID string) error
	// SetVisibility patches the stored visibility flag without touching the
	// vector.
	SetVisibility(ctx context.Context, profileID string, visible bool) error
	// Query returns up to topK matches ordered by similarity.
	Query(ctx context.Context, vector Embedding, filter SearchFilter, topK int) ([]Match, error)
}
