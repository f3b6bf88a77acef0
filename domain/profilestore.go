package domain

import "context"

// ProfileStore defines the interface for the document store that owns
// technician profiles.
type ProfileStore interface {
	// Put creates or fully replaces a profile.
	Put(ctx context.Context, profile *TechnicianProfile) error
	// Get returns the profile under id, or ErrProfileNotFound.
	Get(ctx context.Context, id string) (*TechnicianProfile, error)
	// Delete removes the profile under id.
	Delete(ctx context.Context, id string) error
	// ListAll returns every profile, hidden ones included.
	ListAll(ctx context.Context) ([]*TechnicianProfile, error)
	// ListVisible returns the profiles eligible for discovery.
	ListVisible(ctx context.Context) ([]*TechnicianProfile, error)
	// UpdateSyncState writes the embedding sync outcome onto an existing
	// profile without touching any other field.
	UpdateSyncState(ctx context.Context, id string, state EmbeddingSyncState) error
}
