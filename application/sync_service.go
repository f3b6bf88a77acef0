package application

import (
	"context"
	"log"
	"time"

	"technician-marketplace/domain"
)

// embeddingRelevantFields are the profile fields whose value feeds the
// embedding text. Changes outside this set never trigger an embedding call.
var embeddingRelevantFields = map[string]bool{
	"name":     true,
	"jobTypes": true,
	"bio":      true,
	"tags":     true,
	"cities":   true,
}

// IndexID returns the external document id recorded on a profile's sync
// state for the given profile id.
func IndexID(profileID string) string {
	return "technician:" + profileID
}

// SyncService keeps the vector index in step with the profile store. The
// profile write always commits first; a failed sync is recorded on the
// profile's sync state and returned to the caller, but it never rolls the
// profile write back. There is no retry loop: a failed sync is corrected by
// a later profile update or an explicit resync.
type SyncService struct {
	store    domain.ProfileStore
	embedder domain.EmbeddingClient
	index    domain.VectorIndex
}

// NewSyncService creates a new SyncService.
func NewSyncService(store domain.ProfileStore, embedder domain.EmbeddingClient, index domain.VectorIndex) *SyncService {
	return &SyncService{
		store:    store,
		embedder: embedder,
		index:    index,
	}
}

// SyncOnCreate embeds a freshly created profile and upserts it into the
// index.
func (s *SyncService) SyncOnCreate(ctx context.Context, profile *domain.TechnicianProfile) error {
	return s.sync(ctx, profile)
}

// SyncOnUpdate re-embeds only when an embedding-relevant field changed. A
// visibility-only change patches the stored metadata without re-embedding;
// any other irrelevant change is a no-op and leaves the sync state alone.
func (s *SyncService) SyncOnUpdate(ctx context.Context, profile *domain.TechnicianProfile, changedFields []string) error {
	relevant := false
	visibilityChanged := false
	for _, field := range changedFields {
		if embeddingRelevantFields[field] {
			relevant = true
		}
		if field == "isVisible" {
			visibilityChanged = true
		}
	}

	if relevant {
		return s.sync(ctx, profile)
	}

	if visibilityChanged && profile.Sync != nil && profile.Sync.IndexID != "" {
		if err := s.index.SetVisibility(ctx, profile.ID, profile.IsVisible); err != nil {
			log.Printf("Failed to update index visibility for technician %s: %v\n", profile.ID, err)
			return s.recordFailure(ctx, profile, err)
		}
	}

	return nil
}

// SyncOnDelete removes the profile's entry from the index. The profile
// deletion is already final, so a failure here is reported but changes
// nothing on the store side.
func (s *SyncService) SyncOnDelete(ctx context.Context, profileID string) error {
	if err := s.index.Delete(ctx, profileID); err != nil {
		log.Printf("Failed to delete technician %s from index: %v\n", profileID, err)
		return err
	}
	return nil
}

// Resync force-rebuilds the index entry from the current profile fields.
func (s *SyncService) Resync(ctx context.Context, profile *domain.TechnicianProfile) error {
	return s.sync(ctx, profile)
}

func (s *SyncService) sync(ctx context.Context, profile *domain.TechnicianProfile) error {
	text := domain.BuildEmbeddingText(profile.Name, profile.JobTypes, profile.Bio, profile.Tags, profile.Cities)

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		log.Printf("Failed to embed technician %s: %v\n", profile.ID, err)
		return s.recordFailure(ctx, profile, err)
	}

	entry := domain.VectorEntry{
		ProfileID: profile.ID,
		Vector:    vector,
		JobTypes:  profile.JobTypes,
		Tags:      profile.Tags,
		Cities:    profile.Cities,
		IsVisible: profile.IsVisible,
	}

	if err := s.index.Upsert(ctx, entry); err != nil {
		log.Printf("Failed to upsert technician %s into index: %v\n", profile.ID, err)
		return s.recordFailure(ctx, profile, err)
	}

	state := domain.EmbeddingSyncState{
		Provider:  s.embedder.Provider(),
		Model:     s.embedder.Model(),
		IndexID:   IndexID(profile.ID),
		UpdatedAt: time.Now(),
	}
	return s.store.UpdateSyncState(ctx, profile.ID, state)
}

// recordFailure writes the failed outcome onto the profile and hands the
// cause back so the caller can decide whether to log or surface it. A
// previously recorded index id is kept: the old entry may still exist.
func (s *SyncService) recordFailure(ctx context.Context, profile *domain.TechnicianProfile, cause error) error {
	state := domain.EmbeddingSyncState{
		Provider:  s.embedder.Provider(),
		Model:     s.embedder.Model(),
		UpdatedAt: time.Now(),
		Error:     cause.Error(),
	}
	if profile.Sync != nil {
		state.IndexID = profile.Sync.IndexID
	}

	if err := s.store.UpdateSyncState(ctx, profile.ID, state); err != nil {
		log.Printf("Failed to record sync failure for technician %s: %v\n", profile.ID, err)
	}
	return cause
}
