package application

import (
	"context"

	"technician-marketplace/domain"
)

type fakeStore struct {
	profiles map[string]*domain.TechnicianProfile
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[string]*domain.TechnicianProfile)}
}

func (s *fakeStore) Put(ctx context.Context, profile *domain.TechnicianProfile) error {
	copied := *profile
	s.profiles[profile.ID] = &copied
	return nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*domain.TechnicianProfile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *p
	if p.Sync != nil {
		sync := *p.Sync
		copied.Sync = &sync
	}
	return &copied, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	delete(s.profiles, id)
	return nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]*domain.TechnicianProfile, error) {
	var profiles []*domain.TechnicianProfile
	for id := range s.profiles {
		p, _ := s.Get(ctx, id)
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *fakeStore) ListVisible(ctx context.Context) ([]*domain.TechnicianProfile, error) {
	all, _ := s.ListAll(ctx)
	var visible []*domain.TechnicianProfile
	for _, p := range all {
		if p.IsVisible {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *fakeStore) UpdateSyncState(ctx context.Context, id string, state domain.EmbeddingSyncState) error {
	p, ok := s.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	stateCopy := state
	p.Sync = &stateCopy
	return nil
}

type fakeEmbedder struct {
	calls []string
	err   error
}

// Embed returns a vector derived from the text, so the same text always
// embeds the same and different text embeds differently.
func (e *fakeEmbedder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	e.calls = append(e.calls, text)
	if e.err != nil {
		return nil, e.err
	}
	var sum float32
	for _, b := range []byte(text) {
		sum += float32(b)
	}
	return domain.Embedding{float32(len(text)), sum}, nil
}

func (e *fakeEmbedder) Provider() string { return "test" }

func (e *fakeEmbedder) Model() string { return "test-embedding-1" }

type fakeIndex struct {
	entries   map[string]domain.VectorEntry
	matches   []domain.Match
	upsertErr error
	deleteErr error
	queryErr  error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{entries: make(map[string]domain.VectorEntry)}
}

func (i *fakeIndex) Upsert(ctx context.Context, entry domain.VectorEntry) error {
	if i.upsertErr != nil {
		return i.upsertErr
	}
	i.entries[entry.ProfileID] = entry
	return nil
}

func (i *fakeIndex) Delete(ctx context.Context, profileID string) error {
	if i.deleteErr != nil {
		return i.deleteErr
	}
	delete(i.entries, profileID)
	return nil
}

func (i *fakeIndex) SetVisibility(ctx context.Context, profileID string, visible bool) error {
	if entry, ok := i.entries[profileID]; ok {
		entry.IsVisible = visible
		i.entries[profileID] = entry
	}
	return nil
}

func (i *fakeIndex) Query(ctx context.Context, vector domain.Embedding, filter domain.SearchFilter, topK int) ([]domain.Match, error) {
	if i.queryErr != nil {
		return nil, i.queryErr
	}
	if len(i.matches) > topK {
		return i.matches[:topK], nil
	}
	return i.matches, nil
}
