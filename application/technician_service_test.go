package application

import (
	"context"
	"errors"
	"testing"

	"technician-marketplace/domain"
)

type testEnv struct {
	store     *fakeStore
	embedder  *fakeEmbedder
	index     *fakeIndex
	techs     *TechnicianService
	discovery *DiscoveryService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	index := newFakeIndex()
	sync := NewSyncService(store, embedder, index)
	return &testEnv{
		store:     store,
		embedder:  embedder,
		index:     index,
		techs:     NewTechnicianService(store, sync),
		discovery: NewDiscoveryService(store, embedder, index),
	}
}

func janeDoe() *domain.TechnicianProfile {
	return &domain.TechnicianProfile{
		Name:      "Jane Doe",
		JobTypes:  []domain.JobType{domain.JobTypePlumber},
		Bio:       "10 years experience",
		Tags:      []string{"licensed", "emergency"},
		Cities:    []string{"Austin"},
		IsVisible: true,
	}
}

func TestCreateThenBrowseEndToEnd(t *testing.T) {
	env := newTestEnv()

	created, err := env.techs.Create(context.Background(), janeDoe())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Sync == nil || created.Sync.Error != "" {
		t.Fatalf("expected a clean sync state, got %+v", created.Sync)
	}

	result, err := env.discovery.Browse(context.Background(), Filters{JobType: domain.JobTypePlumber, City: "Austin"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Technicians) != 1 || result.Technicians[0].ID != created.ID {
		t.Fatalf("expected exactly the created profile, got %v", ids(result.Technicians))
	}

	result, err = env.discovery.Browse(context.Background(), Filters{JobType: domain.JobTypeElectrician})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Technicians) != 0 {
		t.Fatalf("expected no electricians, got %v", ids(result.Technicians))
	}
}

func TestCreateRejectsInvalidProfile(t *testing.T) {
	env := newTestEnv()

	profile := janeDoe()
	profile.Bio = "too short"
	_, err := env.techs.Create(context.Background(), profile)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(env.store.profiles) != 0 {
		t.Error("nothing should be persisted for an invalid profile")
	}
	if len(env.embedder.calls) != 0 {
		t.Error("validation must reject before any embedding work")
	}
}

func TestCreateSucceedsWhenSyncFails(t *testing.T) {
	env := newTestEnv()
	env.embedder.err = errors.New("provider down")

	created, err := env.techs.Create(context.Background(), janeDoe())
	if err != nil {
		t.Fatalf("the profile write must not fail with the sync: %v", err)
	}
	if created.Sync == nil || created.Sync.Error == "" {
		t.Fatal("expected the sync failure on the returned profile")
	}
	if created.Sync.IndexID != "" {
		t.Errorf("IndexID = %q, want empty", created.Sync.IndexID)
	}
}

func TestUpdateBioRetriggersSyncUnderSameID(t *testing.T) {
	env := newTestEnv()

	created, err := env.techs.Create(context.Background(), janeDoe())
	if err != nil {
		t.Fatal(err)
	}
	before := env.index.entries[created.ID]

	bio := "Over a decade of residential and commercial plumbing"
	updated, err := env.techs.Update(context.Background(), created.ID, TechnicianUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(env.index.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(env.index.entries))
	}
	after := env.index.entries[created.ID]
	if after.Vector[0] == before.Vector[0] && after.Vector[1] == before.Vector[1] {
		t.Error("vector should change with the bio")
	}
	if updated.Sync.IndexID != created.Sync.IndexID {
		t.Errorf("index id changed: %q -> %q", created.Sync.IndexID, updated.Sync.IndexID)
	}
}

func TestUpdatePhotoOnlyIsASyncNoop(t *testing.T) {
	env := newTestEnv()

	created, err := env.techs.Create(context.Background(), janeDoe())
	if err != nil {
		t.Fatal(err)
	}
	callsBefore := len(env.embedder.calls)

	photo := "https://example.com/jane.jpg"
	updated, err := env.techs.Update(context.Background(), created.ID, TechnicianUpdate{PhotoURL: &photo})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(env.embedder.calls) != callsBefore {
		t.Error("photo-only updates must not embed")
	}
	if !updated.Sync.UpdatedAt.Equal(created.Sync.UpdatedAt) {
		t.Error("sync state timestamp must be unchanged")
	}
	if updated.PhotoURL != photo {
		t.Error("the photo update itself must still land")
	}
}

func TestUpdateVisibilityOnlyPatchesIndexMetadata(t *testing.T) {
	env := newTestEnv()

	created, err := env.techs.Create(context.Background(), janeDoe())
	if err != nil {
		t.Fatal(err)
	}
	callsBefore := len(env.embedder.calls)

	hidden := false
	if _, err := env.techs.Update(context.Background(), created.ID, TechnicianUpdate{IsVisible: &hidden}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(env.embedder.calls) != callsBefore {
		t.Error("visibility-only updates must not embed")
	}
	if env.index.entries[created.ID].IsVisible {
		t.Error("index metadata should reflect the new visibility")
	}
}

func TestDeleteFiltersStaleSuggestions(t *testing.T) {
	env := newTestEnv()

	created, err := env.techs.Create(context.Background(), janeDoe())
	if err != nil {
		t.Fatal(err)
	}

	// Simulate the index-side delete failing: the entry lingers and the id
	// keeps coming back from similarity queries.
	env.index.deleteErr = errors.New("index unreachable")
	if err := env.techs.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	env.index.deleteErr = nil
	env.index.matches = []domain.Match{{ProfileID: created.ID, Score: 0.97}}

	if _, err := env.techs.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("profile should be gone, got %v", err)
	}

	results, err := env.discovery.Suggest(context.Background(), Filters{}, "plumber in austin", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("stale index hits must never reach the caller, got %v", ids(results))
	}
}

func TestResyncRecoversFromFailedSync(t *testing.T) {
	env := newTestEnv()
	env.embedder.err = errors.New("provider down")

	created, err := env.techs.Create(context.Background(), janeDoe())
	if err != nil {
		t.Fatal(err)
	}
	if created.Sync.Error == "" {
		t.Fatal("precondition: create sync should have failed")
	}

	env.embedder.err = nil
	recovered, err := env.techs.Resync(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Resync failed: %v", err)
	}
	if recovered.Sync.Error != "" {
		t.Errorf("sync error should be cleared, got %q", recovered.Sync.Error)
	}
	if recovered.Sync.IndexID != "technician:"+created.ID {
		t.Errorf("unexpected index id %q", recovered.Sync.IndexID)
	}
	if _, ok := env.index.entries[created.ID]; !ok {
		t.Error("expected an index entry after resync")
	}
}

func TestSeedInstallsCatalogue(t *testing.T) {
	env := newTestEnv()

	seededIDs, err := env.techs.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if len(seededIDs) != len(seedProfiles) {
		t.Fatalf("expected %d seeded profiles, got %d", len(seedProfiles), len(seededIDs))
	}
	for _, id := range seededIDs {
		if _, ok := env.index.entries[id]; !ok {
			t.Errorf("seeded profile %s was not synced", id)
		}
	}
}
