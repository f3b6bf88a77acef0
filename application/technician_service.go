package application

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"technician-marketplace/domain"
)

// TechnicianUpdate is a partial update. Nil fields are left untouched; a
// non-nil slice replaces the stored one wholesale.
type TechnicianUpdate struct {
	Name      *string
	JobTypes  []domain.JobType
	Bio       *string
	Tags      []string
	Cities    []string
	IsVisible *bool
	PhotoURL  *string
}

// TechnicianService owns profile CRUD. Every mutation commits to the profile
// store first and is then handed to the synchronizer; a sync failure is
// logged and lands on the stored sync state, but the mutation itself has
// already succeeded and is reported as such.
type TechnicianService struct {
	store domain.ProfileStore
	sync  *SyncService
}

// NewTechnicianService creates a new TechnicianService.
func NewTechnicianService(store domain.ProfileStore, sync *SyncService) *TechnicianService {
	return &TechnicianService{
		store: store,
		sync:  sync,
	}
}

// Create validates and persists a new profile, then syncs it into the index.
func (s *TechnicianService) Create(ctx context.Context, profile *domain.TechnicianProfile) (*domain.TechnicianProfile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	profile.ID = uuid.New().String()
	profile.Sync = nil
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.store.Put(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.sync.SyncOnCreate(ctx, profile); err != nil {
		log.Printf("Embedding sync failed for new technician %s: %v\n", profile.ID, err)
	}

	return s.store.Get(ctx, profile.ID)
}

// Get returns a single profile.
func (s *TechnicianService) Get(ctx context.Context, id string) (*domain.TechnicianProfile, error) {
	return s.store.Get(ctx, id)
}

// List returns every profile, hidden ones included. Admin-facing.
func (s *TechnicianService) List(ctx context.Context) ([]*domain.TechnicianProfile, error) {
	return s.store.ListAll(ctx)
}

// Update applies a partial update. The changed-field set is computed here so
// the synchronizer can skip embedding work when nothing relevant moved; an
// update that changes nothing writes nothing.
func (s *TechnicianService) Update(ctx context.Context, id string, update TechnicianUpdate) (*domain.TechnicianProfile, error) {
	profile, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if update.Name != nil && *update.Name != profile.Name {
		profile.Name = *update.Name
		changed = append(changed, "name")
	}
	if update.JobTypes != nil {
		profile.JobTypes = update.JobTypes
		changed = append(changed, "jobTypes")
	}
	if update.Bio != nil && *update.Bio != profile.Bio {
		profile.Bio = *update.Bio
		changed = append(changed, "bio")
	}
	if update.Tags != nil {
		profile.Tags = update.Tags
		changed = append(changed, "tags")
	}
	if update.Cities != nil {
		profile.Cities = update.Cities
		changed = append(changed, "cities")
	}
	if update.IsVisible != nil && *update.IsVisible != profile.IsVisible {
		profile.IsVisible = *update.IsVisible
		changed = append(changed, "isVisible")
	}
	if update.PhotoURL != nil && *update.PhotoURL != profile.PhotoURL {
		profile.PhotoURL = *update.PhotoURL
		changed = append(changed, "photoUrl")
	}

	if len(changed) == 0 {
		return profile, nil
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	profile.UpdatedAt = time.Now()
	if err := s.store.Put(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.sync.SyncOnUpdate(ctx, profile, changed); err != nil {
		log.Printf("Embedding sync failed for technician %s: %v\n", profile.ID, err)
	}

	return s.store.Get(ctx, id)
}

// Delete removes a profile and its index entry. The index cleanup is best
// effort: the store deletion is authoritative.
func (s *TechnicianService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.sync.SyncOnDelete(ctx, id); err != nil {
		log.Printf("Index cleanup failed for deleted technician %s: %v\n", id, err)
	}
	return nil
}

// Resync rebuilds the index entry from the profile's current fields. This is
// the explicit recovery path for a profile whose sync state carries an error.
func (s *TechnicianService) Resync(ctx context.Context, id string) (*domain.TechnicianProfile, error) {
	profile, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.sync.Resync(ctx, profile); err != nil {
		log.Printf("Resync failed for technician %s: %v\n", id, err)
	}

	return s.store.Get(ctx, id)
}

// seedProfiles is the demo catalogue installed by Seed.
var seedProfiles = []domain.TechnicianProfile{
	{
		Name:        "Jorge Ramirez",
		JobTypes:    []domain.JobType{domain.JobTypePlumber},
		Bio:         "Licensed plumber with 12 years of residential experience, from leak repair to full repipes.",
		Tags:        []string{"licensed", "emergency"},
		Cities:      []string{"Austin", "Round Rock"},
		RatingAvg:   4.8,
		RatingCount: 124,
		IsVisible:   true,
	},
	{
		Name:        "Dana Whitfield",
		JobTypes:    []domain.JobType{domain.JobTypeElectrician},
		Bio:         "Master electrician handling panel upgrades, EV chargers, and troubleshooting.",
		Tags:        []string{"licensed", "insured"},
		Cities:      []string{"Austin"},
		RatingAvg:   4.6,
		RatingCount: 87,
		IsVisible:   true,
	},
	{
		Name:        "Sam Okafor",
		JobTypes:    []domain.JobType{domain.JobTypeHVAC, domain.JobTypeApplianceRepair},
		Bio:         "HVAC technician specializing in heat pumps and mini splits; also services major appliances.",
		Tags:        []string{"certified", "emergency"},
		Cities:      []string{"Round Rock", "Pflugerville"},
		RatingAvg:   4.9,
		RatingCount: 203,
		IsVisible:   true,
	},
	{
		Name:        "Lena Vogt",
		JobTypes:    []domain.JobType{domain.JobTypeHandyman, domain.JobTypeCarpentry},
		Bio:         "General handywoman for mounting, furniture assembly, trim work, and small carpentry jobs.",
		Tags:        []string{"insured"},
		Cities:      []string{"Austin", "Cedar Park"},
		IsVisible:   true,
	},
}

// Seed installs the demo catalogue through the normal create path, so every
// seeded profile is validated and synced like a real one.
func (s *TechnicianService) Seed(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(seedProfiles))
	for _, fixture := range seedProfiles {
		profile := fixture
		created, err := s.Create(ctx, &profile)
		if err != nil {
			return ids, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}
