package profilestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"technician-marketplace/domain"
)

var bucketTechnicians = []byte("technicians")

// BoltProfileStore implements domain.ProfileStore on top of a local bbolt
// file. Profiles are stored as JSON documents keyed by id. Timestamps are
// normalized to RFC 3339 strings at this boundary and nowhere else.
type BoltProfileStore struct {
	db *bbolt.DB
}

// NewBoltProfileStore opens (or creates) the database file at path.
func NewBoltProfileStore(path string) (*BoltProfileStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTechnicians)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltProfileStore{db: db}, nil
}

// Close releases the underlying database file.
func (s *BoltProfileStore) Close() error {
	return s.db.Close()
}

type syncStateDoc struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	IndexID   string `json:"indexId"`
	UpdatedAt string `json:"updatedAt"`
	Error     string `json:"error,omitempty"`
}

type profileDoc struct {
	UserID      string        `json:"userId,omitempty"`
	Name        string        `json:"name"`
	JobTypes    []string      `json:"jobTypes"`
	Bio         string        `json:"bio"`
	Tags        []string      `json:"tags"`
	Cities      []string      `json:"cities"`
	RatingAvg   float64       `json:"ratingAvg,omitempty"`
	RatingCount int           `json:"ratingCount,omitempty"`
	IsVisible   bool          `json:"isVisible"`
	PhotoURL    string        `json:"photoUrl,omitempty"`
	Sync        *syncStateDoc `json:"embedding,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// Put creates or fully replaces a profile.
func (s *BoltProfileStore) Put(ctx context.Context, profile *domain.TechnicianProfile) error {
	data, err := json.Marshal(toDoc(profile))
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTechnicians).Put([]byte(profile.ID), data)
	})
}

// Get returns the profile under id, or domain.ErrProfileNotFound.
func (s *BoltProfileStore) Get(ctx context.Context, id string) (*domain.TechnicianProfile, error) {
	var profile *domain.TechnicianProfile
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTechnicians).Get([]byte(id))
		if data == nil {
			return domain.ErrProfileNotFound
		}
		var doc profileDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		p, err := fromDoc(id, &doc)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete removes the profile under id. Deleting an absent id is a no-op.
func (s *BoltProfileStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTechnicians).Delete([]byte(id))
	})
}

// ListAll returns every profile, hidden ones included.
func (s *BoltProfileStore) ListAll(ctx context.Context) ([]*domain.TechnicianProfile, error) {
	return s.list(func(*domain.TechnicianProfile) bool { return true })
}

// ListVisible returns the profiles eligible for discovery.
func (s *BoltProfileStore) ListVisible(ctx context.Context) ([]*domain.TechnicianProfile, error) {
	return s.list(func(p *domain.TechnicianProfile) bool { return p.IsVisible })
}

func (s *BoltProfileStore) list(keep func(*domain.TechnicianProfile) bool) ([]*domain.TechnicianProfile, error) {
	var profiles []*domain.TechnicianProfile
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTechnicians).ForEach(func(k, v []byte) error {
			var doc profileDoc
			if err := json.Unmarshal(v, &doc); err != nil {
				return err
			}
			p, err := fromDoc(string(k), &doc)
			if err != nil {
				return err
			}
			if keep(p) {
				profiles = append(profiles, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateSyncState writes the embedding sync outcome onto an existing profile
// in a single read-modify-write transaction.
func (s *BoltProfileStore) UpdateSyncState(ctx context.Context, id string, state domain.EmbeddingSyncState) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTechnicians)
		data := bucket.Get([]byte(id))
		if data == nil {
			return domain.ErrProfileNotFound
		}

		var doc profileDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}

		doc.Sync = &syncStateDoc{
			Provider:  state.Provider,
			Model:     state.Model,
			IndexID:   state.IndexID,
			UpdatedAt: encodeTime(state.UpdatedAt),
			Error:     state.Error,
		}

		updated, err := json.Marshal(&doc)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), updated)
	})
}

func toDoc(p *domain.TechnicianProfile) *profileDoc {
	jobTypes := make([]string, len(p.JobTypes))
	for i, jt := range p.JobTypes {
		jobTypes[i] = string(jt)
	}

	doc := &profileDoc{
		UserID:      p.UserID,
		Name:        p.Name,
		JobTypes:    jobTypes,
		Bio:         p.Bio,
		Tags:        p.Tags,
		Cities:      p.Cities,
		RatingAvg:   p.RatingAvg,
		RatingCount: p.RatingCount,
		IsVisible:   p.IsVisible,
		PhotoURL:    p.PhotoURL,
		CreatedAt:   encodeTime(p.CreatedAt),
		UpdatedAt:   encodeTime(p.UpdatedAt),
	}
	if p.Sync != nil {
		doc.Sync = &syncStateDoc{
			Provider:  p.Sync.Provider,
			Model:     p.Sync.Model,
			IndexID:   p.Sync.IndexID,
			UpdatedAt: encodeTime(p.Sync.UpdatedAt),
			Error:     p.Sync.Error,
		}
	}
	return doc
}

func fromDoc(id string, doc *profileDoc) (*domain.TechnicianProfile, error) {
	jobTypes := make([]domain.JobType, len(doc.JobTypes))
	for i, jt := range doc.JobTypes {
		jobTypes[i] = domain.JobType(jt)
	}

	createdAt, err := decodeTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("profile %s: bad createdAt: %w", id, err)
	}
	updatedAt, err := decodeTime(doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("profile %s: bad updatedAt: %w", id, err)
	}

	profile := &domain.TechnicianProfile{
		ID:          id,
		UserID:      doc.UserID,
		Name:        doc.Name,
		JobTypes:    jobTypes,
		Bio:         doc.Bio,
		Tags:        doc.Tags,
		Cities:      doc.Cities,
		RatingAvg:   doc.RatingAvg,
		RatingCount: doc.RatingCount,
		IsVisible:   doc.IsVisible,
		PhotoURL:    doc.PhotoURL,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if doc.Sync != nil {
		syncUpdatedAt, err := decodeTime(doc.Sync.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("profile %s: bad sync updatedAt: %w", id, err)
		}
		profile.Sync = &domain.EmbeddingSyncState{
			Provider:  doc.Sync.Provider,
			Model:     doc.Sync.Model,
			IndexID:   doc.Sync.IndexID,
			UpdatedAt: syncUpdatedAt,
			Error:     doc.Sync.Error,
		}
	}
	return profile, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
