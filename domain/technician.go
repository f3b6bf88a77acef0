package domain

import (
	"fmt"
	"strings"
	"time"
)

// JobType is the closed set of trades a technician can offer.
type JobType string

const (
	JobTypePlumber         JobType = "plumber"
	JobTypeElectrician     JobType = "electrician"
	JobTypeCarpenter       JobType = "carpenter"
	JobTypeMaintenance     JobType = "maintenance"
	JobTypeHVAC            JobType = "hvac"
	JobTypeApplianceRepair JobType = "appliance_repair"
	JobTypeHandyman        JobType = "handyman"
	JobTypeCarpentry       JobType = "carpentry"
)

// AllJobTypes lists every accepted job type.
var AllJobTypes = []JobType{
	JobTypePlumber,
	JobTypeElectrician,
	JobTypeCarpenter,
	JobTypeMaintenance,
	JobTypeHVAC,
	JobTypeApplianceRepair,
	JobTypeHandyman,
	JobTypeCarpentry,
}

// Valid reports whether j is one of the accepted job types.
func (j JobType) Valid() bool {
	for _, known := range AllJobTypes {
		if j == known {
			return true
		}
	}
	return false
}

// EmbeddingSyncState records the outcome of the most recent attempt to
// synchronize a profile into the vector index. It is absent until the first
// sync attempt, successful or not.
type EmbeddingSyncState struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	IndexID   string    `json:"indexId"`
	UpdatedAt time.Time `json:"updatedAt"`
	Error     string    `json:"error,omitempty"`
}

// TechnicianProfile is the authoritative record for a technician. The vector
// index only ever holds a derived snapshot of it.
type TechnicianProfile struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId,omitempty"` // link to the account identity, set when the technician signs up
	Name        string              `json:"name"`
	JobTypes    []JobType           `json:"jobTypes"`
	Bio         string              `json:"bio"`
	Tags        []string            `json:"tags"`
	Cities      []string            `json:"cities"`
	RatingAvg   float64             `json:"ratingAvg,omitempty"` // maintained by the review subsystem, read-only here
	RatingCount int                 `json:"ratingCount,omitempty"`
	IsVisible   bool                `json:"isVisible"`
	PhotoURL    string              `json:"photoUrl,omitempty"`
	Sync        *EmbeddingSyncState `json:"embeddingSync,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Validate checks the descriptive fields before any write or embedding work.
func (p *TechnicianProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(p.JobTypes) == 0 {
		return &ValidationError{Field: "jobTypes", Reason: "at least one job type is required"}
	}
	for _, jt := range p.JobTypes {
		if !jt.Valid() {
			return &ValidationError{Field: "jobTypes", Reason: fmt.Sprintf("unknown job type %q", jt)}
		}
	}
	if len(strings.TrimSpace(p.Bio)) < 10 {
		return &ValidationError{Field: "bio", Reason: "must be at least 10 characters"}
	}
	for _, city := range p.Cities {
		if strings.TrimSpace(city) == "" {
			return &ValidationError{Field: "cities", Reason: "city names must not be empty"}
		}
	}
	return nil
}
