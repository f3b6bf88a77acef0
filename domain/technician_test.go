package domain

import (
	"errors"
	"testing"
)

func validProfile() *TechnicianProfile {
	return &TechnicianProfile{
		Name:      "Jane Doe",
		JobTypes:  []JobType{JobTypePlumber},
		Bio:       "10 years experience",
		Tags:      []string{"licensed"},
		Cities:    []string{"Austin"},
		IsVisible: true,
	}
}

func TestValidateAcceptsWellFormedProfile(t *testing.T) {
	if err := validProfile().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsMalformedProfiles(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*TechnicianProfile)
		wantField string
	}{
		{"empty name", func(p *TechnicianProfile) { p.Name = "  " }, "name"},
		{"no job types", func(p *TechnicianProfile) { p.JobTypes = nil }, "jobTypes"},
		{"unknown job type", func(p *TechnicianProfile) { p.JobTypes = []JobType{"astronaut"} }, "jobTypes"},
		{"short bio", func(p *TechnicianProfile) { p.Bio = "hi" }, "bio"},
		{"blank city", func(p *TechnicianProfile) { p.Cities = []string{"Austin", " "} }, "cities"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := validProfile()
			tc.mutate(profile)

			err := profile.Validate()
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tc.wantField {
				t.Errorf("Field = %q, want %q", validationErr.Field, tc.wantField)
			}
		})
	}
}

func TestJobTypeValid(t *testing.T) {
	for _, jt := range AllJobTypes {
		if !jt.Valid() {
			t.Errorf("%q should be valid", jt)
		}
	}
	if JobType("plumbing").Valid() {
		t.Error("unknown job types must be invalid")
	}
}
