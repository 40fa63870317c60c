package dto

import (
	"weekend-match-api/modules/match/entity"
	"weekend-match-api/modules/match/scorer"

	"github.com/lib/pq"
)

// CompatibilityResponse explains how the caller fits the rest of a group
type CompatibilityResponse struct {
	GroupID            string                `json:"groupId"`
	MemberCount        int                   `json:"memberCount"`
	SpecialtyMatch     scorer.SpecialtyMatch `json:"specialtyMatch"`
	LocationMatch      scorer.LocationMatch  `json:"locationMatch"`
	SharedInterests    []string              `json:"sharedInterests"`
	SharedAvailability []string              `json:"sharedAvailability"`
	AverageMatchScore  *float64              `json:"averageMatchScore"`
}

// UpsertPreferencesRequest replaces the caller's matching preferences
type UpsertPreferencesRequest struct {
	Specialty        *string  `json:"specialty" validate:"omitempty,max=100"`
	City             string   `json:"city" validate:"max=100"`
	Neighborhood     string   `json:"neighborhood" validate:"max=100"`
	Sports           []string `json:"sports" validate:"max=20,dive,notblank"`
	SocialStyle      []string `json:"social_style" validate:"max=20,dive,notblank"`
	CultureInterests []string `json:"culture_interests" validate:"max=20,dive,notblank"`
	Lifestyle        []string `json:"lifestyle" validate:"max=20,dive,notblank"`
	Availability     []string `json:"availability" validate:"max=20,dive,notblank"`
}

func (r *UpsertPreferencesRequest) ToProfile() *entity.Profile {
	return &entity.Profile{
		Specialty:        r.Specialty,
		City:             r.City,
		Neighborhood:     r.Neighborhood,
		Sports:           pq.StringArray(r.Sports),
		SocialStyle:      pq.StringArray(r.SocialStyle),
		CultureInterests: pq.StringArray(r.CultureInterests),
		Lifestyle:        pq.StringArray(r.Lifestyle),
		Availability:     pq.StringArray(r.Availability),
	}
}
