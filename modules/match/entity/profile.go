package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Profile is a member's stated matching preferences. A missing tag list is empty.
type Profile struct {
	UserID           uuid.UUID      `db:"user_id" json:"user_id"`
	Specialty        *string        `db:"specialty" json:"specialty,omitempty"`
	City             string         `db:"city" json:"city"`
	Neighborhood     string         `db:"neighborhood" json:"neighborhood"`
	Sports           pq.StringArray `db:"sports" json:"sports"`
	SocialStyle      pq.StringArray `db:"social_style" json:"social_style"`
	CultureInterests pq.StringArray `db:"culture_interests" json:"culture_interests"`
	Lifestyle        pq.StringArray `db:"lifestyle" json:"lifestyle"`
	Availability     pq.StringArray `db:"availability" json:"availability"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// SpecialtyValue returns the specialty or "" when unset.
func (p Profile) SpecialtyValue() string {
	if p.Specialty == nil {
		return ""
	}
	return *p.Specialty
}

// InterestTags concatenates sports, social style, culture and lifestyle tags in that order.
func (p Profile) InterestTags() []string {
	tags := make([]string, 0, len(p.Sports)+len(p.SocialStyle)+len(p.CultureInterests)+len(p.Lifestyle))
	tags = append(tags, p.Sports...)
	tags = append(tags, p.SocialStyle...)
	tags = append(tags, p.CultureInterests...)
	tags = append(tags, p.Lifestyle...)
	return tags
}

// MatchScore is a precomputed pairwise compatibility score.
type MatchScore struct {
	UserID      uuid.UUID `db:"user_id"`
	OtherUserID uuid.UUID `db:"other_user_id"`
	Score       float64   `db:"score"`
}
