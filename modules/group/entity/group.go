package entity

import (
	"time"

	"weekend-match-api/core/entity"

	"github.com/google/uuid"
)

type GroupType string

const (
	GroupTypeMixed        GroupType = "mixed"
	GroupTypeSingleGender GroupType = "single-gender"
)

type GroupStatus string

const (
	GroupStatusActive   GroupStatus = "active"
	GroupStatusArchived GroupStatus = "archived"
)

// MatchGroup is the persistent group formed from one slot's bookings.
type MatchGroup struct {
	Name      string      `db:"name" json:"name"`
	Slug      string      `db:"slug" json:"slug"`
	GroupType GroupType   `db:"group_type" json:"group_type"`
	Status    GroupStatus `db:"status" json:"status"`
	MatchWeek time.Time   `db:"match_week" json:"match_week"`
	EventID   *uuid.UUID  `db:"event_id" json:"event_id,omitempty"`
	entity.BaseEntity
}

type GroupMember struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GroupID   uuid.UUID `db:"group_id" json:"group_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Conversation is the chat channel attached to a group.
type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GroupID   uuid.UUID `db:"group_id" json:"group_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
