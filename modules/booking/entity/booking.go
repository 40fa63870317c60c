package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"weekend-match-api/core/entity"
	eventEntity "weekend-match-api/modules/event/entity"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingPreferences is stored as JSONB on the booking row.
type BookingPreferences struct {
	Day eventEntity.Day `json:"day"`
}

func (p BookingPreferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *BookingPreferences) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return errors.New("type assertion to []byte failed")
}

type Booking struct {
	UserID      uuid.UUID          `db:"user_id" json:"user_id"`
	EventID     uuid.UUID          `db:"event_id" json:"event_id"`
	Status      BookingStatus      `db:"status" json:"status"`
	Paid        bool               `db:"paid" json:"paid"`
	Preferences BookingPreferences `db:"preferences" json:"preferences"`
	entity.BaseEntity
}

// Attendee is a paid booking joined with the slot it is for.
type Attendee struct {
	BookingID uuid.UUID             `db:"booking_id"`
	UserID    uuid.UUID             `db:"user_id"`
	EventID   uuid.UUID             `db:"event_id"`
	City      string                `db:"city"`
	Kind      eventEntity.EventKind `db:"kind"`
	StartTime time.Time             `db:"start_time"`
}
