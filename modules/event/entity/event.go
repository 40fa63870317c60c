package entity

import (
	"strings"
	"time"

	"weekend-match-api/core/entity"
)

// Day is the weekend day a member books for.
type Day string

const (
	DayFriday   Day = "friday"
	DaySaturday Day = "saturday"
	DaySunday   Day = "sunday"
)

// ParseDay accepts only the three lowercase literals.
func ParseDay(s string) (Day, bool) {
	switch Day(s) {
	case DayFriday, DaySaturday, DaySunday:
		return Day(s), true
	}
	return "", false
}

type EventKind string

const (
	EventKindDinner EventKind = "dinner"
	EventKindBrunch EventKind = "brunch"
)

// Title is the capitalised kind used in group names.
func (k EventKind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

type EventStatus string

const (
	EventStatusOpen   EventStatus = "open"
	EventStatusFull   EventStatus = "full"
	EventStatusClosed EventStatus = "closed"
)

// LiveStatuses are the statuses that count towards the one-slot-per-day rule.
var LiveStatuses = []EventStatus{EventStatusOpen, EventStatusFull}

const DefaultCapacity = 24

// Event is a capacity-bounded weekend slot for one city and day.
type Event struct {
	City         string      `db:"city" json:"city"`
	Kind         EventKind   `db:"kind" json:"kind"`
	StartTime    time.Time   `db:"start_time" json:"start_time"`
	DayBucket    time.Time   `db:"day_bucket" json:"day_bucket"`
	Neighborhood *string     `db:"neighborhood" json:"neighborhood,omitempty"`
	Capacity     int         `db:"capacity" json:"capacity"`
	Status       EventStatus `db:"status" json:"status"`
	entity.BaseEntity
}

// EventWithCount is an event plus the number of paid bookings against it.
type EventWithCount struct {
	Event
	BookingsCount int `db:"bookings_count" json:"bookings_count"`
}
