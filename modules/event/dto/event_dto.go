package dto

import (
	"time"

	"weekend-match-api/modules/event/entity"
)

// ===================== Request DTOs =====================

// EnsureSlotRequest asks for the live slot of a city and weekend day
type EnsureSlotRequest struct {
	City string `json:"city" validate:"required,notblank"`
	Day  string `json:"day" validate:"required,oneof=friday saturday sunday"`
}

// ===================== Response DTOs =====================

type EnsureSlotResponse struct {
	EventID string `json:"eventId"`
}

// EventResponse is one slot as shown on the weekend picker
type EventResponse struct {
	ID            string     `json:"id"`
	City          string     `json:"city"`
	Kind          string     `json:"kind"`
	StartTime     time.Time  `json:"start_time"`
	Neighborhood  string     `json:"neighborhood,omitempty"`
	Capacity      int        `json:"capacity"`
	Status        string     `json:"status"`
	BookingsCount int        `json:"bookings_count"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// WeekendEventsResponse holds at most one slot per weekend day
type WeekendEventsResponse struct {
	Friday   *EventResponse `json:"friday"`
	Saturday *EventResponse `json:"saturday"`
	Sunday   *EventResponse `json:"sunday"`
}

// ===================== Mappers =====================

func ToEventResponse(e *entity.EventWithCount) *EventResponse {
	if e == nil {
		return nil
	}
	resp := &EventResponse{
		ID:            e.ID.String(),
		City:          e.City,
		Kind:          string(e.Kind),
		StartTime:     e.StartTime,
		Capacity:      e.Capacity,
		Status:        string(e.Status),
		BookingsCount: e.BookingsCount,
	}
	if e.Neighborhood != nil {
		resp.Neighborhood = *e.Neighborhood
	}
	if !e.CreatedAt.IsZero() {
		created := e.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

// Set stores ev under its day label. It returns false if the slot is already taken.
func (r *WeekendEventsResponse) Set(day entity.Day, ev *EventResponse) bool {
	var slot **EventResponse
	switch day {
	case entity.DayFriday:
		slot = &r.Friday
	case entity.DaySaturday:
		slot = &r.Saturday
	case entity.DaySunday:
		slot = &r.Sunday
	default:
		return false
	}
	if *slot != nil {
		return false
	}
	*slot = ev
	return true
}
