package dto

import (
	"time"

	"weekend-match-api/modules/booking/entity"
)

// CreateBookingRequest reserves a seat on a slot for the caller
type CreateBookingRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
	Day     string `json:"day" validate:"required,oneof=friday saturday sunday"`
}

type CreateBookingResponse struct {
	BookingID string `json:"bookingId"`
}

type BookingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	Paid      bool      `json:"paid"`
	Day       string    `json:"day,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToBookingResponse(b *entity.Booking) *BookingResponse {
	if b == nil {
		return nil
	}
	return &BookingResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		EventID:   b.EventID.String(),
		Status:    string(b.Status),
		Paid:      b.Paid,
		Day:       string(b.Preferences.Day),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
