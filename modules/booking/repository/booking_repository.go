package repository

import (
	"context"
	"time"

	"weekend-match-api/core/database"
	"weekend-match-api/core/logger"
	"weekend-match-api/modules/booking/entity"

	"github.com/google/uuid"
)

// BookingRepository handles booking persistence
type BookingRepository struct {
	DB database.IDatabase
}

// NewBookingRepository creates a new repository instance
func NewBookingRepository(db database.IDatabase) *BookingRepository {
	return &BookingRepository{DB: db}
}

// BookingRepositoryInterface defines the repository contract
type BookingRepositoryInterface interface {
	CreateBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetBookingByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Booking, error)
	ConfirmPaid(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetLatestPaidBookingInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.Booking, error)
	ListPaidAttendeesInWindow(ctx context.Context, start, end time.Time) ([]entity.Attendee, error)
}

const bookingColumns = `id, user_id, event_id, status, paid, preferences, created_at, updated_at`

// CreateBooking inserts a pending booking. A second booking for the same
// (user_id, event_id) fails with a unique violation.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	query := `
		INSERT INTO bookings (user_id, event_id, status, paid, preferences)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bookingColumns

	var created entity.Booking
	err := r.DB.GetContext(ctx, &created, query,
		booking.UserID, booking.EventID, booking.Status, booking.Paid, booking.Preferences)
	if err != nil {
		if !database.IsUniqueViolation(err) {
			logger.Error("BookingRepository:CreateBooking", "error", err, "user_id", booking.UserID, "event_id", booking.EventID)
		}
		return nil, err
	}
	return &created, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking entity.Booking
	if err := r.DB.GetContext(ctx, &booking, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("BookingRepository:GetBookingByID", "error", err, "booking_id", id)
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetBookingByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 AND event_id = $2`

	var booking entity.Booking
	if err := r.DB.GetContext(ctx, &booking, query, userID, eventID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("BookingRepository:GetBookingByUserAndEvent", "error", err, "user_id", userID, "event_id", eventID)
		return nil, err
	}
	return &booking, nil
}

// ConfirmPaid marks the booking paid and confirmed. Running it on an already
// confirmed booking rewrites the same values. Returns nil when the id is unknown.
func (r *BookingRepository) ConfirmPaid(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET paid = TRUE, status = 'confirmed', updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns

	var booking entity.Booking
	if err := r.DB.GetContext(ctx, &booking, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("BookingRepository:ConfirmPaid", "error", err, "booking_id", id)
		return nil, err
	}
	return &booking, nil
}

// GetLatestPaidBookingInWindow returns the user's most recent paid booking whose slot
// starts inside [start, end].
func (r *BookingRepository) GetLatestPaidBookingInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.event_id, b.status, b.paid, b.preferences, b.created_at, b.updated_at
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1
		  AND b.paid
		  AND e.start_time >= $2 AND e.start_time <= $3
		ORDER BY b.created_at DESC
		LIMIT 1
	`

	var booking entity.Booking
	if err := r.DB.GetContext(ctx, &booking, query, userID, start, end); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("BookingRepository:GetLatestPaidBookingInWindow", "error", err, "user_id", userID)
		return nil, err
	}
	return &booking, nil
}

// ListPaidAttendeesInWindow lists confirmed, paid bookings for slots starting in [start, end].
func (r *BookingRepository) ListPaidAttendeesInWindow(ctx context.Context, start, end time.Time) ([]entity.Attendee, error) {
	query := `
		SELECT b.id AS booking_id, b.user_id, b.event_id, e.city, e.kind, e.start_time
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.paid
		  AND b.status = 'confirmed'
		  AND e.status IN ('open', 'full')
		  AND e.start_time >= $1 AND e.start_time <= $2
		ORDER BY e.start_time ASC, b.created_at ASC
	`

	var attendees []entity.Attendee
	if err := r.DB.SelectContext(ctx, &attendees, query, start, end); err != nil {
		logger.Error("BookingRepository:ListPaidAttendeesInWindow", "error", err)
		return nil, err
	}
	return attendees, nil
}
