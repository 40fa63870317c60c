package service

import (
	"context"
	"time"

	"weekend-match-api/core/constants"
	"weekend-match-api/core/database"
	"weekend-match-api/core/errors"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/mq"
	"weekend-match-api/modules/booking/entity"
	"weekend-match-api/modules/booking/repository"
	"weekend-match-api/modules/event/calendar"
	eventEntity "weekend-match-api/modules/event/entity"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// EventReader is the part of the slot store bookings depend on
type EventReader interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
	MarkFullIfAtCapacity(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingService interface {
	CreatePendingBooking(ctx context.Context, userID, eventID uuid.UUID, day string) (uuid.UUID, *errors.AppError)
	ConfirmBookingPaid(ctx context.Context, bookingID uuid.UUID) bool
	GetActiveWeekendBooking(ctx context.Context, userID uuid.UUID) (*entity.Booking, *errors.AppError)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, *errors.AppError)
}

type bookingService struct {
	repo      repository.BookingRepositoryInterface
	events    EventReader
	publisher mq.Publisher
	loc       *time.Location
	now       func() time.Time
	tracer    trace.Tracer
}

// NewBookingService creates the booking ledger. A nil now defaults to time.Now.
func NewBookingService(repo repository.BookingRepositoryInterface, events EventReader, publisher mq.Publisher, loc *time.Location, now func() time.Time) BookingService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &bookingService{
		repo:      repo,
		events:    events,
		publisher: publisher,
		loc:       loc,
		now:       now,
		tracer:    otel.Tracer("weekend-match-api/booking"),
	}
}

// CreatePendingBooking records the user's claim on a slot. Repeated calls for the same
// (user, event) return the first booking's id.
func (s *bookingService) CreatePendingBooking(ctx context.Context, userID, eventID uuid.UUID, day string) (uuid.UUID, *errors.AppError) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CreatePendingBooking")
	defer span.End()

	d, ok := eventEntity.ParseDay(day)
	if !ok {
		return uuid.Nil, errors.Validation("day must be one of friday, saturday, sunday")
	}
	if userID == uuid.Nil || eventID == uuid.Nil {
		return uuid.Nil, errors.Validation("user and event are required")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return uuid.Nil, errors.Persistence("failed to load slot", err)
	}
	if event == nil {
		return uuid.Nil, errors.NotFound("slot not found")
	}

	existing, err := s.repo.GetBookingByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return uuid.Nil, errors.Persistence("failed to look up booking", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	if event.Status != eventEntity.EventStatusOpen {
		logger.Info("BookingService:CreatePendingBooking:SlotNotOpen", "event_id", eventID, "status", event.Status)
		return uuid.Nil, errors.NewAppError(errors.ErrSlotFull, "slot is not accepting bookings", nil)
	}

	created, err := s.repo.CreateBooking(ctx, &entity.Booking{
		UserID:      userID,
		EventID:     eventID,
		Status:      entity.BookingStatusPending,
		Paid:        false,
		Preferences: entity.BookingPreferences{Day: d},
	})
	if err != nil {
		if !database.IsUniqueViolation(err) {
			return uuid.Nil, errors.Persistence("failed to create booking", err)
		}
		// a concurrent request for the same user and slot won the insert
		existing, err = s.repo.GetBookingByUserAndEvent(ctx, userID, eventID)
		if err != nil || existing == nil {
			return uuid.Nil, errors.Persistence("failed to read existing booking", err)
		}
		return existing.ID, nil
	}

	logger.Info("BookingService:CreatePendingBooking:Created", "booking_id", created.ID, "user_id", userID, "event_id", eventID)
	mq.Emit(ctx, s.publisher, mq.RKBookingCreated, mq.BookingCreated{
		BookingID: created.ID.String(),
		UserID:    userID.String(),
		EventID:   eventID.String(),
		Day:       string(d),
	})
	return created.ID, nil
}

// ConfirmBookingPaid marks a booking paid. It reports false instead of failing so the
// payment flow can decide whether to retry.
func (s *bookingService) ConfirmBookingPaid(ctx context.Context, bookingID uuid.UUID) bool {
	ctx, span := s.tracer.Start(ctx, "BookingService.ConfirmBookingPaid")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	booking, err := s.repo.ConfirmPaid(ctx, bookingID)
	if err != nil {
		logger.Error("BookingService:ConfirmBookingPaid:Error", "error", err, "booking_id", bookingID)
		return false
	}
	if booking == nil {
		logger.Warn("BookingService:ConfirmBookingPaid:NotFound", "booking_id", bookingID)
		return false
	}

	full, err := s.events.MarkFullIfAtCapacity(ctx, booking.EventID)
	if err != nil {
		// the booking itself is confirmed; capacity is re-checked on the next confirmation
		logger.Warn("BookingService:ConfirmBookingPaid:MarkFull", "error", err, "event_id", booking.EventID)
	} else if full {
		logger.Info("BookingService:ConfirmBookingPaid:SlotFull", "event_id", booking.EventID)
	}

	mq.Emit(ctx, s.publisher, mq.RKBookingConfirmed, mq.BookingConfirmed{
		BookingID: booking.ID.String(),
		EventID:   booking.EventID.String(),
	})
	return true
}

// GetActiveWeekendBooking returns the user's latest paid booking for a slot within
// calendar.ActiveBookingWindow, or nil.
// GetBooking returns NotFound when no booking has the id.
func (s *bookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, errors.Persistence("failed to get booking", err)
	}
	if booking == nil {
		return nil, errors.NotFound("booking not found")
	}
	return booking, nil
}

func (s *bookingService) GetActiveWeekendBooking(ctx context.Context, userID uuid.UUID) (*entity.Booking, *errors.AppError) {
	ctx, span := s.tracer.Start(ctx, "BookingService.GetActiveWeekendBooking")
	defer span.End()

	window := calendar.ActiveBookingWindow(s.now().In(s.loc))
	booking, err := s.repo.GetLatestPaidBookingInWindow(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, errors.Persistence("failed to load active booking", err)
	}
	return booking, nil
}
