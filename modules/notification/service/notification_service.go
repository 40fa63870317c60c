package service

import (
	"context"
	"fmt"
	"time"

	"weekend-match-api/core/errors"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/params"
	bookingEntity "weekend-match-api/modules/booking/entity"
	"weekend-match-api/modules/event/calendar"
	"weekend-match-api/modules/notification/entity"
	"weekend-match-api/modules/notification/repository"

	"github.com/google/uuid"
)

// AttendeeLister reads the confirmed, paid bookings of a window
type AttendeeLister interface {
	ListPaidAttendeesInWindow(ctx context.Context, start, end time.Time) ([]bookingEntity.Attendee, error)
}

type NotificationService struct {
	repo      repository.NotificationRepositoryInterface
	attendees AttendeeLister
	loc       *time.Location
	now       func() time.Time
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, attendees AttendeeLister, loc *time.Location, now func() time.Time) *NotificationService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationService{repo: repo, attendees: attendees, loc: loc, now: now}
}

// SendWeekendReminders writes one reminder per confirmed, paid booking of the current
// weekend. Re-running it for the same weekend writes nothing new.
func (s *NotificationService) SendWeekendReminders(ctx context.Context) (int, *errors.AppError) {
	window := calendar.CurrentWeekendBounds(s.now().In(s.loc))

	attendees, err := s.attendees.ListPaidAttendeesInWindow(ctx, window.Start, window.End)
	if err != nil {
		return 0, errors.Persistence("failed to list weekend attendees", err)
	}

	sent := 0
	for _, a := range attendees {
		start := a.StartTime.In(s.loc)
		n := &entity.Notification{
			UserID:    a.UserID,
			Title:     fmt.Sprintf("Your %s is this weekend", a.Kind),
			Message:   fmt.Sprintf("%s in %s on %s at %s.", a.Kind.Title(), a.City, start.Format("Mon, Jan 2"), start.Format("15:04")),
			Type:      entity.TypeWeekendReminder,
			DedupeKey: a.BookingID.String(),
			Data: entity.JSONB{
				"booking_id": a.BookingID.String(),
				"event_id":   a.EventID.String(),
				"start_time": start.Format(time.RFC3339),
			},
		}

		created, err := s.repo.CreateIfAbsent(ctx, n)
		if err != nil {
			// keep going; the next scheduled run retries the rest
			logger.Warn("NotificationService:SendWeekendReminders:Create", "error", err, "booking_id", a.BookingID)
			continue
		}
		if created {
			sent++
		}
	}

	logger.Info("NotificationService:SendWeekendReminders:Done",
		"attendees", len(attendees), "sent", sent, "window_start", window.Start)
	return sent, nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	result, err := s.repo.GetByUserID(ctx, userID, queryParams)
	if err != nil {
		return nil, errors.Persistence("failed to get notifications", err)
	}
	return result, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return errors.Persistence("failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.Persistence("failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Persistence("failed to count unread", err)
	}
	return count, nil
}
