package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "weekend-match-api/core/errors"
	"weekend-match-api/core/params"
	bookingEntity "weekend-match-api/modules/booking/entity"
	eventEntity "weekend-match-api/modules/event/entity"
	"weekend-match-api/modules/notification/entity"

	"github.com/google/uuid"
)

// Thursday 16:00 UTC, the scheduled reminder time.
var thursday = time.Date(2025, time.November, 13, 16, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return thursday }

func attendee(kind eventEntity.EventKind, start time.Time) bookingEntity.Attendee {
	return bookingEntity.Attendee{
		BookingID: uuid.New(),
		UserID:    uuid.New(),
		EventID:   uuid.New(),
		City:      "Berlin",
		Kind:      kind,
		StartTime: start,
	}
}

func TestSendWeekendReminders(t *testing.T) {
	friday := time.Date(2025, time.November, 14, 18, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, time.November, 16, 11, 0, 0, 0, time.UTC)
	lister := &MockAttendeeLister{Attendees: []bookingEntity.Attendee{
		attendee(eventEntity.EventKindDinner, friday),
		attendee(eventEntity.EventKindBrunch, sunday),
	}}
	repo := &MockNotificationRepository{}
	svc := NewNotificationService(repo, lister, time.UTC, fixedNow)

	sent, appErr := svc.SendWeekendReminders(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if sent != 2 {
		t.Fatalf("expected 2 reminders, got %d", sent)
	}
	if lister.GotStart.Weekday() != time.Friday || lister.GotEnd.Weekday() != time.Sunday {
		t.Errorf("unexpected window %v - %v", lister.GotStart, lister.GotEnd)
	}

	first := repo.items[0]
	if first.Type != entity.TypeWeekendReminder {
		t.Errorf("type = %q", first.Type)
	}
	if first.DedupeKey != lister.Attendees[0].BookingID.String() {
		t.Errorf("dedupe key = %q", first.DedupeKey)
	}
	if !strings.Contains(first.Message, "Dinner in Berlin on Fri, Nov 14 at 18:00") {
		t.Errorf("message = %q", first.Message)
	}

	t.Run("second run sends nothing", func(t *testing.T) {
		sent, appErr := svc.SendWeekendReminders(context.Background())
		if appErr != nil {
			t.Fatalf("unexpected error: %v", appErr)
		}
		if sent != 0 {
			t.Errorf("expected 0 reminders on rerun, got %d", sent)
		}
		if len(repo.items) != 2 {
			t.Errorf("expected 2 stored notifications, got %d", len(repo.items))
		}
	})
}

func TestSendWeekendReminders_Errors(t *testing.T) {
	t.Run("attendee store failure", func(t *testing.T) {
		lister := &MockAttendeeLister{Err: errors.New("db down")}
		svc := NewNotificationService(&MockNotificationRepository{}, lister, time.UTC, fixedNow)

		_, appErr := svc.SendWeekendReminders(context.Background())
		if appErr == nil || appErr.Code != apperrors.ErrPersistence {
			t.Fatalf("expected persistence error, got %v", appErr)
		}
	})

	t.Run("single insert failure is skipped", func(t *testing.T) {
		calls := 0
		repo := &MockNotificationRepository{CreateFunc: func(n *entity.Notification) (bool, error) {
			calls++
			if calls == 1 {
				return false, errors.New("insert failed")
			}
			return true, nil
		}}
		lister := &MockAttendeeLister{Attendees: []bookingEntity.Attendee{
			attendee(eventEntity.EventKindDinner, thursday.Add(26*time.Hour)),
			attendee(eventEntity.EventKindDinner, thursday.Add(50*time.Hour)),
		}}
		svc := NewNotificationService(repo, lister, time.UTC, fixedNow)

		sent, appErr := svc.SendWeekendReminders(context.Background())
		if appErr != nil {
			t.Fatalf("unexpected error: %v", appErr)
		}
		if sent != 1 || calls != 2 {
			t.Errorf("sent=%d calls=%d, want 1 and 2", sent, calls)
		}
	})
}

func TestReadState(t *testing.T) {
	repo := &MockNotificationRepository{}
	lister := &MockAttendeeLister{Attendees: []bookingEntity.Attendee{
		attendee(eventEntity.EventKindDinner, thursday.Add(26*time.Hour)),
	}}
	svc := NewNotificationService(repo, lister, time.UTC, fixedNow)
	if _, appErr := svc.SendWeekendReminders(context.Background()); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	userID := lister.Attendees[0].UserID
	ctx := context.Background()

	count, appErr := svc.CountUnread(ctx, userID)
	if appErr != nil || count != 1 {
		t.Fatalf("CountUnread = %d, %v", count, appErr)
	}

	page, appErr := svc.GetMyNotifications(ctx, userID, params.QueryParams{PageNumber: 1, PageSize: 20})
	if appErr != nil || len(page.Items) != 1 {
		t.Fatalf("GetMyNotifications = %+v, %v", page, appErr)
	}

	if appErr := svc.MarkAsRead(ctx, userID, []string{page.Items[0].ID.String()}); appErr != nil {
		t.Fatalf("MarkAsRead: %v", appErr)
	}
	if count, _ := svc.CountUnread(ctx, userID); count != 0 {
		t.Errorf("expected 0 unread after MarkAsRead, got %d", count)
	}

	if count, _ := svc.CountUnread(ctx, uuid.New()); count != 0 {
		t.Errorf("other users should have no notifications, got %d", count)
	}
	if appErr := svc.MarkAllAsRead(ctx, userID); appErr != nil {
		t.Errorf("MarkAllAsRead: %v", appErr)
	}
}
