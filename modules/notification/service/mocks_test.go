package service

import (
	"context"
	"sync"
	"time"

	"weekend-match-api/core/params"
	bookingEntity "weekend-match-api/modules/booking/entity"
	"weekend-match-api/modules/notification/entity"

	"github.com/google/uuid"
)

// MockNotificationRepository keeps notifications in memory and honours the
// (user, type, dedupe key) uniqueness of the real table.
type MockNotificationRepository struct {
	mu    sync.Mutex
	items []entity.Notification

	CreateFunc func(n *entity.Notification) (bool, error)
}

func key(n entity.Notification) string {
	return n.UserID.String() + "|" + n.Type + "|" + n.DedupeKey
}

func (m *MockNotificationRepository) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if key(existing) == key(*n) {
			return false, nil
		}
	}
	n.ID = uuid.New()
	m.items = append(m.items, *n)
	return true, nil
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, qp params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &entity.PaginatedNotificationEntity{PageNumber: qp.PageNumber, PageSize: qp.PageSize}
	for _, n := range m.items {
		if n.UserID == userID {
			out.Items = append(out.Items, n)
		}
	}
	out.TotalItems = len(out.Items)
	return out, nil
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		for _, id := range ids {
			if m.items[i].UserID == userID && m.items[i].ID.String() == id {
				m.items[i].IsRead = true
			}
		}
	}
	return nil
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].UserID == userID {
			m.items[i].IsRead = true
		}
	}
	return nil
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type MockAttendeeLister struct {
	Attendees []bookingEntity.Attendee
	Err       error

	GotStart, GotEnd time.Time
}

func (m *MockAttendeeLister) ListPaidAttendeesInWindow(ctx context.Context, start, end time.Time) ([]bookingEntity.Attendee, error) {
	m.GotStart, m.GotEnd = start, end
	return m.Attendees, m.Err
}
