package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"weekend-match-api/modules/booking/entity"
	eventEntity "weekend-match-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrMockStore = errors.New("mock store error")

// MockBookingRepository keeps bookings in memory and rejects a second booking for
// the same (user, event) the way the unique constraint does.
type MockBookingRepository struct {
	mu       sync.Mutex
	Bookings []entity.Booking

	// EventStarts lets window queries join bookings to slot start times
	EventStarts map[uuid.UUID]time.Time

	CreateFunc  func(ctx context.Context, b *entity.Booking) (*entity.Booking, error)
	ConfirmFunc func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
}

func (m *MockBookingRepository) CreateBooking(ctx context.Context, b *entity.Booking) (*entity.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Bookings {
		if existing.UserID == b.UserID && existing.EventID == b.EventID {
			return nil, &pq.Error{Code: "23505", Constraint: "ux_bookings_user_event"}
		}
	}
	created := *b
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Bookings = append(m.Bookings, created)
	return &created, nil
}

func (m *MockBookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) GetBookingByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Bookings {
		if b.UserID == userID && b.EventID == eventID {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) ConfirmPaid(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Bookings {
		if m.Bookings[i].ID == id {
			m.Bookings[i].Paid = true
			m.Bookings[i].Status = entity.BookingStatusConfirmed
			cp := m.Bookings[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) GetLatestPaidBookingInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *entity.Booking
	for i := range m.Bookings {
		b := m.Bookings[i]
		if b.UserID != userID || !b.Paid {
			continue
		}
		st, ok := m.EventStarts[b.EventID]
		if !ok || st.Before(start) || st.After(end) {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = &b
		}
	}
	return latest, nil
}

func (m *MockBookingRepository) ListPaidAttendeesInWindow(ctx context.Context, start, end time.Time) ([]entity.Attendee, error) {
	return nil, nil
}

// MockEventReader serves slots from a map and counts paid bookings through Paid.
type MockEventReader struct {
	mu       sync.Mutex
	Events   map[uuid.UUID]*eventEntity.Event
	Paid     func(eventID uuid.UUID) int
	GetErr   error
	MarkErr  error
	MarkedAs []uuid.UUID
}

func (m *MockEventReader) GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.Events[id]
	if !ok {
		return nil, nil
	}
	cp := *ev
	return &cp, nil
}

func (m *MockEventReader) MarkFullIfAtCapacity(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkErr != nil {
		return false, m.MarkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.Events[id]
	if !ok || ev.Status != eventEntity.EventStatusOpen || m.Paid == nil {
		return false, nil
	}
	if m.Paid(id) >= ev.Capacity {
		ev.Status = eventEntity.EventStatusFull
		m.MarkedAs = append(m.MarkedAs, id)
		return true, nil
	}
	return false, nil
}

type MockPublisher struct {
	mu   sync.Mutex
	Keys []string
}

func (p *MockPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Keys = append(p.Keys, key)
	return nil
}

func (p *MockPublisher) Close() error { return nil }
