package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"weekend-match-api/modules/event/calendar"
	"weekend-match-api/modules/event/entity"

	"github.com/google/uuid"
)

var ErrMockStore = errors.New("mock store error")

// MockEventRepository keeps events in memory and enforces the one live slot per
// (city, day) rule the database index gives us.
type MockEventRepository struct {
	mu     sync.Mutex
	Events []entity.EventWithCount

	FindFunc   func(ctx context.Context, city string, start, end time.Time) (*entity.Event, error)
	CreateFunc func(ctx context.Context, event *entity.Event) (*entity.Event, error)
	CloseFunc  func(ctx context.Context, cutoff time.Time) (int64, error)

	CreateCalls int
}

func (m *MockEventRepository) FindLiveEventInWindow(ctx context.Context, city string, start, end time.Time) (*entity.Event, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, city, start, end)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *entity.Event
	for i := range m.Events {
		ev := &m.Events[i].Event
		if ev.City != city || ev.Status == entity.EventStatusClosed {
			continue
		}
		if ev.StartTime.Before(start) || ev.StartTime.After(end) {
			continue
		}
		if best == nil || ev.StartTime.Before(best.StartTime) {
			cp := *ev
			best = &cp
		}
	}
	return best, nil
}

func (m *MockEventRepository) CreateEventIfAbsent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	bucket := calendar.TruncateDay(event.DayBucket)
	for _, ev := range m.Events {
		if ev.City == event.City && ev.Status != entity.EventStatusClosed && ev.DayBucket.Equal(bucket) {
			return nil, nil
		}
	}
	created := *event
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Events = append(m.Events, entity.EventWithCount{Event: created})
	return &created, nil
}

func (m *MockEventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.Events {
		if ev.ID == id {
			cp := ev.Event
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockEventRepository) ListLiveEventsWithPaidCounts(ctx context.Context, city string, start, end time.Time) ([]entity.EventWithCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.EventWithCount
	for _, ev := range m.Events {
		if ev.City != city || ev.Status == entity.EventStatusClosed {
			continue
		}
		if ev.StartTime.Before(start) || ev.StartTime.After(end) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *MockEventRepository) MarkFullIfAtCapacity(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Events {
		ev := &m.Events[i]
		if ev.ID == id && ev.Status == entity.EventStatusOpen && ev.BookingsCount >= ev.Capacity {
			ev.Status = entity.EventStatusFull
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEventRepository) CloseEventsStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, cutoff)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.Events {
		ev := &m.Events[i]
		if ev.Status != entity.EventStatusClosed && ev.StartTime.Before(cutoff) {
			ev.Status = entity.EventStatusClosed
			n++
		}
	}
	return n, nil
}

// MockPublisher records published routing keys
type MockPublisher struct {
	mu   sync.Mutex
	Keys []string
	Msgs []any
}

func (p *MockPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Keys = append(p.Keys, key)
	p.Msgs = append(p.Msgs, v)
	return nil
}

func (p *MockPublisher) Close() error { return nil }
