package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"weekend-match-api/core/errors"
	"weekend-match-api/core/mq"
	"weekend-match-api/modules/booking/entity"
	eventEntity "weekend-match-api/modules/event/entity"

	"github.com/google/uuid"
)

type fixture struct {
	repo   *MockBookingRepository
	events *MockEventReader
	pub    *MockPublisher
	svc    BookingService
	slot   uuid.UUID
}

func newFixture(t *testing.T, capacity int, now time.Time) *fixture {
	t.Helper()
	slot := uuid.New()
	ev := &eventEntity.Event{
		City:      "Berlin",
		Kind:      eventEntity.EventKindDinner,
		StartTime: time.Date(2025, 11, 14, 19, 0, 0, 0, time.UTC),
		Capacity:  capacity,
		Status:    eventEntity.EventStatusOpen,
	}
	ev.ID = slot

	repo := &MockBookingRepository{EventStarts: map[uuid.UUID]time.Time{slot: ev.StartTime}}
	events := &MockEventReader{Events: map[uuid.UUID]*eventEntity.Event{slot: ev}}
	events.Paid = func(eventID uuid.UUID) int {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		n := 0
		for _, b := range repo.Bookings {
			if b.EventID == eventID && b.Paid {
				n++
			}
		}
		return n
	}
	pub := &MockPublisher{}

	return &fixture{
		repo:   repo,
		events: events,
		pub:    pub,
		svc:    NewBookingService(repo, events, pub, time.UTC, func() time.Time { return now }),
		slot:   slot,
	}
}

func TestCreatePendingBooking(t *testing.T) {
	f := newFixture(t, 24, time.Now())
	user := uuid.New()

	id, appErr := f.svc.CreatePendingBooking(context.Background(), user, f.slot, "friday")
	if appErr != nil {
		t.Fatalf("CreatePendingBooking() error = %v", appErr)
	}

	if len(f.repo.Bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(f.repo.Bookings))
	}
	b := f.repo.Bookings[0]
	if b.ID != id {
		t.Errorf("returned id %s, stored %s", id, b.ID)
	}
	if b.Status != entity.BookingStatusPending || b.Paid {
		t.Errorf("booking = (%s, paid=%v), want (pending, paid=false)", b.Status, b.Paid)
	}
	if b.Preferences.Day != eventEntity.DayFriday {
		t.Errorf("Preferences.Day = %q, want friday", b.Preferences.Day)
	}
	if len(f.pub.Keys) != 1 || f.pub.Keys[0] != mq.RKBookingCreated {
		t.Errorf("published = %v, want [%s]", f.pub.Keys, mq.RKBookingCreated)
	}
}

func TestCreatePendingBooking_IsIdempotentPerUserAndSlot(t *testing.T) {
	f := newFixture(t, 24, time.Now())
	user := uuid.New()

	first, appErr := f.svc.CreatePendingBooking(context.Background(), user, f.slot, "friday")
	if appErr != nil {
		t.Fatalf("CreatePendingBooking() error = %v", appErr)
	}
	second, appErr := f.svc.CreatePendingBooking(context.Background(), user, f.slot, "friday")
	if appErr != nil {
		t.Fatalf("CreatePendingBooking() second call error = %v", appErr)
	}

	if first != second {
		t.Errorf("ids differ: %s vs %s", first, second)
	}
	if len(f.repo.Bookings) != 1 {
		t.Errorf("bookings = %d, want 1", len(f.repo.Bookings))
	}
}

func TestCreatePendingBooking_ConcurrentDuplicatesConverge(t *testing.T) {
	f := newFixture(t, 24, time.Now())
	user := uuid.New()

	const callers = 12
	ids := make([]uuid.UUID, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, appErr := f.svc.CreatePendingBooking(context.Background(), user, f.slot, "friday")
			if appErr != nil {
				t.Errorf("CreatePendingBooking() error = %v", appErr)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("caller %d got %s, want %s", i, ids[i], ids[0])
		}
	}
	if len(f.repo.Bookings) != 1 {
		t.Errorf("bookings = %d, want 1", len(f.repo.Bookings))
	}
}

func TestCreatePendingBooking_Errors(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(f *fixture) (uuid.UUID, string)
		wantCode errors.ErrorCode
	}{
		{
			name:     "bad day",
			prepare:  func(f *fixture) (uuid.UUID, string) { return f.slot, "monday" },
			wantCode: errors.ErrInvalidInput,
		},
		{
			name:     "unknown slot",
			prepare:  func(f *fixture) (uuid.UUID, string) { return uuid.New(), "friday" },
			wantCode: errors.ErrNotFound,
		},
		{
			name: "slot full",
			prepare: func(f *fixture) (uuid.UUID, string) {
				f.events.Events[f.slot].Status = eventEntity.EventStatusFull
				return f.slot, "friday"
			},
			wantCode: errors.ErrSlotFull,
		},
		{
			name: "store failure",
			prepare: func(f *fixture) (uuid.UUID, string) {
				f.repo.CreateFunc = func(ctx context.Context, b *entity.Booking) (*entity.Booking, error) {
					return nil, ErrMockStore
				}
				return f.slot, "friday"
			},
			wantCode: errors.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 24, time.Now())
			slot, day := tt.prepare(f)

			_, appErr := f.svc.CreatePendingBooking(context.Background(), uuid.New(), slot, day)
			if appErr == nil || appErr.Code != tt.wantCode {
				t.Fatalf("CreatePendingBooking() error = %v, want %s", appErr, tt.wantCode)
			}
			if len(f.pub.Keys) != 0 {
				t.Errorf("published = %v, want none", f.pub.Keys)
			}
		})
	}
}

func TestCreatePendingBooking_FullSlotStillReturnsExistingBooking(t *testing.T) {
	f := newFixture(t, 24, time.Now())
	user := uuid.New()

	first, appErr := f.svc.CreatePendingBooking(context.Background(), user, f.slot, "friday")
	if appErr != nil {
		t.Fatalf("CreatePendingBooking() error = %v", appErr)
	}
	f.events.Events[f.slot].Status = eventEntity.EventStatusFull

	again, appErr := f.svc.CreatePendingBooking(context.Background(), user, f.slot, "friday")
	if appErr != nil {
		t.Fatalf("CreatePendingBooking() on full slot error = %v", appErr)
	}
	if again != first {
		t.Errorf("id = %s, want %s", again, first)
	}
}

func TestConfirmBookingPaid(t *testing.T) {
	f := newFixture(t, 2, time.Now())
	ctx := context.Background()

	a, _ := f.svc.CreatePendingBooking(ctx, uuid.New(), f.slot, "friday")
	b, _ := f.svc.CreatePendingBooking(ctx, uuid.New(), f.slot, "friday")

	if !f.svc.ConfirmBookingPaid(ctx, a) {
		t.Fatalf("ConfirmBookingPaid(a) = false, want true")
	}
	if f.events.Events[f.slot].Status != eventEntity.EventStatusOpen {
		t.Errorf("slot status after 1/2 paid = %s, want open", f.events.Events[f.slot].Status)
	}

	// idempotent
	if !f.svc.ConfirmBookingPaid(ctx, a) {
		t.Fatalf("ConfirmBookingPaid(a) second call = false, want true")
	}

	if !f.svc.ConfirmBookingPaid(ctx, b) {
		t.Fatalf("ConfirmBookingPaid(b) = false, want true")
	}
	if f.events.Events[f.slot].Status != eventEntity.EventStatusFull {
		t.Errorf("slot status after 2/2 paid = %s, want full", f.events.Events[f.slot].Status)
	}

	for _, bk := range f.repo.Bookings {
		if !bk.Paid || bk.Status != entity.BookingStatusConfirmed {
			t.Errorf("booking %s = (%s, paid=%v), want (confirmed, paid=true)", bk.ID, bk.Status, bk.Paid)
		}
	}
}

func TestConfirmBookingPaid_ReturnsFalseOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		confirm func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	}{
		{"store error", func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) { return nil, ErrMockStore }},
		{"unknown booking", func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) { return nil, nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 24, time.Now())
			f.repo.ConfirmFunc = tt.confirm

			if f.svc.ConfirmBookingPaid(context.Background(), uuid.New()) {
				t.Errorf("ConfirmBookingPaid() = true, want false")
			}
		})
	}
}

func TestConfirmBookingPaid_CapacityErrorDoesNotFailConfirmation(t *testing.T) {
	f := newFixture(t, 1, time.Now())
	ctx := context.Background()
	id, _ := f.svc.CreatePendingBooking(ctx, uuid.New(), f.slot, "friday")
	f.events.MarkErr = ErrMockStore

	if !f.svc.ConfirmBookingPaid(ctx, id) {
		t.Errorf("ConfirmBookingPaid() = false, want true")
	}
}

func TestGetActiveWeekendBooking(t *testing.T) {
	// Monday after the Friday slot: still inside the ±7 day window
	now := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, 24, now)
	ctx := context.Background()
	user := uuid.New()

	got, appErr := f.svc.GetActiveWeekendBooking(ctx, user)
	if appErr != nil {
		t.Fatalf("GetActiveWeekendBooking() error = %v", appErr)
	}
	if got != nil {
		t.Fatalf("GetActiveWeekendBooking() = %+v before any booking, want nil", got)
	}

	id, _ := f.svc.CreatePendingBooking(ctx, user, f.slot, "friday")
	got, _ = f.svc.GetActiveWeekendBooking(ctx, user)
	if got != nil {
		t.Fatalf("GetActiveWeekendBooking() = %+v for unpaid booking, want nil", got)
	}

	f.svc.ConfirmBookingPaid(ctx, id)
	got, _ = f.svc.GetActiveWeekendBooking(ctx, user)
	if got == nil || got.ID != id {
		t.Fatalf("GetActiveWeekendBooking() = %+v, want booking %s", got, id)
	}
}

func TestGetActiveWeekendBooking_OutsideWindow(t *testing.T) {
	now := time.Date(2025, 11, 22, 10, 0, 0, 0, time.UTC) // 7 days 15h after the slot
	f := newFixture(t, 24, now)
	ctx := context.Background()
	user := uuid.New()

	id, _ := f.svc.CreatePendingBooking(ctx, user, f.slot, "friday")
	f.svc.ConfirmBookingPaid(ctx, id)

	got, appErr := f.svc.GetActiveWeekendBooking(ctx, user)
	if appErr != nil {
		t.Fatalf("GetActiveWeekendBooking() error = %v", appErr)
	}
	if got != nil {
		t.Errorf("GetActiveWeekendBooking() = %+v, want nil", got)
	}
}

func TestGetBooking(t *testing.T) {
	f := newFixture(t, 24, time.Now())
	id, appErr := f.svc.CreatePendingBooking(context.Background(), uuid.New(), f.slot, "friday")
	if appErr != nil {
		t.Fatalf("CreatePendingBooking() error = %v", appErr)
	}

	got, appErr := f.svc.GetBooking(context.Background(), id)
	if appErr != nil || got == nil || got.ID != id {
		t.Fatalf("GetBooking() = %+v, %v; want booking %s", got, appErr, id)
	}

	_, appErr = f.svc.GetBooking(context.Background(), uuid.New())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("GetBooking(unknown) error = %v, want not_found", appErr)
	}
}
