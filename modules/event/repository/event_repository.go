package repository

import (
	"context"
	"time"

	"weekend-match-api/core/database"
	"weekend-match-api/core/logger"
	"weekend-match-api/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles slot persistence (events table)
type EventRepository struct {
	DB database.IDatabase
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	FindLiveEventInWindow(ctx context.Context, city string, start, end time.Time) (*entity.Event, error)
	CreateEventIfAbsent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	ListLiveEventsWithPaidCounts(ctx context.Context, city string, start, end time.Time) ([]entity.EventWithCount, error)
	MarkFullIfAtCapacity(ctx context.Context, id uuid.UUID) (bool, error)
	CloseEventsStartedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

const eventColumns = `id, city, kind, start_time, day_bucket, neighborhood, capacity, status, created_at, updated_at`

// FindLiveEventInWindow returns the earliest open/full slot for city starting inside
// [start, end], or nil when there is none.
func (r *EventRepository) FindLiveEventInWindow(ctx context.Context, city string, start, end time.Time) (*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE city = $1
		  AND start_time >= $2 AND start_time <= $3
		  AND status IN ('open', 'full')
		ORDER BY start_time ASC, created_at ASC
		LIMIT 1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, city, start, end)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("EventRepository:FindLiveEventInWindow", "error", err, "city", city)
		return nil, err
	}
	return &event, nil
}

// CreateEventIfAbsent inserts the slot unless a live slot already holds the same
// (city, day_bucket). It returns nil, nil when the insert lost to an existing row.
func (r *EventRepository) CreateEventIfAbsent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (city, kind, start_time, day_bucket, neighborhood, capacity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (city, day_bucket) WHERE status IN ('open', 'full') DO NOTHING
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.City, event.Kind, event.StartTime, event.DayBucket.Format("2006-01-02"),
		event.Neighborhood, event.Capacity, event.Status)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("EventRepository:CreateEventIfAbsent", "error", err, "city", event.City)
		return nil, err
	}
	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", "error", err, "event_id", id)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) ListLiveEventsWithPaidCounts(ctx context.Context, city string, start, end time.Time) ([]entity.EventWithCount, error) {
	query := `
		SELECT e.id, e.city, e.kind, e.start_time, e.day_bucket, e.neighborhood, e.capacity,
		       e.status, e.created_at, e.updated_at,
		       COUNT(b.id) FILTER (WHERE b.paid) AS bookings_count
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		WHERE e.city = $1
		  AND e.start_time >= $2 AND e.start_time <= $3
		  AND e.status IN ('open', 'full')
		GROUP BY e.id
		ORDER BY e.start_time ASC, e.created_at ASC
	`

	var events []entity.EventWithCount
	err := r.DB.SelectContext(ctx, &events, query, city, start, end)
	if err != nil {
		logger.Error("EventRepository:ListLiveEventsWithPaidCounts", "error", err, "city", city)
		return nil, err
	}
	return events, nil
}

// MarkFullIfAtCapacity flips an open slot to full once its paid bookings reach capacity.
func (r *EventRepository) MarkFullIfAtCapacity(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE events
		SET status = 'full', updated_at = NOW()
		WHERE id = $1
		  AND status = 'open'
		  AND capacity <= (SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND paid)
	`

	result, err := r.DB.SQLx().ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:MarkFullIfAtCapacity", "error", err, "event_id", id)
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		logger.Error("EventRepository:MarkFullIfAtCapacity - RowsAffected", "error", err)
		return false, err
	}
	return rows > 0, nil
}

func (r *EventRepository) CloseEventsStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE events
		SET status = 'closed', updated_at = NOW()
		WHERE status IN ('open', 'full') AND start_time < $1
	`

	result, err := r.DB.SQLx().ExecContext(ctx, query, cutoff)
	if err != nil {
		logger.Error("EventRepository:CloseEventsStartedBefore", "error", err)
		return 0, err
	}
	return result.RowsAffected()
}
