package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weekend-match-api/core/cache"
	"weekend-match-api/core/constants"
	"weekend-match-api/core/errors"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/mq"
	"weekend-match-api/modules/event/calendar"
	"weekend-match-api/modules/event/dto"
	"weekend-match-api/modules/event/entity"
	"weekend-match-api/modules/event/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EventService handles slot business logic
type EventService struct {
	repo       repository.EventRepositoryInterface
	locker     cache.Locker
	publisher  mq.Publisher
	loc        *time.Location
	capacity   int
	closeAfter time.Duration
	now        func() time.Time
	tracer     trace.Tracer
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	EnsureSlot(ctx context.Context, city, day string) (uuid.UUID, *errors.AppError)
	GetWeekendEvents(ctx context.Context, city string) (*dto.WeekendEventsResponse, *errors.AppError)
	ClosePastEvents(ctx context.Context) (int64, *errors.AppError)
}

// Options carries the tunables of the slot service. Zero values fall back to defaults.
type Options struct {
	Location   *time.Location
	Capacity   int
	CloseAfter time.Duration
	Now        func() time.Time
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepositoryInterface, locker cache.Locker, publisher mq.Publisher, opts Options) EventServiceInterface {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Capacity <= 0 {
		opts.Capacity = entity.DefaultCapacity
	}
	if opts.CloseAfter <= 0 {
		opts.CloseAfter = 12 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &EventService{
		repo:       repo,
		locker:     locker,
		publisher:  publisher,
		loc:        opts.Location,
		capacity:   opts.Capacity,
		closeAfter: opts.CloseAfter,
		now:        opts.Now,
		tracer:     otel.Tracer("weekend-match-api/event"),
	}
}

// EnsureSlot returns the live slot for (city, day) of the coming weekend, creating it
// when the day has none yet. Concurrent callers converge on the same slot.
func (s *EventService) EnsureSlot(ctx context.Context, city, day string) (uuid.UUID, *errors.AppError) {
	ctx, span := s.tracer.Start(ctx, "EventService.EnsureSlot")
	defer span.End()

	city = strings.TrimSpace(city)
	if city == "" {
		return uuid.Nil, errors.Validation("city is required")
	}
	d, ok := entity.ParseDay(day)
	if !ok {
		return uuid.Nil, errors.Validation("day must be one of friday, saturday, sunday")
	}
	span.SetAttributes(attribute.String("city", city), attribute.String("day", string(d)))

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	start, err := calendar.InstantFor(d, s.now().In(s.loc))
	if err != nil {
		return uuid.Nil, errors.Validation(err.Error())
	}

	var (
		id     uuid.UUID
		appErr *errors.AppError
	)
	lockKey := fmt.Sprintf("lock:slot:%s:%s", city, start.Format("2006-01-02"))
	lockErr := cache.WithLock(ctx, s.locker, lockKey, func() error {
		id, appErr = s.findOrCreate(ctx, city, d, start)
		return nil
	})
	if lockErr != nil {
		logger.Error("EventService:EnsureSlot:Lock", "error", lockErr, "city", city, "day", d)
		return uuid.Nil, errors.NewAppError(errors.ErrInternalServer, "ensure slot interrupted", lockErr)
	}
	return id, appErr
}

func (s *EventService) findOrCreate(ctx context.Context, city string, day entity.Day, start time.Time) (uuid.UUID, *errors.AppError) {
	bounds := calendar.DayBounds(start)

	existing, err := s.repo.FindLiveEventInWindow(ctx, city, bounds.Start, bounds.End)
	if err != nil {
		return uuid.Nil, errors.Persistence("failed to look up slot", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	created, err := s.repo.CreateEventIfAbsent(ctx, &entity.Event{
		City:      city,
		Kind:      calendar.KindForDay(day),
		StartTime: start,
		DayBucket: calendar.TruncateDay(start),
		Capacity:  s.capacity,
		Status:    entity.EventStatusOpen,
	})
	if err != nil {
		return uuid.Nil, errors.Persistence("failed to create slot", err)
	}

	if created == nil {
		// another caller inserted the same (city, day) first
		winner, err := s.repo.FindLiveEventInWindow(ctx, city, bounds.Start, bounds.End)
		if err != nil {
			return uuid.Nil, errors.Persistence("failed to look up slot", err)
		}
		if winner == nil {
			return uuid.Nil, errors.Persistence("slot insert conflicted but no live slot found", nil)
		}
		logger.Info("EventService:EnsureSlot:LostRace", "city", city, "day", day, "event_id", winner.ID)
		return winner.ID, nil
	}

	logger.Info("EventService:EnsureSlot:Created", "city", city, "day", day, "event_id", created.ID, "start", start)
	mq.Emit(ctx, s.publisher, mq.RKSlotOpened, mq.SlotOpened{
		EventID: created.ID.String(),
		City:    created.City,
		Kind:    string(created.Kind),
		Start:   created.StartTime,
	})
	return created.ID, nil
}

// GetWeekendEvents lists the live slots of the current weekend, one per day label.
func (s *EventService) GetWeekendEvents(ctx context.Context, city string) (*dto.WeekendEventsResponse, *errors.AppError) {
	ctx, span := s.tracer.Start(ctx, "EventService.GetWeekendEvents")
	defer span.End()

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.Validation("city is required")
	}

	window := calendar.CurrentWeekendBounds(s.now().In(s.loc))
	events, err := s.repo.ListLiveEventsWithPaidCounts(ctx, city, window.Start, window.End)
	if err != nil {
		return nil, errors.Persistence("failed to list weekend slots", err)
	}

	resp := &dto.WeekendEventsResponse{}
	for i := range events {
		ev := &events[i]
		label, ok := calendar.DayLabel(ev.StartTime.In(s.loc))
		if !ok {
			continue
		}
		if !resp.Set(label, dto.ToEventResponse(ev)) {
			logger.Warn("EventService:GetWeekendEvents:DuplicateSlot", "city", city, "day", label, "event_id", ev.ID)
		}
	}
	return resp, nil
}

// ClosePastEvents closes live slots whose start lies more than closeAfter in the past.
func (s *EventService) ClosePastEvents(ctx context.Context) (int64, *errors.AppError) {
	ctx, span := s.tracer.Start(ctx, "EventService.ClosePastEvents")
	defer span.End()

	cutoff := s.now().Add(-s.closeAfter)
	n, err := s.repo.CloseEventsStartedBefore(ctx, cutoff)
	if err != nil {
		return 0, errors.Persistence("failed to close past slots", err)
	}
	if n > 0 {
		logger.Info("EventService:ClosePastEvents", "closed", n, "cutoff", cutoff)
	}
	return n, nil
}
