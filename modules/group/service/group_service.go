package service

import (
	"context"
	"time"

	"weekend-match-api/core/cache"
	"weekend-match-api/core/constants"
	"weekend-match-api/core/errors"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/mq"
	"weekend-match-api/modules/event/calendar"
	eventEntity "weekend-match-api/modules/event/entity"
	"weekend-match-api/modules/group/dto"
	"weekend-match-api/modules/group/entity"
	"weekend-match-api/modules/group/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EventReader loads the slot a group is formed for
type EventReader interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
}

type GroupServiceInterface interface {
	EnsureGroupAndConversation(ctx context.Context, eventID uuid.UUID) (*dto.GroupResult, *errors.AppError)
}

type GroupService struct {
	repo      repository.GroupRepositoryInterface
	events    EventReader
	locker    cache.Locker
	publisher mq.Publisher
	loc       *time.Location
	tracer    trace.Tracer
}

func NewGroupService(repo repository.GroupRepositoryInterface, events EventReader, locker cache.Locker, publisher mq.Publisher, loc *time.Location) GroupServiceInterface {
	if loc == nil {
		loc = time.UTC
	}
	return &GroupService{
		repo:      repo,
		events:    events,
		locker:    locker,
		publisher: publisher,
		loc:       loc,
		tracer:    otel.Tracer("weekend-match-api/group"),
	}
}

// EnsureGroupAndConversation promotes the slot's bookings into a group with a
// conversation. Repeated calls return the same ids and write nothing.
func (s *GroupService) EnsureGroupAndConversation(ctx context.Context, eventID uuid.UUID) (*dto.GroupResult, *errors.AppError) {
	ctx, span := s.tracer.Start(ctx, "GroupService.EnsureGroupAndConversation")
	defer span.End()

	if eventID == uuid.Nil {
		return nil, errors.Validation("event id is required")
	}
	span.SetAttributes(attribute.String("event_id", eventID.String()))

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	var (
		result *dto.GroupResult
		appErr *errors.AppError
	)
	lockErr := cache.WithLock(ctx, s.locker, "lock:group:"+eventID.String(), func() error {
		result, appErr = s.ensure(ctx, eventID)
		return nil
	})
	if lockErr != nil {
		logger.Error("GroupService:EnsureGroupAndConversation:Lock", "error", lockErr, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "group promotion interrupted", lockErr)
	}
	return result, appErr
}

func (s *GroupService) ensure(ctx context.Context, eventID uuid.UUID) (*dto.GroupResult, *errors.AppError) {
	group, err := s.repo.GetActiveGroupByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.Persistence("failed to look up group", err)
	}

	var formed []uuid.UUID
	if group == nil {
		var appErr *errors.AppError
		group, formed, appErr = s.formGroup(ctx, eventID)
		if appErr != nil {
			return nil, appErr
		}
	}

	conv, appErr := s.ensureConversation(ctx, group.ID)
	if appErr != nil {
		return nil, appErr
	}

	if formed != nil {
		members := make([]string, len(formed))
		for i, id := range formed {
			members[i] = id.String()
		}
		logger.Info("GroupService:EnsureGroupAndConversation:Formed",
			"event_id", eventID, "group_id", group.ID, "conversation_id", conv.ID, "members", len(formed))
		mq.Emit(ctx, s.publisher, mq.RKGroupFormed, mq.GroupFormed{
			GroupID:        group.ID.String(),
			ConversationID: conv.ID.String(),
			EventID:        eventID.String(),
			MemberIDs:      members,
		})
	}

	return &dto.GroupResult{GroupID: group.ID.String(), ConversationID: conv.ID.String()}, nil
}

// formGroup creates the group and its members. The returned member list is nil when a
// concurrent caller formed the group first.
func (s *GroupService) formGroup(ctx context.Context, eventID uuid.UUID) (*entity.MatchGroup, []uuid.UUID, *errors.AppError) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, nil, errors.Persistence("failed to load slot", err)
	}
	if event == nil {
		return nil, nil, errors.NotFound("slot not found")
	}

	memberIDs, err := s.repo.ListBookedUserIDs(ctx, eventID)
	if err != nil {
		return nil, nil, errors.Persistence("failed to list bookings", err)
	}
	if len(memberIDs) == 0 {
		return nil, nil, errors.NewAppError(errors.ErrEmptyGroup, "slot has no bookings to form a group from", nil)
	}

	start := event.StartTime.In(s.loc)
	name := calendar.GroupName(event.Kind, event.City, start)
	id := eventID
	created, err := s.repo.CreateGroupWithMembers(ctx, &entity.MatchGroup{
		Name:      name,
		Slug:      slug.Make(name),
		GroupType: entity.GroupTypeMixed,
		Status:    entity.GroupStatusActive,
		MatchWeek: calendar.TruncateDay(start),
		EventID:   &id,
	}, memberIDs)
	if err != nil {
		return nil, nil, errors.Persistence("failed to create group", err)
	}
	if created != nil {
		return created, memberIDs, nil
	}

	winner, err := s.repo.GetActiveGroupByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, errors.Persistence("failed to look up group", err)
	}
	if winner == nil {
		return nil, nil, errors.Persistence("group insert conflicted but no active group found", nil)
	}
	return winner, nil, nil
}

func (s *GroupService) ensureConversation(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, *errors.AppError) {
	conv, err := s.repo.GetConversationByGroup(ctx, groupID)
	if err != nil {
		return nil, errors.Persistence("failed to look up conversation", err)
	}
	if conv != nil {
		return conv, nil
	}

	conv, err = s.repo.CreateConversationIfAbsent(ctx, groupID)
	if err != nil {
		return nil, errors.Persistence("failed to create conversation", err)
	}
	if conv != nil {
		return conv, nil
	}

	conv, err = s.repo.GetConversationByGroup(ctx, groupID)
	if err != nil || conv == nil {
		return nil, errors.Persistence("failed to read existing conversation", err)
	}
	return conv, nil
}
