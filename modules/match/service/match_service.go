package service

import (
	"context"

	"weekend-match-api/core/errors"
	"weekend-match-api/core/logger"
	groupEntity "weekend-match-api/modules/group/entity"
	"weekend-match-api/modules/match/dto"
	"weekend-match-api/modules/match/entity"
	"weekend-match-api/modules/match/repository"
	"weekend-match-api/modules/match/scorer"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// GroupReader is the part of the group store compatibility needs
type GroupReader interface {
	GetGroupByID(ctx context.Context, id uuid.UUID) (*groupEntity.MatchGroup, error)
	ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

type MatchServiceInterface interface {
	ExplainGroup(ctx context.Context, groupID, userID uuid.UUID) (*dto.CompatibilityResponse, *errors.AppError)
	UpsertPreferences(ctx context.Context, userID uuid.UUID, req *dto.UpsertPreferencesRequest) (*entity.Profile, *errors.AppError)
}

type MatchService struct {
	profiles repository.ProfileRepositoryInterface
	groups   GroupReader
	tracer   trace.Tracer
}

func NewMatchService(profiles repository.ProfileRepositoryInterface, groups GroupReader) MatchServiceInterface {
	return &MatchService{
		profiles: profiles,
		groups:   groups,
		tracer:   otel.Tracer("weekend-match-api/match"),
	}
}

// ExplainGroup scores the caller against the other members of a group they belong to.
func (s *MatchService) ExplainGroup(ctx context.Context, groupID, userID uuid.UUID) (*dto.CompatibilityResponse, *errors.AppError) {
	ctx, span := s.tracer.Start(ctx, "MatchService.ExplainGroup")
	defer span.End()

	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, errors.Persistence("failed to load group", err)
	}
	if group == nil {
		return nil, errors.NotFound("group not found")
	}

	memberIDs, err := s.groups.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, errors.Persistence("failed to list group members", err)
	}

	others := make([]uuid.UUID, 0, len(memberIDs))
	isMember := false
	for _, id := range memberIDs {
		if id == userID {
			isMember = true
			continue
		}
		others = append(others, id)
	}
	if !isMember {
		logger.Warn("MatchService:ExplainGroup:NotMember", "group_id", groupID, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	profiles, err := s.profiles.GetProfiles(ctx, memberIDs)
	if err != nil {
		return nil, errors.Persistence("failed to load preferences", err)
	}
	scores, err := s.profiles.GetScores(ctx, userID, others)
	if err != nil {
		return nil, errors.Persistence("failed to load match scores", err)
	}

	user := profiles[userID]
	members := make([]entity.Profile, 0, len(others))
	specialties := make([]string, 0, len(others))
	cities := make([]string, 0, len(others))
	hoods := make([]string, 0, len(others))
	for _, id := range others {
		p := profiles[id]
		members = append(members, p)
		specialties = append(specialties, p.SpecialtyValue())
		cities = append(cities, p.City)
		hoods = append(hoods, p.Neighborhood)
	}

	return &dto.CompatibilityResponse{
		GroupID:            groupID.String(),
		MemberCount:        len(memberIDs),
		SpecialtyMatch:     scorer.CalculateSpecialtyMatch(user.SpecialtyValue(), specialties),
		LocationMatch:      scorer.CalculateLocationMatch(user.City, user.Neighborhood, cities, hoods),
		SharedInterests:    scorer.FindSharedInterests(user, members),
		SharedAvailability: scorer.FindSharedAvailability(user, members),
		AverageMatchScore:  scorer.AverageMatchScore(scores, others),
	}, nil
}

func (s *MatchService) UpsertPreferences(ctx context.Context, userID uuid.UUID, req *dto.UpsertPreferencesRequest) (*entity.Profile, *errors.AppError) {
	profile := req.ToProfile()
	profile.UserID = userID

	saved, err := s.profiles.UpsertProfile(ctx, profile)
	if err != nil {
		return nil, errors.Persistence("failed to save preferences", err)
	}
	logger.Info("MatchService:UpsertPreferences:Saved", "user_id", userID)
	return saved, nil
}
