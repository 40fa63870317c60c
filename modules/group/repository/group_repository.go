package repository

import (
	"context"

	"weekend-match-api/core/database"
	"weekend-match-api/core/logger"
	"weekend-match-api/modules/group/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type GroupRepository struct {
	DB database.IDatabase
}

func NewGroupRepository(db database.IDatabase) *GroupRepository {
	return &GroupRepository{DB: db}
}

type GroupRepositoryInterface interface {
	GetActiveGroupByEvent(ctx context.Context, eventID uuid.UUID) (*entity.MatchGroup, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.MatchGroup, error)
	ListBookedUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	CreateGroupWithMembers(ctx context.Context, group *entity.MatchGroup, memberIDs []uuid.UUID) (*entity.MatchGroup, error)
	ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	GetConversationByGroup(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, error)
	CreateConversationIfAbsent(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, error)
}

const groupColumns = `id, name, slug, group_type, status, match_week, event_id, created_at, updated_at`

func (r *GroupRepository) GetActiveGroupByEvent(ctx context.Context, eventID uuid.UUID) (*entity.MatchGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM match_groups WHERE event_id = $1 AND status = 'active' LIMIT 1`

	var group entity.MatchGroup
	if err := r.DB.GetContext(ctx, &group, query, eventID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("GroupRepository:GetActiveGroupByEvent", "error", err, "event_id", eventID)
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.MatchGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM match_groups WHERE id = $1`

	var group entity.MatchGroup
	if err := r.DB.GetContext(ctx, &group, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("GroupRepository:GetGroupByID", "error", err, "group_id", id)
		return nil, err
	}
	return &group, nil
}

// ListBookedUserIDs returns the distinct users holding a pending or confirmed booking
// on the slot.
func (r *GroupRepository) ListBookedUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT user_id
		FROM bookings
		WHERE event_id = $1 AND status IN ('confirmed', 'pending')
		ORDER BY user_id
	`

	var ids []uuid.UUID
	if err := r.DB.SelectContext(ctx, &ids, query, eventID); err != nil {
		logger.Error("GroupRepository:ListBookedUserIDs", "error", err, "event_id", eventID)
		return nil, err
	}
	return ids, nil
}

// CreateGroupWithMembers inserts the group and all its members in one transaction.
// It returns nil, nil when another active group for the same event already exists.
func (r *GroupRepository) CreateGroupWithMembers(ctx context.Context, group *entity.MatchGroup, memberIDs []uuid.UUID) (*entity.MatchGroup, error) {
	var created *entity.MatchGroup

	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO match_groups (name, slug, group_type, status, match_week, event_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (event_id) WHERE status = 'active' DO NOTHING
			RETURNING ` + groupColumns

		var g entity.MatchGroup
		err := tx.GetContext(ctx, &g, query,
			group.Name, group.Slug, group.GroupType, group.Status,
			group.MatchWeek.Format("2006-01-02"), group.EventID)
		if err != nil {
			if database.IsNoRows(err) {
				return nil
			}
			return err
		}

		ids := make([]string, len(memberIDs))
		for i, id := range memberIDs {
			ids[i] = id.String()
		}
		memberQuery := `
			INSERT INTO group_members (group_id, user_id)
			SELECT $1, unnest($2::uuid[])
			ON CONFLICT (group_id, user_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, memberQuery, g.ID, pq.Array(ids)); err != nil {
			return err
		}

		created = &g
		return nil
	})
	if err != nil {
		logger.Error("GroupRepository:CreateGroupWithMembers", "error", err, "event_id", group.EventID)
		return nil, err
	}
	return created, nil
}

func (r *GroupRepository) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY created_at, user_id`

	var ids []uuid.UUID
	if err := r.DB.SelectContext(ctx, &ids, query, groupID); err != nil {
		logger.Error("GroupRepository:ListMemberIDs", "error", err, "group_id", groupID)
		return nil, err
	}
	return ids, nil
}

func (r *GroupRepository) GetConversationByGroup(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, error) {
	query := `SELECT id, group_id, created_at FROM conversations WHERE group_id = $1`

	var conv entity.Conversation
	if err := r.DB.GetContext(ctx, &conv, query, groupID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("GroupRepository:GetConversationByGroup", "error", err, "group_id", groupID)
		return nil, err
	}
	return &conv, nil
}

// CreateConversationIfAbsent returns nil, nil when the group already has a conversation.
func (r *GroupRepository) CreateConversationIfAbsent(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, error) {
	query := `
		INSERT INTO conversations (group_id)
		VALUES ($1)
		ON CONFLICT (group_id) DO NOTHING
		RETURNING id, group_id, created_at
	`

	var conv entity.Conversation
	if err := r.DB.GetContext(ctx, &conv, query, groupID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("GroupRepository:CreateConversationIfAbsent", "error", err, "group_id", groupID)
		return nil, err
	}
	return &conv, nil
}
