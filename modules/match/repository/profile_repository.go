package repository

import (
	"context"

	"weekend-match-api/core/database"
	"weekend-match-api/core/logger"
	"weekend-match-api/modules/match/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProfileRepository struct {
	DB database.IDatabase
}

func NewProfileRepository(db database.IDatabase) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

type ProfileRepositoryInterface interface {
	GetProfiles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]entity.Profile, error)
	UpsertProfile(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	GetScores(ctx context.Context, userID uuid.UUID, otherIDs []uuid.UUID) (map[uuid.UUID]float64, error)
}

const profileColumns = `user_id, specialty, city, neighborhood, sports, social_style,
	culture_interests, lifestyle, availability, updated_at`

// GetProfiles loads the preference rows that exist for userIDs, keyed by user.
func (r *ProfileRepository) GetProfiles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]entity.Profile, error) {
	out := make(map[uuid.UUID]entity.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	query := `SELECT ` + profileColumns + ` FROM user_preferences WHERE user_id = ANY($1::uuid[])`

	var rows []entity.Profile
	if err := r.DB.SelectContext(ctx, &rows, query, pq.Array(uuidStrings(userIDs))); err != nil {
		logger.Error("ProfileRepository:GetProfiles", "error", err, "count", len(userIDs))
		return nil, err
	}
	for _, p := range rows {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	query := `
		INSERT INTO user_preferences (user_id, specialty, city, neighborhood, sports, social_style,
			culture_interests, lifestyle, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			specialty = EXCLUDED.specialty,
			city = EXCLUDED.city,
			neighborhood = EXCLUDED.neighborhood,
			sports = EXCLUDED.sports,
			social_style = EXCLUDED.social_style,
			culture_interests = EXCLUDED.culture_interests,
			lifestyle = EXCLUDED.lifestyle,
			availability = EXCLUDED.availability,
			updated_at = NOW()
		RETURNING ` + profileColumns

	var saved entity.Profile
	err := r.DB.GetContext(ctx, &saved, query,
		profile.UserID, profile.Specialty, profile.City, profile.Neighborhood,
		nonNil(profile.Sports), nonNil(profile.SocialStyle), nonNil(profile.CultureInterests),
		nonNil(profile.Lifestyle), nonNil(profile.Availability))
	if err != nil {
		logger.Error("ProfileRepository:UpsertProfile", "error", err, "user_id", profile.UserID)
		return nil, err
	}
	return &saved, nil
}

// GetScores returns userID's stored scores against otherIDs. Pairs without a row are absent.
func (r *ProfileRepository) GetScores(ctx context.Context, userID uuid.UUID, otherIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	out := make(map[uuid.UUID]float64, len(otherIDs))
	if len(otherIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT user_id, other_user_id, score
		FROM match_scores
		WHERE user_id = $1 AND other_user_id = ANY($2::uuid[])
	`

	var rows []entity.MatchScore
	if err := r.DB.SelectContext(ctx, &rows, query, userID, pq.Array(uuidStrings(otherIDs))); err != nil {
		logger.Error("ProfileRepository:GetScores", "error", err, "user_id", userID)
		return nil, err
	}
	for _, s := range rows {
		out[s.OtherUserID] = s.Score
	}
	return out, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// nonNil keeps NOT NULL array columns from receiving a SQL NULL.
func nonNil(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	return a
}
