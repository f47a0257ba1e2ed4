package repository

import (
	"database/sql"
	"errors"

	"github.com/caddieai/caddie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrRecommendationNotFound = errors.New("club recommendation not found")
)

type ClubRecommendationRepository interface {
	Create(rec *model.ClubRecommendation) error
	ByID(id string) (*model.ClubRecommendation, error)
	List(userID, roundID string, limit int) ([]*model.ClubRecommendation, error)
	SaveFeedback(id string, accepted bool, actualClub *string) error
}

type clubRecommendationRepository struct {
	db *sqlx.DB
}

func NewClubRecommendationRepository(db *sqlx.DB) ClubRecommendationRepository {
	return &clubRecommendationRepository{db: db}
}

func (r *clubRecommendationRepository) Create(rec *model.ClubRecommendation) error {
	query := `
		INSERT INTO club_recommendations (id, user_id, round_id, hole_number, distance_yards, plays_like_yards,
			recommended_club, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		rec.ID,
		rec.UserID,
		rec.RoundID,
		rec.HoleNumber,
		rec.DistanceYards,
		rec.PlaysLikeYards,
		rec.RecommendedClub,
		rec.Reason,
		rec.CreatedAt,
	)
	return err
}

func (r *clubRecommendationRepository) ByID(id string) (*model.ClubRecommendation, error) {
	rec := &model.ClubRecommendation{}
	query := `SELECT * FROM club_recommendations WHERE id = $1`

	err := r.db.Get(rec, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRecommendationNotFound
	}

	return rec, err
}

// List returns the user's newest recommendations, optionally narrowed to one round.
func (r *clubRecommendationRepository) List(userID, roundID string, limit int) ([]*model.ClubRecommendation, error) {
	recs := []*model.ClubRecommendation{}
	query := `
		SELECT * FROM club_recommendations
		WHERE user_id = $1 AND ($2 = '' OR round_id = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`

	err := r.db.Select(&recs, query, userID, roundID, roundID, limit)
	if err != nil {
		return nil, err
	}

	return recs, nil
}

func (r *clubRecommendationRepository) SaveFeedback(id string, accepted bool, actualClub *string) error {
	query := `UPDATE club_recommendations SET was_accepted = $1, actual_club_used = $2 WHERE id = $3`

	result, err := r.db.Exec(query, accepted, actualClub, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrRecommendationNotFound)
}
