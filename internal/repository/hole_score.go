package repository

import (
	"github.com/caddieai/caddie/internal/model"
	"github.com/jmoiron/sqlx"
)

type HoleScoreRepository interface {
	Upsert(score *model.HoleScore) (*model.HoleScore, error)
	ByRound(roundID string) ([]*model.HoleScore, error)
	CompletedByUser(userID string) ([]*model.HoleScore, error)
}

type holeScoreRepository struct {
	db *sqlx.DB
}

func NewHoleScoreRepository(db *sqlx.DB) HoleScoreRepository {
	return &holeScoreRepository{db: db}
}

// Upsert records the score for (round, hole). A second call for the same hole
// overwrites the first and keeps the original id and created_at.
func (r *holeScoreRepository) Upsert(score *model.HoleScore) (*model.HoleScore, error) {
	saved := &model.HoleScore{}
	query := `
		INSERT INTO hole_scores (id, round_id, hole_id, hole_number, score, putts, fairway_hit,
			green_in_regulation, penalties, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (round_id, hole_number) DO UPDATE SET
			hole_id = excluded.hole_id,
			score = excluded.score,
			putts = excluded.putts,
			fairway_hit = excluded.fairway_hit,
			green_in_regulation = excluded.green_in_regulation,
			penalties = excluded.penalties,
			notes = excluded.notes,
			updated_at = excluded.updated_at
		RETURNING *
	`

	err := r.db.Get(saved, query,
		score.ID,
		score.RoundID,
		score.HoleID,
		score.HoleNumber,
		score.Score,
		score.Putts,
		score.FairwayHit,
		score.GreenInRegulation,
		score.Penalties,
		score.Notes,
		score.CreatedAt,
		score.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	saved.Par = score.Par
	return saved, nil
}

func (r *holeScoreRepository) ByRound(roundID string) ([]*model.HoleScore, error) {
	scores := []*model.HoleScore{}
	query := `
		SELECT hs.*, h.par AS par
		FROM hole_scores hs
		JOIN holes h ON h.id = hs.hole_id
		WHERE hs.round_id = $1
		ORDER BY hs.hole_number ASC
	`

	err := r.db.Select(&scores, query, roundID)
	if err != nil {
		return nil, err
	}

	return scores, nil
}

// CompletedByUser returns every hole score from the user's completed rounds.
func (r *holeScoreRepository) CompletedByUser(userID string) ([]*model.HoleScore, error) {
	scores := []*model.HoleScore{}
	query := `
		SELECT hs.*, h.par AS par
		FROM hole_scores hs
		JOIN holes h ON h.id = hs.hole_id
		JOIN rounds r ON r.id = hs.round_id
		WHERE r.user_id = $1 AND r.status = 'completed'
		ORDER BY r.round_date ASC, hs.hole_number ASC
	`

	err := r.db.Select(&scores, query, userID)
	if err != nil {
		return nil, err
	}

	return scores, nil
}
