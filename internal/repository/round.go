package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrRoundNotFound      = errors.New("round not found")
	ErrActiveRoundExists  = errors.New("user already has an active round")
	ErrRoundStatusChanged = errors.New("round status changed concurrently")
)

type RoundRepository interface {
	Create(round *model.Round) error
	ByID(id string) (*model.Round, error)
	Active(userID string) (*model.Round, error)
	List(userID, status string, limit, offset int) ([]*model.Round, int, error)
	Completed(userID string, limit int) ([]*model.Round, error)
	Update(round *model.Round) error
	Transition(id, from, to string, endTime *time.Time) (*model.Round, error)
	Delete(id string) error
}

type roundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) RoundRepository {
	return &roundRepository{db: db}
}

// Create inserts a new round. The partial unique index on active rounds turns a
// concurrent second start into ErrActiveRoundExists.
func (r *roundRepository) Create(round *model.Round) error {
	query := `
		INSERT INTO rounds (id, user_id, course_id, round_date, start_time, current_hole, status,
			weather_conditions, temperature, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(query,
		round.ID,
		round.UserID,
		round.CourseID,
		round.RoundDate,
		round.StartTime,
		round.CurrentHole,
		round.Status,
		round.WeatherConditions,
		round.Temperature,
		round.Notes,
		round.CreatedAt,
		round.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrActiveRoundExists
	}

	return err
}

func (r *roundRepository) ByID(id string) (*model.Round, error) {
	round := &model.Round{}
	query := `SELECT * FROM rounds WHERE id = $1`

	err := r.db.Get(round, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRoundNotFound
	}

	return round, err
}

func (r *roundRepository) Active(userID string) (*model.Round, error) {
	round := &model.Round{}
	query := `
		SELECT * FROM rounds
		WHERE user_id = $1 AND status IN ('in_progress', 'paused')
		ORDER BY start_time DESC
		LIMIT 1
	`

	err := r.db.Get(round, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrRoundNotFound
	}

	return round, err
}

// List returns a page of the user's rounds, newest first. An empty status matches all.
func (r *roundRepository) List(userID, status string, limit, offset int) ([]*model.Round, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM rounds WHERE user_id = $1 AND ($2 = '' OR status = $3)`
	err := r.db.Get(&total, countQuery, userID, status, status)
	if err != nil {
		return nil, 0, err
	}

	rounds := []*model.Round{}
	query := `
		SELECT * FROM rounds
		WHERE user_id = $1 AND ($2 = '' OR status = $3)
		ORDER BY round_date DESC, start_time DESC
		LIMIT $4 OFFSET $5
	`
	err = r.db.Select(&rounds, query, userID, status, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return rounds, total, nil
}

// Completed returns up to limit completed rounds, newest first.
func (r *roundRepository) Completed(userID string, limit int) ([]*model.Round, error) {
	rounds := []*model.Round{}
	query := `
		SELECT * FROM rounds
		WHERE user_id = $1 AND status = 'completed'
		ORDER BY round_date DESC, start_time DESC
		LIMIT $2
	`

	err := r.db.Select(&rounds, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return rounds, nil
}

// Update saves everything except status, which only moves through Transition.
func (r *roundRepository) Update(round *model.Round) error {
	query := `
		UPDATE rounds
		SET current_hole = $1, total_score = $2, total_putts = $3, fairways_hit = $4,
			greens_in_regulation = $5, weather_conditions = $6, temperature = $7, notes = $8,
			scorecard_file_id = $9, updated_at = $10
		WHERE id = $11
	`

	result, err := r.db.Exec(query,
		round.CurrentHole,
		round.TotalScore,
		round.TotalPutts,
		round.FairwaysHit,
		round.GreensInRegulation,
		round.WeatherConditions,
		round.Temperature,
		round.Notes,
		round.ScorecardFileID,
		round.UpdatedAt,
		round.ID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrRoundNotFound)
}

// Transition moves the round from one status to another in a single guarded UPDATE.
// If the round is no longer in status from, nothing changes and ErrRoundStatusChanged is returned.
func (r *roundRepository) Transition(id, from, to string, endTime *time.Time) (*model.Round, error) {
	round := &model.Round{}
	query := `
		UPDATE rounds
		SET status = $1, end_time = COALESCE($2, end_time), updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING *
	`

	err := r.db.Get(round, query, to, endTime, time.Now().UTC(), id, from)
	if err == sql.ErrNoRows {
		return nil, ErrRoundStatusChanged
	}
	if db.IsUniqueViolation(err) {
		return nil, ErrActiveRoundExists
	}
	if err != nil {
		return nil, err
	}

	return round, nil
}

func (r *roundRepository) Delete(id string) error {
	query := `DELETE FROM rounds WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrRoundNotFound)
}
