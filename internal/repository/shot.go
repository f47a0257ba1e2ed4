package repository

import (
	"database/sql"
	"errors"

	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrShotNotFound  = errors.New("shot not found")
	ErrDuplicateShot = errors.New("shot number already recorded for hole")
)

type ShotRepository interface {
	Create(shot *model.Shot) error
	ByID(id string) (*model.Shot, error)
	Last(roundID string, holeNumber int) (*model.Shot, error)
	ByRound(roundID string, holeNumber int) ([]*model.Shot, error)
	Delete(id string) error
}

type shotRepository struct {
	db *sqlx.DB
}

func NewShotRepository(db *sqlx.DB) ShotRepository {
	return &shotRepository{db: db}
}

func (r *shotRepository) Create(shot *model.Shot) error {
	query := `
		INSERT INTO shots (id, round_id, hole_number, shot_number, latitude, longitude, club, distance_yards, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		shot.ID,
		shot.RoundID,
		shot.HoleNumber,
		shot.ShotNumber,
		shot.Latitude,
		shot.Longitude,
		shot.Club,
		shot.DistanceYards,
		shot.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateShot
	}

	return err
}

func (r *shotRepository) ByID(id string) (*model.Shot, error) {
	shot := &model.Shot{}
	query := `SELECT * FROM shots WHERE id = $1`

	err := r.db.Get(shot, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrShotNotFound
	}

	return shot, err
}

// Last returns the highest-numbered shot on the hole.
func (r *shotRepository) Last(roundID string, holeNumber int) (*model.Shot, error) {
	shot := &model.Shot{}
	query := `
		SELECT * FROM shots
		WHERE round_id = $1 AND hole_number = $2
		ORDER BY shot_number DESC
		LIMIT 1
	`

	err := r.db.Get(shot, query, roundID, holeNumber)
	if err == sql.ErrNoRows {
		return nil, ErrShotNotFound
	}

	return shot, err
}

// ByRound lists the round's shots. holeNumber 0 returns every hole.
func (r *shotRepository) ByRound(roundID string, holeNumber int) ([]*model.Shot, error) {
	shots := []*model.Shot{}
	query := `
		SELECT * FROM shots
		WHERE round_id = $1 AND ($2 = 0 OR hole_number = $3)
		ORDER BY hole_number ASC, shot_number ASC
	`

	err := r.db.Select(&shots, query, roundID, holeNumber, holeNumber)
	if err != nil {
		return nil, err
	}

	return shots, nil
}

func (r *shotRepository) Delete(id string) error {
	query := `DELETE FROM shots WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrShotNotFound)
}
