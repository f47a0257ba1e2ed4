package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrHoleNotFound   = errors.New("hole not found")
	ErrDuplicateHole  = errors.New("hole number already exists on course")
	ErrHolesScored    = errors.New("holes past the new total already have scores")
)

// BoundingBox limits a coordinate search before exact distances are computed.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

type CourseRepository interface {
	List(search string, limit, offset int) ([]*model.Course, int, error)
	ByID(id string) (*model.Course, error)
	ByName(name string) (*model.Course, error)
	InBox(box BoundingBox) ([]*model.Course, error)
	Holes(courseID string) ([]*model.Hole, error)
	Hole(courseID string, number int) (*model.Hole, error)
	Create(ctx context.Context, course *model.Course, holes []*model.Hole) error
	Update(ctx context.Context, course *model.Course, holes []*model.Hole) error
	Deactivate(id string) error
}

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(search string, limit, offset int) ([]*model.Course, int, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM courses WHERE is_active = TRUE AND (LOWER(name) LIKE $1 OR LOWER(city) LIKE $2)`
	err := r.db.Get(&total, countQuery, pattern, pattern)
	if err != nil {
		return nil, 0, err
	}

	courses := []*model.Course{}
	query := `
		SELECT * FROM courses
		WHERE is_active = TRUE AND (LOWER(name) LIKE $1 OR LOWER(city) LIKE $2)
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`
	err = r.db.Select(&courses, query, pattern, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) ByID(id string) (*model.Course, error) {
	course := &model.Course{}
	query := `SELECT * FROM courses WHERE id = $1`

	err := r.db.Get(course, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCourseNotFound
	}

	return course, err
}

func (r *courseRepository) ByName(name string) (*model.Course, error) {
	course := &model.Course{}
	query := `SELECT * FROM courses WHERE name = $1 ORDER BY created_at ASC LIMIT 1`

	err := r.db.Get(course, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrCourseNotFound
	}

	return course, err
}

func (r *courseRepository) InBox(box BoundingBox) ([]*model.Course, error) {
	courses := []*model.Course{}
	query := `
		SELECT * FROM courses
		WHERE is_active = TRUE
		AND latitude BETWEEN $1 AND $2
		AND longitude BETWEEN $3 AND $4
	`

	err := r.db.Select(&courses, query, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Holes(courseID string) ([]*model.Hole, error) {
	holes := []*model.Hole{}
	query := `SELECT * FROM holes WHERE course_id = $1 ORDER BY hole_number ASC`

	err := r.db.Select(&holes, query, courseID)
	if err != nil {
		return nil, err
	}

	return holes, nil
}

func (r *courseRepository) Hole(courseID string, number int) (*model.Hole, error) {
	hole := &model.Hole{}
	query := `SELECT * FROM holes WHERE course_id = $1 AND hole_number = $2`

	err := r.db.Get(hole, query, courseID, number)
	if err == sql.ErrNoRows {
		return nil, ErrHoleNotFound
	}

	return hole, err
}

// Create inserts the course and its holes in one transaction.
func (r *courseRepository) Create(ctx context.Context, course *model.Course, holes []*model.Hole) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO courses (id, name, description, address, city, state, country, phone, website,
				latitude, longitude, total_holes, par_total, course_rating, slope_rating, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		`
		_, err := tx.Exec(query,
			course.ID,
			course.Name,
			course.Description,
			course.Address,
			course.City,
			course.State,
			course.Country,
			course.Phone,
			course.Website,
			course.Latitude,
			course.Longitude,
			course.TotalHoles,
			course.ParTotal,
			course.CourseRating,
			course.SlopeRating,
			course.IsActive,
			course.CreatedAt,
			course.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return insertHoles(tx, course.ID, holes)
	})
}

// Update saves the course columns. A non-nil holes slice replaces the existing layout.
func (r *courseRepository) Update(ctx context.Context, course *model.Course, holes []*model.Hole) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE courses
			SET name = $1, description = $2, address = $3, city = $4, state = $5, country = $6, phone = $7,
				website = $8, latitude = $9, longitude = $10, total_holes = $11, par_total = $12,
				course_rating = $13, slope_rating = $14, is_active = $15, updated_at = $16
			WHERE id = $17
		`
		result, err := tx.Exec(query,
			course.Name,
			course.Description,
			course.Address,
			course.City,
			course.State,
			course.Country,
			course.Phone,
			course.Website,
			course.Latitude,
			course.Longitude,
			course.TotalHoles,
			course.ParTotal,
			course.CourseRating,
			course.SlopeRating,
			course.IsActive,
			course.UpdatedAt,
			course.ID,
		)
		if err != nil {
			return err
		}

		err = expectRow(result, ErrCourseNotFound)
		if err != nil {
			return err
		}

		err = trimHoles(tx, course.ID, course.TotalHoles)
		if err != nil || holes == nil {
			return err
		}

		// Holes that already have scores are updated in place so hole_scores keep their reference.
		for _, hole := range holes {
			hole.CourseID = course.ID
			result, err := tx.Exec(`
				UPDATE holes
				SET par = $1, yardage = $2, stroke_index = $3, tee_latitude = $4, tee_longitude = $5,
					pin_latitude = $6, pin_longitude = $7, description = $8, tips = $9
				WHERE course_id = $10 AND hole_number = $11
			`,
				hole.Par,
				hole.Yardage,
				hole.StrokeIndex,
				hole.TeeLatitude,
				hole.TeeLongitude,
				hole.PinLatitude,
				hole.PinLongitude,
				hole.Description,
				hole.Tips,
				course.ID,
				hole.HoleNumber,
			)
			if err != nil {
				return err
			}

			rows, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if rows > 0 {
				continue
			}

			err = insertHoles(tx, course.ID, []*model.Hole{hole})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// trimHoles removes holes numbered past total. Scored holes are kept and the
// update is refused with ErrHolesScored.
func trimHoles(tx *sqlx.Tx, courseID string, total int) error {
	var scored int
	err := tx.Get(&scored, `
		SELECT COUNT(*) FROM hole_scores hs
		JOIN holes h ON h.id = hs.hole_id
		WHERE h.course_id = $1 AND h.hole_number > $2
	`, courseID, total)
	if err != nil {
		return err
	}
	if scored > 0 {
		return ErrHolesScored
	}

	_, err = tx.Exec(`DELETE FROM holes WHERE course_id = $1 AND hole_number > $2`, courseID, total)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE rounds SET current_hole = $1
		WHERE course_id = $2 AND current_hole > $1 AND status IN ('in_progress', 'paused')
	`, total, courseID)
	return err
}

func insertHoles(tx *sqlx.Tx, courseID string, holes []*model.Hole) error {
	query := `
		INSERT INTO holes (id, course_id, hole_number, par, yardage, stroke_index,
			tee_latitude, tee_longitude, pin_latitude, pin_longitude, description, tips)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, hole := range holes {
		if hole.ID == "" {
			hole.ID = uuid.New().String()
		}
		hole.CourseID = courseID

		_, err := tx.Exec(query,
			hole.ID,
			hole.CourseID,
			hole.HoleNumber,
			hole.Par,
			hole.Yardage,
			hole.StrokeIndex,
			hole.TeeLatitude,
			hole.TeeLongitude,
			hole.PinLatitude,
			hole.PinLongitude,
			hole.Description,
			hole.Tips,
		)
		if db.IsUniqueViolation(err) {
			return ErrDuplicateHole
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// Deactivate hides the course from listings. Rounds played on it keep their reference.
func (r *courseRepository) Deactivate(id string) error {
	query := `UPDATE courses SET is_active = FALSE WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return expectRow(result, ErrCourseNotFound)
}
