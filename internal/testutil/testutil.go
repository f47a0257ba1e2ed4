// Package testutil provides SQLite-backed databases and fixtures for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewDB opens a migrated SQLite database that lives for the duration of the test.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "caddie.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	t.Cleanup(func() { _ = db.Close(database) })
	return database
}

// CreateUser inserts a golfer with the given email.
func CreateUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()

	now := time.Now().UTC()
	hash := "$2a$10$abcdefghijklmnopqrstuuJ0m3Qf3mXq5mTq0Gq3u8YvRk1aC2xW"
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		FirstName:    "Test",
		LastName:     "Golfer",
		SkillLevel:   model.SkillIntermediate,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := database.Exec(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, skill_level, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.SkillLevel, user.Role, user.CreatedAt, user.UpdatedAt)
	require.NoError(t, err)

	return user
}

// CreateCourse inserts an active course near Pebble Beach with holes numbered
// 1..holes. Odd holes are par 4, even holes par 3 or 5 alternately. Every hole
// has tee and pin coordinates about 400 yards apart heading north.
func CreateCourse(t *testing.T, database *sqlx.DB, name string, holes int) (*model.Course, []*model.Hole) {
	t.Helper()

	now := time.Now().UTC()
	rating := 72.0
	slope := 130
	course := &model.Course{
		ID:           uuid.New().String(),
		Name:         name,
		City:         "Pebble Beach",
		State:        "CA",
		Country:      "USA",
		Latitude:     36.5686,
		Longitude:    -121.9505,
		TotalHoles:   holes,
		CourseRating: &rating,
		SlopeRating:  &slope,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var list []*model.Hole
	for n := 1; n <= holes; n++ {
		par := 4
		switch {
		case n%4 == 2:
			par = 3
		case n%4 == 0:
			par = 5
		}
		course.ParTotal += par

		teeLat := course.Latitude + float64(n)*0.005
		teeLon := course.Longitude
		pinLat := teeLat + 0.0033 // ~400 yards north
		pinLon := teeLon
		list = append(list, &model.Hole{
			ID:           uuid.New().String(),
			CourseID:     course.ID,
			HoleNumber:   n,
			Par:          par,
			Yardage:      400,
			TeeLatitude:  &teeLat,
			TeeLongitude: &teeLon,
			PinLatitude:  &pinLat,
			PinLongitude: &pinLon,
			Description:  fmt.Sprintf("Hole %d", n),
		})
	}

	_, err := database.Exec(`
		INSERT INTO courses (id, name, city, state, country, latitude, longitude, total_holes, par_total,
			course_rating, slope_rating, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, course.ID, course.Name, course.City, course.State, course.Country, course.Latitude, course.Longitude,
		course.TotalHoles, course.ParTotal, course.CourseRating, course.SlopeRating, course.IsActive, course.CreatedAt, course.UpdatedAt)
	require.NoError(t, err)

	for _, h := range list {
		_, err := database.Exec(`
			INSERT INTO holes (id, course_id, hole_number, par, yardage, tee_latitude, tee_longitude,
				pin_latitude, pin_longitude, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, h.ID, h.CourseID, h.HoleNumber, h.Par, h.Yardage, h.TeeLatitude, h.TeeLongitude, h.PinLatitude, h.PinLongitude, h.Description)
		require.NoError(t, err)
	}

	return course, list
}
