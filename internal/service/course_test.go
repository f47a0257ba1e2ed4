package service

import (
	"context"
	"testing"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/testutil"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nineHoles() []HoleInput {
	var holes []HoleInput
	for n := 1; n <= 9; n++ {
		par := 4
		if n == 3 || n == 7 {
			par = 3
		}
		if n == 5 {
			par = 5
		}
		holes = append(holes, HoleInput{HoleNumber: n, Par: par, Yardage: 100 + n*30})
	}
	return holes
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	golfer := &model.User{ID: "u1", Role: model.RoleUser}

	_, err := f.courses.Create(context.Background(), golfer, CourseInput{Name: "Nope", Holes: nineHoles()})
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.courses.Delete(golfer, "any")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateCourseDerivesPar(t *testing.T) {
	f := newFixture(t)
	admin := &model.User{ID: "admin", Role: model.RoleAdmin}

	course, err := f.courses.Create(context.Background(), admin, CourseInput{
		Name:      "  Harbour Nine ",
		City:      "Monterey",
		Latitude:  36.60,
		Longitude: -121.89,
		Holes:     nineHoles(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Harbour Nine", course.Name)
	assert.Equal(t, 9, course.TotalHoles)
	assert.Equal(t, 35, course.ParTotal)
	require.Len(t, course.Holes, 9)
	assert.Equal(t, 1, course.Holes[0].HoleNumber)
}

func TestCreateCourseValidation(t *testing.T) {
	f := newFixture(t)
	admin := &model.User{ID: "admin", Role: model.RoleAdmin}

	dup := nineHoles()
	dup[1].HoleNumber = 1
	slope := 200

	tests := []struct {
		name  string
		input CourseInput
		field string
	}{
		{"missing name", CourseInput{Holes: nineHoles()}, "name"},
		{"duplicate hole", CourseInput{Name: "Dup", Holes: dup}, "holes"},
		{"hole past total", CourseInput{Name: "Past", TotalHoles: 9, Holes: []HoleInput{{HoleNumber: 10, Par: 4}}}, "holes"},
		{"twelve holes", CourseInput{Name: "Odd", TotalHoles: 12}, "total_holes"},
		{"slope", CourseInput{Name: "Steep", SlopeRating: &slope}, "slope_rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.courses.Create(context.Background(), admin, tt.input)
			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestListAndNearbyCourses(t *testing.T) {
	f := newFixture(t)
	links, _ := testutil.CreateCourse(t, f.db, "Pebble Links", 18)
	testutil.CreateCourse(t, f.db, "Spyglass Hill", 18)

	page, err := f.courses.List("LINKS", 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, links.ID, page.Items[0].ID)

	page, err = f.courses.List("", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	nearby, err := f.courses.Nearby(36.57, -121.95, 5)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	require.NotNil(t, nearby[0].DistanceMiles)
	assert.Less(t, *nearby[0].DistanceMiles, 1.0)

	far, err := f.courses.Nearby(40.71, -74.0, 25)
	require.NoError(t, err)
	assert.Empty(t, far)

	_, err = f.courses.Nearby(36.57, -121.95, 500)
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
}

func TestDeleteCourseHidesIt(t *testing.T) {
	f := newFixture(t)
	admin := &model.User{ID: "admin", Role: model.RoleAdmin}
	course, _ := testutil.CreateCourse(t, f.db, "Closing Down", 9)

	require.NoError(t, f.courses.Delete(admin, course.ID))

	page, err := f.courses.List("closing", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	_, err = f.rounds.Start(user.ID, StartRoundInput{CourseID: course.ID})
	assert.ErrorIs(t, err, ErrCourseInactive)

	err = f.courses.Delete(admin, "missing")
	assert.ErrorIs(t, err, repository.ErrCourseNotFound)
}

func TestUpdateCourseKeepsTotals(t *testing.T) {
	f := newFixture(t)
	admin := &model.User{ID: "admin", Role: model.RoleAdmin}
	course, _ := testutil.CreateCourse(t, f.db, "Links", 9)

	tips := "Aim left of the bunker"
	updated, err := f.courses.Update(context.Background(), admin, course.ID, CourseInput{
		Name:      "Links Renamed",
		Latitude:  course.Latitude,
		Longitude: course.Longitude,
		Holes:     []HoleInput{{HoleNumber: 1, Par: 5, Yardage: 510, Tips: tips}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Links Renamed", updated.Name)
	assert.Equal(t, 9, updated.TotalHoles)
	assert.Equal(t, course.ParTotal, updated.ParTotal)
	require.Len(t, updated.Holes, 9)
	assert.Equal(t, 5, updated.Holes[0].Par)
	assert.Equal(t, tips, updated.Holes[0].Tips)
}

func TestUpdateCourseShrinksLayout(t *testing.T) {
	f := newFixture(t)
	admin := &model.User{ID: "admin", Role: model.RoleAdmin}
	course, _ := testutil.CreateCourse(t, f.db, "Links", 18)

	updated, err := f.courses.Update(context.Background(), admin, course.ID, CourseInput{
		Name:       course.Name,
		Latitude:   course.Latitude,
		Longitude:  course.Longitude,
		TotalHoles: 9,
		Holes:      nineHoles(),
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.TotalHoles)
	assert.Equal(t, 35, updated.ParTotal)
	require.Len(t, updated.Holes, 9)
	assert.Equal(t, 9, updated.Holes[8].HoleNumber)

	other, _ := testutil.CreateCourse(t, f.db, "Dunes", 18)
	updated, err = f.courses.Update(context.Background(), admin, other.ID, CourseInput{
		Name:       other.Name,
		Latitude:   other.Latitude,
		Longitude:  other.Longitude,
		TotalHoles: 9,
	})
	require.NoError(t, err)
	require.Len(t, updated.Holes, 9)
	assert.Equal(t, 36, updated.ParTotal)
}

func TestUpdateCourseKeepsScoredHoles(t *testing.T) {
	f := newFixture(t)
	admin := &model.User{ID: "admin", Role: model.RoleAdmin}
	golfer := testutil.CreateUser(t, f.db, "back9@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 18)

	round := f.startRound(t, golfer.ID, course.ID)
	_, err := f.scores.RecordScore(golfer.ID, round.ID, 12, RecordScoreInput{Score: 4})
	require.NoError(t, err)

	_, err = f.courses.Update(context.Background(), admin, course.ID, CourseInput{
		Name:       course.Name,
		Latitude:   course.Latitude,
		Longitude:  course.Longitude,
		TotalHoles: 9,
	})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "total_holes")

	unchanged, err := f.courses.Get(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, unchanged.TotalHoles)
	assert.Len(t, unchanged.Holes, 18)
}
