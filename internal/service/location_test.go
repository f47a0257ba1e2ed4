package service

import (
	"testing"
	"time"

	"github.com/caddieai/caddie/internal/golf"
	"github.com/caddieai/caddie/internal/live"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateLocationFromTee(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)
	tee := holes[0]

	loc, err := f.locations.UpdateLocation(user.ID, round.ID, LocationInput{Latitude: *tee.TeeLatitude, Longitude: *tee.TeeLongitude})
	require.NoError(t, err)

	assert.Equal(t, 1, loc.HoleNumber)
	require.NotNil(t, loc.DistanceToPinYards)
	assert.InDelta(t, 401, *loc.DistanceToPinYards, 4)
	assert.Equal(t, "N", loc.Direction)
	require.NotNil(t, loc.DistanceFromTee)
	assert.Zero(t, *loc.DistanceFromTee)
	require.NotNil(t, loc.Recommendation)
	assert.Equal(t, golf.ClubDriver, loc.Recommendation.Club)

	assert.Contains(t, f.events.types(), live.EventLocationUpdated)
}

func TestUpdateLocationRejectsBadCoordinates(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)

	_, err := f.locations.UpdateLocation(user.ID, round.ID, LocationInput{Latitude: 91, Longitude: 0})
	assert.Error(t, err)
}

func TestPlaceShotMeasuresFromPreviousShot(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)
	lat, lon := *holes[0].TeeLatitude, *holes[0].TeeLongitude

	drive, err := f.locations.PlaceShot(user.ID, round.ID, PlaceShotInput{HoleNumber: 1, Latitude: lat + 0.002, Longitude: lon, Club: "Driver"})
	require.NoError(t, err)
	assert.Equal(t, 1, drive.Shot.ShotNumber)
	require.NotNil(t, drive.Shot.DistanceYards)
	assert.InDelta(t, 243, *drive.Shot.DistanceYards, 3)

	approach, err := f.locations.PlaceShot(user.ID, round.ID, PlaceShotInput{Latitude: lat + 0.003, Longitude: lon, Club: "7 Iron"})
	require.NoError(t, err)
	assert.Equal(t, 2, approach.Shot.ShotNumber)
	assert.Equal(t, 1, approach.Shot.HoleNumber, "defaults to the current hole")
	assert.InDelta(t, 122, *approach.Shot.DistanceYards, 2)
	require.NotNil(t, approach.DistanceToPinYards)
	assert.InDelta(t, 36, *approach.DistanceToPinYards, 2)
	assert.Equal(t, golf.ClubWedge, approach.NextClub.Club)

	shots, err := f.locations.Shots(user.ID, round.ID, 1)
	require.NoError(t, err)
	assert.Len(t, shots, 2)

	require.NoError(t, f.locations.DeleteShot(user.ID, round.ID, drive.Shot.ID))
	err = f.locations.DeleteShot(user.ID, round.ID, drive.Shot.ID)
	assert.ErrorIs(t, err, repository.ErrShotNotFound)
}

func TestDeleteShotFromAnotherRound(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)

	shot, err := f.locations.PlaceShot(user.ID, round.ID, PlaceShotInput{HoleNumber: 1, Latitude: *holes[0].PinLatitude, Longitude: *holes[0].PinLongitude})
	require.NoError(t, err)
	assert.Nil(t, shot.NextClub, "ball at the pin needs no club")

	_, err = f.rounds.Abandon(user.ID, round.ID)
	require.NoError(t, err)
	other := f.startRound(t, user.ID, course.ID)

	err = f.locations.DeleteShot(user.ID, other.ID, shot.Shot.ID)
	assert.ErrorIs(t, err, repository.ErrShotNotFound)
}

// racingShots saves a competing shot right before the first insert, the way a
// second device placing a shot on the same hole would.
type racingShots struct {
	repository.ShotRepository
	raced bool
}

func (r *racingShots) Create(shot *model.Shot) error {
	if !r.raced {
		r.raced = true
		err := r.ShotRepository.Create(&model.Shot{
			ID:         uuid.New().String(),
			RoundID:    shot.RoundID,
			HoleNumber: shot.HoleNumber,
			ShotNumber: shot.ShotNumber,
			Latitude:   shot.Latitude,
			Longitude:  shot.Longitude,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			return err
		}
	}
	return r.ShotRepository.Create(shot)
}

func TestPlaceShotRenumbersAfterRace(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)

	shots := &racingShots{ShotRepository: repository.NewShotRepository(f.db)}
	locations := NewLocationService(f.rounds, repository.NewCourseRepository(f.db), shots, nil)

	placed, err := locations.PlaceShot(user.ID, round.ID, PlaceShotInput{
		HoleNumber: 1,
		Latitude:   *holes[0].TeeLatitude + 0.002,
		Longitude:  *holes[0].TeeLongitude,
		Club:       "Driver",
	})
	require.NoError(t, err)
	assert.True(t, shots.raced)
	assert.Equal(t, 2, placed.Shot.ShotNumber)

	list, err := locations.Shots(user.ID, round.ID, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
