package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caddieai/caddie/internal/golf"
	"github.com/caddieai/caddie/internal/live"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/google/uuid"
)

// maxShotAttempts bounds how often PlaceShot renumbers after losing a race on the same hole.
const maxShotAttempts = 3

type LocationInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HoleLocation describes where the golfer stands on the current hole.
type HoleLocation struct {
	RoundID            string               `json:"round_id"`
	HoleNumber         int                  `json:"hole_number"`
	Par                int                  `json:"par"`
	Latitude           float64              `json:"latitude"`
	Longitude          float64              `json:"longitude"`
	DistanceToPinYards *float64             `json:"distance_to_pin_yards"`
	BearingToPin       *float64             `json:"bearing_to_pin"`
	Direction          string               `json:"direction,omitempty"`
	DistanceFromTee    *float64             `json:"distance_from_tee_yards"`
	Recommendation     *golf.Recommendation `json:"recommendation,omitempty"`
}

type PlaceShotInput struct {
	HoleNumber int     `json:"hole_number"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Club       string  `json:"club"`
}

type PlacedShot struct {
	Shot               *model.Shot          `json:"shot"`
	DistanceToPinYards *float64             `json:"distance_to_pin_yards"`
	NextClub           *golf.Recommendation `json:"next_club,omitempty"`
}

type LocationService struct {
	rounds           *RoundService
	courseRepository repository.CourseRepository
	shotRepository   repository.ShotRepository
	events           EventPublisher
}

func NewLocationService(rounds *RoundService, courseRepository repository.CourseRepository, shotRepository repository.ShotRepository, events EventPublisher) *LocationService {
	return &LocationService{
		rounds:           rounds,
		courseRepository: courseRepository,
		shotRepository:   shotRepository,
		events:           events,
	}
}

// UpdateLocation reports distances on the round's current hole. Nothing is stored.
func (s *LocationService) UpdateLocation(userID, roundID string, in LocationInput) (*HoleLocation, error) {
	round, err := s.rounds.owned(userID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return nil, ErrInvalidRoundStatus
	}

	err = validation.ValidateCoordinates(in.Latitude, in.Longitude)
	if err != nil {
		return nil, invalid("location", err)
	}

	hole, err := s.courseRepository.Hole(round.CourseID, round.CurrentHole)
	if err != nil {
		return nil, err
	}

	here := golf.Point{Lat: in.Latitude, Lon: in.Longitude}
	loc := &HoleLocation{
		RoundID:    round.ID,
		HoleNumber: hole.HoleNumber,
		Par:        hole.Par,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
	}

	if hole.HasPin() {
		pin := golf.Point{Lat: *hole.PinLatitude, Lon: *hole.PinLongitude}
		distance := golf.Round1(golf.DistanceYards(here, pin))
		bearing := golf.Round1(golf.Bearing(here, pin))
		loc.DistanceToPinYards = &distance
		loc.BearingToPin = &bearing
		loc.Direction = golf.CompassDirection(bearing)
		loc.Recommendation = recommendFor(distance)
	}
	if hole.HasTee() {
		tee := golf.Point{Lat: *hole.TeeLatitude, Lon: *hole.TeeLongitude}
		fromTee := golf.Round1(golf.DistanceYards(tee, here))
		loc.DistanceFromTee = &fromTee
	}

	if s.events != nil {
		s.events.Publish(userID, live.Event{Type: live.EventLocationUpdated, RoundID: round.ID, Data: loc})
	}

	return loc, nil
}

// PlaceShot records where a shot came to rest and how far it travelled.
func (s *LocationService) PlaceShot(userID, roundID string, in PlaceShotInput) (*PlacedShot, error) {
	round, err := s.rounds.owned(userID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return nil, ErrInvalidRoundStatus
	}

	if in.HoleNumber == 0 {
		in.HoleNumber = round.CurrentHole
	}
	err = validation.ValidateCoordinates(in.Latitude, in.Longitude)
	if err != nil {
		return nil, invalid("location", err)
	}

	hole, err := s.courseRepository.Hole(round.CourseID, in.HoleNumber)
	if err != nil {
		if errors.Is(err, repository.ErrHoleNotFound) {
			return nil, invalid("hole_number", fmt.Errorf("hole %d is not set up for this course", in.HoleNumber))
		}
		return nil, err
	}

	here := golf.Point{Lat: in.Latitude, Lon: in.Longitude}
	shot := &model.Shot{
		ID:         uuid.New().String(),
		RoundID:    round.ID,
		HoleNumber: hole.HoleNumber,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Club:       strings.TrimSpace(in.Club),
		CreatedAt:  time.Now().UTC(),
	}

	// Another placement on the same hole may take the shot number first.
	for attempt := 1; ; attempt++ {
		err = s.numberShot(shot, hole, here)
		if err != nil {
			return nil, err
		}

		err = s.shotRepository.Create(shot)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateShot) || attempt == maxShotAttempts {
			return nil, fmt.Errorf("failed to save shot: %w", err)
		}
	}

	placed := &PlacedShot{Shot: shot}
	if hole.HasPin() {
		toPin := golf.Round1(golf.DistanceYards(here, golf.Point{Lat: *hole.PinLatitude, Lon: *hole.PinLongitude}))
		placed.DistanceToPinYards = &toPin
		placed.NextClub = recommendFor(toPin)
	}

	slog.Debug("shot placed", "round_id", round.ID, "hole", shot.HoleNumber, "shot", shot.ShotNumber)
	if s.events != nil {
		s.events.Publish(userID, live.Event{Type: live.EventShotPlaced, RoundID: round.ID, Data: placed})
	}

	return placed, nil
}

// numberShot follows the last shot on the hole, measuring from it or from the tee.
func (s *LocationService) numberShot(shot *model.Shot, hole *model.Hole, here golf.Point) error {
	shot.ShotNumber = 1
	shot.DistanceYards = nil

	previous, err := s.shotRepository.Last(shot.RoundID, shot.HoleNumber)
	switch {
	case err == nil:
		shot.ShotNumber = previous.ShotNumber + 1
		d := golf.Round1(golf.DistanceYards(golf.Point{Lat: previous.Latitude, Lon: previous.Longitude}, here))
		shot.DistanceYards = &d
	case errors.Is(err, repository.ErrShotNotFound):
		if hole.HasTee() {
			d := golf.Round1(golf.DistanceYards(golf.Point{Lat: *hole.TeeLatitude, Lon: *hole.TeeLongitude}, here))
			shot.DistanceYards = &d
		}
	default:
		return fmt.Errorf("failed to load previous shot: %w", err)
	}
	return nil
}

// Shots lists the round's shots; holeNumber 0 lists every hole.
func (s *LocationService) Shots(userID, roundID string, holeNumber int) ([]*model.Shot, error) {
	round, err := s.rounds.owned(userID, roundID)
	if err != nil {
		return nil, err
	}

	return s.shotRepository.ByRound(round.ID, holeNumber)
}

func (s *LocationService) DeleteShot(userID, roundID, shotID string) error {
	round, err := s.rounds.owned(userID, roundID)
	if err != nil {
		return err
	}

	shot, err := s.shotRepository.ByID(shotID)
	if err != nil {
		return err
	}
	if shot.RoundID != round.ID {
		return repository.ErrShotNotFound
	}

	return s.shotRepository.Delete(shot.ID)
}

// recommendFor returns nil once the ball is on or next to the green.
func recommendFor(yards float64) *golf.Recommendation {
	if yards < 1 {
		return nil
	}
	rec, err := golf.Recommend(yards, golf.Conditions{})
	if err != nil {
		return nil
	}
	return &rec
}
