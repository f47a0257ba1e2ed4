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

type RecordScoreInput struct {
	Score             int    `json:"score"`
	Putts             *int   `json:"putts"`
	FairwayHit        *bool  `json:"fairway_hit"`
	GreenInRegulation *bool  `json:"green_in_regulation"`
	Penalties         int    `json:"penalties"`
	Notes             string `json:"notes"`
}

type ScoreService struct {
	rounds           *RoundService
	roundRepository  repository.RoundRepository
	courseRepository repository.CourseRepository
	scoreRepository  repository.HoleScoreRepository
	events           EventPublisher
}

func NewScoreService(
	rounds *RoundService,
	roundRepository repository.RoundRepository,
	courseRepository repository.CourseRepository,
	scoreRepository repository.HoleScoreRepository,
	events EventPublisher,
) *ScoreService {
	return &ScoreService{
		rounds:           rounds,
		roundRepository:  roundRepository,
		courseRepository: courseRepository,
		scoreRepository:  scoreRepository,
		events:           events,
	}
}

// RecordScore stores the score for a hole. Recording the same hole again replaces the earlier entry.
func (s *ScoreService) RecordScore(userID, roundID string, holeNumber int, in RecordScoreInput) (*model.HoleScore, error) {
	round, err := s.rounds.owned(userID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return nil, ErrInvalidRoundStatus
	}

	in.Notes = strings.TrimSpace(in.Notes)
	err = validation.ValidateHoleScore(validation.HoleScoreInput{
		Score:     in.Score,
		Putts:     in.Putts,
		Penalties: in.Penalties,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepository.ByID(round.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	err = validation.ValidateHoleNumber(holeNumber, course.TotalHoles)
	if err != nil {
		return nil, invalid("hole_number", err)
	}

	hole, err := s.courseRepository.Hole(course.ID, holeNumber)
	if err != nil {
		if errors.Is(err, repository.ErrHoleNotFound) {
			return nil, invalid("hole_number", fmt.Errorf("hole %d is not set up for this course", holeNumber))
		}
		return nil, fmt.Errorf("failed to load hole: %w", err)
	}

	fairway := in.FairwayHit
	if hole.Par == 3 {
		fairway = nil
	}
	gir := in.GreenInRegulation
	if gir == nil && in.Putts != nil {
		reached := golf.GreenInRegulation(in.Score, *in.Putts, hole.Par)
		gir = &reached
	}

	now := time.Now().UTC()
	score, err := s.scoreRepository.Upsert(&model.HoleScore{
		ID:                uuid.New().String(),
		RoundID:           round.ID,
		HoleID:            hole.ID,
		HoleNumber:        holeNumber,
		Score:             in.Score,
		Putts:             in.Putts,
		FairwayHit:        fairway,
		GreenInRegulation: gir,
		Penalties:         in.Penalties,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}
	score.Par = &hole.Par

	if holeNumber >= round.CurrentHole {
		round.CurrentHole = min(holeNumber+1, course.TotalHoles)
	}
	_, err = s.rounds.refreshTotals(round)
	if err != nil {
		return nil, err
	}

	slog.Info("score recorded", "round_id", round.ID, "hole", holeNumber, "score", in.Score)
	if s.events != nil {
		s.events.Publish(userID, live.Event{Type: live.EventScoreRecorded, RoundID: round.ID, Data: score})
	}

	return score, nil
}

// Scores lists the round's hole scores ordered by hole number.
func (s *ScoreService) Scores(userID, roundID string) ([]*model.HoleScore, error) {
	round, err := s.rounds.owned(userID, roundID)
	if err != nil {
		return nil, err
	}

	scores, err := s.scoreRepository.ByRound(round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	return scores, nil
}
