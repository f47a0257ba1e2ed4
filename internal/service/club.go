package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caddieai/caddie/internal/golf"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/google/uuid"
)

const maxRecommendations = 50

type RecommendInput struct {
	DistanceYards  float64 `json:"distance_yards"`
	WindMph        float64 `json:"wind_mph"`
	ElevationYards float64 `json:"elevation_yards"`
	RoundID        *string `json:"round_id"`
	HoleNumber     *int    `json:"hole_number"`
}

type FeedbackInput struct {
	Accepted   bool    `json:"accepted"`
	ActualClub *string `json:"actual_club"`
}

type ClubService struct {
	rounds                       *RoundService
	clubRecommendationRepository repository.ClubRecommendationRepository
}

func NewClubService(rounds *RoundService, clubRecommendationRepository repository.ClubRecommendationRepository) *ClubService {
	return &ClubService{
		rounds:                       rounds,
		clubRecommendationRepository: clubRecommendationRepository,
	}
}

// Recommend picks a club for the distance and keeps the suggestion for later feedback.
func (s *ClubService) Recommend(userID string, in RecommendInput) (*model.ClubRecommendation, error) {
	if in.WindMph < -60 || in.WindMph > 60 {
		return nil, invalid("wind_mph", errors.New("wind must be between -60 and 60 mph"))
	}

	rec, err := golf.Recommend(in.DistanceYards, golf.Conditions{WindMph: in.WindMph, ElevationYards: in.ElevationYards})
	if err != nil {
		return nil, invalid("distance_yards", err)
	}

	if in.RoundID != nil && *in.RoundID != "" {
		_, err = s.rounds.owned(userID, *in.RoundID)
		if err != nil {
			return nil, err
		}
	} else {
		in.RoundID = nil
	}

	stored := &model.ClubRecommendation{
		ID:              uuid.New().String(),
		UserID:          userID,
		RoundID:         in.RoundID,
		HoleNumber:      in.HoleNumber,
		DistanceYards:   golf.Round1(in.DistanceYards),
		PlaysLikeYards:  rec.PlaysLikeYards,
		RecommendedClub: rec.Club,
		Reason:          rec.Reason,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.clubRecommendationRepository.Create(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to save recommendation: %w", err)
	}

	return stored, nil
}

// Feedback records whether the golfer took the suggested club.
func (s *ClubService) Feedback(userID, id string, in FeedbackInput) (*model.ClubRecommendation, error) {
	rec, err := s.clubRecommendationRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrForbidden
	}

	if in.ActualClub != nil {
		club := strings.TrimSpace(*in.ActualClub)
		if club == "" {
			in.ActualClub = nil
		} else {
			in.ActualClub = &club
		}
	}

	err = s.clubRecommendationRepository.SaveFeedback(rec.ID, in.Accepted, in.ActualClub)
	if err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	rec.WasAccepted = &in.Accepted
	rec.ActualClubUsed = in.ActualClub
	return rec, nil
}

// List returns recent recommendations, optionally only those for one round.
func (s *ClubService) List(userID, roundID string) ([]*model.ClubRecommendation, error) {
	return s.clubRecommendationRepository.List(userID, roundID, maxRecommendations)
}
