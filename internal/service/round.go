package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caddieai/caddie/internal/live"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrRoundAlreadyActive = errors.New("an active round already exists")
	ErrInvalidRoundStatus = errors.New("round status does not allow this operation")
	ErrCourseInactive     = errors.New("course is no longer available")
)

// EventPublisher delivers round events to the owner's live connections.
type EventPublisher interface {
	Publish(userID string, event live.Event)
}

type StartRoundInput struct {
	CourseID          string   `json:"course_id"`
	WeatherConditions string   `json:"weather_conditions"`
	Temperature       *float64 `json:"temperature"`
}

type UpdateRoundInput struct {
	Notes             *string  `json:"notes"`
	WeatherConditions *string  `json:"weather_conditions"`
	Temperature       *float64 `json:"temperature"`
}

type RoundService struct {
	roundRepository  repository.RoundRepository
	courseRepository repository.CourseRepository
	scoreRepository  repository.HoleScoreRepository
	userRepository   repository.UserRepository
	fileService      *FileService
	emailService     *EmailService
	events           EventPublisher
}

func NewRoundService(
	roundRepository repository.RoundRepository,
	courseRepository repository.CourseRepository,
	scoreRepository repository.HoleScoreRepository,
	userRepository repository.UserRepository,
	fileService *FileService,
	emailService *EmailService,
	events EventPublisher,
) *RoundService {
	return &RoundService{
		roundRepository:  roundRepository,
		courseRepository: courseRepository,
		scoreRepository:  scoreRepository,
		userRepository:   userRepository,
		fileService:      fileService,
		emailService:     emailService,
		events:           events,
	}
}

// Start opens a new in-progress round. A golfer may only have one round in progress or paused.
func (s *RoundService) Start(userID string, in StartRoundInput) (*model.Round, error) {
	if in.CourseID == "" {
		return nil, invalid("course_id", errors.New("course is required"))
	}
	if in.Temperature != nil && (*in.Temperature < -50 || *in.Temperature > 150) {
		return nil, invalid("temperature", errors.New("temperature is out of range"))
	}

	_, err := s.roundRepository.Active(userID)
	if err == nil {
		return nil, ErrRoundAlreadyActive
	}
	if !errors.Is(err, repository.ErrRoundNotFound) {
		return nil, fmt.Errorf("failed to check active round: %w", err)
	}

	course, err := s.courseRepository.ByID(in.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrCourseInactive
	}

	now := time.Now().UTC()
	round := &model.Round{
		ID:                uuid.New().String(),
		UserID:            userID,
		CourseID:          course.ID,
		RoundDate:         now,
		StartTime:         now,
		CurrentHole:       1,
		Status:            model.RoundStatusInProgress,
		WeatherConditions: displayLabel(in.WeatherConditions),
		Temperature:       in.Temperature,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.roundRepository.Create(round)
	if err != nil {
		if errors.Is(err, repository.ErrActiveRoundExists) {
			return nil, ErrRoundAlreadyActive
		}
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	round.Course = course
	slog.Info("round started", "round_id", round.ID, "user_id", userID, "course_id", course.ID)
	s.publish(userID, live.EventRoundStarted, round)

	return round, nil
}

// Active returns the golfer's in-progress or paused round with course and scores.
func (s *RoundService) Active(userID string) (*model.Round, error) {
	round, err := s.roundRepository.Active(userID)
	if err != nil {
		return nil, err
	}

	return s.withDetails(round)
}

func (s *RoundService) Get(userID, roundID string) (*model.Round, error) {
	round, err := s.owned(userID, roundID)
	if err != nil {
		return nil, err
	}

	return s.withDetails(round)
}

func (s *RoundService) List(userID, status string, page, size int) (*model.Page[*model.Round], error) {
	status = normalizeLabel(status)
	switch status {
	case "", model.RoundStatusInProgress, model.RoundStatusPaused, model.RoundStatusCompleted, model.RoundStatusAbandoned:
	default:
		return nil, invalid("status", fmt.Errorf("unknown round status %q", status))
	}

	page, size, offset := model.NormalizePage(page, size)
	rounds, total, err := s.roundRepository.List(userID, status, size, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	return model.NewPage(rounds, page, size, total), nil
}

func (s *RoundService) Pause(userID, roundID string) (*model.Round, error) {
	return s.transition(userID, roundID, model.RoundStatusPaused, live.EventRoundPaused)
}

func (s *RoundService) Resume(userID, roundID string) (*model.Round, error) {
	return s.transition(userID, roundID, model.RoundStatusInProgress, live.EventRoundResumed)
}

func (s *RoundService) Abandon(userID, roundID string) (*model.Round, error) {
	return s.transition(userID, roundID, model.RoundStatusAbandoned, live.EventRoundAbandoned)
}

// Complete finalises totals, closes the round and mails the scorecard.
func (s *RoundService) Complete(userID, roundID string) (*model.Round, error) {
	round, err := s.owned(userID, roundID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(round.Status, model.RoundStatusCompleted) {
		return nil, ErrInvalidRoundStatus
	}

	scores, err := s.refreshTotals(round)
	if err != nil {
		return nil, err
	}

	completed, err := s.transition(userID, roundID, model.RoundStatusCompleted, live.EventRoundCompleted)
	if err != nil {
		return nil, err
	}

	s.sendSummary(completed, scores)
	return completed, nil
}

func (s *RoundService) transition(userID, roundID, to, event string) (*model.Round, error) {
	round, err := s.owned(userID, roundID)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(round.Status, to) {
		return nil, ErrInvalidRoundStatus
	}

	var endTime *time.Time
	if to == model.RoundStatusCompleted || to == model.RoundStatusAbandoned {
		now := time.Now().UTC()
		endTime = &now
	}

	updated, err := s.roundRepository.Transition(round.ID, round.Status, to, endTime)
	if err != nil {
		if errors.Is(err, repository.ErrRoundStatusChanged) {
			return nil, ErrInvalidRoundStatus
		}
		return nil, fmt.Errorf("failed to update round status: %w", err)
	}

	slog.Info("round status changed", "round_id", round.ID, "user_id", userID, "from", round.Status, "to", to)

	detailed, err := s.withDetails(updated)
	if err != nil {
		return nil, err
	}
	s.publish(userID, event, detailed)

	return detailed, nil
}

// UpdateCurrentHole moves the golfer to another hole of an active round.
func (s *RoundService) UpdateCurrentHole(userID, roundID string, hole int) (*model.Round, error) {
	round, err := s.owned(userID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return nil, ErrInvalidRoundStatus
	}

	course, err := s.courseRepository.ByID(round.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	err = validation.ValidateHoleNumber(hole, course.TotalHoles)
	if err != nil {
		return nil, invalid("hole_number", err)
	}

	round.CurrentHole = hole
	round.UpdatedAt = time.Now().UTC()
	err = s.roundRepository.Update(round)
	if err != nil {
		return nil, fmt.Errorf("failed to update round: %w", err)
	}

	return s.withDetails(round)
}

func (s *RoundService) Update(userID, roundID string, in UpdateRoundInput) (*model.Round, error) {
	round, err := s.owned(userID, roundID)
	if err != nil {
		return nil, err
	}

	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		if utf8.RuneCountInString(notes) > validation.MaxNotesLength {
			return nil, invalid("notes", errors.New("notes are too long"))
		}
		round.Notes = notes
	}
	if in.WeatherConditions != nil {
		round.WeatherConditions = displayLabel(*in.WeatherConditions)
	}
	if in.Temperature != nil {
		round.Temperature = in.Temperature
	}

	round.UpdatedAt = time.Now().UTC()
	err = s.roundRepository.Update(round)
	if err != nil {
		return nil, fmt.Errorf("failed to update round: %w", err)
	}

	return s.withDetails(round)
}

// Delete removes a finished round and its attachments. Active rounds must be completed or abandoned first.
func (s *RoundService) Delete(ctx context.Context, userID, roundID string) error {
	round, err := s.owned(userID, roundID)
	if err != nil {
		return err
	}
	if round.IsActive() {
		return ErrInvalidRoundStatus
	}

	s.fileService.DeleteOwnerFiles(ctx, model.FileOwnerRound, round.ID)

	err = s.roundRepository.Delete(round.ID)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}

	slog.Info("round deleted", "round_id", round.ID, "user_id", userID)
	return nil
}

// UploadScorecard attaches a photo of the paper scorecard, replacing any earlier one.
func (s *RoundService) UploadScorecard(ctx context.Context, userID, roundID string, upload Upload) (*model.Round, error) {
	round, err := s.owned(userID, roundID)
	if err != nil {
		return nil, err
	}

	file, err := s.fileService.Upload(ctx, userID, model.FileOwnerRound, round.ID, model.FileTypeScorecard, upload, validation.ScorecardConstraints, false)
	if err != nil {
		return nil, err
	}

	round.ScorecardFileID = &file.ID
	round.UpdatedAt = time.Now().UTC()
	err = s.roundRepository.Update(round)
	if err != nil {
		return nil, fmt.Errorf("failed to attach scorecard: %w", err)
	}

	s.fileService.ReplaceOwnerFiles(ctx, model.FileOwnerRound, round.ID, model.FileTypeScorecard, file.ID)

	detailed, err := s.withDetails(round)
	if err != nil {
		return nil, err
	}
	detailed.ScorecardURL = s.fileService.URL(ctx, file)
	return detailed, nil
}

// owned loads the round and checks it belongs to userID.
func (s *RoundService) owned(userID, roundID string) (*model.Round, error) {
	round, err := s.roundRepository.ByID(roundID)
	if err != nil {
		return nil, err
	}

	if round.UserID != userID {
		slog.Warn("round access denied", "round_id", roundID, "user_id", userID)
		return nil, ErrForbidden
	}

	return round, nil
}

func (s *RoundService) withDetails(round *model.Round) (*model.Round, error) {
	course, err := s.courseRepository.ByID(round.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	round.Course = course

	round.HoleScores, err = s.scoreRepository.ByRound(round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	return round, nil
}

// refreshTotals recomputes the round aggregates from its hole scores and saves them.
func (s *RoundService) refreshTotals(round *model.Round) ([]*model.HoleScore, error) {
	scores, err := s.scoreRepository.ByRound(round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	applyTotals(round, scores)
	round.UpdatedAt = time.Now().UTC()

	err = s.roundRepository.Update(round)
	if err != nil {
		return nil, fmt.Errorf("failed to save round totals: %w", err)
	}

	return scores, nil
}

// applyTotals sets the aggregate columns. Counters stay nil until a hole reports them.
func applyTotals(round *model.Round, scores []*model.HoleScore) {
	round.TotalScore, round.TotalPutts, round.FairwaysHit, round.GreensInRegulation = nil, nil, nil, nil
	if len(scores) == 0 {
		return
	}

	var total, putts, fairways, greens int
	var hasPutts, hasFairways, hasGreens bool
	for _, sc := range scores {
		total += sc.Score
		if sc.Putts != nil {
			putts += *sc.Putts
			hasPutts = true
		}
		if sc.FairwayHit != nil {
			hasFairways = true
			if *sc.FairwayHit {
				fairways++
			}
		}
		if sc.GreenInRegulation != nil {
			hasGreens = true
			if *sc.GreenInRegulation {
				greens++
			}
		}
	}

	round.TotalScore = &total
	if hasPutts {
		round.TotalPutts = &putts
	}
	if hasFairways {
		round.FairwaysHit = &fairways
	}
	if hasGreens {
		round.GreensInRegulation = &greens
	}
}

func (s *RoundService) sendSummary(round *model.Round, scores []*model.HoleScore) {
	if len(scores) == 0 || s.emailService == nil {
		return
	}

	user, err := s.userRepository.ByID(round.UserID)
	if err != nil {
		slog.Warn("failed to load user for round summary", "error", err, "round_id", round.ID)
		return
	}

	courseName := ""
	if round.Course != nil {
		courseName = round.Course.Name
	}

	stats := computeRoundStats(round, scores, round.Course)
	err = s.emailService.SendRoundSummaryEmail(user.Email, user.DisplayName(), round, courseName, stats)
	if err != nil {
		slog.Warn("failed to send round summary email", "error", err, "round_id", round.ID)
	}
}

func (s *RoundService) publish(userID, eventType string, round *model.Round) {
	if s.events == nil {
		return
	}
	s.events.Publish(userID, live.Event{Type: eventType, RoundID: round.ID, Data: round})
}
