package service

import (
	"fmt"
	"math"
	"slices"

	"github.com/caddieai/caddie/internal/golf"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
)

const (
	DefaultTrendRounds = 10
	MaxTrendRounds     = 50

	// statsRoundLimit caps how many completed rounds feed the summary.
	statsRoundLimit = 1000
	// handicapRounds is how many recent differentials the index looks at.
	handicapRounds = 20
)

type StatsService struct {
	rounds           *RoundService
	roundRepository  repository.RoundRepository
	courseRepository repository.CourseRepository
	scoreRepository  repository.HoleScoreRepository
}

func NewStatsService(rounds *RoundService, roundRepository repository.RoundRepository, courseRepository repository.CourseRepository, scoreRepository repository.HoleScoreRepository) *StatsService {
	return &StatsService{
		rounds:           rounds,
		roundRepository:  roundRepository,
		courseRepository: courseRepository,
		scoreRepository:  scoreRepository,
	}
}

// Summary aggregates every completed round of the golfer.
func (s *StatsService) Summary(userID string) (*model.StatsSummary, error) {
	rounds, err := s.roundRepository.Completed(userID, statsRoundLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}

	scores, err := s.scoreRepository.CompletedByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	byRound := make(map[string][]*model.HoleScore)
	for _, sc := range scores {
		byRound[sc.RoundID] = append(byRound[sc.RoundID], sc)
	}

	summary := &model.StatsSummary{RoundsPlayed: len(rounds)}
	courses := make(map[string]*model.Course)

	var (
		totals, putts                []float64
		fairwaysHit, fairwayAttempts int
		greensHit, greenAttempts     int
		differentials                []float64
	)

	// rounds are newest first, which is the order HandicapIndex expects.
	for _, round := range rounds {
		roundScores := byRound[round.ID]

		if round.TotalScore != nil {
			totals = append(totals, float64(*round.TotalScore))
			if summary.BestScore == nil || *round.TotalScore < *summary.BestScore {
				summary.BestScore = intPtr(*round.TotalScore)
			}
			if summary.WorstScore == nil || *round.TotalScore > *summary.WorstScore {
				summary.WorstScore = intPtr(*round.TotalScore)
			}
		}
		if round.TotalPutts != nil {
			putts = append(putts, float64(*round.TotalPutts))
		}

		for _, sc := range roundScores {
			if sc.FairwayHit != nil {
				fairwayAttempts++
				if *sc.FairwayHit {
					fairwaysHit++
				}
			}
			if sc.GreenInRegulation != nil {
				greenAttempts++
				if *sc.GreenInRegulation {
					greensHit++
				}
			}
			if sc.Par != nil {
				countTerm(&summary.Distribution, sc.Score, *sc.Par)
			}
		}

		if len(differentials) < handicapRounds {
			course, ok := courses[round.CourseID]
			if !ok {
				course, err = s.courseRepository.ByID(round.CourseID)
				if err != nil {
					return nil, fmt.Errorf("failed to load course: %w", err)
				}
				courses[round.CourseID] = course
			}
			if d := differential(roundScores, course); d != nil {
				differentials = append(differentials, *d)
			}
		}
	}

	summary.AverageScore = average(totals)
	summary.AveragePutts = average(putts)
	summary.FairwayPercentage = percentage(fairwaysHit, fairwayAttempts)
	summary.GIRPercentage = percentage(greensHit, greenAttempts)
	if index, ok := golf.HandicapIndex(differentials); ok {
		summary.HandicapIndexEstimate = &index
	}

	return summary, nil
}

// RoundStats breaks down a single round of the golfer.
func (s *StatsService) RoundStats(userID, roundID string) (*model.RoundStats, error) {
	round, err := s.rounds.owned(userID, roundID)
	if err != nil {
		return nil, err
	}

	scores, err := s.scoreRepository.ByRound(round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	course, err := s.courseRepository.ByID(round.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	return computeRoundStats(round, scores, course), nil
}

// Trend returns the last completed rounds, oldest first.
func (s *StatsService) Trend(userID string, limit int) ([]model.TrendPoint, error) {
	if limit < 1 {
		limit = DefaultTrendRounds
	}
	if limit > MaxTrendRounds {
		limit = MaxTrendRounds
	}

	rounds, err := s.roundRepository.Completed(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}

	points := []model.TrendPoint{}
	courseNames := make(map[string]string)
	for _, round := range slices.Backward(rounds) {
		if round.TotalScore == nil {
			continue
		}

		scores, err := s.scoreRepository.ByRound(round.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scores: %w", err)
		}

		name, ok := courseNames[round.CourseID]
		if !ok {
			course, err := s.courseRepository.ByID(round.CourseID)
			if err != nil {
				return nil, fmt.Errorf("failed to load course: %w", err)
			}
			name = course.Name
			courseNames[round.CourseID] = name
		}

		stats := computeRoundStats(round, scores, nil)
		points = append(points, model.TrendPoint{
			RoundID:    round.ID,
			CourseName: name,
			RoundDate:  round.RoundDate.Format("2006-01-02"),
			TotalScore: *round.TotalScore,
			ScoreToPar: stats.ScoreToPar,
		})
	}

	return points, nil
}

// computeRoundStats derives round totals from hole scores. course may be nil,
// in which case no differential is computed.
func computeRoundStats(round *model.Round, scores []*model.HoleScore, course *model.Course) *model.RoundStats {
	stats := &model.RoundStats{
		RoundID:     round.ID,
		HolesPlayed: len(scores),
	}

	for _, sc := range scores {
		stats.TotalScore += sc.Score
		stats.Penalties += sc.Penalties
		if sc.Putts != nil {
			stats.TotalPutts += *sc.Putts
		}
		if sc.FairwayHit != nil {
			stats.FairwayAttempts++
			if *sc.FairwayHit {
				stats.FairwaysHit++
			}
		}
		if sc.GreenInRegulation != nil && *sc.GreenInRegulation {
			stats.GreensInReg++
		}
		if sc.Par != nil {
			stats.ParPlayed += *sc.Par
			countTerm(&stats.Distribution, sc.Score, *sc.Par)
		}
	}
	stats.ScoreToPar = stats.TotalScore - stats.ParPlayed

	if course != nil {
		stats.ScoreDifferential = differential(scores, course)
	}

	return stats
}

// differential is only defined for a full 18 holes on a rated course.
func differential(scores []*model.HoleScore, course *model.Course) *float64 {
	if len(scores) != 18 || course == nil || course.CourseRating == nil || course.SlopeRating == nil {
		return nil
	}

	gross := 0
	for _, sc := range scores {
		gross += sc.Score
	}

	d := golf.ScoreDifferential(gross, *course.CourseRating, *course.SlopeRating)
	return &d
}

func countTerm(dist *model.ScoreDistribution, score, par int) {
	switch golf.ScoreTerm(score, par) {
	case golf.TermEagleOrBetter:
		dist.EagleOrBetter++
	case golf.TermBirdie:
		dist.Birdies++
	case golf.TermPar:
		dist.Pars++
	case golf.TermBogey:
		dist.Bogeys++
	default:
		dist.DoubleBogeyOrWorse++
	}
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := golf.Round1(sum / float64(len(values)))
	return &avg
}

func percentage(hit, attempts int) *float64 {
	if attempts == 0 {
		return nil
	}
	pct := math.Round(float64(hit)/float64(attempts)*1000) / 10
	return &pct
}

func intPtr(v int) *int {
	return &v
}
