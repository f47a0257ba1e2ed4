package service

import (
	"testing"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playRound scores every hole at par plus over with two putts and completes the round.
func playRound(t *testing.T, f *fixture, userID string, course *model.Course, holes []*model.Hole, over int) *model.Round {
	t.Helper()

	round := f.startRound(t, userID, course.ID)
	for _, h := range holes {
		var fairway *bool
		if h.Par > 3 {
			fairway = boolp(h.HoleNumber%2 == 1)
		}
		_, err := f.scores.RecordScore(userID, round.ID, h.HoleNumber, RecordScoreInput{
			Score:      h.Par + over,
			Putts:      intp(2),
			FairwayHit: fairway,
		})
		require.NoError(t, err)
	}

	completed, err := f.rounds.Complete(userID, round.ID)
	require.NoError(t, err)
	return completed
}

func TestRoundStats(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Links", 18)
	round := playRound(t, f, user.ID, course, holes, 1)

	stats, err := f.stats.RoundStats(user.ID, round.ID)
	require.NoError(t, err)

	assert.Equal(t, 18, stats.HolesPlayed)
	assert.Equal(t, 71, stats.ParPlayed)
	assert.Equal(t, 89, stats.TotalScore)
	assert.Equal(t, 18, stats.ScoreToPar)
	assert.Equal(t, 36, stats.TotalPutts)
	assert.Equal(t, 18, stats.Distribution.Bogeys)
	assert.Zero(t, stats.GreensInReg)
	require.NotNil(t, stats.ScoreDifferential)
	assert.InDelta(t, 14.8, *stats.ScoreDifferential, 0.001)
}

func TestRoundStatsNineHolesHasNoDifferential(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Nine", 9)
	round := playRound(t, f, user.ID, course, holes, 0)

	stats, err := f.stats.RoundStats(user.ID, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stats.Distribution.Pars)
	assert.Equal(t, 9, stats.GreensInReg)
	assert.Nil(t, stats.ScoreDifferential)
}

func TestStatsSummary(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Links", 18)

	empty, err := f.stats.Summary(user.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.RoundsPlayed)
	assert.Nil(t, empty.AverageScore)

	playRound(t, f, user.ID, course, holes, 1)
	playRound(t, f, user.ID, course, holes, 0)

	summary, err := f.stats.Summary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RoundsPlayed)
	require.NotNil(t, summary.AverageScore)
	assert.InDelta(t, 80, *summary.AverageScore, 0.001)
	assert.Equal(t, 71, *summary.BestScore)
	assert.Equal(t, 89, *summary.WorstScore)
	assert.InDelta(t, 36, *summary.AveragePutts, 0.001)
	assert.Equal(t, 18, summary.Distribution.Pars)
	assert.Equal(t, 18, summary.Distribution.Bogeys)
	require.NotNil(t, summary.GIRPercentage)
	assert.InDelta(t, 50, *summary.GIRPercentage, 0.001)
	require.NotNil(t, summary.FairwayPercentage)
	assert.Nil(t, summary.HandicapIndexEstimate, "needs three differentials")

	playRound(t, f, user.ID, course, holes, 1)
	summary, err = f.stats.Summary(user.ID)
	require.NoError(t, err)
	require.NotNil(t, summary.HandicapIndexEstimate)
	// best of three differentials (-0.9) less the two stroke adjustment
	assert.InDelta(t, -2.9, *summary.HandicapIndexEstimate, 0.001)
}

func TestTrendIsChronological(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, holes := testutil.CreateCourse(t, f.db, "Nine", 9)

	first := playRound(t, f, user.ID, course, holes, 2)
	second := playRound(t, f, user.ID, course, holes, 0)

	trend, err := f.stats.Trend(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, first.ID, trend[0].RoundID)
	assert.Equal(t, 18, trend[0].ScoreToPar)
	assert.Equal(t, second.ID, trend[1].RoundID)
	assert.Zero(t, trend[1].ScoreToPar)
	assert.Equal(t, "Nine", trend[1].CourseName)
}
