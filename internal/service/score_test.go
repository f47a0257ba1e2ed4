package service

import (
	"testing"

	"github.com/caddieai/caddie/internal/testutil"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordScoreTwiceUpdates(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 18)
	round := f.startRound(t, user.ID, course.ID)

	first, err := f.scores.RecordScore(user.ID, round.ID, 1, RecordScoreInput{Score: 6, Putts: intp(3)})
	require.NoError(t, err)

	second, err := f.scores.RecordScore(user.ID, round.ID, 1, RecordScoreInput{Score: 4, Putts: intp(2), FairwayHit: boolp(true)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	scores, err := f.scores.Scores(user.ID, round.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 4, scores[0].Score)
	require.NotNil(t, scores[0].GreenInRegulation)
	assert.True(t, *scores[0].GreenInRegulation)

	got, err := f.rounds.Get(user.ID, round.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TotalScore)
	assert.Equal(t, 4, *got.TotalScore)
	assert.Equal(t, 2, got.CurrentHole)
}

func TestRecordScoreOnParThreeIgnoresFairway(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 18)
	round := f.startRound(t, user.ID, course.ID)

	score, err := f.scores.RecordScore(user.ID, round.ID, 2, RecordScoreInput{Score: 3, FairwayHit: boolp(true)})
	require.NoError(t, err)
	assert.Nil(t, score.FairwayHit)
	assert.Nil(t, score.GreenInRegulation, "no putts, nothing to derive")
	require.NotNil(t, score.Par)
	assert.Equal(t, 3, *score.Par)
}

func TestRecordScoreDoesNotMoveCurrentHoleBackwards(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)

	_, err := f.scores.RecordScore(user.ID, round.ID, 5, RecordScoreInput{Score: 4})
	require.NoError(t, err)
	_, err = f.scores.RecordScore(user.ID, round.ID, 2, RecordScoreInput{Score: 3})
	require.NoError(t, err)
	_, err = f.scores.RecordScore(user.ID, round.ID, 9, RecordScoreInput{Score: 4})
	require.NoError(t, err)

	got, err := f.rounds.Get(user.ID, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.CurrentHole)
}

func TestRecordScoreValidation(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)

	tests := []struct {
		name  string
		hole  int
		input RecordScoreInput
		field string
	}{
		{"zero score", 1, RecordScoreInput{Score: 0}, "score"},
		{"too many putts", 1, RecordScoreInput{Score: 3, Putts: intp(4)}, "putts"},
		{"penalties equal to score", 1, RecordScoreInput{Score: 2, Penalties: 2}, "penalties"},
		{"hole past course", 10, RecordScoreInput{Score: 4}, "hole_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.scores.RecordScore(user.ID, round.ID, tt.hole, tt.input)
			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestRecordScoreRequiresActiveRound(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, user.ID, course.ID)

	_, err := f.rounds.Pause(user.ID, round.ID)
	require.NoError(t, err)
	_, err = f.scores.RecordScore(user.ID, round.ID, 1, RecordScoreInput{Score: 4})
	require.NoError(t, err, "paused rounds accept scores")

	_, err = f.rounds.Complete(user.ID, round.ID)
	require.NoError(t, err)
	_, err = f.scores.RecordScore(user.ID, round.ID, 2, RecordScoreInput{Score: 4})
	assert.ErrorIs(t, err, ErrInvalidRoundStatus)
}
