package golf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubForDistance(t *testing.T) {
	tests := []struct {
		yards float64
		want  string
	}{
		{1, ClubWedge},
		{79.9, ClubWedge},
		{80, Club9Iron},
		{119, Club9Iron},
		{120, Club8Iron},
		{134, Club8Iron},
		{135, Club7Iron},
		{150, Club6Iron},
		{165, Club5Iron},
		{180, ClubHybrid},
		{199, ClubHybrid},
		{200, Club3Wood},
		{229, Club3Wood},
		{230, ClubDriver},
		{320, ClubDriver},
	}

	for _, tt := range tests {
		got, err := ClubForDistance(tt.yards)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "yards %v", tt.yards)

		// same input, same band
		again, _ := ClubForDistance(tt.yards)
		assert.Equal(t, got, again)
	}
}

func TestClubForDistanceRejectsInvalid(t *testing.T) {
	for _, yards := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		_, err := ClubForDistance(yards)
		assert.ErrorIs(t, err, ErrInvalidDistance)
	}
}

func TestPlaysLike(t *testing.T) {
	assert.Equal(t, 150.0, PlaysLike(150, Conditions{}))
	assert.Equal(t, 160.0, PlaysLike(150, Conditions{WindMph: 10}))
	assert.Equal(t, 145.0, PlaysLike(150, Conditions{WindMph: -10}))
	assert.Equal(t, 158.0, PlaysLike(150, Conditions{ElevationYards: 8}))
	assert.Equal(t, 1.0, PlaysLike(5, Conditions{ElevationYards: -20}))
}

func TestRecommend(t *testing.T) {
	rec, err := Recommend(145, Conditions{WindMph: 10})
	require.NoError(t, err)
	assert.Equal(t, Club6Iron, rec.Club)
	assert.Equal(t, 155.0, rec.PlaysLikeYards)
	assert.Equal(t, "145 yards playing 155, 10 mph into the wind", rec.Reason)

	rec, err = Recommend(100, Conditions{})
	require.NoError(t, err)
	assert.Equal(t, Club9Iron, rec.Club)
	assert.Equal(t, "100 yards", rec.Reason)

	_, err = Recommend(0, Conditions{})
	assert.ErrorIs(t, err, ErrInvalidDistance)
}
