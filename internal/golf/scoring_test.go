package golf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTerm(t *testing.T) {
	assert.Equal(t, TermEagleOrBetter, ScoreTerm(1, 4))
	assert.Equal(t, TermEagleOrBetter, ScoreTerm(3, 5))
	assert.Equal(t, TermBirdie, ScoreTerm(3, 4))
	assert.Equal(t, TermPar, ScoreTerm(4, 4))
	assert.Equal(t, TermBogey, ScoreTerm(5, 4))
	assert.Equal(t, TermDoubleBogeyOrWorse, ScoreTerm(6, 4))
	assert.Equal(t, TermDoubleBogeyOrWorse, ScoreTerm(9, 3))
}

func TestGreenInRegulation(t *testing.T) {
	assert.True(t, GreenInRegulation(4, 2, 4))
	assert.True(t, GreenInRegulation(3, 2, 3))
	assert.False(t, GreenInRegulation(5, 2, 4))
	assert.True(t, GreenInRegulation(4, 1, 5))
}

func TestScoreDifferential(t *testing.T) {
	assert.Equal(t, 14.1, ScoreDifferential(90, 72.5, 140))
	assert.Equal(t, 0.0, ScoreDifferential(90, 72.5, 0))
}

func TestHandicapIndex(t *testing.T) {
	_, ok := HandicapIndex([]float64{10, 12})
	assert.False(t, ok)

	idx, ok := HandicapIndex([]float64{15, 12, 18})
	assert.True(t, ok)
	assert.Equal(t, 10.0, idx) // lowest one minus 2

	idx, ok = HandicapIndex([]float64{15, 12, 18, 11, 20, 14})
	assert.True(t, ok)
	assert.Equal(t, 10.5, idx) // avg(11, 12) - 1

	diffs := make([]float64, 25)
	for i := range diffs {
		diffs[i] = float64(30 - i)
	}
	// only the newest 20 (30..11) count, best 8 are 11..18
	idx, ok = HandicapIndex(diffs)
	assert.True(t, ok)
	assert.Equal(t, 14.5, idx)
}
