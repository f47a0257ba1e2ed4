package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{RoundStatusInProgress, RoundStatusPaused, true},
		{RoundStatusInProgress, RoundStatusCompleted, true},
		{RoundStatusInProgress, RoundStatusAbandoned, true},
		{RoundStatusInProgress, RoundStatusInProgress, false},
		{RoundStatusPaused, RoundStatusInProgress, true},
		{RoundStatusPaused, RoundStatusCompleted, true},
		{RoundStatusPaused, RoundStatusAbandoned, true},
		{RoundStatusPaused, RoundStatusPaused, false},
		{RoundStatusCompleted, RoundStatusInProgress, false},
		{RoundStatusCompleted, RoundStatusAbandoned, false},
		{RoundStatusAbandoned, RoundStatusCompleted, false},
		{RoundStatusAbandoned, RoundStatusPaused, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestRoundIsActive(t *testing.T) {
	assert.True(t, (&Round{Status: RoundStatusInProgress}).IsActive())
	assert.True(t, (&Round{Status: RoundStatusPaused}).IsActive())
	assert.False(t, (&Round{Status: RoundStatusCompleted}).IsActive())
	assert.False(t, (&Round{Status: RoundStatusAbandoned}).IsActive())
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "Golfer", (&User{}).DisplayName())
}

func TestNormalizePage(t *testing.T) {
	page, size, offset := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)
	assert.Zero(t, offset)

	page, size, offset = NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageSize, size)
	assert.Equal(t, 200, offset)

	p := NewPage[string](nil, 2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
}
