package service

import (
	"testing"
	"time"

	"github.com/caddieai/caddie/internal/markdown"
	"github.com/caddieai/caddie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundSummaryEmail(t *testing.T) {
	round := &model.Round{RoundDate: time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)}
	stats := &model.RoundStats{
		HolesPlayed:     9,
		TotalScore:      39,
		ScoreToPar:      3,
		TotalPutts:      16,
		FairwaysHit:     4,
		FairwayAttempts: 7,
		GreensInReg:     3,
		Distribution:    model.ScoreDistribution{Birdies: 1, Pars: 5, Bogeys: 3},
	}

	subject, body := roundSummaryEmailTemplate("Ada", "Harbour Links", round, stats, "CaddieAI")
	assert.Equal(t, "Your round at Harbour Links", subject)
	assert.Contains(t, body, "| Total score | 39 (+3) |")
	assert.Contains(t, body, "Jun 14, 2026")

	html, err := markdown.NewRenderer().HTML(body)
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Harbour Links</strong>")
	assert.Contains(t, html, "<td>4/7</td>")
}

func TestFormatToPar(t *testing.T) {
	assert.Equal(t, "E", formatToPar(0))
	assert.Equal(t, "+2", formatToPar(2))
	assert.Equal(t, "-1", formatToPar(-1))
}
