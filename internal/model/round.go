package model

import (
	"time"
)

const (
	RoundStatusInProgress = "in_progress"
	RoundStatusPaused     = "paused"
	RoundStatusCompleted  = "completed"
	RoundStatusAbandoned  = "abandoned"
)

type Round struct {
	ID                 string     `db:"id" json:"id"`
	UserID             string     `db:"user_id" json:"user_id"`
	CourseID           string     `db:"course_id" json:"course_id"`
	RoundDate          time.Time  `db:"round_date" json:"round_date"`
	StartTime          time.Time  `db:"start_time" json:"start_time"`
	EndTime            *time.Time `db:"end_time" json:"end_time,omitempty"`
	CurrentHole        int        `db:"current_hole" json:"current_hole"`
	Status             string     `db:"status" json:"status"`
	TotalScore         *int       `db:"total_score" json:"total_score"`
	TotalPutts         *int       `db:"total_putts" json:"total_putts"`
	FairwaysHit        *int       `db:"fairways_hit" json:"fairways_hit"`
	GreensInRegulation *int       `db:"greens_in_regulation" json:"greens_in_regulation"`
	WeatherConditions  string     `db:"weather_conditions" json:"weather_conditions"`
	Temperature        *float64   `db:"temperature" json:"temperature"`
	Notes              string     `db:"notes" json:"notes"`
	ScorecardFileID    *string    `db:"scorecard_file_id" json:"-"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`

	Course       *Course      `db:"-" json:"course,omitempty"`
	HoleScores   []*HoleScore `db:"-" json:"hole_scores,omitempty"`
	ScorecardURL string       `db:"-" json:"scorecard_url,omitempty"`
}

// IsActive reports whether the round still accepts scores and location updates.
func (r *Round) IsActive() bool {
	return r.Status == RoundStatusInProgress || r.Status == RoundStatusPaused
}

// roundTransitions lists the statuses each status may move to.
var roundTransitions = map[string][]string{
	RoundStatusInProgress: {RoundStatusPaused, RoundStatusCompleted, RoundStatusAbandoned},
	RoundStatusPaused:     {RoundStatusInProgress, RoundStatusCompleted, RoundStatusAbandoned},
}

// CanTransition reports whether a round in status from may move to status to.
func CanTransition(from, to string) bool {
	for _, next := range roundTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type HoleScore struct {
	ID                string    `db:"id" json:"id"`
	RoundID           string    `db:"round_id" json:"round_id"`
	HoleID            string    `db:"hole_id" json:"hole_id"`
	HoleNumber        int       `db:"hole_number" json:"hole_number"`
	Score             int       `db:"score" json:"score"`
	Putts             *int      `db:"putts" json:"putts"`
	FairwayHit        *bool     `db:"fairway_hit" json:"fairway_hit"`
	GreenInRegulation *bool     `db:"green_in_regulation" json:"green_in_regulation"`
	Penalties         int       `db:"penalties" json:"penalties"`
	Notes             string    `db:"notes" json:"notes"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`

	Par *int `db:"par" json:"par,omitempty"` // joined from holes
}

type Shot struct {
	ID            string    `db:"id" json:"id"`
	RoundID       string    `db:"round_id" json:"round_id"`
	HoleNumber    int       `db:"hole_number" json:"hole_number"`
	ShotNumber    int       `db:"shot_number" json:"shot_number"`
	Latitude      float64   `db:"latitude" json:"latitude"`
	Longitude     float64   `db:"longitude" json:"longitude"`
	Club          string    `db:"club" json:"club"`
	DistanceYards *float64  `db:"distance_yards" json:"distance_yards"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
