package model

import "time"

type ClubRecommendation struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	RoundID         *string   `db:"round_id" json:"round_id"`
	HoleNumber      *int      `db:"hole_number" json:"hole_number"`
	DistanceYards   float64   `db:"distance_yards" json:"distance_yards"`
	PlaysLikeYards  float64   `db:"plays_like_yards" json:"plays_like_yards"`
	RecommendedClub string    `db:"recommended_club" json:"recommended_club"`
	Reason          string    `db:"reason" json:"reason"`
	WasAccepted     *bool     `db:"was_accepted" json:"was_accepted"`
	ActualClubUsed  *string   `db:"actual_club_used" json:"actual_club_used"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
