package model

// ScoreDistribution counts holes by score relative to par.
type ScoreDistribution struct {
	EagleOrBetter      int `json:"eagle_or_better"`
	Birdies            int `json:"birdies"`
	Pars               int `json:"pars"`
	Bogeys             int `json:"bogeys"`
	DoubleBogeyOrWorse int `json:"double_bogey_or_worse"`
}

type StatsSummary struct {
	RoundsPlayed          int               `json:"rounds_played"`
	AverageScore          *float64          `json:"average_score"`
	BestScore             *int              `json:"best_score"`
	WorstScore            *int              `json:"worst_score"`
	AveragePutts          *float64          `json:"average_putts"`
	FairwayPercentage     *float64          `json:"fairway_percentage"`
	GIRPercentage         *float64          `json:"gir_percentage"`
	Distribution          ScoreDistribution `json:"distribution"`
	HandicapIndexEstimate *float64          `json:"handicap_index_estimate"`
}

type RoundStats struct {
	RoundID           string            `json:"round_id"`
	HolesPlayed       int               `json:"holes_played"`
	TotalScore        int               `json:"total_score"`
	ParPlayed         int               `json:"par_played"`
	ScoreToPar        int               `json:"score_to_par"`
	TotalPutts        int               `json:"total_putts"`
	FairwaysHit       int               `json:"fairways_hit"`
	FairwayAttempts   int               `json:"fairway_attempts"`
	GreensInReg       int               `json:"greens_in_regulation"`
	Penalties         int               `json:"penalties"`
	Distribution      ScoreDistribution `json:"distribution"`
	ScoreDifferential *float64          `json:"score_differential"`
}

type TrendPoint struct {
	RoundID    string `json:"round_id"`
	CourseName string `json:"course_name"`
	RoundDate  string `json:"round_date"`
	TotalScore int    `json:"total_score"`
	ScoreToPar int    `json:"score_to_par"`
}
