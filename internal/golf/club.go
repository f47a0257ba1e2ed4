package golf

import (
	"errors"
	"fmt"
	"math"
)

const (
	ClubWedge  = "Wedge"
	Club9Iron  = "9 Iron"
	Club8Iron  = "8 Iron"
	Club7Iron  = "7 Iron"
	Club6Iron  = "6 Iron"
	Club5Iron  = "5 Iron"
	ClubHybrid = "Hybrid"
	Club3Wood  = "3 Wood"
	ClubDriver = "Driver"
	ClubPutter = "Putter"
)

var ErrInvalidDistance = errors.New("distance must be a positive number of yards")

// clubBand maps distances strictly below Under to Club.
type clubBand struct {
	Under float64
	Club  string
}

// clubBands is ordered by Under; distances past the last band take the driver.
var clubBands = []clubBand{
	{80, ClubWedge},
	{120, Club9Iron},
	{135, Club8Iron},
	{150, Club7Iron},
	{165, Club6Iron},
	{180, Club5Iron},
	{200, ClubHybrid},
	{230, Club3Wood},
}

// ClubForDistance returns the club for a distance in yards.
func ClubForDistance(yards float64) (string, error) {
	if yards <= 0 || math.IsNaN(yards) || math.IsInf(yards, 0) {
		return "", ErrInvalidDistance
	}
	for _, band := range clubBands {
		if yards < band.Under {
			return band.Club, nil
		}
	}
	return ClubDriver, nil
}

// Conditions adjust the raw distance to the distance a shot plays.
type Conditions struct {
	WindMph        float64 // positive is headwind, negative is tailwind
	ElevationYards float64 // positive when the target is uphill
}

// PlaysLike returns the effective distance of a shot under the given conditions.
// Headwind adds a yard per mph, tailwind takes off half a yard per mph.
func PlaysLike(yards float64, c Conditions) float64 {
	adjusted := yards + c.ElevationYards
	if c.WindMph > 0 {
		adjusted += c.WindMph
	} else {
		adjusted += c.WindMph * 0.5
	}
	if adjusted < 1 {
		adjusted = 1
	}
	return Round1(adjusted)
}

type Recommendation struct {
	Club           string  `json:"club"`
	DistanceYards  float64 `json:"distance_yards"`
	PlaysLikeYards float64 `json:"plays_like_yards"`
	Reason         string  `json:"reason"`
}

// Recommend picks a club for the plays-like distance and explains the choice.
func Recommend(yards float64, c Conditions) (Recommendation, error) {
	if yards <= 0 || math.IsNaN(yards) {
		return Recommendation{}, ErrInvalidDistance
	}

	playsLike := PlaysLike(yards, c)
	club, err := ClubForDistance(playsLike)
	if err != nil {
		return Recommendation{}, err
	}

	reason := fmt.Sprintf("%.0f yards", yards)
	if playsLike != Round1(yards) {
		reason = fmt.Sprintf("%.0f yards playing %.0f", yards, playsLike)
	}
	switch {
	case c.WindMph > 0:
		reason += fmt.Sprintf(", %.0f mph into the wind", c.WindMph)
	case c.WindMph < 0:
		reason += fmt.Sprintf(", %.0f mph downwind", -c.WindMph)
	}
	switch {
	case c.ElevationYards > 0:
		reason += fmt.Sprintf(", %.0f yards uphill", c.ElevationYards)
	case c.ElevationYards < 0:
		reason += fmt.Sprintf(", %.0f yards downhill", -c.ElevationYards)
	}

	return Recommendation{
		Club:           club,
		DistanceYards:  Round1(yards),
		PlaysLikeYards: playsLike,
		Reason:         reason,
	}, nil
}
