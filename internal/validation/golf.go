package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MinHandicap    = -10.0
	MaxHandicap    = 54.0
	MaxHoleScore   = 20
	MaxNotesLength = 1000
)

func ValidateHandicap(handicap float64) error {
	if math.IsNaN(handicap) || handicap < MinHandicap || handicap > MaxHandicap {
		return fmt.Errorf("handicap must be between %.0f and %.0f", MinHandicap, MaxHandicap)
	}
	return nil
}

func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("coordinates out of range")
	}
	return nil
}

func ValidateHoleNumber(hole, totalHoles int) error {
	if hole < 1 || hole > totalHoles {
		return fmt.Errorf("hole number must be between 1 and %d", totalHoles)
	}
	return nil
}

// HoleScoreInput is the user-supplied part of a hole score.
type HoleScoreInput struct {
	Score     int
	Putts     *int
	Penalties int
	Notes     string
}

// ValidateHoleScore checks a hole score for internal consistency.
func ValidateHoleScore(in HoleScoreInput) error {
	errs := Errors{}
	errs.Check(in.Score >= 1 && in.Score <= MaxHoleScore, "score", fmt.Sprintf("score must be between 1 and %d", MaxHoleScore))
	if in.Putts != nil {
		errs.Check(*in.Putts >= 0 && *in.Putts <= in.Score, "putts", "putts must be between 0 and the hole score")
	}
	errs.Check(in.Penalties >= 0 && in.Penalties < in.Score, "penalties", "penalties must be fewer than the hole score")
	errs.Check(utf8.RuneCountInString(in.Notes) <= MaxNotesLength, "notes", "notes are too long")
	return errs.Err()
}

func ValidateChatMessage(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return fmt.Errorf("message is required")
	}
	if utf8.RuneCountInString(trimmed) > 2000 {
		return fmt.Errorf("message is too long (max 2000 characters)")
	}
	return nil
}
