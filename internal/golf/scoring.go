package golf

import (
	"math"
	"sort"
)

const (
	TermEagleOrBetter      = "eagle_or_better"
	TermBirdie             = "birdie"
	TermPar                = "par"
	TermBogey              = "bogey"
	TermDoubleBogeyOrWorse = "double_bogey_or_worse"
)

// ScoreTerm classifies a hole score against its par.
func ScoreTerm(score, par int) string {
	switch diff := score - par; {
	case diff <= -2:
		return TermEagleOrBetter
	case diff == -1:
		return TermBirdie
	case diff == 0:
		return TermPar
	case diff == 1:
		return TermBogey
	default:
		return TermDoubleBogeyOrWorse
	}
}

// GreenInRegulation reports whether the green was reached in par-2 strokes.
func GreenInRegulation(score, putts, par int) bool {
	return score-putts <= par-2
}

// ScoreDifferential is the World Handicap System differential for an 18-hole score.
func ScoreDifferential(adjustedGross int, courseRating float64, slope int) float64 {
	if slope <= 0 {
		return 0
	}
	return Round1(113 / float64(slope) * (float64(adjustedGross) - courseRating))
}

// handicapTable maps the number of available differentials to how many of the
// lowest are averaged and the adjustment applied.
var handicapTable = map[int]struct {
	count  int
	adjust float64
}{
	3: {1, -2}, 4: {1, -1}, 5: {1, 0}, 6: {2, -1}, 7: {2, 0}, 8: {2, 0},
	9: {3, 0}, 10: {3, 0}, 11: {3, 0}, 12: {4, 0}, 13: {4, 0}, 14: {4, 0},
	15: {5, 0}, 16: {5, 0}, 17: {6, 0}, 18: {6, 0}, 19: {7, 0}, 20: {8, 0},
}

// HandicapIndex estimates a handicap index from the most recent differentials
// (newest first). Fewer than three differentials yield ok == false.
func HandicapIndex(differentials []float64) (index float64, ok bool) {
	if len(differentials) > 20 {
		differentials = differentials[:20]
	}
	rule, found := handicapTable[len(differentials)]
	if !found {
		return 0, false
	}

	sorted := append([]float64(nil), differentials...)
	sort.Float64s(sorted)

	var sum float64
	for _, d := range sorted[:rule.count] {
		sum += d
	}
	index = sum/float64(rule.count) + rule.adjust
	return math.Min(Round1(index), 54), true
}
