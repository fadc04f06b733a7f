package stats

import (
	"math"

	"github.com/edusuite/scolaris/internal/models"
)

// GradeAverage keeps "no grades recorded" distinct from "mean is zero":
// HasData is false on empty input and Mean is only meaningful when it is true.
type GradeAverage struct {
	Mean    float64
	HasData bool
}

// AverageGrades computes the arithmetic mean over the criteria that are
// present in the map, rounded to two decimals. Absent criteria are skipped,
// not treated as zero.
func AverageGrades(values map[models.Criterion]float64) GradeAverage {
	if len(values) == 0 {
		return GradeAverage{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	return GradeAverage{
		Mean:    math.Round(mean*100) / 100,
		HasData: true,
	}
}

type Tier string

const (
	TierExcellent    Tier = "excellent"
	TierVeryGood     Tier = "very_good"
	TierGood         Tier = "good"
	TierPassable     Tier = "passable"
	TierInsufficient Tier = "insufficient"
	TierNoData       Tier = "no_data"
)

// TierFor maps a mean on the 0-20 scale to its qualitative tier. Lower bounds
// are inclusive; every real mean lands in exactly one tier.
func TierFor(mean float64) Tier {
	switch {
	case mean >= 16:
		return TierExcellent
	case mean >= 14:
		return TierVeryGood
	case mean >= 12:
		return TierGood
	case mean >= 10:
		return TierPassable
	default:
		return TierInsufficient
	}
}

// TierOf labels an average, reporting no-data instead of insufficient when
// nothing was recorded.
func TierOf(avg GradeAverage) Tier {
	if !avg.HasData {
		return TierNoData
	}
	return TierFor(avg.Mean)
}

// TierLabel is the display name the portals render.
func TierLabel(t Tier) string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierVeryGood:
		return "Very good"
	case TierGood:
		return "Good"
	case TierPassable:
		return "Passable"
	case TierInsufficient:
		return "Insufficient"
	default:
		return "No data"
	}
}
