package stats

import (
	"time"

	"github.com/edusuite/scolaris/internal/models"
)

const (
	DefaultAbsenceThresholdHours = 12
	DefaultRecentWindowHours     = 48
)

type AbsenceSummary struct {
	Hours  float64
	AtRisk bool
}

// SummarizeAbsences totals duration hours over the given records. Empty input
// is zero hours, not at risk. AtRisk when the total reaches thresholdHours.
func SummarizeAbsences(records []models.AbsenceRecord, thresholdHours float64) AbsenceSummary {
	if thresholdHours <= 0 {
		thresholdHours = DefaultAbsenceThresholdHours
	}
	var sum AbsenceSummary
	for _, r := range records {
		if r.DurationHours > 0 {
			sum.Hours += r.DurationHours
		}
	}
	sum.AtRisk = sum.Hours >= thresholdHours
	return sum
}

// IsRecent reports whether t falls within the lookback window ending at now.
// Future timestamps are not recent.
func IsRecent(t, now time.Time, windowHours int) bool {
	if windowHours <= 0 {
		windowHours = DefaultRecentWindowHours
	}
	if t.IsZero() {
		return false
	}
	age := now.Sub(t)
	return age >= 0 && age <= time.Duration(windowHours)*time.Hour
}
