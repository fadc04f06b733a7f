package stats

import (
	"testing"
	"time"

	"github.com/edusuite/scolaris/internal/models"
)

func TestSummarizeAbsences(t *testing.T) {
	sum := SummarizeAbsences([]models.AbsenceRecord{
		{DurationHours: 5},
		{DurationHours: 8},
	}, 12)
	if sum.Hours != 13 {
		t.Fatalf("hours = %v, want 13", sum.Hours)
	}
	if !sum.AtRisk {
		t.Fatal("13h over a 12h threshold must be at risk")
	}
}

func TestSummarizeAbsences_Empty(t *testing.T) {
	sum := SummarizeAbsences(nil, 12)
	if sum.Hours != 0 || sum.AtRisk {
		t.Fatalf("empty input must be 0h not-at-risk, got %+v", sum)
	}
}

func TestSummarizeAbsences_ThresholdInclusive(t *testing.T) {
	sum := SummarizeAbsences([]models.AbsenceRecord{{DurationHours: 12}}, 12)
	if !sum.AtRisk {
		t.Fatal("exactly 12h must already be at risk")
	}
	sum = SummarizeAbsences([]models.AbsenceRecord{{DurationHours: 11.5}}, 12)
	if sum.AtRisk {
		t.Fatal("11.5h must not be at risk")
	}
}

func TestSummarizeAbsences_IgnoresNonPositiveDurations(t *testing.T) {
	sum := SummarizeAbsences([]models.AbsenceRecord{
		{DurationHours: -3},
		{DurationHours: 0},
		{DurationHours: 2},
	}, 12)
	if sum.Hours != 2 {
		t.Fatalf("hours = %v, want 2", sum.Hours)
	}
}

func TestIsRecent(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"one hour ago", now.Add(-time.Hour), true},
		{"exactly at window", now.Add(-48 * time.Hour), true},
		{"past window", now.Add(-49 * time.Hour), false},
		{"future", now.Add(time.Hour), false},
		{"zero", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRecent(tc.t, now, 48); got != tc.want {
				t.Fatalf("IsRecent = %v, want %v", got, tc.want)
			}
		})
	}
}
