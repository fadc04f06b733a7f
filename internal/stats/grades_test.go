package stats

import (
	"testing"

	"github.com/edusuite/scolaris/internal/models"
)

func TestAverageGrades(t *testing.T) {
	avg := AverageGrades(map[models.Criterion]float64{
		models.Participation: 18,
		models.Homework:      14,
	})
	if !avg.HasData {
		t.Fatal("expected data")
	}
	if avg.Mean != 16 {
		t.Fatalf("mean = %v, want 16", avg.Mean)
	}
	if TierOf(avg) != TierExcellent {
		t.Fatalf("tier = %q, want excellent", TierOf(avg))
	}
}

func TestAverageGrades_AbsentIsNotZero(t *testing.T) {
	// only one of four criteria recorded: mean is over present values only
	avg := AverageGrades(map[models.Criterion]float64{models.Conduct: 12})
	if avg.Mean != 12 {
		t.Fatalf("mean = %v, want 12", avg.Mean)
	}
}

func TestAverageGrades_Rounding(t *testing.T) {
	avg := AverageGrades(map[models.Criterion]float64{
		models.Participation: 10,
		models.Conduct:       10,
		models.Homework:      11,
	})
	if avg.Mean != 10.33 {
		t.Fatalf("mean = %v, want 10.33", avg.Mean)
	}
}

func TestAverageGrades_NoData(t *testing.T) {
	avg := AverageGrades(nil)
	if avg.HasData {
		t.Fatal("empty input must not report data")
	}
	if avg.Mean != 0 {
		t.Fatalf("mean = %v, want 0 sentinel", avg.Mean)
	}
	if TierOf(avg) != TierNoData {
		t.Fatalf("tier = %q, want no_data, not insufficient", TierOf(avg))
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	cases := []struct {
		mean float64
		want Tier
	}{
		{20, TierExcellent},
		{16, TierExcellent},
		{15.99, TierVeryGood},
		{14, TierVeryGood},
		{13.5, TierGood},
		{12, TierGood},
		{11, TierPassable},
		{10, TierPassable},
		{9.99, TierInsufficient},
		{0, TierInsufficient},
	}
	for _, tc := range cases {
		if got := TierFor(tc.mean); got != tc.want {
			t.Fatalf("TierFor(%v) = %q, want %q", tc.mean, got, tc.want)
		}
	}
}

func TestTierLabel(t *testing.T) {
	if TierLabel(TierNoData) != "No data" {
		t.Fatal("no-data tier must render as No data")
	}
	if TierLabel(TierVeryGood) != "Very good" {
		t.Fatal("bad very_good label")
	}
}
