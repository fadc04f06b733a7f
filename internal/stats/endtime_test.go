package stats

import "testing"

func TestEndTime(t *testing.T) {
	cases := []struct {
		start, explicit string
		duration        int
		want            string
	}{
		{"09:00", "", 120, "11:00"},
		{"23:30", "", 90, "01:00"},
		{"08:15", "", 45, "09:00"},
		{"10:00", "12:30", 120, "12:30"}, // explicit wins
		{"09:00", "", 0, "11:00"},        // default duration
		{"00:00", "", 1440, "00:00"},     // full-day wrap
	}
	for _, tc := range cases {
		got, err := EndTime(tc.start, tc.explicit, tc.duration)
		if err != nil {
			t.Fatalf("EndTime(%q, %q, %d): %v", tc.start, tc.explicit, tc.duration, err)
		}
		if got != tc.want {
			t.Fatalf("EndTime(%q, %q, %d) = %q, want %q", tc.start, tc.explicit, tc.duration, got, tc.want)
		}
	}
}

func TestEndTime_BadStart(t *testing.T) {
	for _, start := range []string{"", "9", "25:00", "09:99", "ab:cd"} {
		if _, err := EndTime(start, "", 120); err == nil {
			t.Fatalf("EndTime(%q) expected error", start)
		}
	}
}
