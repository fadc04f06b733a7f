package stats

import (
	"testing"
	"time"

	"github.com/edusuite/scolaris/internal/models"
)

var paris = mustLoc("Europe/Paris")

func mustLoc(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func sessionOn(t time.Time, completed bool) models.Session {
	return models.Session{Date: t, Completed: completed}
}

func TestClassifySessions_Scenario(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, paris)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	sessions := []models.Session{
		sessionOn(yesterday, false),
		sessionOn(now, false),
		sessionOn(tomorrow, false),
		sessionOn(yesterday, true),
	}

	st := ClassifySessions(sessions, now, paris)
	if st.Total != 4 || st.Completed != 1 || st.Today != 1 || st.Overdue != 1 || st.Upcoming != 1 {
		t.Fatalf("got %+v, want total=4 completed=1 today=1 overdue=1 upcoming=1", st)
	}
}

func TestClassifySessions_CompletedOrthogonal(t *testing.T) {
	// completed + notCompleted == total, and completed does not pull a
	// session out of the today bucket
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, paris)
	sessions := []models.Session{
		sessionOn(now, true),
		sessionOn(now, false),
		sessionOn(now.AddDate(0, 0, 3), true),
	}
	st := ClassifySessions(sessions, now, paris)
	if st.Today != 2 {
		t.Fatalf("today = %d, want 2 (completed state must not matter)", st.Today)
	}
	if st.Completed != 2 {
		t.Fatalf("completed = %d, want 2", st.Completed)
	}
	if notDone := st.Total - st.Completed; notDone != 1 {
		t.Fatalf("total-completed = %d, want 1", notDone)
	}
}

func TestClassifySessions_OverdueOnlyWhenNotCompleted(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, paris)
	past := now.AddDate(0, 0, -5)
	st := ClassifySessions([]models.Session{
		sessionOn(past, true),
		sessionOn(past, false),
	}, now, paris)
	if st.Overdue != 1 {
		t.Fatalf("overdue = %d, want 1", st.Overdue)
	}
	for _, s := range st.OverdueSessions {
		if s.Completed {
			t.Fatal("completed session classified overdue")
		}
		if !s.Date.Before(now) {
			t.Fatal("overdue session not in the past")
		}
	}
}

func TestClassifySessions_SameInstantIsToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 30, 0, 0, paris)
	st := ClassifySessions([]models.Session{sessionOn(now, false)}, now, paris)
	if st.Today != 1 || st.Upcoming != 0 {
		t.Fatalf("session at now must be today, got %+v", st)
	}
}

func TestClassifySessions_LaterTodayIsStillToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, paris)
	evening := time.Date(2025, 3, 12, 20, 0, 0, 0, paris)
	st := ClassifySessions([]models.Session{sessionOn(evening, false)}, now, paris)
	if st.Today != 1 || st.Upcoming != 0 {
		t.Fatalf("same calendar day must be today, got %+v", st)
	}
}

func TestClassifySessions_ZeroDateExcludedFromTemporal(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, paris)
	st := ClassifySessions([]models.Session{
		{Completed: true}, // no date at all
		sessionOn(now, false),
	}, now, paris)
	if st.Total != 2 {
		t.Fatalf("total = %d, want 2", st.Total)
	}
	if got := st.Today + st.Upcoming + st.Overdue; got != 1 {
		t.Fatalf("temporal buckets hold %d sessions, want 1", got)
	}
}

func TestClassifySessions_Empty(t *testing.T) {
	st := ClassifySessions(nil, time.Now(), paris)
	if st.Total != 0 || st.Completed != 0 || st.Today != 0 || st.Upcoming != 0 || st.Overdue != 0 {
		t.Fatalf("empty input must produce zeroes, got %+v", st)
	}
}

func TestStatusOf(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, paris)
	cases := []struct {
		name string
		s    models.Session
		want Status
	}{
		{"completed wins", sessionOn(now.AddDate(0, 0, -1), true), StatusCompleted},
		{"today", sessionOn(now, false), StatusToday},
		{"upcoming", sessionOn(now.AddDate(0, 0, 2), false), StatusUpcoming},
		{"overdue", sessionOn(now.AddDate(0, 0, -2), false), StatusOverdue},
		{"no date", models.Session{}, StatusUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusOf(tc.s, now, paris); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifySessions_TimezoneBoundary(t *testing.T) {
	// 23:30 UTC on the 12th is already 00:30 on the 13th in Paris;
	// classification must follow the requested location, not the
	// timestamp's own zone.
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, paris)
	lateUTC := time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC)
	st := ClassifySessions([]models.Session{sessionOn(lateUTC, false)}, now, paris)
	if st.Upcoming != 1 || st.Today != 0 {
		t.Fatalf("expected upcoming in Paris, got %+v", st)
	}
}
