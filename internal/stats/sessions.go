// Package stats holds the pure aggregation core: session classification,
// absence-hour totals and grade averages. Everything here is a read-only
// function of its inputs; callers fetch snapshots first and render after.
package stats

import (
	"time"

	"github.com/edusuite/scolaris/internal/models"
)

// SessionStats classifies a set of sessions relative to a reference time.
// Temporal buckets (Today/Upcoming/Overdue) are disjoint and day-granular;
// Completed is orthogonal, so a session can be both today and completed.
type SessionStats struct {
	Total     int
	Completed int
	Today     int
	Upcoming  int
	Overdue   int

	TodaySessions    []models.Session
	UpcomingSessions []models.Session
	OverdueSessions  []models.Session
}

// ClassifySessions buckets sessions by calendar day in loc. A session dated
// today always counts as today, even when it is also overdue-eligible.
// Sessions with a zero date stay out of the temporal buckets but still count
// toward Total; a single bad record never fails the whole aggregation.
func ClassifySessions(sessions []models.Session, now time.Time, loc *time.Location) SessionStats {
	if loc == nil {
		loc = time.Local
	}
	st := SessionStats{Total: len(sessions)}
	today := dayOf(now, loc)

	for _, s := range sessions {
		if s.Completed {
			st.Completed++
		}
		if s.Date.IsZero() {
			continue
		}
		day := dayOf(s.Date, loc)
		switch {
		case day.Equal(today):
			st.Today++
			st.TodaySessions = append(st.TodaySessions, s)
		case day.After(today):
			st.Upcoming++
			st.UpcomingSessions = append(st.UpcomingSessions, s)
		case !s.Completed:
			st.Overdue++
			st.OverdueSessions = append(st.OverdueSessions, s)
		}
	}
	return st
}

// Status is the temporal label the planning export and UI collaborators
// attach to a single session row.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusToday     Status = "today"
	StatusUpcoming  Status = "upcoming"
	StatusOverdue   Status = "overdue"
	StatusUnknown   Status = "unknown" // missing or malformed date
)

// StatusOf labels one session with the same precedence ClassifySessions uses:
// completed wins, then today over overdue.
func StatusOf(s models.Session, now time.Time, loc *time.Location) Status {
	if loc == nil {
		loc = time.Local
	}
	if s.Completed {
		return StatusCompleted
	}
	if s.Date.IsZero() {
		return StatusUnknown
	}
	today := dayOf(now, loc)
	day := dayOf(s.Date, loc)
	switch {
	case day.Equal(today):
		return StatusToday
	case day.After(today):
		return StatusUpcoming
	default:
		return StatusOverdue
	}
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
