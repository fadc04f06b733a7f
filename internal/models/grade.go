package models

import "time"

// Criterion is the closed set of graded criteria. A criterion with no stored
// value is absent, never zero.
type Criterion string

const (
	Participation Criterion = "participation"
	Attendance    Criterion = "attendance"
	Conduct       Criterion = "conduct"
	Homework      Criterion = "homework"
)

var Criteria = []Criterion{Participation, Attendance, Conduct, Homework}

func (c Criterion) Valid() bool {
	switch c {
	case Participation, Attendance, Conduct, Homework:
		return true
	}
	return false
}

type GradeEntry struct {
	ID        int64     `db:"id"`
	StudentID int64     `db:"student_id"`
	CourseID  int64     `db:"course_id"`
	Criterion Criterion `db:"criterion"`
	Value     float64   `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
