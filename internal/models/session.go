package models

import "time"

type Course struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	TeacherID int64  `db:"teacher_id"`
	ClassName string `db:"class_name"`
}

// Session is one scheduled class meeting. Completed stays false until a
// teacher explicitly toggles it; sessions are never deleted automatically.
type Session struct {
	ID         int64     `db:"id"`
	CourseID   int64     `db:"course_id"`
	CourseName string    `db:"course_name"`
	ClassName  string    `db:"class_name"`
	Date       time.Time `db:"session_date"`
	StartTime  string    `db:"start_time"`
	EndTime    *string   `db:"end_time"`
	Completed  bool      `db:"completed"`
	CreatedAt  time.Time `db:"created_at"`
}

type AbsenceRecord struct {
	ID            int64     `db:"id"`
	StudentID     int64     `db:"student_id"`
	CourseID      int64     `db:"course_id"`
	Date          time.Time `db:"absence_date"`
	DurationHours float64   `db:"duration_hours"`
	CreatedAt     time.Time `db:"created_at"`
}

type Notification struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Kind      string    `db:"kind"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}
