package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edusuite/scolaris/internal/models"
)

// GenerateSessions inserts one session per date for the course. Conflicts on
// (course_id, session_date, start_time) are ignored so regeneration is
// idempotent. Returns the number of rows attempted.
func GenerateSessions(ctx context.Context, database *sql.DB, courseID int64, dates []time.Time, startTime string, endTime *string) (int, error) {
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sessions (course_id, session_date, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (course_id, session_date, start_time) DO NOTHING
	`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, d := range dates {
		if _, err := stmt.ExecContext(ctx, courseID, d, startTime, endTime); err != nil {
			return 0, err
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// SetSessionCompleted flips the done flag. The session must belong to a course
// taught by teacherID; otherwise no row changes and an error is returned.
func SetSessionCompleted(ctx context.Context, database *sql.DB, sessionID, teacherID int64, completed bool) error {
	res, err := database.ExecContext(ctx, `
		UPDATE sessions s SET completed = $1
		FROM courses c
		WHERE s.id = $2 AND c.id = s.course_id AND c.teacher_id = $3`,
		completed, sessionID, teacherID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %d not found for teacher %d", sessionID, teacherID)
	}
	return nil
}

// DeleteSession removes one session, again gated on course ownership.
// Deletion only ever happens through this explicit call.
func DeleteSession(ctx context.Context, database *sql.DB, sessionID, teacherID int64) error {
	res, err := database.ExecContext(ctx, `
		DELETE FROM sessions s
		USING courses c
		WHERE s.id = $1 AND c.id = s.course_id AND c.teacher_id = $2`,
		sessionID, teacherID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %d not found for teacher %d", sessionID, teacherID)
	}
	return nil
}

const sessionSelect = `
	SELECT s.id, s.course_id, c.name, c.class_name, s.session_date, s.start_time, s.end_time, s.completed, s.created_at
	FROM sessions s
	JOIN courses c ON c.id = s.course_id`

func ListSessionsByCourse(ctx context.Context, database *sql.DB, courseID int64) ([]models.Session, error) {
	return listSessions(ctx, database, sessionSelect+`
		WHERE s.course_id = $1
		ORDER BY s.session_date, s.start_time`, courseID)
}

func ListSessionsByTeacher(ctx context.Context, database *sql.DB, teacherID int64) ([]models.Session, error) {
	return listSessions(ctx, database, sessionSelect+`
		WHERE c.teacher_id = $1
		ORDER BY s.session_date, s.start_time`, teacherID)
}

// ListSessionsByClass feeds the student/parent planning views.
func ListSessionsByClass(ctx context.Context, database *sql.DB, className string) ([]models.Session, error) {
	return listSessions(ctx, database, sessionSelect+`
		WHERE c.class_name = $1
		ORDER BY s.session_date, s.start_time`, className)
}

func listSessions(ctx context.Context, database *sql.DB, q string, args ...any) ([]models.Session, error) {
	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.CourseID, &s.CourseName, &s.ClassName, &s.Date, &s.StartTime, &s.EndTime, &s.Completed, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
