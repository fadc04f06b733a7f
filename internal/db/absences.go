package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edusuite/scolaris/internal/models"
)

func AddAbsence(ctx context.Context, database *sql.DB, a models.AbsenceRecord) (int64, error) {
	if a.DurationHours <= 0 {
		return 0, fmt.Errorf("absence duration must be positive, got %v", a.DurationHours)
	}
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO absences (student_id, course_id, absence_date, duration_hours)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		a.StudentID, a.CourseID, a.Date, a.DurationHours).Scan(&id)
	return id, err
}

// ListAbsencesByStudent returns the student's records, optionally scoped to
// one course. No date windowing: the at-risk total runs over everything.
func ListAbsencesByStudent(ctx context.Context, database *sql.DB, studentID int64, courseID *int64) ([]models.AbsenceRecord, error) {
	q := `
		SELECT id, student_id, course_id, absence_date, duration_hours, created_at
		FROM absences WHERE student_id = $1`
	args := []any{studentID}
	if courseID != nil {
		q += ` AND course_id = $2`
		args = append(args, *courseID)
	}
	q += ` ORDER BY absence_date DESC`

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AbsenceRecord
	for rows.Next() {
		var a models.AbsenceRecord
		if err := rows.Scan(&a.ID, &a.StudentID, &a.CourseID, &a.Date, &a.DurationHours, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
