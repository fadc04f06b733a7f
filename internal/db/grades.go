package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edusuite/scolaris/internal/models"
)

// UpsertGrade records one criterion value for a student in a course. A missing
// criterion is represented by the absence of a row, never by value 0.
func UpsertGrade(ctx context.Context, database *sql.DB, g models.GradeEntry) error {
	if !g.Criterion.Valid() {
		return fmt.Errorf("unknown criterion %q", g.Criterion)
	}
	if g.Value < 0 || g.Value > 20 {
		return fmt.Errorf("grade value %v out of 0-20 range", g.Value)
	}
	_, err := database.ExecContext(ctx, `
		INSERT INTO grades (student_id, course_id, criterion, value, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (student_id, course_id, criterion)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		g.StudentID, g.CourseID, g.Criterion, g.Value)
	return err
}

func DeleteGrade(ctx context.Context, database *sql.DB, studentID, courseID int64, criterion models.Criterion) error {
	_, err := database.ExecContext(ctx, `
		DELETE FROM grades WHERE student_id = $1 AND course_id = $2 AND criterion = $3`,
		studentID, courseID, criterion)
	return err
}

// GetGradeValues returns the criterion map for one student in one course,
// exactly the shape the grade aggregator consumes.
func GetGradeValues(ctx context.Context, database *sql.DB, studentID, courseID int64) (map[models.Criterion]float64, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT criterion, value FROM grades
		WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[models.Criterion]float64)
	for rows.Next() {
		var c models.Criterion
		var v float64
		if err := rows.Scan(&c, &v); err != nil {
			return nil, err
		}
		values[c] = v
	}
	return values, rows.Err()
}

// ListGradesByStudent returns all entries across courses, for the overall view.
func ListGradesByStudent(ctx context.Context, database *sql.DB, studentID int64) ([]models.GradeEntry, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, student_id, course_id, criterion, value, updated_at
		FROM grades WHERE student_id = $1
		ORDER BY course_id, criterion`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GradeEntry
	for rows.Next() {
		var g models.GradeEntry
		if err := rows.Scan(&g.ID, &g.StudentID, &g.CourseID, &g.Criterion, &g.Value, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
