package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edusuite/scolaris/internal/models"
)

func GetCourseByID(ctx context.Context, database *sql.DB, id int64) (*models.Course, error) {
	var c models.Course
	err := database.QueryRowContext(ctx, `
		SELECT id, name, teacher_id, class_name FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.TeacherID, &c.ClassName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func CreateCourse(ctx context.Context, database *sql.DB, c models.Course) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO courses (name, teacher_id, class_name)
		VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.TeacherID, c.ClassName).Scan(&id)
	return id, err
}

func ListCoursesByTeacher(ctx context.Context, database *sql.DB, teacherID int64) ([]models.Course, error) {
	return listCourses(ctx, database, `
		SELECT id, name, teacher_id, class_name FROM courses
		WHERE teacher_id = $1 ORDER BY name`, teacherID)
}

func ListCoursesByClass(ctx context.Context, database *sql.DB, className string) ([]models.Course, error) {
	return listCourses(ctx, database, `
		SELECT id, name, teacher_id, class_name FROM courses
		WHERE class_name = $1 ORDER BY name`, className)
}

func listCourses(ctx context.Context, database *sql.DB, q string, args ...any) ([]models.Course, error) {
	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.ClassName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
