//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/edusuite/scolaris/internal/db"
	"github.com/edusuite/scolaris/internal/models"
	"github.com/edusuite/scolaris/internal/testutil/testdb"
)

func TestSessions_GenerateToggleDelete(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	teacherID := mustSeedUser(t, h.DB, "prof@example.org", "M. Martin", models.Teacher, nil)
	courseID, err := db.CreateCourse(ctx, h.DB, models.Course{
		Name: "Mathématiques", TeacherID: teacherID, ClassName: "3A",
	})
	if err != nil {
		t.Fatal(err)
	}

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{day, day.AddDate(0, 0, 7), day.AddDate(0, 0, 14)}
	n, err := db.GenerateSessions(ctx, h.DB, courseID, dates, "09:00", nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("inserted %d, want 3", n)
	}

	// regeneration must not duplicate
	if _, err := db.GenerateSessions(ctx, h.DB, courseID, dates, "09:00", nil); err != nil {
		t.Fatal(err)
	}
	sessions, err := db.ListSessionsByCourse(ctx, h.DB, courseID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions after regeneration, want 3", len(sessions))
	}
	if sessions[0].CourseName != "Mathématiques" || sessions[0].ClassName != "3A" {
		t.Fatalf("denormalized names not joined: %+v", sessions[0])
	}
	if sessions[0].Completed {
		t.Fatal("new session must start not completed")
	}

	if err := db.SetSessionCompleted(ctx, h.DB, sessions[0].ID, teacherID, true); err != nil {
		t.Fatal(err)
	}
	sessions, _ = db.ListSessionsByCourse(ctx, h.DB, courseID)
	if !sessions[0].Completed {
		t.Fatal("toggle did not stick")
	}

	// another teacher must not be able to toggle or delete
	otherID := mustSeedUser(t, h.DB, "autre@example.org", "Mme Durand", models.Teacher, nil)
	if err := db.SetSessionCompleted(ctx, h.DB, sessions[0].ID, otherID, false); err == nil {
		t.Fatal("expected ownership error on toggle")
	}
	if err := db.DeleteSession(ctx, h.DB, sessions[0].ID, otherID); err == nil {
		t.Fatal("expected ownership error on delete")
	}

	if err := db.DeleteSession(ctx, h.DB, sessions[0].ID, teacherID); err != nil {
		t.Fatal(err)
	}
	sessions, _ = db.ListSessionsByCourse(ctx, h.DB, courseID)
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions after delete, want 2", len(sessions))
	}
}

func TestGrades_UpsertAndFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	teacherID := mustSeedUser(t, h.DB, "prof@example.org", "M. Martin", models.Teacher, nil)
	studentID := mustSeedUser(t, h.DB, "eleve@example.org", "Lucas Petit", models.Student, ptrString("3A"))
	courseID, err := db.CreateCourse(ctx, h.DB, models.Course{
		Name: "Histoire", TeacherID: teacherID, ClassName: "3A",
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, g := range []models.GradeEntry{
		{StudentID: studentID, CourseID: courseID, Criterion: models.Participation, Value: 18},
		{StudentID: studentID, CourseID: courseID, Criterion: models.Homework, Value: 12},
	} {
		if err := db.UpsertGrade(ctx, h.DB, g); err != nil {
			t.Fatal(err)
		}
	}
	// second upsert overwrites, no duplicate row
	if err := db.UpsertGrade(ctx, h.DB, models.GradeEntry{
		StudentID: studentID, CourseID: courseID, Criterion: models.Homework, Value: 14,
	}); err != nil {
		t.Fatal(err)
	}

	values, err := db.GetGradeValues(ctx, h.DB, studentID, courseID)
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 2 {
		t.Fatalf("got %d criteria, want 2 (absent criteria must stay absent)", len(values))
	}
	if values[models.Homework] != 14 {
		t.Fatalf("homework = %v, want 14 after upsert", values[models.Homework])
	}

	if err := db.UpsertGrade(ctx, h.DB, models.GradeEntry{
		StudentID: studentID, CourseID: courseID, Criterion: "magie", Value: 10,
	}); err == nil {
		t.Fatal("expected error for unknown criterion")
	}
	if err := db.UpsertGrade(ctx, h.DB, models.GradeEntry{
		StudentID: studentID, CourseID: courseID, Criterion: models.Conduct, Value: 25,
	}); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}

func TestAbsences_AddAndList(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	teacherID := mustSeedUser(t, h.DB, "prof@example.org", "M. Martin", models.Teacher, nil)
	studentID := mustSeedUser(t, h.DB, "eleve@example.org", "Lucas Petit", models.Student, ptrString("3A"))
	courseID, _ := db.CreateCourse(ctx, h.DB, models.Course{Name: "SVT", TeacherID: teacherID, ClassName: "3A"})
	otherCourse, _ := db.CreateCourse(ctx, h.DB, models.Course{Name: "Anglais", TeacherID: teacherID, ClassName: "3A"})

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, a := range []models.AbsenceRecord{
		{StudentID: studentID, CourseID: courseID, Date: day, DurationHours: 5},
		{StudentID: studentID, CourseID: courseID, Date: day.AddDate(0, 0, 1), DurationHours: 8},
		{StudentID: studentID, CourseID: otherCourse, Date: day, DurationHours: 2},
	} {
		if _, err := db.AddAbsence(ctx, h.DB, a); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.AddAbsence(ctx, h.DB, models.AbsenceRecord{
		StudentID: studentID, CourseID: courseID, Date: day, DurationHours: 0,
	}); err == nil {
		t.Fatal("expected error for non-positive duration")
	}

	all, err := db.ListAbsencesByStudent(ctx, h.DB, studentID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records overall, want 3", len(all))
	}
	scoped, err := db.ListAbsencesByStudent(ctx, h.DB, studentID, &courseID)
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 2 {
		t.Fatalf("got %d records for course, want 2", len(scoped))
	}
}

func mustSeedUser(t *testing.T, database *sql.DB, email, name string, role models.Role, className *string) int64 {
	t.Helper()
	var id int64
	err := database.QueryRow(`
		INSERT INTO users (email, name, role, class_name, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id`, email, name, string(role), className).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func ptrString(v string) *string { return &v }
