package export

import (
	"os"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edusuite/scolaris/internal/models"
)

func TestGeneratePlanning(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, loc)
	end := "10:30"

	sessions := []models.Session{
		{Date: now.AddDate(0, 0, -1), StartTime: "09:00", CourseName: "Maths", ClassName: "3A"},
		{Date: now, StartTime: "14:00", EndTime: &end, CourseName: "Maths", ClassName: "3A", Completed: true},
	}

	path, err := GeneratePlanning(sessions, now, loc, 120)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Planning", "F1"); got != "Status" {
		t.Fatalf("F1 = %q, want Status", got)
	}
	// yesterday, not completed: overdue, derived end time 09:00+120min
	if got, _ := f.GetCellValue("Planning", "F2"); got != "Overdue" {
		t.Fatalf("F2 = %q, want Overdue", got)
	}
	if got, _ := f.GetCellValue("Planning", "C2"); got != "11:00" {
		t.Fatalf("C2 = %q, want derived 11:00", got)
	}
	// completed wins even on today's date; explicit end time is kept
	if got, _ := f.GetCellValue("Planning", "F3"); got != "Completed" {
		t.Fatalf("F3 = %q, want Completed", got)
	}
	if got, _ := f.GetCellValue("Planning", "C3"); got != "10:30" {
		t.Fatalf("C3 = %q, want explicit 10:30", got)
	}
}

func TestBuildPlanningFilename(t *testing.T) {
	got := BuildPlanningFilename("course", `Maths: 3A/always?`)
	if got != "Planning — course — Maths_ 3A_always_.xlsx" {
		t.Fatalf("got %q", got)
	}
}
