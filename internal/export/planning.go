package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edusuite/scolaris/internal/models"
	"github.com/edusuite/scolaris/internal/stats"
)

var statusLabels = map[stats.Status]string{
	stats.StatusCompleted: "Completed",
	stats.StatusToday:     "Today",
	stats.StatusUpcoming:  "Upcoming",
	stats.StatusOverdue:   "Overdue",
	stats.StatusUnknown:   "No date",
}

// GeneratePlanning writes a planning workbook: one row per session, labelled
// with the same classification the dashboards show. Missing end times are
// derived from the start time and durationMin. Returns the file path.
func GeneratePlanning(sessions []models.Session, now time.Time, loc *time.Location, durationMin int) (string, error) {
	f := excelize.NewFile()
	sheet := "Planning"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Start", "End", "Course", "Class", "Status"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s1", columName(i+1))
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, s := range sessions {
		row := i + 2
		if !s.Date.IsZero() {
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Date.In(loc).Format("02/01/2006"))
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.StartTime)

		explicit := ""
		if s.EndTime != nil {
			explicit = *s.EndTime
		}
		if end, err := stats.EndTime(s.StartTime, explicit, durationMin); err == nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), end)
		}

		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.CourseName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.ClassName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), statusLabels[stats.StatusOf(s, now, loc)])
	}

	if err := ApplyDefaultExcelFormatting(f, sheet); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("planning_%d.xlsx", time.Now().Unix())
	path := filepath.Join(os.TempDir(), filename)
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
