package app

import (
	"net/http"
	"time"

	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/db"
	"github.com/edusuite/scolaris/internal/models"
	"github.com/edusuite/scolaris/internal/stats"
)

type addAbsenceRequest struct {
	StudentID int64   `json:"student_id" validate:"required,gt=0"`
	CourseID  int64   `json:"course_id" validate:"required,gt=0"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Hours     float64 `json:"hours" validate:"required,gt=0,lte=24"`
}

func (s *Server) handleAddAbsence(w http.ResponseWriter, r *http.Request) {
	var req addAbsenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if !s.ownsCourse(ctx, w, req.CourseID) {
		return
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.cfg.Location)
	id, err := db.AddAbsence(ctx, s.database, models.AbsenceRecord{
		StudentID:     req.StudentID,
		CourseID:      req.CourseID,
		Date:          date,
		DurationHours: req.Hours,
	})
	if err != nil {
		s.internalError(w, "absence_add", err)
		return
	}

	// return the new overall total so the portal can flag at-risk immediately
	records, err := db.ListAbsencesByStudent(ctx, s.database, req.StudentID, nil)
	if err != nil {
		s.internalError(w, "absence_add", err)
		return
	}
	sum := stats.SummarizeAbsences(records, s.cfg.AbsenceThresholdHours)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"hours":   sum.Hours,
		"at_risk": sum.AtRisk,
	})
}

type upsertGradeRequest struct {
	StudentID int64   `json:"student_id" validate:"required,gt=0"`
	CourseID  int64   `json:"course_id" validate:"required,gt=0"`
	Criterion string  `json:"criterion" validate:"required"`
	Value     float64 `json:"value" validate:"min=0,max=20"`
}

func (s *Server) handleUpsertGrade(w http.ResponseWriter, r *http.Request) {
	var req upsertGradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	criterion := models.Criterion(req.Criterion)
	if !criterion.Valid() {
		writeError(w, http.StatusBadRequest, "unknown criterion")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if !s.ownsCourse(ctx, w, req.CourseID) {
		return
	}

	if err := db.UpsertGrade(ctx, s.database, models.GradeEntry{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Criterion: criterion,
		Value:     req.Value,
	}); err != nil {
		s.internalError(w, "grade_upsert", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteGradeRequest struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	CourseID  int64  `json:"course_id" validate:"required,gt=0"`
	Criterion string `json:"criterion" validate:"required"`
}

// handleDeleteGrade clears one criterion, returning it to "not recorded"
// rather than storing a zero.
func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	var req deleteGradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	criterion := models.Criterion(req.Criterion)
	if !criterion.Valid() {
		writeError(w, http.StatusBadRequest, "unknown criterion")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if !s.ownsCourse(ctx, w, req.CourseID) {
		return
	}

	if err := db.DeleteGrade(ctx, s.database, req.StudentID, req.CourseID, criterion); err != nil {
		s.internalError(w, "grade_delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
