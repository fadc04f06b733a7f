package app

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/db"
	"github.com/edusuite/scolaris/internal/export"
	"github.com/edusuite/scolaris/internal/models"
	"github.com/edusuite/scolaris/internal/stats"
)

type sessionView struct {
	ID        int64  `json:"id"`
	CourseID  int64  `json:"course_id"`
	Course    string `json:"course"`
	Class     string `json:"class"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Completed bool   `json:"completed"`
	Status    string `json:"status"`
}

func (s *Server) sessionView(m models.Session, now time.Time) sessionView {
	v := sessionView{
		ID:        m.ID,
		CourseID:  m.CourseID,
		Course:    m.CourseName,
		Class:     m.ClassName,
		StartTime: m.StartTime,
		Completed: m.Completed,
		Status:    string(stats.StatusOf(m, now, s.cfg.Location)),
	}
	if !m.Date.IsZero() {
		v.Date = m.Date.In(s.cfg.Location).Format("2006-01-02")
	}
	explicit := ""
	if m.EndTime != nil {
		explicit = *m.EndTime
	}
	// derived end time is best effort; a malformed start just omits it
	if end, err := stats.EndTime(m.StartTime, explicit, s.cfg.DefaultSessionDurationMin); err == nil {
		v.EndTime = end
	}
	return v
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleListCourseSessions(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad course id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	sessions, err := db.ListSessionsByCourse(ctx, s.database, courseID)
	if err != nil {
		s.internalError(w, "sessions_list", err)
		return
	}
	now := time.Now().In(s.cfg.Location)
	views := make([]sessionView, 0, len(sessions))
	for _, m := range sessions {
		views = append(views, s.sessionView(m, now))
	}
	writeJSON(w, http.StatusOK, views)
}

type generateSessionsRequest struct {
	From      string  `json:"from" validate:"required,datetime=2006-01-02"`
	To        string  `json:"to" validate:"required,datetime=2006-01-02"`
	Weekday   int     `json:"weekday" validate:"min=0,max=6"` // 0 = Sunday
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   *string `json:"end_time,omitempty"`
}

// handleGenerateSessions bulk-creates one session per matching weekday in the
// range. Regeneration over the same range is idempotent.
func (s *Server) handleGenerateSessions(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad course id")
		return
	}
	var req generateSessionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		writeError(w, http.StatusBadRequest, "bad start_time")
		return
	}

	from, _ := time.ParseInLocation("2006-01-02", req.From, s.cfg.Location)
	to, _ := time.ParseInLocation("2006-01-02", req.To, s.cfg.Location)
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to before from")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if !s.ownsCourse(ctx, w, courseID) {
		return
	}

	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if int(d.Weekday()) == req.Weekday {
			dates = append(dates, d)
		}
	}
	n, err := db.GenerateSessions(ctx, s.database, courseID, dates, req.StartTime, req.EndTime)
	if err != nil {
		s.internalError(w, "sessions_generate", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"generated": n})
}

type toggleRequest struct {
	Completed bool `json:"completed"`
}

func (s *Server) handleToggleSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad session id")
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	userID, _ := ctxutil.UserID(ctx)

	if err := db.SetSessionCompleted(ctx, s.database, sessionID, userID, req.Completed); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": req.Completed})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad session id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	userID, _ := ctxutil.UserID(ctx)

	if err := db.DeleteSession(ctx, s.database, sessionID, userID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePlanningExport streams an Excel planning for the caller's scope:
// teachers get their own sessions, anyone can pass course_id.
func (s *Server) handlePlanningExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	var (
		sessions []models.Session
		err      error
	)
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		courseID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "bad course_id")
			return
		}
		sessions, err = db.ListSessionsByCourse(ctx, s.database, courseID)
	} else {
		userID, _ := ctxutil.UserID(ctx)
		sessions, err = db.ListSessionsByTeacher(ctx, s.database, userID)
	}
	if err != nil {
		s.internalError(w, "planning_export", err)
		return
	}

	now := time.Now().In(s.cfg.Location)
	path, err := export.GeneratePlanning(sessions, now, s.cfg.Location, s.cfg.DefaultSessionDurationMin)
	if err != nil {
		s.internalError(w, "planning_export", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="planning.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

type courseView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TeacherID int64  `json:"teacher_id"`
	ClassName string `json:"class_name"`
}

// handleMyCourses lists the calling teacher's courses.
func (s *Server) handleMyCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	userID, _ := ctxutil.UserID(ctx)

	courses, err := db.ListCoursesByTeacher(ctx, s.database, userID)
	if err != nil {
		s.internalError(w, "my_courses", err)
		return
	}
	writeJSON(w, http.StatusOK, courseViews(courses))
}

// handleClassCourses lists a class's courses for the student/parent portals.
func (s *Server) handleClassCourses(w http.ResponseWriter, r *http.Request) {
	className := mux.Vars(r)["name"]
	if className == "" {
		writeError(w, http.StatusBadRequest, "bad class name")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	courses, err := db.ListCoursesByClass(ctx, s.database, className)
	if err != nil {
		s.internalError(w, "class_courses", err)
		return
	}
	writeJSON(w, http.StatusOK, courseViews(courses))
}

func courseViews(courses []models.Course) []courseView {
	out := make([]courseView, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseView{ID: c.ID, Name: c.Name, TeacherID: c.TeacherID, ClassName: c.ClassName})
	}
	return out
}

// ownsCourse writes the error response itself on failure.
func (s *Server) ownsCourse(ctx context.Context, w http.ResponseWriter, courseID int64) bool {
	course, err := db.GetCourseByID(ctx, s.database, courseID)
	if err != nil {
		s.internalError(w, "course_lookup", err)
		return false
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found")
		return false
	}
	userID, _ := ctxutil.UserID(ctx)
	role, _ := ctxutil.Role(ctx)
	if role != models.Admin && course.TeacherID != userID {
		writeError(w, http.StatusForbidden, "not your course")
		return false
	}
	return true
}
