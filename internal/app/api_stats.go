package app

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/db"
	"github.com/edusuite/scolaris/internal/metrics"
	"github.com/edusuite/scolaris/internal/models"
	"github.com/edusuite/scolaris/internal/stats"
)

type sessionStatsView struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Overdue   int `json:"overdue"`

	TodaySessions    []sessionView `json:"today_sessions,omitempty"`
	UpcomingSessions []sessionView `json:"upcoming_sessions,omitempty"`
	OverdueSessions  []sessionView `json:"overdue_sessions,omitempty"`
}

func (s *Server) sessionStatsView(sessions []models.Session) sessionStatsView {
	now := time.Now().In(s.cfg.Location)
	st := stats.ClassifySessions(sessions, now, s.cfg.Location)
	metrics.Aggregations.WithLabelValues("sessions").Inc()

	view := sessionStatsView{
		Total:     st.Total,
		Completed: st.Completed,
		Today:     st.Today,
		Upcoming:  st.Upcoming,
		Overdue:   st.Overdue,
	}
	for _, m := range st.TodaySessions {
		view.TodaySessions = append(view.TodaySessions, s.sessionView(m, now))
	}
	for _, m := range st.UpcomingSessions {
		view.UpcomingSessions = append(view.UpcomingSessions, s.sessionView(m, now))
	}
	for _, m := range st.OverdueSessions {
		view.OverdueSessions = append(view.OverdueSessions, s.sessionView(m, now))
	}
	return view
}

func (s *Server) handleCourseSessionStats(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad course id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	sessions, err := db.ListSessionsByCourse(ctx, s.database, courseID)
	if err != nil {
		s.internalError(w, "course_session_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionStatsView(sessions))
}

func (s *Server) handleTeacherSessionStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	userID, _ := ctxutil.UserID(ctx)

	sessions, err := db.ListSessionsByTeacher(ctx, s.database, userID)
	if err != nil {
		s.internalError(w, "my_session_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionStatsView(sessions))
}

// canAccessStudent enforces scoping: students see themselves, parents their
// linked children, teachers and admins everyone.
func (s *Server) canAccessStudent(ctx context.Context, studentID int64) bool {
	role, _ := ctxutil.Role(ctx)
	userID, _ := ctxutil.UserID(ctx)
	switch role {
	case models.Admin, models.Teacher:
		return true
	case models.Student:
		return userID == studentID
	case models.Parent:
		children, err := db.ListChildren(ctx, s.database, userID)
		if err != nil {
			return false
		}
		for _, c := range children {
			if c.ID == studentID {
				return true
			}
		}
	}
	return false
}

type absenceView struct {
	CourseID int64   `json:"course_id"`
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
}

type absenceSummaryView struct {
	Hours   float64       `json:"hours"`
	AtRisk  bool          `json:"at_risk"`
	Records []absenceView `json:"records"`
}

func (s *Server) handleStudentAbsences(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad student id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if !s.canAccessStudent(ctx, studentID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var courseID *int64
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad course_id")
			return
		}
		courseID = &id
	}

	records, err := db.ListAbsencesByStudent(ctx, s.database, studentID, courseID)
	if err != nil {
		s.internalError(w, "student_absences", err)
		return
	}
	sum := stats.SummarizeAbsences(records, s.cfg.AbsenceThresholdHours)
	metrics.Aggregations.WithLabelValues("absences").Inc()

	view := absenceSummaryView{Hours: sum.Hours, AtRisk: sum.AtRisk, Records: []absenceView{}}
	for _, rec := range records {
		view.Records = append(view.Records, absenceView{
			CourseID: rec.CourseID,
			Date:     rec.Date.In(s.cfg.Location).Format("2006-01-02"),
			Hours:    rec.DurationHours,
		})
	}
	writeJSON(w, http.StatusOK, view)
}

type gradeAverageView struct {
	Mean    float64                      `json:"mean"`
	HasData bool                         `json:"has_data"`
	Tier    string                       `json:"tier"`
	Label   string                       `json:"label"`
	Values  map[models.Criterion]float64 `json:"values"`
}

func (s *Server) gradeAverageView(values map[models.Criterion]float64) gradeAverageView {
	avg := stats.AverageGrades(values)
	tier := stats.TierOf(avg)
	metrics.Aggregations.WithLabelValues("grades").Inc()
	if values == nil {
		values = map[models.Criterion]float64{}
	}
	return gradeAverageView{
		Mean:    avg.Mean,
		HasData: avg.HasData,
		Tier:    string(tier),
		Label:   stats.TierLabel(tier),
		Values:  values,
	}
}

// handleStudentGrades returns the per-course average when course_id is given,
// otherwise per-course averages for every course with entries.
func (s *Server) handleStudentGrades(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad student id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if !s.canAccessStudent(ctx, studentID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if raw := r.URL.Query().Get("course_id"); raw != "" {
		courseID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad course_id")
			return
		}
		values, err := db.GetGradeValues(ctx, s.database, studentID, courseID)
		if err != nil {
			s.internalError(w, "student_grades", err)
			return
		}
		writeJSON(w, http.StatusOK, s.gradeAverageView(values))
		return
	}

	entries, err := db.ListGradesByStudent(ctx, s.database, studentID)
	if err != nil {
		s.internalError(w, "student_grades", err)
		return
	}
	byCourse := make(map[int64]map[models.Criterion]float64)
	for _, g := range entries {
		if byCourse[g.CourseID] == nil {
			byCourse[g.CourseID] = make(map[models.Criterion]float64)
		}
		byCourse[g.CourseID][g.Criterion] = g.Value
	}
	out := make(map[string]gradeAverageView, len(byCourse))
	for courseID, values := range byCourse {
		out[strconv.FormatInt(courseID, 10)] = s.gradeAverageView(values)
	}
	writeJSON(w, http.StatusOK, out)
}

type dashboardView struct {
	Absences absenceSummaryView          `json:"absences"`
	Grades   map[string]gradeAverageView `json:"grades"`
	Sessions sessionStatsView            `json:"sessions"`
}

// handleStudentDashboard fans out the three fetches and aggregates what it
// got. A failed branch falls back to its zero value instead of failing the
// whole response; the fan-out is best effort by design.
func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad student id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if !s.canAccessStudent(ctx, studentID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	student, err := db.GetUserByID(ctx, s.database, studentID)
	if err != nil || student == nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}

	var view dashboardView
	view.Grades = map[string]gradeAverageView{}

	if records, err := db.ListAbsencesByStudent(ctx, s.database, studentID, nil); err == nil {
		sum := stats.SummarizeAbsences(records, s.cfg.AbsenceThresholdHours)
		view.Absences = absenceSummaryView{Hours: sum.Hours, AtRisk: sum.AtRisk, Records: []absenceView{}}
		for _, rec := range records {
			view.Absences.Records = append(view.Absences.Records, absenceView{
				CourseID: rec.CourseID,
				Date:     rec.Date.In(s.cfg.Location).Format("2006-01-02"),
				Hours:    rec.DurationHours,
			})
		}
	} else {
		s.log.Warnw("dashboard absences failed, using defaults", "student_id", studentID, "err", err)
		view.Absences = absenceSummaryView{Records: []absenceView{}}
	}

	if entries, err := db.ListGradesByStudent(ctx, s.database, studentID); err == nil {
		byCourse := make(map[int64]map[models.Criterion]float64)
		for _, g := range entries {
			if byCourse[g.CourseID] == nil {
				byCourse[g.CourseID] = make(map[models.Criterion]float64)
			}
			byCourse[g.CourseID][g.Criterion] = g.Value
		}
		for courseID, values := range byCourse {
			view.Grades[strconv.FormatInt(courseID, 10)] = s.gradeAverageView(values)
		}
	} else {
		s.log.Warnw("dashboard grades failed, using defaults", "student_id", studentID, "err", err)
	}

	if student.ClassName != nil {
		if sessions, err := db.ListSessionsByClass(ctx, s.database, *student.ClassName); err == nil {
			view.Sessions = s.sessionStatsView(sessions)
		} else {
			s.log.Warnw("dashboard sessions failed, using defaults", "student_id", studentID, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, view)
}

type notificationView struct {
	Kind      string `json:"kind"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleRecentNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	userID, _ := ctxutil.UserID(ctx)

	now := time.Now().In(s.cfg.Location)
	since := now.Add(-time.Duration(s.cfg.RecentWindowHours) * time.Hour)
	items, err := db.ListNotificationsSince(ctx, s.database, userID, since)
	if err != nil {
		s.internalError(w, "notifications", err)
		return
	}
	out := make([]notificationView, 0, len(items))
	for _, n := range items {
		// the query already windows; IsRecent guards clock skew on created_at
		if !stats.IsRecent(n.CreatedAt, now, s.cfg.RecentWindowHours) {
			continue
		}
		out = append(out, notificationView{
			Kind:      n.Kind,
			Body:      n.Body,
			CreatedAt: n.CreatedAt.In(s.cfg.Location).Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
