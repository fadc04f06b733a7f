package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/edusuite/scolaris/internal/config"
	"github.com/edusuite/scolaris/internal/metrics"
)

type Server struct {
	cfg      *config.Config
	database *sql.DB
	log      *zap.SugaredLogger
	validate *validator.Validate

	srv *http.Server
}

func NewServer(cfg *config.Config, database *sql.DB, log *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:      cfg,
		database: database,
		log:      log,
		validate: validator.New(),
	}

	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/login", s.instrument("login", s.handleLogin)).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)

	teacherOnly := s.requireRole("teacher")
	adminOnly := s.requireRole()

	// administration
	api.HandleFunc("/users", s.instrument("user_create", adminOnly(s.handleCreateUser))).Methods(http.MethodPost)
	api.HandleFunc("/parents/{id}/children", s.instrument("link_child", adminOnly(s.handleLinkChild))).Methods(http.MethodPost)
	api.HandleFunc("/courses", s.instrument("course_create", adminOnly(s.handleCreateCourse))).Methods(http.MethodPost)

	// planning
	api.HandleFunc("/me/courses", s.instrument("my_courses", teacherOnly(s.handleMyCourses))).Methods(http.MethodGet)
	api.HandleFunc("/classes/{name}/courses", s.instrument("class_courses", s.handleClassCourses)).Methods(http.MethodGet)
	api.HandleFunc("/courses/{id}/sessions", s.instrument("sessions_list", s.handleListCourseSessions)).Methods(http.MethodGet)
	api.HandleFunc("/courses/{id}/sessions/generate", s.instrument("sessions_generate", teacherOnly(s.handleGenerateSessions))).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/completed", s.instrument("session_toggle", teacherOnly(s.handleToggleSession))).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{id}", s.instrument("session_delete", teacherOnly(s.handleDeleteSession))).Methods(http.MethodDelete)
	api.HandleFunc("/planning/export", s.instrument("planning_export", s.handlePlanningExport)).Methods(http.MethodGet)

	// aggregates
	api.HandleFunc("/courses/{id}/session-stats", s.instrument("course_session_stats", s.handleCourseSessionStats)).Methods(http.MethodGet)
	api.HandleFunc("/me/session-stats", s.instrument("my_session_stats", teacherOnly(s.handleTeacherSessionStats))).Methods(http.MethodGet)
	api.HandleFunc("/students/{id}/absences", s.instrument("student_absences", s.handleStudentAbsences)).Methods(http.MethodGet)
	api.HandleFunc("/students/{id}/grades", s.instrument("student_grades", s.handleStudentGrades)).Methods(http.MethodGet)
	api.HandleFunc("/students/{id}/dashboard", s.instrument("student_dashboard", s.handleStudentDashboard)).Methods(http.MethodGet)
	api.HandleFunc("/me/notifications", s.instrument("notifications", s.handleRecentNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/me/children", s.instrument("my_children", s.requireRole("parent")(s.handleMyChildren))).Methods(http.MethodGet)

	// record keeping
	api.HandleFunc("/absences", s.instrument("absence_add", teacherOnly(s.handleAddAbsence))).Methods(http.MethodPost)
	api.HandleFunc("/grades", s.instrument("grade_upsert", teacherOnly(s.handleUpsertGrade))).Methods(http.MethodPut)
	api.HandleFunc("/grades", s.instrument("grade_delete", teacherOnly(s.handleDeleteGrade))).Methods(http.MethodDelete)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	s.srv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("http server", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shCtx)
	}()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.database.PingContext(ctx); err != nil {
		http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	_, _ = w.Write([]byte("ok"))
}
