package app

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/db"
	"github.com/edusuite/scolaris/internal/models"
)

type createUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Name      string  `json:"name" validate:"required"`
	Role      string  `json:"role" validate:"required,oneof=student teacher parent admin"`
	ClassName *string `json:"class_name,omitempty"`
	ChatID    *int64  `json:"chat_id,omitempty"`
	Password  string  `json:"password" validate:"required,min=8"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, "user_create", err)
		return
	}

	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	id, err := db.CreateUser(ctx, s.database, models.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         models.Role(req.Role),
		ClassName:    req.ClassName,
		ChatID:       req.ChatID,
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		writeError(w, http.StatusConflict, "could not create user")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type childView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ClassName *string `json:"class_name,omitempty"`
}

// handleMyChildren lists the children linked to the calling parent.
func (s *Server) handleMyChildren(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	userID, _ := ctxutil.UserID(ctx)

	children, err := db.ListChildren(ctx, s.database, userID)
	if err != nil {
		s.internalError(w, "my_children", err)
		return
	}
	out := make([]childView, 0, len(children))
	for _, c := range children {
		out = append(out, childView{ID: c.ID, Name: c.Name, ClassName: c.ClassName})
	}
	writeJSON(w, http.StatusOK, out)
}

type createCourseRequest struct {
	Name      string `json:"name" validate:"required"`
	TeacherID int64  `json:"teacher_id" validate:"required,gt=0"`
	ClassName string `json:"class_name" validate:"required"`
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
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

	teacher, err := db.GetUserByID(ctx, s.database, req.TeacherID)
	if err != nil {
		s.internalError(w, "course_create", err)
		return
	}
	if teacher == nil || teacher.Role != models.Teacher {
		writeError(w, http.StatusNotFound, "teacher not found")
		return
	}

	id, err := db.CreateCourse(ctx, s.database, models.Course{
		Name:      req.Name,
		TeacherID: req.TeacherID,
		ClassName: req.ClassName,
	})
	if err != nil {
		s.internalError(w, "course_create", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type linkChildRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
}

// handleLinkChild attaches a student to the parent identified in the path.
func (s *Server) handleLinkChild(w http.ResponseWriter, r *http.Request) {
	parentID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad parent id")
		return
	}
	var req linkChildRequest
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

	parent, err := db.GetUserByID(ctx, s.database, parentID)
	if err != nil {
		s.internalError(w, "link_child", err)
		return
	}
	if parent == nil || parent.Role != models.Parent {
		writeError(w, http.StatusNotFound, "parent not found")
		return
	}
	student, err := db.GetUserByID(ctx, s.database, req.StudentID)
	if err != nil {
		s.internalError(w, "link_child", err)
		return
	}
	if student == nil || student.Role != models.Student {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}

	if err := db.LinkChild(ctx, s.database, parentID, req.StudentID); err != nil {
		s.internalError(w, "link_child", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
