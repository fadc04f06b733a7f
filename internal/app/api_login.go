package app

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/db"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
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

	user, err := db.GetUserByEmail(ctx, s.database, req.Email)
	if err != nil {
		s.internalError(w, "login", err)
		return
	}
	if user == nil || !user.IsActive {
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}

	token, err := generateToken(s.cfg.JWTSecret, user.ID, user.Role)
	if err != nil {
		s.internalError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Name: user.Name, Role: string(user.Role)})
}
