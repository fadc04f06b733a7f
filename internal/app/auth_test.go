package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/edusuite/scolaris/internal/config"
	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/models"
)

func TestTokenRoundtrip(t *testing.T) {
	token, err := generateToken("secret", 42, models.Teacher)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := parseToken("secret", token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 || claims.Role != models.Teacher {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := generateToken("secret", 42, models.Teacher)
	if _, err := parseToken("other", token); err == nil {
		t.Fatal("expected error with wrong secret")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := parseToken("secret", "not.a.token"); err == nil {
		t.Fatal("expected error")
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		cfg: &config.Config{JWTSecret: "secret"},
		log: zap.NewNop().Sugar(),
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := testServer(t)
	var gotUser int64
	var gotRole models.Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = ctxutil.UserID(r.Context())
		gotRole, _ = ctxutil.Role(r.Context())
	})
	h := s.authMiddleware(next)

	// no token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}

	// valid token
	token, _ := generateToken("secret", 7, models.Parent)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if gotUser != 7 || gotRole != models.Parent {
		t.Fatalf("context carried user=%d role=%q", gotUser, gotRole)
	}
}

func TestRequireRole(t *testing.T) {
	s := testServer(t)
	called := false
	h := s.requireRole(models.Teacher)(func(w http.ResponseWriter, r *http.Request) { called = true })

	run := func(role models.Role) int {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ctxutil.WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}

	if code := run(models.Teacher); code != http.StatusOK || !called {
		t.Fatalf("teacher: code=%d called=%v", code, called)
	}
	if code := run(models.Admin); code != http.StatusOK || !called {
		t.Fatalf("admin must pass any gate: code=%d called=%v", code, called)
	}
	if code := run(models.Student); code != http.StatusForbidden || called {
		t.Fatalf("student: code=%d called=%v", code, called)
	}
}
