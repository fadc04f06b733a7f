package app

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/edusuite/scolaris/internal/ctxutil"
	"github.com/edusuite/scolaris/internal/metrics"
	"github.com/edusuite/scolaris/internal/models"
)

// authMiddleware checks the Bearer token and threads user id and role through
// the request context; no hidden globals, handlers read them back via ctxutil.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := parseToken(s.cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := ctxutil.WithUserID(r.Context(), claims.UserID)
		ctx = ctxutil.WithRole(ctx, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a handler to the listed roles; admin always passes.
func (s *Server) requireRole(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			role, ok := ctxutil.Role(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "no role")
				return
			}
			if role == models.Admin {
				next(w, r)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden")
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.log.Debugw("request", "route", route, "method", r.Method, "status", rec.status, "elapsed", elapsed)
	}
}
