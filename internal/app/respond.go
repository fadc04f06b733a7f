package app

import (
	"encoding/json"
	"net/http"

	"github.com/edusuite/scolaris/internal/metrics"
	"github.com/edusuite/scolaris/internal/observability"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	if code >= 500 {
		metrics.HandlerErrors.Inc()
	}
	writeJSON(w, code, apiError{Error: msg})
}

// internalError hides the cause from the client but keeps it for Sentry.
func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Errorw("handler failed", "op", op, "err", err)
	observability.CaptureErr(err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
