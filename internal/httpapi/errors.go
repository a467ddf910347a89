package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/galahad-project/galahad/internal/errs"
)

// errorResponse is the wire shape for 4xx/5xx bodies: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.InvalidName:
		return http.StatusUnprocessableEntity
	case errs.NotFound:
		return http.StatusNotFound
	case errs.AlreadyExists:
		return http.StatusConflict
	case errs.ConcurrencyRejected:
		return http.StatusTooManyRequests
	case errs.AlreadyRegistered:
		// Startup-only programmer error; never reachable once serving
		// begins, but map defensively rather than panic.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs the error and writes the §7 envelope. 5xx bodies carry a
// generic message, never the underlying error text or a stack trace.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	status := statusFor(kind)

	detail := err.Error()
	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		detail = domainErr.Detail
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		detail = "internal server error"
	}

	s.writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
