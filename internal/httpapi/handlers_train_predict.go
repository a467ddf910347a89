package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/classifier"
	"github.com/galahad-project/galahad/internal/errs"
)

// handleTrain enqueues a build and returns 202 immediately: the HTTP request
// never waits on training. A build already in flight for this (classifier,
// model) pair surfaces as ConcurrencyRejected, mapped to 429.
func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request, classifierName, modelID, datasetID string) {
	_, err := s.scheduler.Submit(r.Context(), classifierName, datasetID, modelID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNoContent2xx(w, http.StatusAccepted)
}

// handlePredict runs inline on the request goroutine, returning the
// enriched Document or 404 when the named model was never trained.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request, classifierName, modelID string) {
	var doc annotation.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, r, errs.InvalidNamef("malformed document JSON: %v", err))
		return
	}

	out, err := s.scheduler.Predict(r.Context(), classifierName, modelID, doc)
	if err != nil {
		if errors.Is(err, classifier.ErrNotTrained) {
			s.writeError(w, r, errs.NotFoundf("Model with id [%s] not found.", modelID))
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// writeNoContent2xx writes an empty body with a caller-chosen 2xx status,
// for endpoints (like 202 Accepted) that aren't plain 204 No Content.
func (s *Server) writeNoContent2xx(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}
