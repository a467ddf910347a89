package httpapi

import (
	"net/http"

	"github.com/galahad-project/galahad/internal/classifier"
)

func (s *Server) handleListClassifiers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.ListInfos())
}

func (s *Server) handleGetClassifier(w http.ResponseWriter, r *http.Request, name string) {
	if _, err := s.registry.Get(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, classifier.Info{Name: name})
}
