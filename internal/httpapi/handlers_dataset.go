package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/galahad-project/galahad/internal/annotation"
	"github.com/galahad-project/galahad/internal/errs"
)

type datasetListResponse struct {
	Names []string `json:"names"`
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := s.repo.ListDatasets()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, datasetListResponse{Names: names})
}

func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.repo.CreateDataset(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNoContent(w)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.repo.DeleteDataset(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNoContent(w)
}

type datasetDetailResponse struct {
	Names    []string `json:"names"`
	Versions []int    `json:"versions"`
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request, id string) {
	infos, err := s.repo.ListDocuments(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := datasetDetailResponse{
		Names:    make([]string, len(infos)),
		Versions: make([]int, len(infos)),
	}
	for i, info := range infos {
		resp.Names[i] = info.Name
		resp.Versions[i] = info.Version
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request, datasetID, documentID string) {
	var doc annotation.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, r, errs.InvalidNamef("malformed document JSON: %v", err))
		return
	}

	if err := s.repo.PutDocument(datasetID, documentID, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNoContent(w)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, datasetID, documentID string) {
	if err := s.repo.DeleteDocument(datasetID, documentID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNoContent(w)
}
