package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bugdesk/internal/api"
)

func (s *Server) handleReportCreate(w http.ResponseWriter, r *http.Request) {
	var req api.ReportCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	report, err := s.service.Submit(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.ReportResponse{Report: report})
}

func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("invalid limit %q", raw)))
			return
		}
		limit = parsed
	}

	reports, err := s.service.List(r.Context(), query.Get("status"), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.ReportListResponse{Reports: reports})
}

func (s *Server) handleReportGet(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.ReportResponse{Report: report})
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	var req api.ReportStatusRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	report, err := s.service.ChangeStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.ReportResponse{Report: report})
}
