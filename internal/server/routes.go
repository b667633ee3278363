package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withRequestLogging)

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/reports", s.handleReportCreate)
		r.Get("/reports", s.handleReportList)
		r.Patch("/reports", s.handleReportStatus)
		r.Get("/reports/{id}", s.handleReportGet)

		r.Post("/uploads", s.handleUpload)
		r.Get("/attachments/{key}", s.handleAttachment)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
