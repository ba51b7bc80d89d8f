package server

import (
	"errors"
	"net/http"

	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if s.defaultID == "" {
		http.Error(w, "no default opus id configured", http.StatusNotFound)
		return
	}
	s.serveOpus(w, r, s.defaultID)
}

func (s *Server) handleOpus(w http.ResponseWriter, r *http.Request) {
	s.serveOpus(w, r, r.PathValue("id"))
}

func (s *Server) serveOpus(w http.ResponseWriter, r *http.Request, id string) {
	logger := s.requestLogger(r)
	if !opus.ValidID(id) {
		http.Error(w, "invalid opus id", http.StatusBadRequest)
		return
	}

	doc, err := s.pipeline.Run(r.Context(), id)
	if err != nil {
		var apiErr *opus.APIError
		switch {
		case errors.Is(err, opus.ErrMissingContent):
			logger.Warn().Str("id", id).Msg("Module content not found, check opus id and cookie settings")
		case errors.As(err, &apiErr):
			logger.Warn().Str("id", id).Int("code", apiErr.Code).Str("api_message", apiErr.Message).Msg("opus API error")
		default:
			logger.Error().Err(err).Str("id", id).Msg("failed to fetch opus")
		}
		http.Error(w, "failed to render opus "+id, http.StatusBadGateway)
		return
	}

	page, err := s.page.Render(doc.Fragment, doc.Meta)
	if err != nil {
		logger.Error().Err(err).Str("id", id).Msg("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
