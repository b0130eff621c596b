package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/offering"
)

func (s *Server) handleListOfferings(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.registry.All())
}

func (s *Server) handleCreateOffering(w http.ResponseWriter, r *http.Request) {
	var off offering.Offering
	if err := json.NewDecoder(r.Body).Decode(&off); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.registry.Add(off); err != nil {
		s.respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	s.persistOfferings(w, r, http.StatusCreated, off)
}

func (s *Server) handleUpdateOffering(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var off offering.Offering
	if err := json.NewDecoder(r.Body).Decode(&off); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.registry.Update(name, off); err != nil {
		if errors.Is(err, offering.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "offering_not_found", "offering not found")
			return
		}
		s.respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	s.persistOfferings(w, r, http.StatusOK, off)
}

func (s *Server) handleDeleteOffering(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.registry.Delete(name); err != nil {
		if errors.Is(err, offering.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "offering_not_found", "offering not found")
			return
		}
		s.respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	s.persistOfferings(w, r, http.StatusOK, map[string]string{"deleted": name})
}

// persistOfferings saves the mutated registry and completes the request.
// A persistence failure is reported but does not roll the mutation back:
// the in-memory registry is authoritative for this session.
func (s *Server) persistOfferings(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := s.tracker.SaveOfferings(r.Context()); err != nil {
		s.logger.Error("failed to persist offerings", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist offerings")
		return
	}
	s.respondJSON(w, status, data)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"template": s.tracker.Template()})
}

func (s *Server) handlePutTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template string `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.tracker.SetTemplate(r.Context(), req.Template); err != nil {
		s.logger.Error("failed to persist template", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist template")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"template": req.Template})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"displayName": s.tracker.DisplayName()})
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.tracker.SetDisplayName(r.Context(), req.DisplayName); err != nil {
		s.logger.Error("failed to persist profile", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist profile")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"displayName": req.DisplayName})
}
