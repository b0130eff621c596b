package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/tracker"
)

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode error response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.tracker.Status())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// The fetch runs in the background; stale results are dropped by the
	// tracker, so overlapping triggers are harmless.
	go s.tracker.Refresh(context.WithoutCancel(r.Context()))

	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.tracker.Views())
}

func (s *Server) handleSkillsGap(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.tracker.Views().SkillsGap)
}

type projectItem struct {
	Project any    `json:"project"`
	Saved   bool   `json:"saved"`
	Applied bool   `json:"applied"`
	Notes   string `json:"notes,omitempty"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := tracker.Filter{
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		Sort:      q.Get("sort"),
		SavedOnly: q.Get("saved") == "true",
	}

	projects := s.tracker.Projects(filter)
	items := make([]projectItem, 0, len(projects))
	for _, p := range projects {
		items = append(items, projectItem{
			Project: p,
			Saved:   s.tracker.IsSaved(p.ID),
			Applied: s.tracker.IsApplied(p.ID),
			Notes:   s.tracker.Note(p.ID),
		})
	}

	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, assessment, ok := s.tracker.Project(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "project_not_found", "project not found")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"project":    p,
		"assessment": assessment,
		"saved":      s.tracker.IsSaved(id),
		"applied":    s.tracker.IsApplied(id),
		"notes":      s.tracker.Note(id),
	})
}

func (s *Server) handleToggleSaved(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.tracker.ToggleSaved(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to persist saved markers", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist saved markers")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"saved": state})
}

func (s *Server) handleToggleApplied(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.tracker.ToggleApplied(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to persist applied markers", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist applied markers")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"applied": state})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respondJSON(w, http.StatusOK, map[string]string{"notes": s.tracker.Note(id)})
}

func (s *Server) handlePutNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.tracker.SetNote(r.Context(), id, req.Notes); err != nil {
		s.logger.Error("failed to persist note", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist note")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"notes": req.Notes})
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := s.tracker.Proposal(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "proposal_not_found", "no proposal generated yet")
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleGenerateProposal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Rate float64 `json:"rate"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	generated, err := s.tracker.GenerateProposal(r.Context(), id, req.Rate)
	switch {
	case errors.Is(err, tracker.ErrGenerationInFlight):
		s.respondError(w, http.StatusConflict, "generation_in_flight", "a proposal for this project is already being generated")
		return
	case errors.Is(err, tracker.ErrInstructionProject):
		s.respondError(w, http.StatusBadRequest, "not_a_project", "proposals are only available for real postings")
		return
	case errors.Is(err, tracker.ErrGeneratorUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, "generator_unavailable", "proposal generation is not configured")
		return
	case err != nil:
		s.respondError(w, http.StatusNotFound, "project_not_found", "project not found")
		return
	}

	s.respondJSON(w, http.StatusOK, generated)
}
