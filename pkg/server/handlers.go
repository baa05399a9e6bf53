package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"anchorite-hq/anchorite/pkg/decision/features"
	"anchorite-hq/anchorite/pkg/session"
	"anchorite-hq/anchorite/pkg/store"
)

type decideRequest struct {
	URL string `json:"url"`
}

type feedbackRequest struct {
	URL     string `json:"url"`
	Correct bool   `json:"correct"`
}

type sessionStartRequest struct {
	DurationMinutes int    `json:"duration_minutes"`
	Task            string `json:"task"`
}

type sessionStartResponse struct {
	Secret    string    `json:"secret"`
	Fragments []string  `json:"fragments"`
	Task      string    `json:"task"`
	EndsAt    time.Time `json:"ends_at"`
}

type sessionEndRequest struct {
	Secret string `json:"secret"`
}

type sessionEndResponse struct {
	Unlocked bool `json:"unlocked"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Decide(req.URL))
}

func (s *Server) handleDecideWithMetadata(w http.ResponseWriter, r *http.Request) {
	var meta features.Metadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil || meta.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	// URL-only requests go through the fetching slow path so the
	// classifier still sees page content when it is reachable.
	if meta.Title == "" && meta.Description == "" && meta.ExtractedText == "" {
		writeJSON(w, http.StatusOK, s.engine.DecideURL(r.Context(), meta.URL))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.DecideWithMetadata(r.Context(), &meta))
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	err := s.engine.SubmitFeedback(r.Context(), req.URL, req.Correct)
	switch {
	case errors.Is(err, store.ErrNoFeedbackTarget):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req sessionStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be positive")
		return
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	secret, fragments, err := s.supervisor.StartSession(r.Context(), duration, req.Task)
	switch {
	case errors.Is(err, session.ErrSessionActive):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sessionStartResponse{
		Secret:    secret,
		Fragments: fragments[:],
		Task:      req.Task,
		EndsAt:    s.supervisor.Status().EndsAt,
	})
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	var req sessionEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Secret == "" {
		writeError(w, http.StatusBadRequest, "secret is required")
		return
	}

	unlocked, err := s.supervisor.EndSession(r.Context(), req.Secret)
	switch {
	case errors.Is(err, session.ErrNoSession):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, session.ErrSecretMismatch):
		writeJSON(w, http.StatusForbidden, sessionEndResponse{Unlocked: false})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionEndResponse{Unlocked: unlocked})
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.supervisor.Status())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Statistics())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"classifier_degraded": s.engine.Degraded(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
