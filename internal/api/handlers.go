package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"merchfinder/internal/search"
)

const maxResultsCeiling = 50

// envelope is the stable response shape every consumer sees.
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *apiError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondWithError(w, http.StatusBadRequest, "missing_query", "Query parameter 'q' is required")
		return
	}

	maxResults := 0
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxResultsCeiling {
			s.respondWithError(w, http.StatusBadRequest, "invalid_max_results",
				"max_results must be an integer between 1 and 50")
			return
		}
		maxResults = n
	}

	result, err := s.searcher.Search(r.Context(), query, maxResults)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			s.respondWithError(w, http.StatusBadRequest, "missing_query", "Query must not be empty")
			return
		}
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "internal_error", "Search could not be completed")
		return
	}

	s.respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	type targetInfo struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Enabled  bool   `json:"enabled"`
		Priority int    `json:"priority"`
		Rendered bool   `json:"rendered"`
	}

	all := s.registry.All()
	infos := make([]targetInfo, 0, len(all))
	for _, t := range all {
		infos = append(infos, targetInfo{
			ID: t.ID, Name: t.Name, Enabled: t.Enabled,
			Priority: t.Priority, Rendered: t.Render,
		})
	}
	s.respondWithJSON(w, http.StatusOK, infos)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"service": "healthy"}

	if s.config.AIAPIKey != "" {
		healthStatus["collaborator"] = "configured"
	} else {
		healthStatus["collaborator"] = "disabled"
	}

	if s.cachePing != nil {
		if err := s.cachePing.Ping(ctx); err != nil {
			healthStatus["cache"] = "unhealthy"
			s.logger.Error("health check failed for cache", zap.Error(err))
		} else {
			healthStatus["cache"] = "healthy"
		}
	}

	// A degraded cache does not take the service down: searches still
	// work, just uncached.
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, errCode, message string) {
	response, _ := json.Marshal(envelope{
		Success:   false,
		Error:     &apiError{Code: errCode, Message: message},
		Timestamp: time.Now().UTC(),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(envelope{
		Success:   true,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
