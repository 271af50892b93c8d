package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	provider := s.orchestrator.Provider()
	vec := s.orchestrator.VectorStore()
	if provider == nil || vec == nil {
		jsonError(w, "search unavailable: embeddings are disabled", http.StatusServiceUnavailable)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	vector, err := provider.Embed(r.Context(), req.Query)
	s.orchestrator.EmbedStats().Record(time.Since(start).Milliseconds())
	if err != nil {
		s.log.Error("query embedding failed", "error", err)
		jsonError(w, "failed to embed query", http.StatusBadGateway)
		return
	}

	matches, err := vec.Search(r.Context(), vector, req.Limit)
	if err != nil {
		s.log.Error("vector search failed", "error", err)
		jsonError(w, "search failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":   req.Query,
		"count":   len(matches),
		"matches": matches,
	})
}

func (s *Server) handleEmbedStats(w http.ResponseWriter, r *http.Request) {
	provider := s.orchestrator.Provider()
	if provider == nil {
		jsonError(w, "embedding stats unavailable: embeddings are disabled", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"provider":    provider.Name(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.orchestrator.EmbedStats().Snapshot(),
	})
}
