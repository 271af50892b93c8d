package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPreviewLimit = 5
	maxPreviewLimit     = 100
)

// serveArtifact sends an artifact file, or a JSON 404 if the pipeline
// never produced it for this file ID.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, path, contentType string) {
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "artifact not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func (s *Server) handleDownloadRaw(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	s.serveArtifact(w, r, s.store.RawTextPath(fileID), "text/plain; charset=utf-8")
}

func (s *Server) handleDownloadSections(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	s.serveArtifact(w, r, s.store.SectionsPath(fileID), "application/json")
}

func (s *Server) handleDownloadChunks(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	if r.URL.Query().Get("format") == "jsonl" {
		s.serveArtifact(w, r, s.store.ChunksJSONLPath(fileID), "application/x-ndjson")
		return
	}
	s.serveArtifact(w, r, s.store.ChunksPath(fileID), "application/json")
}

func (s *Server) handleDownloadBlocks(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	s.serveArtifact(w, r, s.store.SourceBlocksPath(fileID), "application/x-ndjson")
}

func (s *Server) handlePreviewChunks(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	limit := defaultPreviewLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxPreviewLimit)
	}

	chunks, err := s.store.PreviewChunks(fileID, limit)
	if err != nil {
		if os.IsNotExist(err) {
			jsonError(w, "chunks not found", http.StatusNotFound)
			return
		}
		s.log.Error("chunk preview failed", "file_id", fileID, "error", err)
		jsonError(w, "failed to read chunks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"file_id": fileID,
		"count":   len(chunks),
		"chunks":  chunks,
	})
}
