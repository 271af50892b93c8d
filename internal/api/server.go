package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Theubaa/Pdf-Vectorizer/internal/config"
	"github.com/Theubaa/Pdf-Vectorizer/internal/pipeline"
	"github.com/Theubaa/Pdf-Vectorizer/internal/storage"
)

// Server is the HTTP API for the vectorizer: upload, job polling,
// artifact downloads, and similarity search.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *storage.Store
	log          *slog.Logger
	cfg          config.Config
}

// NewServer wires the handlers onto a chi router. Everything except
// /health sits behind the bearer-token group.
func NewServer(orch *pipeline.Orchestrator, store *storage.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        store,
		log:          log,
		cfg:          cfg,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer, middleware.RequestID, RequestLogger(log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.APIKey, log))

		r.Post("/api/upload", s.handleUpload)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Route("/api/files/{fileID}", func(r chi.Router) {
			r.Get("/raw", s.handleDownloadRaw)
			r.Get("/sections", s.handleDownloadSections)
			r.Get("/chunks", s.handleDownloadChunks)
			r.Get("/chunks/preview", s.handlePreviewChunks)
			r.Get("/blocks", s.handleDownloadBlocks)
		})

		r.Post("/api/search", s.handleSearch)
		r.Get("/api/stats/embeddings", s.handleEmbedStats)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
