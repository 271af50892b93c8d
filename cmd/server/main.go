package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Theubaa/Pdf-Vectorizer/internal/api"
	"github.com/Theubaa/Pdf-Vectorizer/internal/config"
	"github.com/Theubaa/Pdf-Vectorizer/internal/embed"
	"github.com/Theubaa/Pdf-Vectorizer/internal/pipeline"
	"github.com/Theubaa/Pdf-Vectorizer/internal/storage"
	"github.com/Theubaa/Pdf-Vectorizer/internal/vecstore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.DataDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Embedding provider and vector store are optional: without them the
	// service still extracts, reconstructs, and chunks.
	provider, err := embed.NewProvider(embed.Settings{
		Provider:       cfg.EmbeddingProvider,
		OpenAIKey:      cfg.OpenAIAPIKey,
		OpenAIModel:    cfg.OpenAIModel,
		GoogleKey:      cfg.GoogleAPIKey,
		GeminiModel:    cfg.GeminiModel,
		AnthropicKey:   cfg.AnthropicAPIKey,
		AnthropicModel: cfg.AnthropicModel,
	})
	if err != nil {
		log.Error("invalid embedding configuration", "error", err)
		os.Exit(1)
	}

	var vec *vecstore.Client
	if provider != nil {
		vec, err = vecstore.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			log.Error("invalid supabase configuration", "error", err)
			os.Exit(1)
		}
		log.Info("embeddings enabled", "provider", provider.Name())
	} else {
		log.Info("embeddings disabled")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, store, provider, vec, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if provider != nil {
			provider.Close()
		}
		if vec != nil {
			vec.Close()
		}
	}()

	log.Info("starting vectorizer", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
