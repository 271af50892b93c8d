package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Theubaa/Pdf-Vectorizer/internal/chunker"
	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
	"github.com/Theubaa/Pdf-Vectorizer/internal/embed"
	"github.com/Theubaa/Pdf-Vectorizer/internal/extractor"
	"github.com/Theubaa/Pdf-Vectorizer/internal/reconstruct"
	"github.com/Theubaa/Pdf-Vectorizer/internal/storage"
	"github.com/Theubaa/Pdf-Vectorizer/internal/vecstore"
)

// Worker processes a single document job.
type Worker struct {
	store    *storage.Store
	provider embed.Provider
	vec      *vecstore.Client
	stats    *embed.Stats
	log      *slog.Logger

	maxConcurrentEmbed int
}

func NewWorker(store *storage.Store, provider embed.Provider, vec *vecstore.Client, stats *embed.Stats, log *slog.Logger, maxEmbed int) *Worker {
	return &Worker{
		store:              store,
		provider:           provider,
		vec:                vec,
		stats:              stats,
		log:                log,
		maxConcurrentEmbed: maxEmbed,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file_id", job.FileID, "source_type", job.SourceType)

	family, err := extractor.FamilyFor(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	f, err := os.Open(job.uploadPath)
	if err != nil {
		log.Error("open upload failed", "error", err)
		job.AddError(fmt.Sprintf("open upload: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	defer f.Close()

	// Tabular formats are normalized into flat blocks and persisted as
	// JSONL; they never go through reconstruction or chunking.
	if family == extractor.FamilyTabular {
		w.processTabular(ctx, job, f, log)
		return
	}

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	var sections []document.Section

	switch family {
	case extractor.FamilyText:
		text, err := extractor.Text(f, job.Filename)
		if err != nil {
			log.Error("extract failed", "error", err)
			job.AddError(fmt.Sprintf("extract: %s", err))
			job.SetStatus(StatusFailed, "extracting")
			return
		}
		if err := w.store.SaveRawText(job.FileID, text); err != nil {
			log.Error("save raw text failed", "error", err)
			job.AddError(err.Error())
			job.SetStatus(StatusFailed, "extracting")
			return
		}
		job.SetContentHash(ContentHashHex([]byte(text)))

		// Phase 2: Reconstruct
		job.SetStatus(StatusReconstructing, "reconstructing")
		sections = reconstruct.Sections(text)

	case extractor.FamilyBlocks:
		blocks, err := extractor.Blocks(f, job.Filename)
		if err != nil {
			log.Error("extract failed", "error", err)
			job.AddError(fmt.Sprintf("extract: %s", err))
			job.SetStatus(StatusFailed, "extracting")
			return
		}
		text := extractor.FlattenBlocks(blocks)
		if err := w.store.SaveRawText(job.FileID, text); err != nil {
			log.Error("save raw text failed", "error", err)
			job.AddError(err.Error())
			job.SetStatus(StatusFailed, "extracting")
			return
		}
		job.SetContentHash(ContentHashHex([]byte(text)))
		job.SetBlocks(len(blocks))

		// Markup already classified the blocks, so reconstruction is
		// just section grouping.
		job.SetStatus(StatusReconstructing, "reconstructing")
		sections = reconstruct.Group(blocks)
	}

	if err := w.store.SaveSections(job.FileID, sections); err != nil {
		log.Error("save sections failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "reconstructing")
		return
	}
	job.SetSections(len(sections))
	log.Info("reconstructed document", "sections", len(sections))

	// Phase 3: Chunk
	job.SetStatus(StatusChunking, "chunking")
	c, err := chunker.New(job.targetTokens, job.overlapRatio)
	if err != nil {
		// Parameters are validated at submit time; reaching this is a bug.
		log.Error("invalid chunker parameters", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	chunks := c.Chunk(sections)
	if err := w.store.SaveChunks(job.FileID, chunks); err != nil {
		log.Error("save chunks failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	job.SetChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		log.Warn("no chunks produced")
		job.SetStatus(StatusNoContent, "chunking")
		return
	}

	// Phase 4: Embed, if a provider is configured.
	if w.provider == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}
	job.SetStatus(StatusEmbedding, "embedding")

	type embedResult struct {
		record vecstore.Record
		err    error
		idx    int
	}
	results := make(chan embedResult, len(chunks))
	sem := make(chan struct{}, w.maxConcurrentEmbed)

	for i, chunk := range chunks {
		sem <- struct{}{}
		go func(i int, chunk document.Chunk) {
			defer func() { <-sem }()
			text := embed.PrefixChunk(chunk.Section, job.Filename, chunk.Text)

			var vector []float32
			var lastErr error
			for attempt := range MaxRetries {
				start := time.Now()
				vector, lastErr = w.provider.Embed(ctx, text)
				w.stats.Record(time.Since(start).Milliseconds())
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable embedding error", "chunk", chunk.ChunkID, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- embedResult{err: ctx.Err(), idx: i}
					return
				}
			}
			if lastErr != nil {
				results <- embedResult{err: lastErr, idx: i}
				return
			}
			results <- embedResult{
				record: vecstore.Record{
					FileID:    job.FileID,
					ChunkID:   chunk.ChunkID,
					Section:   chunk.Section,
					Content:   chunk.Text,
					Embedding: vector,
				},
				idx: i,
			}
		}(i, chunk)
	}

	var records []vecstore.Record
	hadErrors := false
	for range chunks {
		r := <-results
		if r.err != nil {
			log.Error("embedding failed", "chunk", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("embed chunk %d: %s", r.idx, r.err))
			hadErrors = true
			continue
		}
		job.IncrChunksEmbedded()
		records = append(records, r.record)
	}
	log.Info("embedding complete", "embedded", len(records), "errors", hadErrors)

	// Chunk artifacts are already on disk past this point: embedding and
	// ingestion failures degrade the job to partial, never failed.
	if len(records) == 0 {
		job.SetStatus(StatusPartial, "embedding")
		return
	}

	// Phase 5: Store vectors.
	job.SetStatus(StatusStoring, "storing")
	if w.vec != nil {
		if err := w.vec.UpsertEmbeddings(ctx, records); err != nil {
			log.Error("vector upsert failed", "error", err)
			job.AddError(fmt.Sprintf("upsert: %s", err))
			job.SetStatus(StatusPartial, "storing")
			return
		}
		job.AddVectorsStored(len(records))
		log.Info("vectors stored", "count", len(records))
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// processTabular handles the JSON/CSV/Excel path: extract flat blocks,
// persist them, done.
func (w *Worker) processTabular(ctx context.Context, job *Job, f *os.File, log *slog.Logger) {
	job.SetStatus(StatusExtracting, "extracting")

	blocks, err := extractor.Records(f, job.Filename)
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetBlocks(len(blocks))

	if len(blocks) == 0 {
		log.Warn("no blocks produced")
		job.SetStatus(StatusNoContent, "extracting")
		return
	}

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusStoring, "storing")
	if err := w.store.SaveSourceBlocks(job.FileID, blocks); err != nil {
		log.Error("save blocks failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "storing")
		return
	}
	log.Info("normalized blocks stored", "blocks", len(blocks))
	job.SetStatus(StatusCompleted, "done")
}
